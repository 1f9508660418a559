package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/linktoken"
	"github.com/assetdeck/entitlements/internal/entitlements/service"
	"github.com/assetdeck/entitlements/internal/entitlements/store"
	"github.com/assetdeck/entitlements/pkg/httpx"
	"github.com/assetdeck/entitlements/pkg/jwtx"
	"github.com/assetdeck/entitlements/pkg/slogx"

	_ "github.com/assetdeck/entitlements/api/entitlements" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	AccessService     *service.AccessService
	LicenseService    *service.LicenseService
	AccessPassService *service.AccessPassService
	LinkSigner        *linktoken.Signer
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLicenses()
	r.registerDownloads()
	r.registerPasses()
	r.registerLinks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AssetDeck Entitlements Service API
//	@version		0.1.0
//	@description	Licensing and download-entitlement service: issues per-product licenses
//	@description	and subscription access passes at order completion, authorizes downloads
//	@description	against them, and records consumption.
//
//	@contact.name				AssetDeck Team
//	@contact.url				https://github.com/assetdeck/entitlements
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT service token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLicenses() {
	h := &LicensesHandler{LicenseService: r.LicenseService}
	orders := &OrdersHandler{LicenseService: r.LicenseService}

	// POST /v1/licenses - single issuance (order processor) - moderate limit
	r.Mux.Handle("POST /v1/licenses",
		httpx.Chain(http.HandlerFunc(h.HandleGenerate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("licenses:write"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	// POST /v1/orders/complete - bulk issuance at checkout - moderate limit
	r.Mux.Handle("POST /v1/orders/complete",
		httpx.Chain(orders,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("licenses:write"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	// GET /v1/licenses/lookup - support tooling key lookup - moderate limit
	r.Mux.Handle("GET /v1/licenses/lookup",
		httpx.Chain(http.HandlerFunc(h.HandleGetByKey),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("licenses:read"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	// GET /v1/users/{id}/licenses - lenient limit (storefront account pages)
	r.Mux.Handle("GET /v1/users/{id}/licenses",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("licenses:read"),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)

	// Administrative transitions - strict limit
	for _, action := range []string{"revoke", "suspend", "reinstate"} {
		r.Mux.Handle("POST /v1/licenses/{id}/"+action,
			httpx.Chain(http.HandlerFunc(h.HandleTransition),
				httpx.AuthnMiddleware(r.verifier),
				httpx.RequireAnyScope("licenses:write"),
				httpx.RateLimitBySubject(httpx.StrictLimit),
			),
		)
	}
}

func (r *Router) registerDownloads() {
	h := &DownloadsHandler{AccessService: r.AccessService}

	// POST /v1/downloads/validate - hot path, lenient limit
	r.Mux.Handle("POST /v1/downloads/validate",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("downloads:validate"),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)

	// POST /v1/downloads/record - hot path, lenient limit
	r.Mux.Handle("POST /v1/downloads/record",
		httpx.Chain(http.HandlerFunc(h.HandleRecord),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("downloads:record"),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)

	// GET /v1/access - UI gating, lenient limit
	r.Mux.Handle("GET /v1/access",
		httpx.Chain(http.HandlerFunc(h.HandleCheck),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("downloads:validate"),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)

	// GET /v1/users/{id}/downloads - history, lenient limit
	r.Mux.Handle("GET /v1/users/{id}/downloads",
		httpx.Chain(http.HandlerFunc(h.HandleHistory),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("licenses:read"),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPasses() {
	h := &PassesHandler{AccessPassService: r.AccessPassService}

	r.Mux.Handle("POST /v1/passes",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("passes:write"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/passes/{id}/cancel",
		httpx.Chain(http.HandlerFunc(h.HandleCancel),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("passes:write"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/passes/{id}/reactivate",
		httpx.Chain(http.HandlerFunc(h.HandleReactivate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("passes:write"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/users/{id}/pass",
		httpx.Chain(http.HandlerFunc(h.HandleGetActive),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("passes:read"),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerLinks() {
	h := &LinksHandler{Signer: r.LinkSigner}

	r.Mux.Handle("POST /v1/links",
		httpx.Chain(http.HandlerFunc(h.HandleGenerate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("downloads:validate"),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	// Verification carries its own proof (the signature), so no authn.
	r.Mux.Handle("GET /v1/links/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
