package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/service"
	"github.com/assetdeck/entitlements/pkg/entsdk"
	"github.com/assetdeck/entitlements/pkg/httpx"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

type LicensesHandler struct {
	LicenseService *service.LicenseService
}

// HandleGenerate issues a single license
//
//	@Summary		Issue a license
//	@Description	Creates one license for a user/product pair, applying the tier policy (basic: 10 downloads, 1 year; extended: unlimited, perpetual). Requires licenses:write scope.
//	@Tags			Licenses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		entsdk.GenerateLicenseRequest	true	"License parameters"
//	@Success		201		{object}	entsdk.LicenseInfo				"Issued license"
//	@Failure		400		{object}	entsdk.ErrorResponse			"Invalid request"
//	@Failure		401		{object}	entsdk.ErrorResponse			"Unauthorized"
//	@Failure		403		{object}	entsdk.ErrorResponse			"Missing required scope"
//	@Failure		500		{object}	entsdk.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/licenses [post].
func (h *LicensesHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req entsdk.GenerateLicenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id and product_id are required").WriteError(w)
		return
	}

	lic, err := h.LicenseService.GenerateLicense(ctx, service.GenerateLicenseParams{
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		OrderID:     req.OrderID,
		LicenseType: domain.LicenseType(req.LicenseType),
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		PaymentRef:  req.PaymentRef,
	})
	if err != nil {
		log.Error("license issuance failed", "error", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toLicenseInfo(*lic))
}

// HandleList returns a user's licenses
//
//	@Summary		List a user's licenses
//	@Description	Returns all licenses held by the user, newest first. Requires licenses:read scope.
//	@Tags			Licenses
//	@Produce		json
//	@Param			id	path		string						true	"User ID"
//	@Success		200	{object}	entsdk.ListLicensesResponse	"Licenses"
//	@Failure		401	{object}	entsdk.ErrorResponse		"Unauthorized"
//	@Failure		403	{object}	entsdk.ErrorResponse		"Missing required scope"
//	@Failure		500	{object}	entsdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/licenses [get].
func (h *LicensesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := r.PathValue("id")

	licenses, err := h.LicenseService.GetUserLicenses(ctx, userID)
	if err != nil {
		log.Error("failed to list licenses", "error", err)
		writeServiceError(w, err)
		return
	}

	resp := entsdk.ListLicensesResponse{
		Licenses: make([]entsdk.LicenseInfo, len(licenses)),
	}
	for i, lic := range licenses {
		resp.Licenses[i] = toLicenseInfo(lic)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetByKey looks up a license by its key
//
//	@Summary		Look up a license by key
//	@Description	Resolves a license from a customer-supplied key. Input is normalized (whitespace and dashes ignored, case-insensitive) before lookup. Requires licenses:read scope.
//	@Tags			Licenses
//	@Produce		json
//	@Param			key	query		string					true	"License key"
//	@Success		200	{object}	entsdk.LicenseInfo		"License"
//	@Failure		400	{object}	entsdk.ErrorResponse	"Missing key"
//	@Failure		404	{object}	entsdk.ErrorResponse	"No license with this key"
//	@Failure		500	{object}	entsdk.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/licenses/lookup [get].
func (h *LicensesHandler) HandleGetByKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	key := r.URL.Query().Get("key")
	if key == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "key is required").WriteError(w)
		return
	}

	lic, err := h.LicenseService.GetLicenseByKey(ctx, key)
	if err != nil {
		log.Warn("license key lookup failed", "error", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toLicenseInfo(*lic))
}

// HandleTransition applies an administrative status change
//
//	@Summary		Revoke, suspend, or reinstate a license
//	@Description	Applies the status transition named by the final path segment. Revocation is terminal; reinstatement only applies to suspended licenses. Requires licenses:write scope.
//	@Tags			Licenses
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"License ID"
//	@Param			request	body	object{user_id=string}	true	"Owning user"
//	@Success		204		"Transition applied"
//	@Failure		400		{object}	entsdk.ErrorResponse	"Invalid request"
//	@Failure		404		{object}	entsdk.ErrorResponse	"License not found for this user"
//	@Failure		409		{object}	entsdk.ErrorResponse	"Transition not allowed from the current status"
//	@Security		BearerAuth
//	@Router			/v1/licenses/{id}/{action} [post].
func (h *LicensesHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	licenseID := r.PathValue("id")
	action := path.Base(strings.TrimSuffix(r.URL.Path, "/"))

	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id is required").WriteError(w)
		return
	}

	var err error
	switch action {
	case "revoke":
		err = h.LicenseService.RevokeLicense(ctx, licenseID, req.UserID)
	case "suspend":
		err = h.LicenseService.SuspendLicense(ctx, licenseID, req.UserID)
	case "reinstate":
		err = h.LicenseService.ReinstateLicense(ctx, licenseID, req.UserID)
	default:
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "Unknown action").WriteError(w)
		return
	}
	if err != nil {
		log.Warn("license transition failed", "action", action, "license_id", licenseID, "error", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
