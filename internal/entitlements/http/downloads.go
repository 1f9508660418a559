package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/service"
	"github.com/assetdeck/entitlements/pkg/entsdk"
	"github.com/assetdeck/entitlements/pkg/httpx"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

type DownloadsHandler struct {
	AccessService *service.AccessService
}

// HandleValidate resolves download entitlement
//
//	@Summary		Validate download access
//	@Description	Decides whether the user may download the product, and by which mechanism: a specific license (when license_id is given), an active access pass, or their active license for the product. Denials carry a reason. Requires downloads:validate scope.
//	@Tags			Downloads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		entsdk.ValidateAccessRequest	true	"Access query"
//	@Success		200		{object}	entsdk.AccessDecisionResponse	"Decision"
//	@Failure		400		{object}	entsdk.ErrorResponse			"Invalid request"
//	@Failure		401		{object}	entsdk.ErrorResponse			"Unauthorized"
//	@Security		BearerAuth
//	@Router			/v1/downloads/validate [post].
func (h *DownloadsHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req entsdk.ValidateAccessRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id is required").WriteError(w)
		return
	}

	decision, err := h.AccessService.ValidateDownloadAccess(ctx, req.UserID, req.ProductID, req.LicenseID)
	if err != nil {
		log.Error("access validation failed", "error", err)
		writeServiceError(w, err)
		return
	}

	resp := entsdk.AccessDecisionResponse{
		CanDownload: decision.CanDownload,
		Method:      string(decision.Method),
		Reason:      decision.Reason,
	}
	if decision.License != nil {
		lic := toLicenseInfo(*decision.License)
		resp.License = &lic
	}
	if decision.AccessPass != nil {
		pass := toPassInfo(*decision.AccessPass)
		resp.AccessPass = &pass
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRecord records a completed download
//
//	@Summary		Record a download
//	@Description	Appends a history entry and bumps the consumption counter on the authorizing license or pass, atomically. The license counter is a conditional increment, so recording at the quota boundary fails with limit_exceeded rather than overshooting. Requires downloads:record scope.
//	@Tags			Downloads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		entsdk.RecordDownloadRequest	true	"Download details"
//	@Success		201		{object}	entsdk.DownloadRecordInfo		"Recorded entry"
//	@Failure		400		{object}	entsdk.ErrorResponse			"Invalid request"
//	@Failure		404		{object}	entsdk.ErrorResponse			"License or active pass not found"
//	@Failure		409		{object}	entsdk.ErrorResponse			"Download limit exceeded"
//	@Security		BearerAuth
//	@Router			/v1/downloads/record [post].
func (h *DownloadsHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req entsdk.RecordDownloadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id and product_id are required").WriteError(w)
		return
	}

	// Fall back to what this request shows when the storefront did not
	// forward the end user's originals.
	if req.IPAddress == "" {
		req.IPAddress = clientIP(r)
	}
	if req.UserAgent == "" {
		req.UserAgent = r.UserAgent()
	}

	rec, err := h.AccessService.RecordDownload(ctx, service.RecordDownloadParams{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Method:    domain.AccessMethod(req.Method),
		LicenseID: req.LicenseID,
		FileSize:  req.FileSize,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	})
	if err != nil {
		log.Warn("download recording failed", "error", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRecordInfo(*rec))
}

// HandleCheck is the quick entitlement check
//
//	@Summary		Quick access check
//	@Description	Reduced entitlement check for UI gating: has-access plus method, no record payload. Requires downloads:validate scope.
//	@Tags			Downloads
//	@Produce		json
//	@Param			user_id		query		string						true	"User ID"
//	@Param			product_id	query		string						false	"Product ID"
//	@Success		200			{object}	entsdk.AccessCheckResponse	"Check result"
//	@Failure		400			{object}	entsdk.ErrorResponse		"Invalid request"
//	@Security		BearerAuth
//	@Router			/v1/access [get].
func (h *DownloadsHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id is required").WriteError(w)
		return
	}

	check, err := h.AccessService.CheckAccess(ctx, userID, r.URL.Query().Get("product_id"))
	if err != nil {
		log.Error("access check failed", "error", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, entsdk.AccessCheckResponse{
		HasAccess: check.HasAccess,
		Method:    string(check.Method),
	})
}

// HandleHistory returns a user's download history
//
//	@Summary		Download history
//	@Description	Returns the user's most recent downloads across licenses and passes, newest first. Requires licenses:read scope.
//	@Tags			Downloads
//	@Produce		json
//	@Param			id		path		string							true	"User ID"
//	@Param			limit	query		int								false	"Maximum entries (default 50)"
//	@Success		200		{object}	entsdk.DownloadHistoryResponse	"History"
//	@Failure		401		{object}	entsdk.ErrorResponse			"Unauthorized"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/downloads [get].
func (h *DownloadsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := r.PathValue("id")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := h.AccessService.GetDownloadHistory(ctx, userID, limit)
	if err != nil {
		log.Error("failed to load download history", "error", err)
		writeServiceError(w, err)
		return
	}

	resp := entsdk.DownloadHistoryResponse{
		Downloads: make([]entsdk.DownloadRecordInfo, len(history)),
	}
	for i, rec := range history {
		resp.Downloads[i] = toRecordInfo(rec)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// clientIP extracts the originating address, trusting X-Forwarded-For when
// present (the service sits behind the storefront's proxy).
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
