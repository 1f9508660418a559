package http

import (
	"net/http"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/service"
	"github.com/assetdeck/entitlements/pkg/entsdk"
	"github.com/assetdeck/entitlements/pkg/httpx"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

type PassesHandler struct {
	AccessPassService *service.AccessPassService
}

// HandleCreate starts a subscription pass
//
//	@Summary		Create an access pass
//	@Description	Starts a subscription pass granting unlimited downloads for the billing period (or permanently, for lifetime passes). A user can hold at most one active pass. Requires passes:write scope.
//	@Tags			Passes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		entsdk.CreatePassRequest	true	"Pass parameters"
//	@Success		201		{object}	entsdk.AccessPassInfo		"Created pass"
//	@Failure		400		{object}	entsdk.ErrorResponse		"Invalid request"
//	@Failure		409		{object}	entsdk.ErrorResponse		"User already has an active pass"
//	@Security		BearerAuth
//	@Router			/v1/passes [post].
func (h *PassesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req entsdk.CreatePassRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id is required").WriteError(w)
		return
	}

	pass, err := h.AccessPassService.Create(ctx, service.CreatePassParams{
		UserID:      req.UserID,
		PassType:    domain.PassType(req.PassType),
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		PaymentRef:  req.PaymentRef,
	})
	if err != nil {
		log.Warn("pass creation failed", "user_id", req.UserID, "error", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPassInfo(*pass))
}

// HandleCancel ends a pass
//
//	@Summary		Cancel an access pass
//	@Description	Flags the pass to lapse at the period boundary, or ends it immediately when immediate is true. Requires passes:write scope.
//	@Tags			Passes
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string											true	"Pass ID"
//	@Param			request	body	object{user_id=string,immediate=bool}	true	"Cancellation options"
//	@Success		204		"Cancelled"
//	@Failure		404		{object}	entsdk.ErrorResponse	"Pass not found for this user"
//	@Failure		409		{object}	entsdk.ErrorResponse	"Pass is not active"
//	@Security		BearerAuth
//	@Router			/v1/passes/{id}/cancel [post].
func (h *PassesHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	passID := r.PathValue("id")

	var req struct {
		UserID    string `json:"user_id"`
		Immediate bool   `json:"immediate"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id is required").WriteError(w)
		return
	}

	if err := h.AccessPassService.Cancel(ctx, passID, req.UserID, req.Immediate); err != nil {
		log.Warn("pass cancellation failed", "pass_id", passID, "error", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleReactivate undoes a cancellation
//
//	@Summary		Reactivate an access pass
//	@Description	Clears a pending period-end cancellation, or restores an already-cancelled pass while its paid period still covers now. Requires passes:write scope.
//	@Tags			Passes
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Pass ID"
//	@Param			request	body	object{user_id=string}	true	"Owning user"
//	@Success		204		"Reactivated"
//	@Failure		404		{object}	entsdk.ErrorResponse	"Pass not found for this user"
//	@Failure		409		{object}	entsdk.ErrorResponse	"Nothing to reactivate"
//	@Security		BearerAuth
//	@Router			/v1/passes/{id}/reactivate [post].
func (h *PassesHandler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	passID := r.PathValue("id")

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

	if err := h.AccessPassService.Reactivate(ctx, passID, req.UserID); err != nil {
		log.Warn("pass reactivation failed", "pass_id", passID, "error", err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetActive returns the user's active pass
//
//	@Summary		Get a user's active pass
//	@Description	Returns the user's currently-valid access pass, if any. Requires passes:read scope.
//	@Tags			Passes
//	@Produce		json
//	@Param			id	path		string					true	"User ID"
//	@Success		200	{object}	entsdk.AccessPassInfo	"Active pass"
//	@Failure		404	{object}	entsdk.ErrorResponse	"No active pass"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/pass [get].
func (h *PassesHandler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	pass, err := h.AccessPassService.GetActive(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPassInfo(*pass))
}
