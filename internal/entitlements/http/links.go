package http

import (
	"net/http"
	"time"

	"github.com/assetdeck/entitlements/internal/entitlements/linktoken"
	"github.com/assetdeck/entitlements/pkg/entsdk"
	"github.com/assetdeck/entitlements/pkg/httpx"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

// LinksHandler serves the signed download-link path. A link token is a
// capability proving authorization as of issuance; redemption does not
// re-check live license state, which is why the token lives only 24 hours.
type LinksHandler struct {
	Signer *linktoken.Signer
}

// HandleGenerate mints a download token
//
//	@Summary		Generate a download link token
//	@Description	Mints a signed, 24-hour download token bound to the user/product/license triple. The caller is expected to have validated access first; verification does not re-check license state. Requires downloads:validate scope.
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Param			request	body		entsdk.GenerateLinkRequest	true	"Token subject"
//	@Success		201		{object}	entsdk.LinkResponse			"Signed token"
//	@Failure		400		{object}	entsdk.ErrorResponse		"Invalid request"
//	@Failure		401		{object}	entsdk.ErrorResponse		"Unauthorized"
//	@Security		BearerAuth
//	@Router			/v1/links [post].
func (h *LinksHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req entsdk.GenerateLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id and product_id are required").WriteError(w)
		return
	}

	now := time.Now()
	token := h.Signer.GenerateAt(req.UserID, req.ProductID, req.LicenseID, now)

	log.Info("download link issued",
		"user_id", req.UserID,
		"product_id", req.ProductID,
	)

	httpx.WriteJSON(w, http.StatusCreated, entsdk.LinkResponse{
		Token:     token,
		ExpiresAt: now.Add(linktoken.TTL),
	})
}

// HandleVerify checks a download token
//
//	@Summary		Verify a download link token
//	@Description	Recomputes the token's HMAC and checks its age. An expired token is reported distinctly from a tampered or malformed one; identity fields are only returned when the signature verified.
//	@Tags			Links
//	@Produce		json
//	@Param			token	query		string						true	"Token to verify"
//	@Success		200		{object}	entsdk.VerifyLinkResponse	"Verification result"
//	@Failure		400		{object}	entsdk.ErrorResponse		"Missing token"
//	@Router			/v1/links/verify [get].
func (h *LinksHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "token is required").WriteError(w)
		return
	}

	result := h.Signer.Verify(token)

	resp := entsdk.VerifyLinkResponse{
		Valid:   result.Valid,
		Expired: result.Expired,
	}
	if result.Valid || result.Expired {
		resp.UserID = result.UserID
		resp.ProductID = result.ProductID
		resp.LicenseID = result.LicenseID
		if !result.IssuedAt.IsZero() {
			issued := result.IssuedAt
			resp.IssuedAt = &issued
		}
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
