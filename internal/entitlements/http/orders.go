package http

import (
	"net/http"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/service"
	"github.com/assetdeck/entitlements/pkg/entsdk"
	"github.com/assetdeck/entitlements/pkg/httpx"
	"github.com/assetdeck/entitlements/pkg/slogx"
)

type OrdersHandler struct {
	LicenseService *service.LicenseService
}

// ServeHTTP handles order completion
//
//	@Summary		Issue entitlements for a completed order
//	@Description	Creates one license per purchased item unit and an access pass for subscription items. Requires licenses:write scope.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		entsdk.CompleteOrderRequest		true	"Completed order"
//	@Success		201		{object}	entsdk.CompleteOrderResponse	"Issued licenses"
//	@Failure		400		{object}	entsdk.ErrorResponse			"Invalid request"
//	@Failure		401		{object}	entsdk.ErrorResponse			"Unauthorized"
//	@Failure		409		{object}	entsdk.ErrorResponse			"User already has an active access pass"
//	@Failure		500		{object}	entsdk.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/orders/complete [post].
func (h *OrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req entsdk.CompleteOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.OrderID == "" {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "user_id and order_id are required").WriteError(w)
		return
	}

	params := service.GenerateOrderLicensesParams{
		UserID:     req.UserID,
		OrderID:    req.OrderID,
		PaymentRef: req.PaymentRef,
		Items:      make([]service.OrderItem, len(req.Items)),
	}
	for i, item := range req.Items {
		params.Items[i] = service.OrderItem{
			ProductID:   item.ProductID,
			LicenseType: domain.LicenseType(item.LicenseType),
			Quantity:    item.Quantity,
			PassType:    domain.PassType(item.PassType),
			PriceCents:  item.PriceCents,
			Currency:    item.Currency,
		}
	}

	issued, err := h.LicenseService.GenerateOrderLicenses(ctx, params)
	if err != nil {
		log.Error("order completion failed", "order_id", req.OrderID, "error", err)
		writeServiceError(w, err)
		return
	}

	resp := entsdk.CompleteOrderResponse{
		Licenses: make([]entsdk.LicenseInfo, len(issued)),
	}
	for i, lic := range issued {
		resp.Licenses[i] = toLicenseInfo(lic)
	}

	httpx.WriteJSON(w, http.StatusCreated, resp)
}
