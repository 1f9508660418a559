package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/assetdeck/entitlements/internal/entitlements/domain"
	"github.com/assetdeck/entitlements/internal/entitlements/service"
	"github.com/assetdeck/entitlements/pkg/entsdk"
)

// decodeJSON parses a request body into dst, rejecting unknown garbage
// with a consistent invalid_request error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, "Malformed JSON body").WriteError(w)
		return false
	}
	return true
}

// writeServiceError maps known service errors to API errors; anything
// unrecognized becomes a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLicenseNotFound),
		errors.Is(err, service.ErrPassNotFound):
		entsdk.NewAPIError(http.StatusNotFound, entsdk.ErrorCodeNotFound, "No such record for this user").WriteError(w)
	case errors.Is(err, service.ErrNoActivePass):
		entsdk.NewAPIError(http.StatusNotFound, entsdk.ErrorCodeNoActivePass, "User has no active access pass").WriteError(w)
	case errors.Is(err, service.ErrDownloadLimitExceeded):
		entsdk.NewAPIError(http.StatusConflict, entsdk.ErrorCodeLimitExceeded, "Download limit exceeded").WriteError(w)
	case errors.Is(err, service.ErrPassAlreadyActive):
		entsdk.NewAPIError(http.StatusConflict, entsdk.ErrorCodeConflict, "User already has an active access pass").WriteError(w)
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrPassNotActive),
		errors.Is(err, service.ErrPassNotCancelled):
		entsdk.NewAPIError(http.StatusConflict, entsdk.ErrorCodeConflict, "Record is not in a state that allows this action").WriteError(w)
	case errors.Is(err, service.ErrInvalidLicenseType),
		errors.Is(err, service.ErrNotALicense),
		errors.Is(err, service.ErrInvalidPassType),
		errors.Is(err, service.ErrInvalidMethod),
		errors.Is(err, service.ErrMissingLicenseID),
		errors.Is(err, service.ErrEmptyOrder):
		entsdk.NewAPIError(http.StatusBadRequest, entsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
	default:
		entsdk.NewAPIError(http.StatusInternalServerError, entsdk.ErrorCodeServerError, "Internal server error").WriteError(w)
	}
}

func toLicenseInfo(l domain.License) entsdk.LicenseInfo {
	return entsdk.LicenseInfo{
		ID:             l.ID,
		LicenseKey:     l.LicenseKey,
		UserID:         l.UserID,
		ProductID:      l.ProductID,
		OrderID:        l.OrderID,
		LicenseType:    string(l.LicenseType),
		Status:         string(l.Status),
		DownloadCount:  l.DownloadCount,
		DownloadLimit:  l.DownloadLimit,
		IssuedAt:       l.IssuedAt,
		ExpiresAt:      l.ExpiresAt,
		LastDownloadAt: l.LastDownloadAt,
		PriceCents:     l.PriceCents,
		Currency:       l.Currency,
		PaymentRef:     l.PaymentRef,
	}
}

func toPassInfo(p domain.AccessPass) entsdk.AccessPassInfo {
	return entsdk.AccessPassInfo{
		ID:                  p.ID,
		UserID:              p.UserID,
		PassType:            string(p.PassType),
		Status:              string(p.Status),
		CurrentPeriodStart:  p.CurrentPeriodStart,
		CurrentPeriodEnd:    p.CurrentPeriodEnd,
		CancelAtPeriodEnd:   p.CancelAtPeriodEnd,
		AmountCents:         p.AmountCents,
		Currency:            p.Currency,
		Interval:            p.Interval,
		TotalDownloads:      p.TotalDownloads,
		DownloadsThisPeriod: p.DownloadsThisPeriod,
		LastDownloadAt:      p.LastDownloadAt,
		PaymentRef:          p.PaymentRef,
	}
}

func toRecordInfo(r domain.DownloadRecord) entsdk.DownloadRecordInfo {
	return entsdk.DownloadRecordInfo{
		ID:           r.ID,
		UserID:       r.UserID,
		ProductID:    r.ProductID,
		Method:       string(r.Method),
		LicenseID:    r.LicenseID,
		PassID:       r.PassID,
		DownloadedAt: r.DownloadedAt,
		IPAddress:    r.IPAddress,
		UserAgent:    r.UserAgent,
		FileSize:     r.FileSize,
		Browser:      r.Browser,
		OS:           r.OS,
		DeviceType:   r.DeviceType,
		Country:      r.Country,
		City:         r.City,
	}
}
