package entsdk

import "time"

// ErrorResponse is the standard error body returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "limit_exceeded")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// LicenseInfo is the wire representation of a license.
type LicenseInfo struct {
	ID         string `json:"id"`
	LicenseKey string `json:"license_key"`
	UserID     string `json:"user_id"`
	ProductID  string `json:"product_id"`
	OrderID    string `json:"order_id,omitempty"`

	LicenseType string `json:"license_type"`
	Status      string `json:"status"`

	DownloadCount  int64      `json:"download_count"`
	DownloadLimit  *int64     `json:"download_limit,omitempty"`
	IssuedAt       time.Time  `json:"issued_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	LastDownloadAt *time.Time `json:"last_download_at,omitempty"`

	PriceCents int64  `json:"price_cents,omitempty"`
	Currency   string `json:"currency,omitempty"`
	PaymentRef string `json:"payment_ref,omitempty"`
}

// AccessPassInfo is the wire representation of an access pass.
type AccessPassInfo struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	PassType string `json:"pass_type"`
	Status   string `json:"status"`

	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`

	AmountCents int64  `json:"amount_cents,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Interval    string `json:"interval,omitempty"`

	TotalDownloads      int64      `json:"total_downloads"`
	DownloadsThisPeriod int64      `json:"downloads_this_period"`
	LastDownloadAt      *time.Time `json:"last_download_at,omitempty"`

	PaymentRef string `json:"payment_ref,omitempty"`
}

// DownloadRecordInfo is one download history entry.
type DownloadRecordInfo struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Method    string `json:"method"`
	LicenseID string `json:"license_id,omitempty"`
	PassID    string `json:"pass_id,omitempty"`

	DownloadedAt time.Time `json:"downloaded_at"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	FileSize     int64     `json:"file_size,omitempty"`

	Browser    string `json:"browser,omitempty"`
	OS         string `json:"os,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	Country    string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
}

// GenerateLicenseRequest issues a single license.
type GenerateLicenseRequest struct {
	UserID      string `json:"user_id"`
	ProductID   string `json:"product_id"`
	OrderID     string `json:"order_id,omitempty"`
	LicenseType string `json:"license_type"`

	PriceCents int64  `json:"price_cents,omitempty"`
	Currency   string `json:"currency,omitempty"`
	PaymentRef string `json:"payment_ref,omitempty"`
}

// OrderItemRequest is one purchased line in a CompleteOrderRequest.
type OrderItemRequest struct {
	ProductID   string `json:"product_id,omitempty"`
	LicenseType string `json:"license_type"`
	Quantity    int    `json:"quantity,omitempty"`

	// PassType is required when LicenseType is "access_pass".
	PassType string `json:"pass_type,omitempty"`

	PriceCents int64  `json:"price_cents,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

// CompleteOrderRequest issues all entitlements for a completed order.
type CompleteOrderRequest struct {
	UserID     string             `json:"user_id"`
	OrderID    string             `json:"order_id"`
	PaymentRef string             `json:"payment_ref,omitempty"`
	Items      []OrderItemRequest `json:"items"`
}

// CompleteOrderResponse lists the licenses issued for the order. Passes
// created for subscription items are fetched separately via GetActivePass.
type CompleteOrderResponse struct {
	Licenses []LicenseInfo `json:"licenses"`
}

// ListLicensesResponse is the body of GET /v1/users/{id}/licenses.
type ListLicensesResponse struct {
	Licenses []LicenseInfo `json:"licenses"`
}

// ValidateAccessRequest asks whether a download is authorized. ProductID
// and LicenseID are each optional; when LicenseID is set, that exact
// license is checked and nothing else.
type ValidateAccessRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id,omitempty"`
	LicenseID string `json:"license_id,omitempty"`
}

// AccessDecisionResponse is the resolver's answer.
type AccessDecisionResponse struct {
	CanDownload bool   `json:"can_download"`
	Method      string `json:"method"`
	Reason      string `json:"reason,omitempty"`

	License    *LicenseInfo    `json:"license,omitempty"`
	AccessPass *AccessPassInfo `json:"access_pass,omitempty"`
}

// AccessCheckResponse is the reduced answer for UI gating.
type AccessCheckResponse struct {
	HasAccess bool   `json:"has_access"`
	Method    string `json:"method"`
}

// RecordDownloadRequest records one completed download. IPAddress and
// UserAgent default to the values observed on the HTTP request when empty,
// so a proxying storefront should forward the end user's originals.
type RecordDownloadRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Method    string `json:"method"`
	LicenseID string `json:"license_id,omitempty"`

	FileSize  int64  `json:"file_size,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// DownloadHistoryResponse is the body of GET /v1/users/{id}/downloads.
type DownloadHistoryResponse struct {
	Downloads []DownloadRecordInfo `json:"downloads"`
}

// CreatePassRequest starts a subscription pass.
type CreatePassRequest struct {
	UserID   string `json:"user_id"`
	PassType string `json:"pass_type"`

	AmountCents int64  `json:"amount_cents,omitempty"`
	Currency    string `json:"currency,omitempty"`
	PaymentRef  string `json:"payment_ref,omitempty"`
}

// CancelPassRequest ends a pass, by default at the period boundary.
type CancelPassRequest struct {
	Immediate bool `json:"immediate,omitempty"`
}

// GenerateLinkRequest mints a signed download token.
type GenerateLinkRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	LicenseID string `json:"license_id,omitempty"`
}

// LinkResponse carries a freshly minted download token.
type LinkResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyLinkResponse is the result of checking a download token. Expired
// is reported distinctly from an invalid signature; the identity fields
// are only present when the signature verified.
type VerifyLinkResponse struct {
	Valid   bool `json:"valid"`
	Expired bool `json:"expired,omitempty"`

	UserID    string     `json:"user_id,omitempty"`
	ProductID string     `json:"product_id,omitempty"`
	LicenseID string     `json:"license_id,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Uptime  string        `json:"uptime,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of the service's critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
