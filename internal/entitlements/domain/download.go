package domain

import "time"

// AccessMethod identifies which entitlement mechanism authorized a download.
type AccessMethod string

const (
	AccessMethodLicense    AccessMethod = "license"
	AccessMethodAccessPass AccessMethod = "access_pass"
	AccessMethodNone       AccessMethod = "none"
)

// AccessDecision is the resolver's answer to "may this user download this
// product". Exactly one of License/AccessPass is set when CanDownload is
// true; Reason is set when it is false.
type AccessDecision struct {
	CanDownload bool
	Method      AccessMethod
	Reason      string

	License    *License
	AccessPass *AccessPass
}

// DownloadRecord is one append-only history entry for a completed download.
// LicenseID is empty for access-pass downloads; PassID is empty for
// license downloads.
type DownloadRecord struct {
	ID        string
	UserID    string
	ProductID string
	Method    AccessMethod
	LicenseID string
	PassID    string

	DownloadedAt time.Time
	IPAddress    string
	UserAgent    string
	FileSize     int64

	// Derived at record time from UserAgent and IPAddress. Best-effort;
	// empty when enrichment is disabled or the input is unparseable.
	Browser    string
	OS         string
	DeviceType string
	Country    string
	City       string
}
