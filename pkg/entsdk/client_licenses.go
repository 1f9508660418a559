package entsdk

import (
	"context"
	"net/http"
	"net/url"
)

// GenerateLicense issues a single license. Requires the licenses:write
// scope.
func (c *Client) GenerateLicense(ctx context.Context, req GenerateLicenseRequest) (*LicenseInfo, error) {
	var lic LicenseInfo
	if err := c.do(ctx, http.MethodPost, "/v1/licenses", req, &lic); err != nil {
		return nil, err
	}
	return &lic, nil
}

// CompleteOrder issues all entitlements for a completed order: one license
// per item unit, plus an access pass for subscription items. Requires the
// licenses:write scope.
func (c *Client) CompleteOrder(ctx context.Context, req CompleteOrderRequest) (*CompleteOrderResponse, error) {
	var resp CompleteOrderResponse
	if err := c.do(ctx, http.MethodPost, "/v1/orders/complete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUserLicenses returns all licenses held by a user, newest first.
// Requires the licenses:read scope.
func (c *Client) GetUserLicenses(ctx context.Context, userID string) (*ListLicensesResponse, error) {
	var resp ListLicensesResponse
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID)+"/licenses", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLicenseByKey resolves a license from a customer-supplied key. The key
// is normalized server-side, so raw customer input is acceptable. Requires
// the licenses:read scope.
func (c *Client) GetLicenseByKey(ctx context.Context, key string) (*LicenseInfo, error) {
	var lic LicenseInfo
	if err := c.do(ctx, http.MethodGet, "/v1/licenses/lookup?key="+url.QueryEscape(key), nil, &lic); err != nil {
		return nil, err
	}
	return &lic, nil
}

// RevokeLicense permanently disables a license. Requires the
// licenses:write scope.
func (c *Client) RevokeLicense(ctx context.Context, licenseID, userID string) error {
	return c.licenseAction(ctx, licenseID, userID, "revoke")
}

// SuspendLicense temporarily disables a license. Requires the
// licenses:write scope.
func (c *Client) SuspendLicense(ctx context.Context, licenseID, userID string) error {
	return c.licenseAction(ctx, licenseID, userID, "suspend")
}

// ReinstateLicense restores a suspended license. Requires the
// licenses:write scope.
func (c *Client) ReinstateLicense(ctx context.Context, licenseID, userID string) error {
	return c.licenseAction(ctx, licenseID, userID, "reinstate")
}

func (c *Client) licenseAction(ctx context.Context, licenseID, userID, action string) error {
	body := map[string]string{"user_id": userID}
	return c.do(ctx, http.MethodPost, "/v1/licenses/"+url.PathEscape(licenseID)+"/"+action, body, nil)
}
