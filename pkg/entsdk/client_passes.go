package entsdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreatePass starts a subscription pass for a user. Requires the
// passes:write scope.
func (c *Client) CreatePass(ctx context.Context, req CreatePassRequest) (*AccessPassInfo, error) {
	var pass AccessPassInfo
	if err := c.do(ctx, http.MethodPost, "/v1/passes", req, &pass); err != nil {
		return nil, err
	}
	return &pass, nil
}

// CancelPass ends a pass, at the period boundary by default or
// immediately. Requires the passes:write scope.
func (c *Client) CancelPass(ctx context.Context, passID, userID string, immediate bool) error {
	body := struct {
		UserID string `json:"user_id"`
		CancelPassRequest
	}{UserID: userID, CancelPassRequest: CancelPassRequest{Immediate: immediate}}

	return c.do(ctx, http.MethodPost, "/v1/passes/"+url.PathEscape(passID)+"/cancel", body, nil)
}

// ReactivatePass undoes a cancellation while the pass is still within its
// paid period. Requires the passes:write scope.
func (c *Client) ReactivatePass(ctx context.Context, passID, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.do(ctx, http.MethodPost, "/v1/passes/"+url.PathEscape(passID)+"/reactivate", body, nil)
}

// GetActivePass returns the user's currently-valid pass, or an APIError
// with the no_active_pass code. Requires the passes:read scope.
func (c *Client) GetActivePass(ctx context.Context, userID string) (*AccessPassInfo, error) {
	var pass AccessPassInfo
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID)+"/pass", nil, &pass); err != nil {
		return nil, err
	}
	return &pass, nil
}
