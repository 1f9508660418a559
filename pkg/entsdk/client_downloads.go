package entsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ValidateDownloadAccess asks whether a download is authorized, and by
// which mechanism. Requires the downloads:validate scope.
func (c *Client) ValidateDownloadAccess(ctx context.Context, req ValidateAccessRequest) (*AccessDecisionResponse, error) {
	var resp AccessDecisionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/downloads/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckAccess is the reduced entitlement check for UI gating. Requires
// the downloads:validate scope.
func (c *Client) CheckAccess(ctx context.Context, userID, productID string) (*AccessCheckResponse, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	if productID != "" {
		q.Set("product_id", productID)
	}

	var resp AccessCheckResponse
	if err := c.do(ctx, http.MethodGet, "/v1/access?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordDownload records a completed download against the authorizing
// license or pass. Requires the downloads:record scope.
func (c *Client) RecordDownload(ctx context.Context, req RecordDownloadRequest) (*DownloadRecordInfo, error) {
	var rec DownloadRecordInfo
	if err := c.do(ctx, http.MethodPost, "/v1/downloads/record", req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetDownloadHistory returns a user's most recent downloads. limit <= 0
// uses the server default. Requires the licenses:read scope.
func (c *Client) GetDownloadHistory(ctx context.Context, userID string, limit int) (*DownloadHistoryResponse, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/downloads"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp DownloadHistoryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
