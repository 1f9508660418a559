package entsdk

import (
	"context"
	"net/http"
	"net/url"
)

// GenerateDownloadLink mints a signed, time-boxed download token for the
// given user/product/license triple. The token proves authorization as of
// issuance; it is not re-checked against live license state at
// verification. Requires the downloads:validate scope.
func (c *Client) GenerateDownloadLink(ctx context.Context, req GenerateLinkRequest) (*LinkResponse, error) {
	var resp LinkResponse
	if err := c.do(ctx, http.MethodPost, "/v1/links", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyDownloadLink checks a download token's signature and age.
func (c *Client) VerifyDownloadLink(ctx context.Context, token string) (*VerifyLinkResponse, error) {
	q := url.Values{}
	q.Set("token", token)

	var resp VerifyLinkResponse
	if err := c.do(ctx, http.MethodGet, "/v1/links/verify?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
