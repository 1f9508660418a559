package entsdk

import (
	"context"
	"net/http"
)

// Livez reports whether the service process is up.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Readyz reports whether the service can reach its database.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
