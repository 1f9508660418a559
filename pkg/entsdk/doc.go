// Package entsdk is a typed Go client for the entitlements service.
//
// The request/response types here are shared with the service's HTTP
// handlers, so the wire format is defined in exactly one place. Callers
// authenticate with a service token (HS256 JWT) carrying the scopes the
// target endpoints require.
//
// Basic usage:
//
//	client := entsdk.NewClient("http://localhost:8080", serviceToken)
//	decision, err := client.ValidateDownloadAccess(ctx, entsdk.ValidateAccessRequest{
//		UserID:    "user-1",
//		ProductID: "product-1",
//	})
package entsdk
