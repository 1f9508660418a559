package entsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/assetdeck/entitlements/pkg/httpx"
)

// Error codes shared between the service and its clients.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeConflict          = "conflict"
	ErrorCodeLimitExceeded     = "limit_exceeded"
	ErrorCodeNoActivePass      = "no_active_pass"
	ErrorCodeServerError       = "server_error"
)

// APIError is the typed error for every non-2xx response. The service's
// HTTP handlers use it to write error bodies; the SDK client reconstructs
// it when parsing them.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// NewAPIError builds an APIError with the given status, code, and
// description.
func NewAPIError(status int, code, description string) *APIError {
	return &APIError{StatusCode: status, Code: code, Description: description}
}

// IsNotFound reports whether err is an APIError with the not_found code.
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsLimitExceeded reports whether err is an APIError with the
// limit_exceeded code.
func IsLimitExceeded(err error) bool {
	return hasCode(err, ErrorCodeLimitExceeded)
}

// IsNoActivePass reports whether err is an APIError with the
// no_active_pass code.
func IsNoActivePass(err error) bool {
	return hasCode(err, ErrorCodeNoActivePass)
}

func hasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a non-2xx response body into an *APIError.
// Bodies that are not the standard error shape still yield a usable error
// carrying the status code.
func parseErrorResponse(status int, body []byte) error {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == "" {
		return &APIError{
			StatusCode:  status,
			Code:        ErrorCodeServerError,
			Description: http.StatusText(status),
		}
	}
	return &APIError{
		StatusCode:  status,
		Code:        resp.Error,
		Description: resp.ErrorDescription,
	}
}
