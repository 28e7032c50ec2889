package azapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError represents the structured error body returned by the management
// and Graph APIs: {"error": {"code": ..., "message": ...}}.
type APIError struct {
	Code    string `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ResponseError is the error envelope wrapping an APIError.
type ResponseError struct {
	Err APIError `json:"error"`
}

// AuthError represents a failed token acquisition. The description and
// correlation ID carry the diagnostic detail needed when reporting the
// failure to support.
type AuthError struct {
	Description   string
	CorrelationID string
	Scope         string
	Err           error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := fmt.Sprintf("failed to acquire token for %s: %s", e.Scope, e.Description)
	if e.CorrelationID != "" {
		msg += fmt.Sprintf(" (correlation id: %s)", e.CorrelationID)
	}

	return msg
}

// Unwrap returns the underlying identity provider error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Static errors that can be wrapped with context.
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrConnectionFailed   = errors.New("connection failed")
	ErrTooManyRedirects   = errors.New("stopped after too many redirects")
	ErrConfigRequired     = errors.New("config is required")
	ErrNoTokenManager     = errors.New("no token manager configured")
	ErrAPIVersionRequired = errors.New("api-version is required")
	ErrResourceRequired   = errors.New("resource is required")
	ErrNotJSON            = errors.New("response body is not valid JSON")
)

// Common management API error codes.
const (
	ErrorCodeResourceNotFound     = "ResourceNotFound"
	ErrorCodeResourceGroupMissing = "ResourceGroupNotFound"
	ErrorCodeAuthorizationFailed  = "AuthorizationFailed"
	ErrorCodeInvalidAuthToken     = "InvalidAuthenticationToken"
	ErrorCodeExpiredAuthToken     = "ExpiredAuthenticationToken"
)

// IsNotFound checks if the error is a resource-not-found API error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeResourceNotFound || apiErr.Code == ErrorCodeResourceGroupMissing
	}

	return false
}

// IsUnauthorized checks if the error is an authentication or authorization
// API error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrorCodeAuthorizationFailed, ErrorCodeInvalidAuthToken, ErrorCodeExpiredAuthToken:
			return true
		}
	}

	return false
}

// IsAuthError checks if the error came from token acquisition rather than a
// dispatched request.
func IsAuthError(err error) bool {
	authErr := &AuthError{}

	return errors.As(err, &authErr)
}

// ParseResponseError decodes the error envelope from a JSON body. It returns
// nil when the body carries no top-level "error" field.
func ParseResponseError(data []byte) *APIError {
	var envelope ResponseError

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}

	if envelope.Err.Code == "" && envelope.Err.Message == "" {
		return nil
	}

	return &envelope.Err
}
