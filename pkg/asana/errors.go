package asana

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for connection-related issues.
var (
	// ErrUnreachable indicates the API host refused the connection.
	ErrUnreachable = errors.New("asana API is unreachable")
)

// ErrorCode classifies an HTTP error response.
type ErrorCode string

const (
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodePaymentRequired  ErrorCode = "PAYMENT_REQUIRED"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"
	ErrCodeServerError      ErrorCode = "SERVER_ERROR"
	ErrCodeUnexpectedStatus ErrorCode = "UNEXPECTED_STATUS"
)

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Code       ErrorCode
	// Messages holds the "message" of each entry in the errors array.
	Messages []string
	// Help is the first non-empty "help" hint returned by the API.
	Help string
	// Body is the raw response body.
	Body []byte
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("asana: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("asana: %d %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// DecodeError reports a response body that does not match the model.
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// apiErrorResponse is the JSON error envelope returned by Asana.
type apiErrorResponse struct {
	Errors []apiError `json:"errors"`
}

// apiError is one entry of the errors array.
type apiError struct {
	Message string `json:"message"`
	Help    string `json:"help,omitempty"`
	Phrase  string `json:"phrase,omitempty"`
}

// codeForStatus maps an HTTP status to an ErrorCode.
func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case status == http.StatusPaymentRequired:
		return ErrCodePaymentRequired
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case status >= 500:
		return ErrCodeServerError
	default:
		return ErrCodeUnexpectedStatus
	}
}

// Helper functions to check error types.

// IsNotFound returns true if the object or endpoint does not exist.
func IsNotFound(err error) bool {
	return hasErrorCode(err, ErrCodeNotFound)
}

// IsUnauthorized returns true if the token is missing or invalid.
func IsUnauthorized(err error) bool {
	return hasErrorCode(err, ErrCodeUnauthorized)
}

// IsForbidden returns true if the token lacks access to the object.
func IsForbidden(err error) bool {
	return hasErrorCode(err, ErrCodeForbidden)
}

// IsPaymentRequired returns true if the endpoint needs a premium workspace.
func IsPaymentRequired(err error) bool {
	return hasErrorCode(err, ErrCodePaymentRequired)
}

// IsRateLimited returns true if the request was rejected by rate limiting.
// The client never retries; callers decide whether to back off.
func IsRateLimited(err error) bool {
	return hasErrorCode(err, ErrCodeRateLimited)
}

// IsServerError returns true for 5xx responses.
func IsServerError(err error) bool {
	return hasErrorCode(err, ErrCodeServerError)
}

// IsUnreachable returns true if the API host could not be reached.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// IsDecodeError returns true if the response did not match the model.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an
// API error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// hasErrorCode checks if the error has the given error code.
func hasErrorCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
