package providers

import (
	"errors"
	"fmt"
)

// Machine-readable ModelError codes.
const (
	CodeAuth           = "auth"
	CodeRateLimited    = "rate_limited"
	CodeOverloaded     = "overloaded"
	CodeInvalidRequest = "invalid_request"
	CodeServerError    = "server_error"
	CodeStream         = "stream"
)

// ModelError is a classified failure reported by a model service: quota,
// content policy, or a transient upstream problem. Unclassified failures
// are never wrapped in ModelError.
type ModelError struct {
	Message string
	Code    string
	Cause   error
}

func (e *ModelError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("model error [%s]", e.Code)
	}
	return fmt.Sprintf("model error [%s]: %s", e.Code, e.Message)
}

func (e *ModelError) Unwrap() error { return e.Cause }

// IsAuthError reports whether err is a ModelError with the auth code.
func IsAuthError(err error) bool {
	var me *ModelError
	return errors.As(err, &me) && me.Code == CodeAuth
}

// classifyStatus maps an HTTP status to a ModelError, or nil for 200.
func classifyStatus(status int, body string) *ModelError {
	switch {
	case status == 200:
		return nil
	case status == 401 || status == 403:
		return &ModelError{Message: body, Code: CodeAuth}
	case status == 429:
		return &ModelError{Message: body, Code: CodeRateLimited}
	case status == 529:
		return &ModelError{Message: body, Code: CodeOverloaded}
	case status >= 500:
		return &ModelError{Message: fmt.Sprintf("status %d: %s", status, body), Code: CodeServerError}
	default:
		return &ModelError{Message: fmt.Sprintf("status %d: %s", status, body), Code: CodeInvalidRequest}
	}
}
