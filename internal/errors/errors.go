package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	ErrNotFound   = new(ErrCodeNotFound, "resource not found")
	ErrValidation = new(ErrCodeValidation, "validation error")
	ErrDatabase   = new(ErrCodeDatabase, "database error")
	ErrCache      = new(ErrCodeCache, "cache error")
	ErrAuth       = new(ErrCodeAuth, "authentication error")
	ErrSystem     = new(ErrCodeSystemError, "system error")
	// maps errors to http status codes. An error carrying several marks takes the first match.
	statusCodes = []struct {
		ref    *InternalError
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrValidation, http.StatusBadRequest},
		{ErrAuth, http.StatusUnauthorized},
		{ErrDatabase, http.StatusInternalServerError},
		{ErrCache, http.StatusInternalServerError},
		{ErrSystem, http.StatusInternalServerError},
	}
)

const (
	ErrCodeNotFound    = "not_found"
	ErrCodeValidation  = "validation_error"
	ErrCodeDatabase    = "database_error"
	ErrCodeCache       = "cache_error"
	ErrCodeAuth        = "auth_error"
	ErrCodeSystemError = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// HTTPStatusFromErr maps a marked error to an http status code, 500 when unmarked
func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.ref) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}

// DisplayMessage returns the first hint attached to err, falling back to a generic message.
// Hints are the user-facing half of an error; the wrapped cause stays in the logs.
func DisplayMessage(err error) string {
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		return hints[0]
	}
	return "An unexpected error occurred."
}

// Code returns the machine-readable code of the sentinel err is marked with
func Code(err error) string {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.ref) {
			return sc.ref.Code
		}
	}
	return ErrCodeSystemError
}
