package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeLocatorNotFound = "LOCATOR_NOT_FOUND"
	ErrCodeExtractionEmpty = "EXTRACTION_EMPTY"
	ErrCodeTimeout         = "TIMEOUT"
	ErrCodeNavigation      = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash    = "BROWSER_CRASH"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeExportFailed    = "EXPORT_FAILED"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeUnavailable     = "UNAVAILABLE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MatchupError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type MatchupError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *MatchupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *MatchupError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a MatchupError with the same code, so that
// errors.Is(err, ErrLocatorNotFound)-style sentinels work across wrapping.
func (e *MatchupError) Is(target error) bool {
	t, ok := target.(*MatchupError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewMatchupError creates a new MatchupError.
func NewMatchupError(code, message string, err error) *MatchupError {
	return &MatchupError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *MatchupError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
