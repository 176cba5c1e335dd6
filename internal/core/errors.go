// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Input validation errors
	ErrNoData           = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrInsufficientData = &Error{Code: "INSUFFICIENT_DATA", Message: "insufficient data for computation"}
	ErrSeriesUnordered  = &Error{Code: "SERIES_UNORDERED", Message: "price series must have strictly increasing timestamps"}
	ErrSeriesMisaligned = &Error{Code: "SERIES_MISALIGNED", Message: "multi-asset price series are not aligned"}
	ErrZeroPrice        = &Error{Code: "ZERO_PRICE", Message: "price must be a positive finite number"}
	ErrInvalidWeights   = &Error{Code: "INVALID_WEIGHTS", Message: "target weights must sum to 1"}
	ErrInvalidCapital   = &Error{Code: "INVALID_CAPITAL", Message: "initial capital must be positive"}
	ErrInvalidParams    = &Error{Code: "INVALID_PARAMS", Message: "invalid strategy parameters"}

	// Strategy errors
	ErrStrategyNotFound = &Error{Code: "STRATEGY_NOT_FOUND", Message: "strategy not registered"}

	// Job errors
	ErrJobNotFound = &Error{Code: "JOB_NOT_FOUND", Message: "job not found"}

	// Provider errors
	ErrProviderFailed = &Error{Code: "PROVIDER_FAILED", Message: "price provider request failed"}
	ErrAssetNotFound  = &Error{Code: "ASSET_NOT_FOUND", Message: "asset not found"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
