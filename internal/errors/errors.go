// Package errors provides structured error types for snug.
// All errors include a category, code and message so callers can branch on
// the kind of failure without string matching.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by the layer that produced them.
type ErrorCategory string

const (
	ErrCategoryParse      ErrorCategory = "PARSE"
	ErrCategoryArithmetic ErrorCategory = "ARITHMETIC"
	ErrCategoryConfig     ErrorCategory = "CONFIG"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Parse codes
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidDimension = "INVALID_DIMENSION"
	CodeInvalidRequest   = "INVALID_REQUEST"

	// Arithmetic codes
	CodeIncompatibleUnits = "INCOMPATIBLE_UNITS"

	// Config codes
	CodeInvalidConfig = "INVALID_CONFIG"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// Sentinels for errors.Is. Matching is by category and code only.
var (
	ErrNotFound          = New(ErrCategoryParse, CodeNotFound, "unit not found")
	ErrInvalidDimension  = New(ErrCategoryParse, CodeInvalidDimension, "invalid dimension")
	ErrIncompatibleUnits = New(ErrCategoryArithmetic, CodeIncompatibleUnits, "incompatible units")
)

// SnugError is the structured error type used throughout the module.
type SnugError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Details  map[string]interface{}
	Cause    error
}

// Error returns a formatted error string.
func (e *SnugError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *SnugError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *SnugError) Is(target error) bool {
	var t *SnugError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new SnugError.
func New(category ErrorCategory, code, message string) *SnugError {
	return &SnugError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// Wrap creates a new SnugError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *SnugError {
	return &SnugError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *SnugError) WithDetails(details map[string]interface{}) *SnugError {
	cp := *e
	cp.Details = details
	return &cp
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a SnugError.
func GetCategory(err error) ErrorCategory {
	var se *SnugError
	if errors.As(err, &se) {
		return se.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a SnugError.
func GetCode(err error) string {
	var se *SnugError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// GetDetail returns a single detail value from the first SnugError in the chain.
func GetDetail(err error, key string) (interface{}, bool) {
	var se *SnugError
	if errors.As(err, &se) && se.Details != nil {
		v, ok := se.Details[key]
		return v, ok
	}
	return nil, false
}

// NotFound reports a unit symbol that is in neither the prefixed nor the raw table lookup.
func NotFound(token string) *SnugError {
	return New(ErrCategoryParse, CodeNotFound, fmt.Sprintf("unit %q not found", token)).
		WithDetails(map[string]interface{}{"token": token})
}

// IncompatibleUnits reports an addition or subtraction across different dimension vectors.
// a and b are the rendered units of the two operands.
func IncompatibleUnits(op, a, b string) *SnugError {
	return New(ErrCategoryArithmetic, CodeIncompatibleUnits,
		fmt.Sprintf("cannot %s quantities with different units (%s and %s)", op, a, b)).
		WithDetails(map[string]interface{}{"op": op, "left": a, "right": b})
}

// NewInvalidDimension reports a dimension index outside the closed enumeration.
func NewInvalidDimension(index int) *SnugError {
	return New(ErrCategoryParse, CodeInvalidDimension, fmt.Sprintf("invalid dimension index %d", index)).
		WithDetails(map[string]interface{}{"index": index})
}

func NewConfigError(message string) *SnugError {
	return New(ErrCategoryConfig, CodeInvalidConfig, message)
}

func NewRequestError(message string) *SnugError {
	return New(ErrCategoryParse, CodeInvalidRequest, message)
}

func NewInternalError(message string, cause error) *SnugError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
