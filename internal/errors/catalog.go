package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a standardized error code for the pricing calculator
type ErrorCode string

// Error codes for the pricing calculator
const (
	// Input Errors
	ErrorCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// Pricing Errors
	ErrorCodeNoTier       ErrorCode = "NO_TIER"
	ErrorCodeInvalidTable ErrorCode = "INVALID_TIER_TABLE"

	// Access Gate Errors
	ErrorCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrorCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrorCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrorCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrorCodeLockedOut          ErrorCode = "LOCKED_OUT"

	// Platform Errors
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error messages map
var errorMessages = map[ErrorCode]string{
	ErrorCodeInvalidInput:   "The number of AI systems must be a whole number within the supported range.",
	ErrorCodeInvalidRequest: "The request could not be read.",

	ErrorCodeNoTier:       "No pricing tier covers the requested number of AI systems.",
	ErrorCodeInvalidTable: "The pricing tier table is invalid.",

	ErrorCodeInvalidCredentials: "Password incorrect. Please try again.",
	ErrorCodeUnauthorized:       "Please enter password to access the pricing calculator.",
	ErrorCodeSessionExpired:     "Your session has expired. Please enter the password again.",
	ErrorCodeRateLimited:        "Too many attempts. Please slow down.",
	ErrorCodeLockedOut:          "Too many incorrect passwords. Access is temporarily locked.",

	ErrorCodeInternal: "Something went wrong on our side.",
}

// PricingError represents a structured error with code and message
type PricingError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"` // Additional context for debugging
	Err     error     `json:"-"`                 // Original error (not serialized)
}

// Error implements the error interface
func (e *PricingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PricingError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code, so sentinel values work with errors.Is
func (e *PricingError) Is(target error) bool {
	t, ok := target.(*PricingError)
	return ok && t.Code == e.Code
}

// New creates a new PricingError with the given code
func New(code ErrorCode, details ...string) *PricingError {
	err := &PricingError{
		Code:    code,
		Message: GetMessage(code),
	}

	if len(details) > 0 {
		err.Details = details[0]
	}

	return err
}

// Wrap wraps an existing error with a PricingError code
func Wrap(code ErrorCode, err error, details ...string) *PricingError {
	pricingErr := New(code, details...)
	if err == nil {
		return pricingErr
	}
	pricingErr.Err = err
	if pricingErr.Details == "" {
		pricingErr.Details = err.Error()
	} else {
		pricingErr.Details = fmt.Sprintf("%s: %s", pricingErr.Details, err.Error())
	}
	return pricingErr
}

// GetMessage returns the user-friendly message for an error code
func GetMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An unknown error occurred."
}

// AsPricingError finds the first PricingError in err's chain
func AsPricingError(err error) (*PricingError, bool) {
	if err == nil {
		return nil, false
	}
	var pricingErr *PricingError
	if stderrors.As(err, &pricingErr) {
		return pricingErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	pricingErr, ok := AsPricingError(err)
	return ok && pricingErr.Code == code
}
