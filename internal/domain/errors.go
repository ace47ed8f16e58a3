package domain

import (
	"errors"
	"fmt"
)

// Error codes. Format: ERR_<DESCRIPTION>
const (
	ErrCodeEmptyCart         = "ERR_EMPTY_CART"
	ErrCodeProductNotFound   = "ERR_PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeUnauthorized      = "ERR_UNAUTHORIZED"
	ErrCodeForbidden         = "ERR_FORBIDDEN"
	ErrCodeNotFound          = "ERR_NOT_FOUND"
	ErrCodeValidation        = "ERR_VALIDATION"
	ErrCodeAlreadyExists     = "ERR_ALREADY_EXISTS"
	ErrCodeDuplicateRequest  = "ERR_DUPLICATE_REQUEST"
	ErrCodeRateLimited       = "ERR_RATE_LIMITED"
	ErrCodeUnavailable       = "ERR_UNAVAILABLE"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a business-rule or validation failure that is safe to show to the caller.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error carrying the same code, so sentinel-style checks work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Sentinels for errors.Is checks; constructors below carry the caller-facing message.
var (
	ErrEmptyCart         = newError(ErrCodeEmptyCart, "No items in order")
	ErrProductNotFound   = newError(ErrCodeProductNotFound, "Product not found")
	ErrInsufficientStock = newError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrUnauthorized      = newError(ErrCodeUnauthorized, "Not authorized")
	ErrForbidden         = newError(ErrCodeForbidden, "Not authorized")
	ErrNotFound          = newError(ErrCodeNotFound, "Resource not found")
	ErrValidation        = newError(ErrCodeValidation, "Validation failed")
	ErrAlreadyExists     = newError(ErrCodeAlreadyExists, "Resource already exists")
	ErrDuplicateRequest  = newError(ErrCodeDuplicateRequest, "Request is already being processed")
	ErrUnavailable       = newError(ErrCodeUnavailable, "Service unavailable")
)

func EmptyCart() *Error {
	return newError(ErrCodeEmptyCart, "No items in order")
}

// ProductNotFound names the product as the caller referred to it.
func ProductNotFound(name string) *Error {
	return newError(ErrCodeProductNotFound, fmt.Sprintf("Product %s not found", name))
}

func InsufficientStock(productName string) *Error {
	return newError(ErrCodeInsufficientStock, fmt.Sprintf("Insufficient stock for %s", productName))
}

func Unauthorized(message string) *Error {
	return newError(ErrCodeUnauthorized, message)
}

func Forbidden(message string) *Error {
	return newError(ErrCodeForbidden, message)
}

func NotFound(message string) *Error {
	return newError(ErrCodeNotFound, message)
}

// Validation builds a validation error. When fields are given and message is empty,
// the first field message becomes the top-level message.
func Validation(message string, fields ...FieldError) *Error {
	if message == "" && len(fields) > 0 {
		message = fields[0].Message
	}
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Code: ErrCodeValidation, Message: message, Fields: fields}
}

func AlreadyExists(message string) *Error {
	return newError(ErrCodeAlreadyExists, message)
}

func DuplicateRequest() *Error {
	return newError(ErrCodeDuplicateRequest, "Request is already being processed")
}

func Unavailable(message string) *Error {
	return newError(ErrCodeUnavailable, message)
}

// AsError unwraps err into a *Error when one is present in the chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
