// Package dto holds the JSON envelopes shared by handlers and middleware.
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// MessageResponse is a bare success acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	domain.ErrCodeEmptyCart:         http.StatusBadRequest,
	domain.ErrCodeProductNotFound:   http.StatusNotFound,
	domain.ErrCodeInsufficientStock: http.StatusBadRequest,
	domain.ErrCodeUnauthorized:      http.StatusUnauthorized,
	domain.ErrCodeForbidden:         http.StatusForbidden,
	domain.ErrCodeNotFound:          http.StatusNotFound,
	domain.ErrCodeValidation:        http.StatusBadRequest,
	domain.ErrCodeAlreadyExists:     http.StatusBadRequest,
	domain.ErrCodeDuplicateRequest:  http.StatusConflict,
	domain.ErrCodeRateLimited:       http.StatusTooManyRequests,
	domain.ErrCodeUnavailable:       http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewErrorResponse converts err into a status and body. Errors that are not *domain.Error
// never leak their text.
func NewErrorResponse(err error) (int, ErrorResponse) {
	de, ok := domain.AsError(err)
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"}
	}
	return GetHTTPStatus(de.Code), ErrorResponse{
		Message: de.Message,
		Code:    de.Code,
		Errors:  de.Fields,
	}
}

// Error writes err as a JSON error response. Internal errors are logged at error level.
func Error(c *gin.Context, err error) {
	status, body := writeLog(c, err)
	c.JSON(status, body)
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, body := writeLog(c, err)
	c.AbortWithStatusJSON(status, body)
}

func writeLog(c *gin.Context, err error) (int, ErrorResponse) {
	status, body := NewErrorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed", zap.Error(err))
		_ = c.Error(err)
	}
	return status, body
}
