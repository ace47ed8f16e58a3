package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"luxegear-backend/internal/domain"
)

func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"empty cart", domain.EmptyCart(), http.StatusBadRequest, domain.ErrCodeEmptyCart, "No items in order"},
		{"product not found", domain.ProductNotFound("Mouse"), http.StatusNotFound, domain.ErrCodeProductNotFound, "Product Mouse not found"},
		{"insufficient stock", domain.InsufficientStock("Mouse"), http.StatusBadRequest, domain.ErrCodeInsufficientStock, "Insufficient stock for Mouse"},
		{"unauthorized", domain.Unauthorized("Not authorized, no token"), http.StatusUnauthorized, domain.ErrCodeUnauthorized, "Not authorized, no token"},
		{"forbidden", domain.Forbidden("Not authorized"), http.StatusForbidden, domain.ErrCodeForbidden, "Not authorized"},
		{"duplicate request", domain.DuplicateRequest(), http.StatusConflict, domain.ErrCodeDuplicateRequest, "Request is already being processed"},
		{"already exists", domain.AlreadyExists("Email already exists"), http.StatusBadRequest, domain.ErrCodeAlreadyExists, "Email already exists"},
		{"unavailable", domain.Unavailable("off"), http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "off"},
		{"wrapped domain error", fmt.Errorf("ctx: %w", domain.NotFound("Order not found")), http.StatusNotFound, domain.ErrCodeNotFound, "Order not found"},
		{"internal", errors.New("mongo: connection refused"), http.StatusInternalServerError, "", "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := NewErrorResponse(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.False(t, body.Success)
		})
	}
}

func TestNewErrorResponseCarriesFieldErrors(t *testing.T) {
	err := domain.Validation("", domain.FieldError{Field: "shipping.city", Message: "Shipping city is required"})
	status, body := NewErrorResponse(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Shipping city is required", body.Message)
	assert.Equal(t, []domain.FieldError{{Field: "shipping.city", Message: "Shipping city is required"}}, body.Errors)
}
