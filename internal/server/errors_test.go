package server

import (
	"fmt"
	"net/http"
	"testing"

	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"nil", nil, http.StatusInternalServerError, "internal_error"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"plan limit", productdomain.ErrProductLimitReached, http.StatusForbidden, "plan_limit_reached"},
		{"banner gated", tenantdomain.ErrBannerNotAllowed, http.StatusForbidden, "forbidden"},
		{"same plan", subscriptiondomain.ErrAlreadyOnPlan, http.StatusConflict, "conflict"},
		{"wrapped not found", fmt.Errorf("load: %w", tenantdomain.ErrNotFound), http.StatusNotFound, "not_found"},
		{"validation", productdomain.ErrInvalidPrice, http.StatusBadRequest, "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantType, payload.Type)
		})
	}
}

func TestMapErrorValidationFields(t *testing.T) {
	_, payload := mapError(productdomain.ErrInvalidPrice)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, productdomain.ErrInvalidPrice.Error(), payload.Errors[0].Code)
	assert.Equal(t, "invalid value", payload.Errors[0].Message)

	_, payload = mapError(fmt.Errorf("bind: %w", ErrInvalidRequest))
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "request", payload.Errors[0].Field)
	assert.Equal(t, "invalid_request", payload.Errors[0].Code)

	_, payload = mapError(newValidationError("quantity", "invalid_quantity", "quantity must be positive"))
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "quantity must be positive", payload.Errors[0].Message)
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(ErrUnauthorized)
	assert.Equal(t, "auth", typ)
	assert.Equal(t, "unauthorized", code)

	typ, code = classifyErrorForLog(productdomain.ErrInvalidName)
	assert.Equal(t, "client", typ)
	assert.Equal(t, productdomain.ErrInvalidName.Error(), code)
}
