package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/smallbiznis/vitrine/internal/analytics/domain"
	auditdomain "github.com/smallbiznis/vitrine/internal/audit/domain"
	authdomain "github.com/smallbiznis/vitrine/internal/auth/domain"
	"github.com/smallbiznis/vitrine/internal/authorization"
	integrationdomain "github.com/smallbiznis/vitrine/internal/integration/domain"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	storefrontdomain "github.com/smallbiznis/vitrine/internal/storefront/domain"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{Errors: []ValidationError{{Field: field, Code: code, Message: message}}}
}

// errorClass maps a family of sentinel errors to one HTTP status and error
// type. An empty message echoes the sentinel code.
type errorClass struct {
	status  int
	typ     string
	message string
	errs    []error
}

var errorClasses = []errorClass{
	{
		status:  http.StatusTooManyRequests,
		typ:     "rate_limited",
		message: "too many requests",
		errs:    []error{ErrRateLimited},
	},
	{
		status:  http.StatusUnauthorized,
		typ:     "unauthorized",
		message: "unauthorized",
		errs: []error{
			ErrUnauthorized,
			authdomain.ErrUnauthorized,
			integrationdomain.ErrInvalidSignature,
		},
	},
	{
		status: http.StatusForbidden,
		typ:    "forbidden",
		errs: []error{
			ErrForbidden,
			authdomain.ErrForbidden,
			authorization.ErrForbidden,
			authorization.ErrInvalidActor,
			tenantdomain.ErrBannerNotAllowed,
		},
	},
	{
		status:  http.StatusForbidden,
		typ:     "plan_limit_reached",
		message: "product limit reached for the current plan",
		errs:    []error{productdomain.ErrProductLimitReached},
	},
	{
		status: http.StatusConflict,
		typ:    "conflict",
		errs: []error{
			ErrConflict,
			tenantdomain.ErrDuplicateCategory,
			subscriptiondomain.ErrAlreadyOnPlan,
			integrationdomain.ErrIntegrationDisabled,
		},
	},
	{
		status: http.StatusNotFound,
		typ:    "not_found",
		errs: []error{
			ErrNotFound,
			authdomain.ErrUserNotFound,
			plandomain.ErrNotFound,
			tenantdomain.ErrNotFound,
			tenantdomain.ErrCategoryNotFound,
			productdomain.ErrNotFound,
			subscriptiondomain.ErrUserNotFound,
			subscriptiondomain.ErrStoreNotFound,
			subscriptiondomain.ErrReceiptNotFound,
			storefrontdomain.ErrStoreNotFound,
			storefrontdomain.ErrProductNotFound,
		},
	},
}

// validationErrs become a 400 whose single field error carries the
// sentinel code.
var validationErrs = []error{
	ErrInvalidRequest,
	authdomain.ErrInvalidEmail,
	analyticsdomain.ErrInvalidPeriod,
	auditdomain.ErrInvalidAction,
	auditdomain.ErrInvalidTimeRange,
	integrationdomain.ErrInvalidPayload,
	integrationdomain.ErrInvalidProductID,
	authorization.ErrInvalidObject,
	authorization.ErrInvalidAction,
	plandomain.ErrInvalidID,
	plandomain.ErrInvalidName,
	plandomain.ErrInvalidPrice,
	plandomain.ErrInvalidLimits,
	plandomain.ErrDuplicateID,
	tenantdomain.ErrInvalidID,
	tenantdomain.ErrInvalidName,
	tenantdomain.ErrInvalidPhone,
	tenantdomain.ErrInvalidCategory,
	tenantdomain.ErrInvalidPaymentMethod,
	tenantdomain.ErrPaymentMethodRequired,
	productdomain.ErrInvalidStore,
	productdomain.ErrInvalidID,
	productdomain.ErrInvalidName,
	productdomain.ErrInvalidPrice,
	productdomain.ErrNoCategories,
	orderdomain.ErrInvalidStore,
	orderdomain.ErrInvalidCustomer,
	orderdomain.ErrInvalidItems,
	orderdomain.ErrInvalidTotal,
	orderdomain.ErrInvalidStatus,
	subscriptiondomain.ErrInvalidEmail,
	subscriptiondomain.ErrInvalidStore,
	subscriptiondomain.ErrInvalidPlan,
	storefrontdomain.ErrEmptyCart,
	storefrontdomain.ErrInvalidQuantity,
	storefrontdomain.ErrCartTooLarge,
	storefrontdomain.ErrInvalidCustomer,
	storefrontdomain.ErrPaymentMethodNotAccepted,
	storefrontdomain.ErrStoreWithoutPhone,
}

var internalErrorPayload = errorPayload{
	Type:    "internal_error",
	Message: "internal server error",
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, internalErrorPayload
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, validationPayload(vErr.Errors)
	}
	if matches(err, validationErrs) {
		code := err.Error()
		if errors.Is(err, ErrInvalidRequest) {
			code = ErrInvalidRequest.Error()
		}
		return http.StatusBadRequest, validationPayload([]ValidationError{{
			Field:   fieldFromCode(code),
			Code:    code,
			Message: messageFromCode(code),
		}})
	}

	for _, class := range errorClasses {
		if !matches(err, class.errs) {
			continue
		}
		message := class.message
		if message == "" {
			message = err.Error()
		}
		return class.status, errorPayload{Type: class.typ, Message: message}
	}
	return http.StatusInternalServerError, internalErrorPayload
}

func validationPayload(fields []ValidationError) errorPayload {
	return errorPayload{
		Type:    "validation_error",
		Message: "validation error",
		Errors:  fields,
	}
}

func matches(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// classifyErrorForLog returns the error type and code attached to request
// logs.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", code
	case status == http.StatusNotFound:
		return "not_found", code
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return "auth", code
	default:
		return "client", code
	}
}

// fieldFromCode derives the offending field from an "invalid_<field>" code.
func fieldFromCode(code string) string {
	if code == ErrInvalidRequest.Error() {
		return "request"
	}
	field, ok := strings.CutPrefix(code, "invalid_")
	if !ok {
		return ""
	}
	return field
}

func messageFromCode(code string) string {
	if code == ErrInvalidRequest.Error() {
		return "invalid request"
	}
	return "invalid value"
}
