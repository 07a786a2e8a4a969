package domain

import (
	"context"
	"errors"
	"io"
	"time"

	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	"github.com/smallbiznis/vitrine/internal/subscription/policy"
)

type Service interface {
	Status(ctx context.Context, storeID string) (*StatusResponse, error)
	SimulatePayment(ctx context.Context, req SimulatePaymentRequest) (*TransitionResponse, error)
	ExtendPending(ctx context.Context, storeID string) (*TransitionResponse, error)
	MarkPaid(ctx context.Context, storeID string) (*TransitionResponse, error)
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
	Overview(ctx context.Context) ([]OverviewItem, error)
	ListReceipts(ctx context.Context, storeID string) ([]ReceiptResponse, error)
	ReceiptPDF(ctx context.Context, number string) (io.Reader, error)
}

type SimulatePaymentRequest struct {
	Email  string `json:"email"`
	Source string `json:"-"`
}

type CheckoutRequest struct {
	StoreID string `json:"-"`
	PlanID  string `json:"plan_id"`
	Email   string `json:"-"`
}

type StatusResponse struct {
	StoreID            string              `json:"store_id"`
	Plan               plandomain.Plan     `json:"plan"`
	Capabilities       policy.Capabilities `json:"capabilities"`
	State              policy.State        `json:"state"`
	PaymentStatus      string              `json:"payment_status"`
	SubscriptionExpiry *time.Time          `json:"subscription_expiry,omitempty"`
	ExpiryLabel        string              `json:"expiry_label,omitempty"`
	Expired            bool                `json:"expired"`
}

type TransitionResponse struct {
	StoreID            string       `json:"store_id"`
	PlanID             string       `json:"plan_id"`
	PaymentStatus      string       `json:"payment_status"`
	State              policy.State `json:"state"`
	SubscriptionExpiry string       `json:"subscription_expiry"`
	ReceiptNumber      string       `json:"receipt_number,omitempty"`
}

// CheckoutResponse either points the seller to a hosted checkout or reports
// that the plan was switched directly.
type CheckoutResponse struct {
	Mode        string `json:"mode"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	PlanID      string `json:"plan_id"`
}

const (
	CheckoutModeRedirect = "redirect"
	CheckoutModeDirect   = "direct"
)

type OverviewItem struct {
	StoreID            string       `json:"store_id"`
	StoreName          string       `json:"store_name"`
	Slug               string       `json:"slug"`
	PlanID             string       `json:"plan_id"`
	PlanName           string       `json:"plan_name"`
	SubscriptionExpiry *time.Time   `json:"subscription_expiry,omitempty"`
	ExpiryLabel        string       `json:"expiry_label,omitempty"`
	Expired            bool         `json:"expired"`
	PaymentStatus      string       `json:"payment_status"`
	State              policy.State `json:"state"`
}

type ReceiptResponse struct {
	Number      string    `json:"number"`
	StoreID     string    `json:"store_id"`
	PlanID      string    `json:"plan_id"`
	PlanName    string    `json:"plan_name"`
	Amount      int64     `json:"amount"`
	AmountLabel string    `json:"amount_label"`
	Status      string    `json:"status"`
	Source      string    `json:"source"`
	PaidAt      time.Time `json:"paid_at"`
	ValidUntil  time.Time `json:"valid_until"`
}

var (
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrUserNotFound    = errors.New("user_not_found")
	ErrStoreNotFound   = errors.New("store_not_found")
	ErrInvalidStore    = errors.New("invalid_store")
	ErrInvalidPlan     = errors.New("invalid_plan")
	ErrReceiptNotFound = errors.New("receipt_not_found")
	ErrAlreadyOnPlan   = errors.New("already_on_plan")
)
