package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Get(ctx context.Context, id string) (*Response, error)
	GetBySlug(ctx context.Context, slug string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	UpdateBranding(ctx context.Context, req UpdateBrandingRequest) (*Response, error)
	SetPaymentMethods(ctx context.Context, req PaymentMethodsRequest) (*Response, error)
	AddCategory(ctx context.Context, storeID, name string) (*Response, error)
	DeleteCategory(ctx context.Context, storeID, name string) (*CategoryDeleteResponse, error)
	RestoreCategory(ctx context.Context, storeID, name string) (*Response, error)
}

type UpdateBrandingRequest struct {
	StoreID string  `json:"-"`
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Logo    *string `json:"logo"`
	Banner  *string `json:"banner"`
}

type PaymentMethodsRequest struct {
	StoreID string   `json:"-"`
	Methods []string `json:"methods"`
}

type Response struct {
	ID                     string     `json:"id"`
	OwnerID                string     `json:"owner_id"`
	Slug                   string     `json:"slug"`
	Name                   string     `json:"name"`
	Phone                  string     `json:"phone"`
	Logo                   string     `json:"logo,omitempty"`
	Banner                 string     `json:"banner,omitempty"`
	Categories             []string   `json:"categories"`
	DeletedCategories      []string   `json:"deleted_categories"`
	AcceptedPaymentMethods []string   `json:"accepted_payment_methods"`
	PlanID                 string     `json:"plan_id"`
	SubscriptionExpiry     *time.Time `json:"subscription_expiry,omitempty"`
	PaymentStatus          string     `json:"payment_status"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// CategoryDeleteResponse reports how many active products still point at the
// removed category.
type CategoryDeleteResponse struct {
	Store          Response `json:"store"`
	ActiveProducts int      `json:"active_products"`
}

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidPhone          = errors.New("invalid_phone")
	ErrInvalidCategory       = errors.New("invalid_category")
	ErrDuplicateCategory     = errors.New("duplicate_category")
	ErrCategoryNotFound      = errors.New("category_not_found")
	ErrInvalidPaymentMethod  = errors.New("invalid_payment_method")
	ErrPaymentMethodRequired = errors.New("payment_method_required")
	ErrBannerNotAllowed      = errors.New("banner_not_allowed")
	ErrNotFound              = errors.New("not_found")
)
