package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, storeID, id string) (*Response, error)
	Restore(ctx context.Context, storeID, id string) (*Response, error)
	Get(ctx context.Context, storeID, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

// MaxPrice bounds a product price in centavos so cart totals stay well inside int64.
const MaxPrice int64 = 100_000_000

type ListRequest struct {
	StoreID string
	Deleted bool
	Query   string
}

type CreateRequest struct {
	StoreID     string `json:"-"`
	Name        string `json:"name" validate:"required"`
	Price       int64  `json:"price" validate:"gte=0,lte=100000000"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type UpdateRequest struct {
	StoreID     string  `json:"-"`
	ID          string  `json:"-"`
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type Response struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	PriceLabel  string    `json:"price_label"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrInvalidStore        = errors.New("invalid_store")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrNoCategories        = errors.New("no_categories")
	ErrProductLimitReached = errors.New("plan_limit_reached")
	ErrNotFound            = errors.New("not_found")
)
