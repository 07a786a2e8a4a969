package domain

import (
	"context"
	"errors"

	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
)

// Service is the public, unauthenticated face of a store.
type Service interface {
	Catalog(ctx context.Context, slug string) (*CatalogResponse, error)
	Products(ctx context.Context, slug, query string) ([]productdomain.Response, error)
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
	QRCode(ctx context.Context, slug string, size int) ([]byte, error)
}

type CatalogResponse struct {
	Slug           string                   `json:"slug"`
	Name           string                   `json:"name"`
	Logo           string                   `json:"logo,omitempty"`
	Banner         string                   `json:"banner,omitempty"`
	Categories     []string                 `json:"categories"`
	PaymentMethods []string                 `json:"payment_methods"`
	URL            string                   `json:"url"`
	Products       []productdomain.Response `json:"products"`
}

type CartItem struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=999"`
}

type Customer struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

type CheckoutRequest struct {
	Slug     string     `json:"-"`
	Customer Customer   `json:"customer"`
	Items    []CartItem `json:"items" validate:"max=100,dive"`
}

type CheckoutResponse struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
	Total       int64  `json:"total"`
	TotalLabel  string `json:"total_label"`
}

var (
	ErrStoreNotFound            = errors.New("store_not_found")
	ErrEmptyCart                = errors.New("empty_cart")
	ErrInvalidQuantity          = errors.New("invalid_quantity")
	ErrCartTooLarge             = errors.New("cart_too_large")
	ErrProductNotFound          = errors.New("product_not_found")
	ErrInvalidCustomer          = errors.New("invalid_customer")
	ErrPaymentMethodNotAccepted = errors.New("payment_method_not_accepted")
	ErrStoreWithoutPhone        = errors.New("store_without_phone")
)
