package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context, storeID string) ([]Response, error)
	ListRecords(ctx context.Context, storeID string) ([]Order, error)
	Record(ctx context.Context, req RecordRequest) (*Response, error)
}

type RecordItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name" validate:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=999"`
	Price     int64  `json:"price" validate:"gte=0,lte=100000000"`
}

type RecordRequest struct {
	StoreID       string       `json:"-"`
	CustomerName  string       `json:"customer_name" validate:"required"`
	CustomerPhone string       `json:"customer_phone" validate:"required"`
	Date          *time.Time   `json:"date"`
	Total         *int64       `json:"total"`
	Status        Status       `json:"status"`
	Items         []RecordItem `json:"items" validate:"required,min=1,max=100,dive"`
}

type ItemResponse struct {
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type Response struct {
	ID            string         `json:"id"`
	StoreID       string         `json:"store_id"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	Date          time.Time      `json:"date"`
	DateLabel     string         `json:"date_label"`
	Total         int64          `json:"total"`
	TotalLabel    string         `json:"total_label"`
	Status        Status         `json:"status"`
	Items         []ItemResponse `json:"items"`
}

var (
	ErrInvalidStore    = errors.New("invalid_store")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidItems    = errors.New("invalid_items")
	ErrInvalidTotal    = errors.New("invalid_total")
	ErrInvalidStatus   = errors.New("invalid_status")
)
