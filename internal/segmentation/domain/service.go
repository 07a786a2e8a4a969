package domain

import (
	"context"
	"time"
)

type Service interface {
	Customers(ctx context.Context, storeID string) ([]CustomerResponse, error)
	Segments(ctx context.Context, storeID string) (*SegmentsResponse, error)
}

type CustomerResponse struct {
	Phone         string    `json:"phone"`
	Name          string    `json:"name"`
	LastOrderDate time.Time `json:"last_order_date"`
	TotalSpent    int64     `json:"total_spent"`
	TotalLabel    string    `json:"total_spent_label"`
	OrderCount    int       `json:"order_count"`
	Recency       int       `json:"recency_days"`
	Frequency     int       `json:"frequency"`
	Monetary      int64     `json:"monetary"`
	Segment       Segment   `json:"segment"`
}

type GroupResponse struct {
	Segment     Segment            `json:"segment"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	Count       int                `json:"count"`
	Customers   []CustomerResponse `json:"customers"`
}

type SegmentsResponse struct {
	EvaluatedAt time.Time       `json:"evaluated_at"`
	Customers   int             `json:"customers"`
	Groups      []GroupResponse `json:"groups"`
}
