package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]Plan, error)
	Get(ctx context.Context, id string) (*Plan, error)
	Resolve(ctx context.Context, id string) (Plan, error)
	Upsert(ctx context.Context, req UpsertRequest) (*Plan, error)
	Delete(ctx context.Context, id string) error
	Replace(ctx context.Context, reqs []UpsertRequest) ([]Plan, error)
}

type UpsertRequest struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Price       int64    `json:"price" validate:"gte=0"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Limits      Limits   `json:"limits"`
	Recommended bool     `json:"recommended"`
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidPrice  = errors.New("invalid_price")
	ErrInvalidLimits = errors.New("invalid_limits")
	ErrDuplicateID   = errors.New("duplicate_id")
	ErrNotFound      = errors.New("not_found")
)
