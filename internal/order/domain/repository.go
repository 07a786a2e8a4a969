package domain

import "context"

type Repository interface {
	Insert(ctx context.Context, order *Order) error
	ListByStore(ctx context.Context, storeID int64) ([]Order, error)
}
