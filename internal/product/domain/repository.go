package domain

import "context"

type Repository interface {
	Insert(ctx context.Context, product *Product) error
	// InsertWithinLimit counts the store's active products and appends product
	// only when atLimit reports false, all under one write lock. It returns the
	// active count seen before the insert.
	InsertWithinLimit(ctx context.Context, product *Product, atLimit func(active int) bool) (int, error)
	// Mutate runs fn on the stored product under the write lock and saves the
	// result unless fn fails. It returns nil, nil when no product matches.
	Mutate(ctx context.Context, storeID, id int64, fn func(*Product) error) (*Product, error)
	FindByID(ctx context.Context, storeID, id int64) (*Product, error)
	ListByStore(ctx context.Context, storeID int64) ([]Product, error)
	CountActive(ctx context.Context, storeID int64) (int, error)
	CountActiveInCategory(ctx context.Context, storeID int64, category string) (int, error)
}
