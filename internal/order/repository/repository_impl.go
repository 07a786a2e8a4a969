package repository

import (
	"context"

	"github.com/smallbiznis/vitrine/internal/datastore"
	"github.com/smallbiznis/vitrine/internal/order/domain"
)

type repo struct {
	ds *datastore.Store
}

func Provide(ds *datastore.Store) domain.Repository {
	return &repo{ds: ds}
}

func (r *repo) Insert(ctx context.Context, order *domain.Order) error {
	return r.ds.Orders.Update(func(rows []domain.Order) ([]domain.Order, error) {
		return append(rows, order.Clone()), nil
	})
}

func (r *repo) ListByStore(ctx context.Context, storeID int64) ([]domain.Order, error) {
	return r.ds.Orders.Filter(func(o domain.Order) bool {
		return o.StoreID == storeID
	}), nil
}
