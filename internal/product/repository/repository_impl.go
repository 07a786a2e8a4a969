package repository

import (
	"context"

	"github.com/smallbiznis/vitrine/internal/datastore"
	"github.com/smallbiznis/vitrine/internal/product/domain"
)

type repo struct {
	ds *datastore.Store
}

func Provide(ds *datastore.Store) domain.Repository {
	return &repo{ds: ds}
}

func (r *repo) Insert(ctx context.Context, product *domain.Product) error {
	return r.ds.Products.Update(func(rows []domain.Product) ([]domain.Product, error) {
		return append(rows, *product), nil
	})
}

func (r *repo) InsertWithinLimit(ctx context.Context, product *domain.Product, atLimit func(active int) bool) (int, error) {
	var active int
	err := r.ds.Products.Update(func(rows []domain.Product) ([]domain.Product, error) {
		active = 0
		for _, row := range rows {
			if row.StoreID == product.StoreID && !row.Deleted {
				active++
			}
		}
		if atLimit(active) {
			return nil, domain.ErrProductLimitReached
		}
		return append(rows, *product), nil
	})
	return active, err
}

func (r *repo) Mutate(ctx context.Context, storeID, id int64, fn func(*domain.Product) error) (*domain.Product, error) {
	var saved *domain.Product
	err := r.ds.Products.Update(func(rows []domain.Product) ([]domain.Product, error) {
		for i := range rows {
			if rows[i].StoreID != storeID || rows[i].ID != id {
				continue
			}
			if err := fn(&rows[i]); err != nil {
				return nil, err
			}
			row := rows[i].Clone()
			saved = &row
			break
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *repo) FindByID(ctx context.Context, storeID, id int64) (*domain.Product, error) {
	p, ok := r.ds.Products.Find(func(p domain.Product) bool {
		return p.StoreID == storeID && p.ID == id
	})
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) ListByStore(ctx context.Context, storeID int64) ([]domain.Product, error) {
	return r.ds.Products.Filter(func(p domain.Product) bool {
		return p.StoreID == storeID
	}), nil
}

func (r *repo) CountActive(ctx context.Context, storeID int64) (int, error) {
	items := r.ds.Products.Filter(func(p domain.Product) bool {
		return p.StoreID == storeID && !p.Deleted
	})
	return len(items), nil
}

func (r *repo) CountActiveInCategory(ctx context.Context, storeID int64, category string) (int, error) {
	items := r.ds.Products.Filter(func(p domain.Product) bool {
		return p.StoreID == storeID && !p.Deleted && p.Category == category
	})
	return len(items), nil
}
