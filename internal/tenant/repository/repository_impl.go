package repository

import (
	"context"

	"github.com/smallbiznis/vitrine/internal/datastore"
	"github.com/smallbiznis/vitrine/internal/tenant/domain"
)

type repo struct {
	ds *datastore.Store
}

func Provide(ds *datastore.Store) domain.Repository {
	return &repo{ds: ds}
}

func (r *repo) Insert(ctx context.Context, store *domain.Store) error {
	return r.ds.Stores.Update(func(rows []domain.Store) ([]domain.Store, error) {
		return append(rows, store.Clone()), nil
	})
}

func (r *repo) Mutate(ctx context.Context, id int64, fn func(*domain.Store) error) (*domain.Store, error) {
	var saved *domain.Store
	err := r.ds.Stores.Update(func(rows []domain.Store) ([]domain.Store, error) {
		for i := range rows {
			if rows[i].ID != id {
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

func (r *repo) FindByID(ctx context.Context, id int64) (*domain.Store, error) {
	return r.find(func(s domain.Store) bool { return s.ID == id })
}

func (r *repo) FindBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	return r.find(func(s domain.Store) bool { return s.Slug == slug })
}

func (r *repo) FindByOwnerID(ctx context.Context, ownerID int64) (*domain.Store, error) {
	return r.find(func(s domain.Store) bool { return s.OwnerID == ownerID })
}

func (r *repo) List(ctx context.Context) ([]domain.Store, error) {
	return r.ds.Stores.All(), nil
}

func (r *repo) find(fn func(domain.Store) bool) (*domain.Store, error) {
	s, ok := r.ds.Stores.Find(fn)
	if !ok {
		return nil, nil
	}
	return &s, nil
}
