package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/vitrine/internal/auth/domain"
	"github.com/smallbiznis/vitrine/internal/datastore"
)

type repo struct {
	ds *datastore.Store
}

func Provide(ds *datastore.Store) domain.Repository {
	return &repo{ds: ds}
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := r.ds.Users.Find(func(u domain.User) bool {
		return strings.EqualFold(u.Email, email)
	})
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.ds.Users.Find(func(u domain.User) bool { return u.ID == id })
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *repo) Insert(ctx context.Context, user *domain.User) error {
	return r.ds.Users.Update(func(rows []domain.User) ([]domain.User, error) {
		return append(rows, *user), nil
	})
}
