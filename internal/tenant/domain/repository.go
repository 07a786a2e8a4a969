package domain

import "context"

type Repository interface {
	Insert(ctx context.Context, store *Store) error
	// Mutate runs fn on the stored row under the store write lock and saves
	// the result unless fn fails. It returns nil, nil when id is unknown. fn
	// must not touch other tables.
	Mutate(ctx context.Context, id int64, fn func(*Store) error) (*Store, error)
	FindByID(ctx context.Context, id int64) (*Store, error)
	FindBySlug(ctx context.Context, slug string) (*Store, error)
	FindByOwnerID(ctx context.Context, ownerID int64) (*Store, error)
	List(ctx context.Context) ([]Store, error)
}
