package repository

import (
	"context"

	"github.com/smallbiznis/vitrine/internal/datastore"
	"github.com/smallbiznis/vitrine/internal/subscription/domain"
)

type repo struct {
	ds *datastore.Store
}

func Provide(ds *datastore.Store) domain.Repository {
	return &repo{ds: ds}
}

func (r *repo) InsertReceipt(ctx context.Context, receipt *domain.Receipt) error {
	return r.ds.Receipts.Update(func(rows []domain.Receipt) ([]domain.Receipt, error) {
		return append(rows, *receipt), nil
	})
}

func (r *repo) FindReceipt(ctx context.Context, number string) (*domain.Receipt, error) {
	rec, ok := r.ds.Receipts.Find(func(rec domain.Receipt) bool { return rec.Number == number })
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) ListReceipts(ctx context.Context, storeID int64) ([]domain.Receipt, error) {
	return r.ds.Receipts.Filter(func(rec domain.Receipt) bool { return rec.StoreID == storeID }), nil
}
