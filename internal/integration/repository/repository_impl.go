package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/vitrine/internal/datastore"
	"github.com/smallbiznis/vitrine/internal/integration/domain"
)

type repo struct {
	ds *datastore.Store
}

func Provide(ds *datastore.Store) domain.Repository {
	return &repo{ds: ds}
}

func (r *repo) GetKiwify(ctx context.Context) (domain.KiwifySettings, error) {
	return r.ds.Kiwify.Get(), nil
}

func (r *repo) SaveKiwify(ctx context.Context, settings domain.KiwifySettings) error {
	r.ds.Kiwify.Set(settings)
	return nil
}

func (r *repo) InsertEvent(ctx context.Context, record *domain.EventRecord) error {
	return r.ds.WebhookEvents.Update(func(rows []domain.EventRecord) ([]domain.EventRecord, error) {
		for _, row := range rows {
			if row.Provider == record.Provider && row.OrderID == record.OrderID {
				return nil, domain.ErrEventAlreadyProcessed
			}
		}
		return append(rows, record.Clone()), nil
	})
}

func (r *repo) FindEvent(ctx context.Context, provider, orderID string) (*domain.EventRecord, error) {
	rec, ok := r.ds.WebhookEvents.Find(func(e domain.EventRecord) bool {
		return e.Provider == provider && e.OrderID == orderID
	})
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) MarkEventProcessed(ctx context.Context, provider, orderID, storeID, receiptNo string, at time.Time) error {
	return r.ds.WebhookEvents.Update(func(rows []domain.EventRecord) ([]domain.EventRecord, error) {
		for i := range rows {
			if rows[i].Provider == provider && rows[i].OrderID == orderID {
				rows[i].StoreID = storeID
				rows[i].ReceiptNo = receiptNo
				rows[i].ProcessedAt = &at
			}
		}
		return rows, nil
	})
}

func (r *repo) DeleteEvent(ctx context.Context, provider, orderID string) error {
	return r.ds.WebhookEvents.Update(func(rows []domain.EventRecord) ([]domain.EventRecord, error) {
		out := rows[:0]
		for _, row := range rows {
			if row.Provider != provider || row.OrderID != orderID {
				out = append(out, row)
			}
		}
		return out, nil
	})
}
