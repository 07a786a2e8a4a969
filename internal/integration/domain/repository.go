package domain

import (
	"context"
	"time"
)

type Repository interface {
	GetKiwify(ctx context.Context) (KiwifySettings, error)
	SaveKiwify(ctx context.Context, settings KiwifySettings) error

	// InsertEvent claims provider+order id. It returns ErrEventAlreadyProcessed
	// when the order was claimed before.
	InsertEvent(ctx context.Context, record *EventRecord) error
	FindEvent(ctx context.Context, provider, orderID string) (*EventRecord, error)
	MarkEventProcessed(ctx context.Context, provider, orderID, storeID, receiptNo string, at time.Time) error
	DeleteEvent(ctx context.Context, provider, orderID string) error
}
