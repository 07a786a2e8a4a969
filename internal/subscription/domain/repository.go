package domain

import "context"

type Repository interface {
	InsertReceipt(ctx context.Context, receipt *Receipt) error
	FindReceipt(ctx context.Context, number string) (*Receipt, error)
	ListReceipts(ctx context.Context, storeID int64) ([]Receipt, error)
}
