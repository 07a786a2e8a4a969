package domain

import "context"

type Repository interface {
	List(ctx context.Context) ([]Plan, error)
	FindByID(ctx context.Context, id string) (*Plan, error)
	Upsert(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id string) (bool, error)
	Replace(ctx context.Context, plans []Plan) error
}
