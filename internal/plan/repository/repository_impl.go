package repository

import (
	"context"

	"github.com/smallbiznis/vitrine/internal/datastore"
	"github.com/smallbiznis/vitrine/internal/plan/domain"
)

type repo struct {
	ds *datastore.Store
}

func Provide(ds *datastore.Store) domain.Repository {
	return &repo{ds: ds}
}

func (r *repo) List(ctx context.Context) ([]domain.Plan, error) {
	return r.ds.Plans.All(), nil
}

func (r *repo) FindByID(ctx context.Context, id string) (*domain.Plan, error) {
	p, ok := r.ds.Plans.Find(func(p domain.Plan) bool { return p.ID == id })
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) Upsert(ctx context.Context, plan *domain.Plan) error {
	return r.ds.Plans.Update(func(rows []domain.Plan) ([]domain.Plan, error) {
		for i := range rows {
			if rows[i].ID == plan.ID {
				rows[i] = plan.Clone()
				return rows, nil
			}
		}
		return append(rows, plan.Clone()), nil
	})
}

func (r *repo) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.ds.Plans.Update(func(rows []domain.Plan) ([]domain.Plan, error) {
		out := rows[:0]
		for _, p := range rows {
			if p.ID == id {
				deleted = true
				continue
			}
			out = append(out, p)
		}
		return out, nil
	})
	return deleted, err
}

func (r *repo) Replace(ctx context.Context, plans []domain.Plan) error {
	r.ds.Plans.Replace(plans)
	return nil
}
