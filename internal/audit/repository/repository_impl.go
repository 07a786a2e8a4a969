package repository

import (
	"context"
	"sort"

	"github.com/smallbiznis/vitrine/internal/audit/domain"
	"github.com/smallbiznis/vitrine/internal/datastore"
)

// maxEntries bounds the in-memory trail; the oldest entries are dropped first.
const maxEntries = 5000

type repo struct {
	ds *datastore.Store
}

func Provide(ds *datastore.Store) domain.Repository {
	return &repo{ds: ds}
}

func (r *repo) Insert(ctx context.Context, entry *domain.AuditLog) error {
	return r.ds.AuditLogs.Update(func(rows []domain.AuditLog) ([]domain.AuditLog, error) {
		rows = append(rows, entry.Clone())
		if len(rows) > maxEntries {
			rows = rows[len(rows)-maxEntries:]
		}
		return rows, nil
	})
}

func (r *repo) List(ctx context.Context, filter domain.ListFilter) ([]domain.AuditLog, error) {
	items := r.ds.AuditLogs.Filter(func(a domain.AuditLog) bool {
		if filter.Action != "" && a.Action != filter.Action {
			return false
		}
		if filter.TargetType != "" && a.TargetType != filter.TargetType {
			return false
		}
		if filter.TargetID != "" && a.TargetID != filter.TargetID {
			return false
		}
		if filter.ActorType != "" && a.ActorType != filter.ActorType {
			return false
		}
		if filter.StartAt != nil && a.CreatedAt.Before(*filter.StartAt) {
			return false
		}
		if filter.EndAt != nil && a.CreatedAt.After(*filter.EndAt) {
			return false
		}
		return true
	})

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}
