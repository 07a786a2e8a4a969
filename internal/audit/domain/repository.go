package domain

import (
	"context"
	"time"
)

type ListFilter struct {
	Action     string
	TargetType string
	TargetID   string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
	Limit      int
}

type Repository interface {
	Insert(ctx context.Context, entry *AuditLog) error
	// List returns matching entries newest first.
	List(ctx context.Context, filter ListFilter) ([]AuditLog, error)
}
