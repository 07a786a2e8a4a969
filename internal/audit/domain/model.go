package domain

import "time"

type ActorType string

const (
	ActorTypeSystem ActorType = "system"
	ActorTypeAdmin  ActorType = "admin"
	ActorTypeSeller ActorType = "seller"
)

const (
	TargetStore       = "store"
	TargetPlan        = "plan"
	TargetIntegration = "integration"
)

// AuditLog records a state-changing action taken on behalf of an actor.
type AuditLog struct {
	ID         int64          `json:"-"`
	ActorType  string         `json:"actor_type"`
	ActorID    string         `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (a AuditLog) Clone() AuditLog {
	if a.Metadata != nil {
		metadata := make(map[string]any, len(a.Metadata))
		for k, v := range a.Metadata {
			metadata[k] = v
		}
		a.Metadata = metadata
	}
	return a
}
