package domain

import "time"

// Receipt records a subscription payment applied to a store. Amount is in
// centavos.
type Receipt struct {
	Number     string
	StoreID    int64
	OwnerEmail string
	PlanID     string
	PlanName   string
	Amount     int64
	Status     string
	Source     string
	PaidAt     time.Time
	ValidUntil time.Time
}

func (r Receipt) Clone() Receipt { return r }

// Sources of a subscription transition.
const (
	SourceAdmin   = "admin"
	SourceWebhook = "webhook"
	SourceSeller  = "seller"
)
