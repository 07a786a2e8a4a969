// Package policy holds the subscription rules applied to a store: plan
// capabilities, the product limit and the expiry cycle.
package policy

import (
	"time"

	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
)

const DefaultExtensionDays = 30

type State string

const (
	StatePaidActive    State = "paid_active"
	StatePendingActive State = "pending_active"
	StateExpired       State = "expired"
)

// Capabilities is what a store may do under its resolved plan.
type Capabilities struct {
	Plan               plandomain.Plan `json:"plan"`
	ActiveProducts     int             `json:"active_products"`
	MaxProducts        int             `json:"max_products"`
	AtProductLimit     bool            `json:"at_product_limit"`
	CanCustomizeBanner bool            `json:"can_customize_banner"`
	CanUseIntegrations bool            `json:"can_use_integrations"`
	CanUseCustomDomain bool            `json:"can_use_custom_domain"`
}

// Evaluate resolves the store's plan against the catalog and derives its
// capabilities for the given number of active products.
func Evaluate(catalog []plandomain.Plan, planID string, activeProducts int) Capabilities {
	p := plandomain.Resolve(catalog, planID)
	return Capabilities{
		Plan:               p,
		ActiveProducts:     activeProducts,
		MaxProducts:        p.Limits.MaxProducts,
		AtProductLimit:     AtProductLimit(p, activeProducts),
		CanCustomizeBanner: p.Limits.CanCustomizeBanner,
		CanUseIntegrations: p.Limits.CanUseIntegrations,
		CanUseCustomDomain: p.Limits.CanUseCustomDomain,
	}
}

func AtProductLimit(p plandomain.Plan, activeProducts int) bool {
	return activeProducts >= p.Limits.MaxProducts
}

// ExtendExpiry adds days to the current expiry, or to now when the current
// expiry is missing or already in the past.
func ExtendExpiry(current *time.Time, now time.Time, days int) time.Time {
	base := now
	if current != nil && !current.Before(now) {
		base = *current
	}
	return base.AddDate(0, 0, days)
}

func IsActive(expiry *time.Time, now time.Time) bool {
	return expiry != nil && !expiry.Before(now)
}

// DeriveState reports where the store sits in the subscription cycle.
func DeriveState(store tenantdomain.Store, now time.Time) State {
	if !IsActive(store.SubscriptionExpiry, now) {
		return StateExpired
	}
	if store.EffectivePaymentStatus() == tenantdomain.PaymentStatusPending {
		return StatePendingActive
	}
	return StatePaidActive
}

// Transition is a subscription cycle event.
type Transition string

const (
	TransitionSimulatePayment Transition = "simulate_payment"
	TransitionExtendPending   Transition = "extend_pending"
	TransitionMarkPaid        Transition = "mark_paid"
)

// Apply returns a copy of store with the transition applied.
func Apply(store tenantdomain.Store, t Transition, upgradePlanID string, now time.Time, days int) tenantdomain.Store {
	out := store.Clone()
	switch t {
	case TransitionSimulatePayment:
		expiry := ExtendExpiry(store.SubscriptionExpiry, now, days)
		out.SubscriptionExpiry = &expiry
		out.PlanID = upgradePlanID
		out.PaymentStatus = tenantdomain.PaymentStatusPaid
	case TransitionExtendPending:
		expiry := ExtendExpiry(store.SubscriptionExpiry, now, days)
		out.SubscriptionExpiry = &expiry
		out.PlanID = upgradePlanID
		out.PaymentStatus = tenantdomain.PaymentStatusPending
	case TransitionMarkPaid:
		out.PaymentStatus = tenantdomain.PaymentStatusPaid
	}
	return out
}
