package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// Payment methods a store may accept at checkout.
const (
	PaymentMethodPix        = "Pix"
	PaymentMethodCreditCard = "Cartão de Crédito"
	PaymentMethodCash       = "Dinheiro"
)

var PaymentMethods = []string{PaymentMethodPix, PaymentMethodCreditCard, PaymentMethodCash}

func IsPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Store is a tenant of the platform.
type Store struct {
	ID                     int64
	OwnerID                int64
	Slug                   string
	Name                   string
	Phone                  string
	Logo                   string
	Banner                 string
	Categories             []string
	DeletedCategories      []string
	AcceptedPaymentMethods []string
	PlanID                 string
	SubscriptionExpiry     *time.Time
	PaymentStatus          PaymentStatus
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (s Store) Clone() Store {
	s.Categories = cloneStrings(s.Categories)
	s.DeletedCategories = cloneStrings(s.DeletedCategories)
	s.AcceptedPaymentMethods = cloneStrings(s.AcceptedPaymentMethods)
	if s.SubscriptionExpiry != nil {
		expiry := *s.SubscriptionExpiry
		s.SubscriptionExpiry = &expiry
	}
	return s
}

// EffectivePaymentStatus treats an unset status as paid.
func (s Store) EffectivePaymentStatus() PaymentStatus {
	if s.PaymentStatus == "" {
		return PaymentStatusPaid
	}
	return s.PaymentStatus
}

func (s Store) HasCategory(name string) bool {
	for _, c := range s.Categories {
		if c == name {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
