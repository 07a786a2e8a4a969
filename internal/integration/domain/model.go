package domain

import (
	"net/url"
	"strings"
	"time"
)

// KiwifySettings configures the Kiwify checkout and webhook integration.
type KiwifySettings struct {
	Enabled       bool
	AccessToken   string
	WebhookSecret string
	ProductID     string
	UpdatedAt     time.Time
}

func (k KiwifySettings) Clone() KiwifySettings { return k }

// CheckoutReady reports whether sellers should be sent to the Kiwify
// checkout instead of switching plans directly.
func (k KiwifySettings) CheckoutReady() bool {
	return k.Enabled && strings.TrimSpace(k.ProductID) != ""
}

// CheckoutURL builds the hosted checkout link for the configured product.
func (k KiwifySettings) CheckoutURL(baseURL, email string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return base + "/" + url.PathEscape(strings.TrimSpace(k.ProductID)) + "?email=" + url.QueryEscape(strings.TrimSpace(email))
}

// EventRecord remembers an approved provider order so a redelivered
// notification is acknowledged without applying the payment twice.
type EventRecord struct {
	Provider    string
	OrderID     string
	EventID     string
	EventType   string
	StoreID     string
	ReceiptNo   string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}

func (e EventRecord) Clone() EventRecord {
	if e.ProcessedAt != nil {
		at := *e.ProcessedAt
		e.ProcessedAt = &at
	}
	return e
}
