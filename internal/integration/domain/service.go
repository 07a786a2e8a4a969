package domain

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const ProviderKiwify = "kiwify"

// SignatureHeader carries the hex HMAC-SHA256 of the webhook body.
const SignatureHeader = "X-Kiwify-Signature"

type Service interface {
	GetKiwify(ctx context.Context) (*KiwifyResponse, error)
	UpdateKiwify(ctx context.Context, req UpdateKiwifyRequest) (*KiwifyResponse, error)
	IngestWebhook(ctx context.Context, payload []byte, headers http.Header) (*WebhookResult, error)
}

type UpdateKiwifyRequest struct {
	Enabled       *bool   `json:"enabled"`
	AccessToken   *string `json:"access_token"`
	WebhookSecret *string `json:"webhook_secret"`
	ProductID     *string `json:"product_id"`
}

// KiwifyResponse never echoes secrets back, only whether they are set.
type KiwifyResponse struct {
	Enabled          bool      `json:"enabled"`
	ProductID        string    `json:"product_id"`
	AccessTokenSet   bool      `json:"access_token_set"`
	WebhookSecretSet bool      `json:"webhook_secret_set"`
	CheckoutReady    bool      `json:"checkout_ready"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WebhookEvent is the subset of a Kiwify order webhook the service reads.
type WebhookEvent struct {
	OrderID     string `json:"order_id"`
	OrderStatus string `json:"order_status"`
	EventType   string `json:"webhook_event_type"`
	Customer    struct {
		Email string `json:"email"`
	} `json:"Customer"`
}

type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Applied   bool   `json:"applied"`
	StoreID   string `json:"store_id,omitempty"`
	ReceiptNo string `json:"receipt_number,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

var (
	ErrIntegrationDisabled   = errors.New("integration_disabled")
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrInvalidProductID      = errors.New("invalid_product_id")
)
