package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
	auditdomain "github.com/smallbiznis/vitrine/internal/audit/domain"
	"github.com/smallbiznis/vitrine/internal/audit/masking"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/integration/domain"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	eventOrderApproved = "order_approved"
	orderStatusPaid    = "paid"
)

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	Repo          domain.Repository
	Subscriptions subscriptiondomain.Service
	AuditSvc      auditdomain.Service `optional:"true"`
	Metrics       *metrics.Metrics    `optional:"true"`
}

type Service struct {
	log           *zap.Logger
	clock         clock.Clock
	repo          domain.Repository
	subscriptions subscriptiondomain.Service
	auditSvc      auditdomain.Service
	metrics       *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:           p.Log.Named("integration.service"),
		clock:         p.Clock,
		repo:          p.Repo,
		subscriptions: p.Subscriptions,
		auditSvc:      p.AuditSvc,
		metrics:       p.Metrics,
	}
}

func (s *Service) GetKiwify(ctx context.Context) (*domain.KiwifyResponse, error) {
	settings, err := s.repo.GetKiwify(ctx)
	if err != nil {
		return nil, err
	}
	return toResponse(settings), nil
}

func (s *Service) UpdateKiwify(ctx context.Context, req domain.UpdateKiwifyRequest) (*domain.KiwifyResponse, error) {
	settings, err := s.repo.GetKiwify(ctx)
	if err != nil {
		return nil, err
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.AccessToken != nil {
		settings.AccessToken = strings.TrimSpace(*req.AccessToken)
	}
	if req.WebhookSecret != nil {
		settings.WebhookSecret = strings.TrimSpace(*req.WebhookSecret)
	}
	if req.ProductID != nil {
		productID := strings.TrimSpace(*req.ProductID)
		if strings.ContainsAny(productID, "/?# ") {
			return nil, domain.ErrInvalidProductID
		}
		settings.ProductID = productID
	}
	settings.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.SaveKiwify(ctx, settings); err != nil {
		return nil, err
	}

	s.log.Info("kiwify settings updated",
		zap.Bool("enabled", settings.Enabled),
		zap.String("product_id", settings.ProductID),
		zap.Bool("checkout_ready", settings.CheckoutReady()),
	)
	s.recordUpdate(ctx, req)
	return toResponse(settings), nil
}

func (s *Service) recordUpdate(ctx context.Context, req domain.UpdateKiwifyRequest) {
	if s.auditSvc == nil {
		return
	}

	metadata := map[string]any{}
	if req.Enabled != nil {
		metadata["enabled"] = *req.Enabled
	}
	if req.ProductID != nil {
		metadata["product_id"] = strings.TrimSpace(*req.ProductID)
	}
	credentials := map[string]any{}
	if req.AccessToken != nil {
		credentials["access_token"] = *req.AccessToken
	}
	if req.WebhookSecret != nil {
		credentials["webhook_secret"] = *req.WebhookSecret
	}
	for key, value := range masking.Values(credentials) {
		metadata[key] = value
	}

	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:     "integration.kiwify_update",
		TargetType: auditdomain.TargetIntegration,
		TargetID:   "kiwify",
		Metadata:   metadata,
	})
}

// IngestWebhook verifies and applies a Kiwify order notification. Approved
// orders extend the buyer's subscription; other events are acknowledged and
// ignored.
func (s *Service) IngestWebhook(ctx context.Context, payload []byte, headers http.Header) (*domain.WebhookResult, error) {
	settings, err := s.repo.GetKiwify(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled {
		s.metrics.RecordWebhookEvent(ctx, domain.ProviderKiwify, "unknown", "disabled")
		return nil, domain.ErrIntegrationDisabled
	}

	if err := verify(settings.WebhookSecret, payload, headers); err != nil {
		s.metrics.RecordWebhookEvent(ctx, domain.ProviderKiwify, "unknown", "rejected")
		s.log.Warn("kiwify webhook rejected", zap.Error(err))
		return nil, err
	}

	var event domain.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.metrics.RecordWebhookEvent(ctx, domain.ProviderKiwify, "unknown", "invalid")
		return nil, domain.ErrInvalidPayload
	}

	eventType := strings.TrimSpace(event.EventType)
	if eventType == "" {
		eventType = strings.TrimSpace(event.OrderStatus)
	}
	result := &domain.WebhookResult{
		EventID:   ulid.MustNew(ulid.Timestamp(s.clock.Now()), ulid.DefaultEntropy()).String(),
		EventType: eventType,
	}

	if !approved(event) {
		s.metrics.RecordWebhookEvent(ctx, domain.ProviderKiwify, eventType, "ignored")
		s.log.Info("kiwify webhook ignored",
			zap.String("event_id", result.EventID),
			zap.String("event_type", eventType),
			zap.String("order_id", event.OrderID),
		)
		return result, nil
	}

	email := strings.TrimSpace(event.Customer.Email)
	orderID := strings.TrimSpace(event.OrderID)
	if email == "" || orderID == "" {
		s.metrics.RecordWebhookEvent(ctx, domain.ProviderKiwify, eventType, "invalid")
		return nil, domain.ErrInvalidPayload
	}

	now := s.clock.Now().UTC()
	err = s.repo.InsertEvent(ctx, &domain.EventRecord{
		Provider:   domain.ProviderKiwify,
		OrderID:    orderID,
		EventID:    result.EventID,
		EventType:  eventType,
		ReceivedAt: now,
	})
	if errors.Is(err, domain.ErrEventAlreadyProcessed) {
		return s.acknowledgeDuplicate(ctx, result, orderID)
	}
	if err != nil {
		return nil, err
	}

	resp, err := s.subscriptions.SimulatePayment(ctx, subscriptiondomain.SimulatePaymentRequest{
		Email:  email,
		Source: subscriptiondomain.SourceWebhook,
	})
	if err != nil {
		// Release the order so a provider retry can apply it.
		if delErr := s.repo.DeleteEvent(ctx, domain.ProviderKiwify, orderID); delErr != nil {
			s.log.Warn("release kiwify order failed", zap.String("order_id", orderID), zap.Error(delErr))
		}
		status := "failed"
		if errors.Is(err, subscriptiondomain.ErrUserNotFound) || errors.Is(err, subscriptiondomain.ErrStoreNotFound) {
			status = "unmatched"
		}
		s.metrics.RecordWebhookEvent(ctx, domain.ProviderKiwify, eventType, status)
		return nil, err
	}

	if err := s.repo.MarkEventProcessed(ctx, domain.ProviderKiwify, orderID, resp.StoreID, resp.ReceiptNumber, s.clock.Now().UTC()); err != nil {
		s.log.Warn("mark kiwify order processed failed", zap.String("order_id", orderID), zap.Error(err))
	}

	result.Applied = true
	result.StoreID = resp.StoreID
	result.ReceiptNo = resp.ReceiptNumber
	s.metrics.RecordWebhookEvent(ctx, domain.ProviderKiwify, eventType, "applied")
	s.log.Info("kiwify payment applied",
		zap.String("event_id", result.EventID),
		zap.String("order_id", orderID),
		zap.String("store_id", resp.StoreID),
	)
	return result, nil
}

// acknowledgeDuplicate answers a redelivered order with the outcome of the
// first delivery and applies nothing.
func (s *Service) acknowledgeDuplicate(ctx context.Context, result *domain.WebhookResult, orderID string) (*domain.WebhookResult, error) {
	result.Duplicate = true
	existing, err := s.repo.FindEvent(ctx, domain.ProviderKiwify, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		result.EventID = existing.EventID
		result.StoreID = existing.StoreID
		result.ReceiptNo = existing.ReceiptNo
	}
	s.metrics.RecordWebhookEvent(ctx, domain.ProviderKiwify, result.EventType, "duplicate")
	s.log.Info("kiwify webhook already processed",
		zap.String("event_id", result.EventID),
		zap.String("order_id", orderID),
	)
	return result, nil
}

func approved(event domain.WebhookEvent) bool {
	return strings.EqualFold(strings.TrimSpace(event.EventType), eventOrderApproved) ||
		strings.EqualFold(strings.TrimSpace(event.OrderStatus), orderStatusPaid)
}

func verify(secret string, payload []byte, headers http.Header) error {
	if strings.TrimSpace(secret) == "" {
		return domain.ErrInvalidSignature
	}
	signature := strings.TrimSpace(headers.Get(domain.SignatureHeader))
	if signature == "" {
		return domain.ErrInvalidSignature
	}

	expected := Sign(secret, payload)
	if !hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign returns the signature header value for payload.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func toResponse(settings domain.KiwifySettings) *domain.KiwifyResponse {
	return &domain.KiwifyResponse{
		Enabled:          settings.Enabled,
		ProductID:        settings.ProductID,
		AccessTokenSet:   settings.AccessToken != "",
		WebhookSecretSet: settings.WebhookSecret != "",
		CheckoutReady:    settings.CheckoutReady(),
		UpdatedAt:        settings.UpdatedAt,
	}
}
