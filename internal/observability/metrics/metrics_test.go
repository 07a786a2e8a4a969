package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("plan_id", "pro"),
		attribute.String("customer_phone", "5511999999999"),
		attribute.String("payment_method", "Pix"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "plan_id" && attrs[1].Key != "plan_id" {
		t.Fatalf("expected plan_id to be retained")
	}
	if attrs[0].Key != "payment_method" && attrs[1].Key != "payment_method" {
		t.Fatalf("expected payment_method to be retained")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordProductCreated(context.Background(), "free")
	m.RecordSubscriptionEvent(context.Background(), "simulate_payment", "admin")
	m.RecordWebhookEvent(context.Background(), "kiwify", "order_approved", "applied")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "vitrine"}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.RecordCheckout(context.Background(), "Pix")
	m.RecordSegmentationRun(context.Background())
}
