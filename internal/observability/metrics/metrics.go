package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	productsCreated    metric.Int64Counter
	planLimitDenied    metric.Int64Counter
	subscriptionEvents metric.Int64Counter
	segmentationRuns   metric.Int64Counter
	analyticsQueries   metric.Int64Counter
	checkouts          metric.Int64Counter
	webhookEvents      metric.Int64Counter
	rateLimited        metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "vitrine"
	}
	meter := provider.Meter(name)

	productsCreated, err := meter.Int64Counter("vitrine_products_created_total")
	if err != nil {
		return nil, err
	}
	planLimitDenied, err := meter.Int64Counter("vitrine_plan_limit_denied_total")
	if err != nil {
		return nil, err
	}
	subscriptionEvents, err := meter.Int64Counter("vitrine_subscription_events_total")
	if err != nil {
		return nil, err
	}
	segmentationRuns, err := meter.Int64Counter("vitrine_segmentation_runs_total")
	if err != nil {
		return nil, err
	}
	analyticsQueries, err := meter.Int64Counter("vitrine_analytics_queries_total")
	if err != nil {
		return nil, err
	}
	checkouts, err := meter.Int64Counter("vitrine_storefront_checkouts_total")
	if err != nil {
		return nil, err
	}
	webhookEvents, err := meter.Int64Counter("vitrine_webhook_events_total")
	if err != nil {
		return nil, err
	}

	rateLimited, err := meter.Int64Counter("vitrine_rate_limited_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		productsCreated:    productsCreated,
		planLimitDenied:    planLimitDenied,
		subscriptionEvents: subscriptionEvents,
		segmentationRuns:   segmentationRuns,
		analyticsQueries:   analyticsQueries,
		checkouts:          checkouts,
		webhookEvents:      webhookEvents,
		rateLimited:        rateLimited,
	}, nil
}

// RecordProductCreated increments product creation counts.
func (m *Metrics) RecordProductCreated(ctx context.Context, planID string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("plan_id", strings.TrimSpace(planID)))
	m.productsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPlanLimitDenied increments product creations rejected by the plan limit.
func (m *Metrics) RecordPlanLimitDenied(ctx context.Context, planID string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("plan_id", strings.TrimSpace(planID)))
	m.planLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSubscriptionEvent increments subscription cycle transitions.
func (m *Metrics) RecordSubscriptionEvent(ctx context.Context, eventType, source string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("event_type", strings.TrimSpace(eventType)),
		attribute.String("source", strings.TrimSpace(source)),
	)
	m.subscriptionEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordSegmentationRun(ctx context.Context) {
	if m == nil {
		return
	}
	m.segmentationRuns.Add(ctx, 1)
}

func (m *Metrics) RecordAnalyticsQuery(ctx context.Context, period string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("period", strings.TrimSpace(period)))
	m.analyticsQueries.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCheckout increments storefront WhatsApp checkouts.
func (m *Metrics) RecordCheckout(ctx context.Context, paymentMethod string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("payment_method", strings.TrimSpace(paymentMethod)))
	m.checkouts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordWebhookEvent increments inbound payment webhook counts.
func (m *Metrics) RecordWebhookEvent(ctx context.Context, provider, eventType, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("provider", strings.TrimSpace(provider)),
		attribute.String("event_type", strings.TrimSpace(eventType)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.webhookEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimited increments requests rejected by the request limiter.
func (m *Metrics) RecordRateLimited(ctx context.Context, scope string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("scope", strings.TrimSpace(scope)))
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"plan_id":        {},
	"period":         {},
	"payment_method": {},
	"endpoint":       {},
	"status":         {},
	"status_code":    {},
	"provider":       {},
	"event_type":     {},
	"source":         {},
	"scope":          {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
