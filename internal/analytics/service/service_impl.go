package service

import (
	"context"

	"github.com/smallbiznis/vitrine/internal/analytics/domain"
	"github.com/smallbiznis/vitrine/internal/analytics/kpi"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/format"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Orders  orderdomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	orders  orderdomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("analytics.service"),
		clock:   p.Clock,
		orders:  p.Orders,
		metrics: p.Metrics,
	}
}

func (s *Service) Summary(ctx context.Context, storeID string, period string) (*domain.Response, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	items, err := s.orders.ListRecords(ctx, storeID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAnalyticsQuery(ctx, string(p))
	summary := kpi.Summarize(items, p, s.clock.Now())
	return &domain.Response{
		Summary:            summary,
		TotalSalesLabel:    format.BRL(summary.TotalSales),
		AverageTicketLabel: format.BRL(summary.AverageTicket),
	}, nil
}
