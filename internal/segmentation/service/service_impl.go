package service

import (
	"context"

	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/format"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	"github.com/smallbiznis/vitrine/internal/segmentation/domain"
	"github.com/smallbiznis/vitrine/internal/segmentation/rfm"
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
		log:     p.Log.Named("segmentation.service"),
		clock:   p.Clock,
		orders:  p.Orders,
		metrics: p.Metrics,
	}
}

func (s *Service) Customers(ctx context.Context, storeID string) ([]domain.CustomerResponse, error) {
	items, err := s.orders.ListRecords(ctx, storeID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSegmentationRun(ctx)
	computed := rfm.Compute(items, s.clock.Now())
	return toCustomerResponses(computed), nil
}

func (s *Service) Segments(ctx context.Context, storeID string) (*domain.SegmentsResponse, error) {
	items, err := s.orders.ListRecords(ctx, storeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	s.metrics.RecordSegmentationRun(ctx)
	computed := rfm.Compute(items, now)

	groups := rfm.Group(computed)
	resp := &domain.SegmentsResponse{
		EvaluatedAt: now,
		Customers:   len(computed),
		Groups:      make([]domain.GroupResponse, 0, len(groups)),
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, domain.GroupResponse{
			Segment:     g.Segment,
			Label:       g.Segment.Label(),
			Description: g.Segment.Description(),
			Count:       len(g.Customers),
			Customers:   toCustomerResponses(g.Customers),
		})
	}

	s.log.Debug("customers segmented", zap.String("store_id", storeID), zap.Int("customers", len(computed)))
	return resp, nil
}

func toCustomerResponses(items []domain.CustomerMetric) []domain.CustomerResponse {
	resp := make([]domain.CustomerResponse, 0, len(items))
	for _, m := range items {
		resp = append(resp, domain.CustomerResponse{
			Phone:         m.Phone,
			Name:          m.Name,
			LastOrderDate: m.LastOrderDate,
			TotalSpent:    m.TotalSpent,
			TotalLabel:    format.BRL(m.TotalSpent),
			OrderCount:    m.OrderCount,
			Recency:       m.Recency,
			Frequency:     m.Frequency,
			Monetary:      m.Monetary,
			Segment:       m.Segment,
		})
	}
	return resp
}
