package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/format"
	"github.com/smallbiznis/vitrine/internal/order/domain"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Validate *validator.Validate
	Repo     domain.Repository
	Stores   tenantdomain.Repository
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	validate *validator.Validate
	repo     domain.Repository
	stores   tenantdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("order.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		validate: p.Validate,
		repo:     p.Repo,
		stores:   p.Stores,
	}
}

// ListRecords returns the store's orders in insertion order.
func (s *Service) ListRecords(ctx context.Context, storeID string) ([]domain.Order, error) {
	id, err := s.storeID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStore(ctx, id)
}

// List returns the store's orders, most recent first.
func (s *Service) List(ctx context.Context, storeID string) ([]domain.Response, error) {
	items, err := s.ListRecords(ctx, storeID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (*domain.Response, error) {
	storeID, err := s.storeID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if err := s.validate.Struct(req); err != nil {
		return nil, mapValidationError(err)
	}

	status := req.Status
	if status == "" {
		status = domain.StatusCompleted
	}
	if !domain.IsStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	items := make([]domain.Item, 0, len(req.Items))
	var sum int64
	for _, it := range req.Items {
		var productID int64
		if strings.TrimSpace(it.ProductID) != "" {
			parsed, err := snowflake.ParseString(strings.TrimSpace(it.ProductID))
			if err != nil {
				return nil, domain.ErrInvalidItems
			}
			productID = parsed.Int64()
		}
		items = append(items, domain.Item{
			ProductID: productID,
			Name:      strings.TrimSpace(it.Name),
			Size:      strings.TrimSpace(it.Size),
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
		sum += int64(it.Quantity) * it.Price
	}

	total := sum
	if req.Total != nil {
		if *req.Total < 0 {
			return nil, domain.ErrInvalidTotal
		}
		total = *req.Total
	}

	date := s.clock.Now()
	if req.Date != nil {
		date = *req.Date
	}

	o := &domain.Order{
		ID:            s.genID.Generate().Int64(),
		StoreID:       storeID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Date:          date,
		Total:         total,
		Items:         items,
		Status:        status,
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, err
	}

	s.log.Info("order recorded", zap.Int64("store_id", storeID), zap.Int64("order_id", o.ID))
	resp := toResponse(o)
	return &resp, nil
}

func (s *Service) storeID(ctx context.Context, value string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidStore
	}
	store, err := s.stores.FindByID(ctx, id.Int64())
	if err != nil {
		return 0, err
	}
	if store == nil {
		return 0, domain.ErrInvalidStore
	}
	return id.Int64(), nil
}

func mapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "CustomerName", "CustomerPhone":
		return domain.ErrInvalidCustomer
	default:
		return domain.ErrInvalidItems
	}
}

func toResponse(o *domain.Order) domain.Response {
	items := make([]domain.ItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		item := domain.ItemResponse{
			Name:     it.Name,
			Size:     it.Size,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
		if it.ProductID != 0 {
			item.ProductID = snowflake.ID(it.ProductID).String()
		}
		items = append(items, item)
	}

	return domain.Response{
		ID:            snowflake.ID(o.ID).String(),
		StoreID:       snowflake.ID(o.StoreID).String(),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Date:          o.Date,
		DateLabel:     format.Date(o.Date),
		Total:         o.Total,
		TotalLabel:    format.BRL(o.Total),
		Status:        o.Status,
		Items:         items,
	}
}
