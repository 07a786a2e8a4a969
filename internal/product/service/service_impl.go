package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/format"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	"github.com/smallbiznis/vitrine/internal/product/domain"
	"github.com/smallbiznis/vitrine/internal/subscription/policy"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const placeholderImageURL = "https://via.placeholder.com/400?text="

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Validate *validator.Validate
	Repo     domain.Repository
	Stores   tenantdomain.Repository
	Plans    plandomain.Repository
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	validate *validator.Validate
	repo     domain.Repository
	stores   tenantdomain.Repository
	plans    plandomain.Repository
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("product.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		validate: p.Validate,
		repo:     p.Repo,
		stores:   p.Stores,
		plans:    p.Plans,
		metrics:  p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	storeID, err := parseStoreID(req.StoreID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		if item.Deleted != req.Deleted {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		resp = append(resp, ToResponse(&item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, storeID, id string) (*domain.Response, error) {
	item, err := s.find(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	storeID, err := parseStoreID(req.StoreID)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, mapValidationError(err)
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrInvalidStore
	}
	if len(store.Categories) == 0 {
		return nil, domain.ErrNoCategories
	}

	catalog, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	plan := plandomain.Resolve(catalog, store.PlanID)

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = store.Categories[0]
	}

	now := s.clock.Now().UTC()
	p := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		StoreID:     storeID,
		Name:        req.Name,
		Price:       req.Price,
		Image:       imageOrPlaceholder(req.Image, req.Name),
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	active, err := s.repo.InsertWithinLimit(ctx, p, func(active int) bool {
		return policy.AtProductLimit(plan, active)
	})
	if errors.Is(err, domain.ErrProductLimitReached) {
		s.metrics.RecordPlanLimitDenied(ctx, plan.ID)
		s.log.Info("product limit reached",
			zap.Int64("store_id", storeID),
			zap.String("plan_id", plan.ID),
			zap.Int("active_products", active),
		)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordProductCreated(ctx, plan.ID)
	resp := ToResponse(p)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	var name string
	if req.Name != nil {
		if name = strings.TrimSpace(*req.Name); name == "" {
			return nil, domain.ErrInvalidName
		}
	}
	if req.Price != nil && (*req.Price < 0 || *req.Price > domain.MaxPrice) {
		return nil, domain.ErrInvalidPrice
	}

	return s.mutate(ctx, req.StoreID, req.ID, func(item *domain.Product) {
		if req.Name != nil {
			item.Name = name
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Category != nil {
			if category := strings.TrimSpace(*req.Category); category != "" {
				item.Category = category
			}
		}
		if req.Description != nil {
			item.Description = strings.TrimSpace(*req.Description)
		}
		if req.Image != nil {
			item.Image = imageOrPlaceholder(*req.Image, item.Name)
		}
	})
}

func (s *Service) Delete(ctx context.Context, storeID, id string) (*domain.Response, error) {
	return s.mutate(ctx, storeID, id, func(item *domain.Product) { item.Deleted = true })
}

func (s *Service) Restore(ctx context.Context, storeID, id string) (*domain.Response, error) {
	return s.mutate(ctx, storeID, id, func(item *domain.Product) { item.Deleted = false })
}

// mutate edits the latest stored product so a concurrent edit and delete
// never undo each other.
func (s *Service) mutate(ctx context.Context, storeID, id string, fn func(*domain.Product)) (*domain.Response, error) {
	sid, productID, err := parseIDs(storeID, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	item, err := s.repo.Mutate(ctx, sid, productID, func(item *domain.Product) error {
		fn(item)
		item.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToResponse(item)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, storeID, id string) (*domain.Product, error) {
	sid, productID, err := parseIDs(storeID, id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, sid, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func parseIDs(storeID, id string) (int64, int64, error) {
	sid, err := parseStoreID(storeID)
	if err != nil {
		return 0, 0, err
	}
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, 0, domain.ErrInvalidID
	}
	return sid, productID.Int64(), nil
}

func parseStoreID(value string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidStore
	}
	return id.Int64(), nil
}

func imageOrPlaceholder(image, name string) string {
	if image = strings.TrimSpace(image); image != "" {
		return image
	}
	return placeholderImageURL + strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

func mapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	if verrs[0].Field() == "Price" {
		return domain.ErrInvalidPrice
	}
	return domain.ErrInvalidName
}

func ToResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:          snowflake.ID(p.ID).String(),
		StoreID:     snowflake.ID(p.StoreID).String(),
		Name:        p.Name,
		Price:       p.Price,
		PriceLabel:  format.BRL(p.Price),
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		Deleted:     p.Deleted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
