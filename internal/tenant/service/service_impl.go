package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/clock"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	"github.com/smallbiznis/vitrine/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	Products productdomain.Repository
	Plans    plandomain.Repository
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	products productdomain.Repository
	plans    plandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("tenant.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		products: p.Products,
		plans:    p.Plans,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	store, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(store)
	return &resp, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Response, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.ErrNotFound
	}

	store, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToResponse(store)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, ToResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) UpdateBranding(ctx context.Context, req domain.UpdateBrandingRequest) (*domain.Response, error) {
	var catalog []plandomain.Plan
	if req.Banner != nil {
		var err error
		if catalog, err = s.plans.List(ctx); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, req.StoreID, func(store *domain.Store) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return domain.ErrInvalidName
			}
			store.Name = name
		}
		if req.Phone != nil {
			phone := digitsOnly(*req.Phone)
			if phone == "" {
				return domain.ErrInvalidPhone
			}
			store.Phone = phone
		}
		if req.Logo != nil {
			store.Logo = strings.TrimSpace(*req.Logo)
		}
		if req.Banner != nil {
			banner := strings.TrimSpace(*req.Banner)
			if banner != store.Banner && !plandomain.Resolve(catalog, store.PlanID).Limits.CanCustomizeBanner {
				return domain.ErrBannerNotAllowed
			}
			store.Banner = banner
		}
		return nil
	})
}

func (s *Service) SetPaymentMethods(ctx context.Context, req domain.PaymentMethodsRequest) (*domain.Response, error) {
	methods := make([]string, 0, len(req.Methods))
	for _, m := range req.Methods {
		m = strings.TrimSpace(m)
		if !domain.IsPaymentMethod(m) {
			return nil, domain.ErrInvalidPaymentMethod
		}
		if !contains(methods, m) {
			methods = append(methods, m)
		}
	}
	if len(methods) == 0 {
		return nil, domain.ErrPaymentMethodRequired
	}

	return s.mutate(ctx, req.StoreID, func(store *domain.Store) error {
		store.AcceptedPaymentMethods = methods
		return nil
	})
}

func (s *Service) AddCategory(ctx context.Context, storeID, name string) (*domain.Response, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidCategory
	}

	return s.mutate(ctx, storeID, func(store *domain.Store) error {
		if store.HasCategory(name) {
			return domain.ErrDuplicateCategory
		}
		store.Categories = append(store.Categories, name)
		return nil
	})
}

// DeleteCategory moves the category to the deleted list. Products keep their
// category value.
func (s *Service) DeleteCategory(ctx context.Context, storeID, name string) (*domain.CategoryDeleteResponse, error) {
	current, err := s.find(ctx, storeID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	active, err := s.products.CountActiveInCategory(ctx, current.ID, name)
	if err != nil {
		return nil, err
	}

	resp, err := s.mutate(ctx, storeID, func(store *domain.Store) error {
		if !store.HasCategory(name) {
			return domain.ErrCategoryNotFound
		}
		store.Categories = remove(store.Categories, name)
		if !contains(store.DeletedCategories, name) {
			store.DeletedCategories = append(store.DeletedCategories, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if active > 0 {
		s.log.Info("category deleted with active products",
			zap.Int64("store_id", current.ID),
			zap.Int("active_products", active),
		)
	}
	return &domain.CategoryDeleteResponse{Store: *resp, ActiveProducts: active}, nil
}

func (s *Service) RestoreCategory(ctx context.Context, storeID, name string) (*domain.Response, error) {
	name = strings.TrimSpace(name)
	return s.mutate(ctx, storeID, func(store *domain.Store) error {
		if !contains(store.DeletedCategories, name) {
			return domain.ErrCategoryNotFound
		}
		store.DeletedCategories = remove(store.DeletedCategories, name)
		if !store.HasCategory(name) {
			store.Categories = append(store.Categories, name)
		}
		return nil
	})
}

func (s *Service) parseID(id string) (int64, error) {
	storeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return storeID.Int64(), nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Store, error) {
	storeID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

// mutate applies fn to the latest stored row, so concurrent edits of one
// store never overwrite each other.
func (s *Service) mutate(ctx context.Context, id string, fn func(*domain.Store) error) (*domain.Response, error) {
	storeID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	store, err := s.repo.Mutate(ctx, storeID, func(row *domain.Store) error {
		if err := fn(row); err != nil {
			return err
		}
		row.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToResponse(store)
	return &resp, nil
}

// ToResponse renders a store for the API.
func ToResponse(s *domain.Store) domain.Response {
	return domain.Response{
		ID:                     snowflake.ID(s.ID).String(),
		OwnerID:                snowflake.ID(s.OwnerID).String(),
		Slug:                   s.Slug,
		Name:                   s.Name,
		Phone:                  s.Phone,
		Logo:                   s.Logo,
		Banner:                 s.Banner,
		Categories:             nonNil(s.Categories),
		DeletedCategories:      nonNil(s.DeletedCategories),
		AcceptedPaymentMethods: nonNil(s.AcceptedPaymentMethods),
		PlanID:                 s.PlanID,
		SubscriptionExpiry:     s.SubscriptionExpiry,
		PaymentStatus:          string(s.EffectivePaymentStatus()),
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func digitsOnly(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
