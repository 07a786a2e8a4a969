package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	auditdomain "github.com/smallbiznis/vitrine/internal/audit/domain"
	"github.com/smallbiznis/vitrine/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Repo     domain.Repository
	Validate *validator.Validate
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	validate *validator.Validate
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("plan.service"),
		repo:     p.Repo,
		validate: p.Validate,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Plan, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Resolve(ctx context.Context, id string) (domain.Plan, error) {
	catalog, err := s.repo.List(ctx)
	if err != nil {
		return domain.Plan{}, err
	}
	return domain.Resolve(catalog, id), nil
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (*domain.Plan, error) {
	p, err := s.toPlan(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, &p); err != nil {
		return nil, err
	}

	s.log.Info("plan saved", zap.String("plan_id", p.ID))
	s.recordAudit(ctx, "plan.upsert", p.ID, map[string]any{"price": p.Price, "max_products": p.Limits.MaxProducts})
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrInvalidID
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.log.Info("plan deleted", zap.String("plan_id", id))
	s.recordAudit(ctx, "plan.delete", id, nil)
	return nil
}

func (s *Service) Replace(ctx context.Context, reqs []domain.UpsertRequest) ([]domain.Plan, error) {
	plans := make([]domain.Plan, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		p, err := s.toPlan(req)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p.ID]; ok {
			return nil, domain.ErrDuplicateID
		}
		seen[p.ID] = struct{}{}
		plans = append(plans, p)
	}

	if err := s.repo.Replace(ctx, plans); err != nil {
		return nil, err
	}

	s.log.Info("plan catalog replaced", zap.Int("plans", len(plans)))
	ids := make([]any, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
	}
	s.recordAudit(ctx, "plan.replace", "", map[string]any{"plan_ids": ids})
	return plans, nil
}

func (s *Service) recordAudit(ctx context.Context, action, planID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:     action,
		TargetType: auditdomain.TargetPlan,
		TargetID:   planID,
		Metadata:   metadata,
	})
}

func (s *Service) toPlan(req domain.UpsertRequest) (domain.Plan, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validate.Struct(req); err != nil {
		return domain.Plan{}, mapValidationError(err)
	}

	features := make([]string, 0, len(req.Features))
	for _, f := range req.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}

	return domain.Plan{
		ID:          req.ID,
		Name:        req.Name,
		Price:       req.Price,
		Description: strings.TrimSpace(req.Description),
		Features:    features,
		Limits:      req.Limits,
		Recommended: req.Recommended,
	}, nil
}

func mapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].StructNamespace() {
	case "UpsertRequest.ID":
		return domain.ErrInvalidID
	case "UpsertRequest.Name":
		return domain.ErrInvalidName
	case "UpsertRequest.Price":
		return domain.ErrInvalidPrice
	default:
		return domain.ErrInvalidLimits
	}
}
