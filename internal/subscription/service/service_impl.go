package service

import (
	"context"
	"io"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/smallbiznis/vitrine/internal/audit/domain"
	authdomain "github.com/smallbiznis/vitrine/internal/auth/domain"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/format"
	integrationdomain "github.com/smallbiznis/vitrine/internal/integration/domain"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	"github.com/smallbiznis/vitrine/internal/providers/pdf"
	"github.com/smallbiznis/vitrine/internal/subscription/domain"
	"github.com/smallbiznis/vitrine/internal/subscription/policy"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	AppCfg   config.Config
	Cfg      *config.SubscriptionConfigHolder
	Repo     domain.Repository
	Stores   tenantdomain.Repository
	Users    authdomain.Repository
	Plans    plandomain.Repository
	Products productdomain.Repository
	Kiwify   integrationdomain.Repository
	PDF      pdf.Provider
	AuditSvc auditdomain.Service `optional:"true"`
	Metrics  *metrics.Metrics    `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	appName  string
	cfg      *config.SubscriptionConfigHolder
	repo     domain.Repository
	stores   tenantdomain.Repository
	users    authdomain.Repository
	plans    plandomain.Repository
	products productdomain.Repository
	kiwify   integrationdomain.Repository
	pdf      pdf.Provider
	auditSvc auditdomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("subscription.service"),
		clock:    p.Clock,
		appName:  p.AppCfg.AppName,
		cfg:      p.Cfg,
		repo:     p.Repo,
		stores:   p.Stores,
		users:    p.Users,
		plans:    p.Plans,
		products: p.Products,
		kiwify:   p.Kiwify,
		pdf:      p.PDF,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Status(ctx context.Context, storeID string) (*domain.StatusResponse, error) {
	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.products.CountActive(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	caps := policy.Evaluate(catalog, store.PlanID, active)
	resp := &domain.StatusResponse{
		StoreID:            snowflake.ID(store.ID).String(),
		Plan:               caps.Plan,
		Capabilities:       caps,
		State:              policy.DeriveState(*store, now),
		PaymentStatus:      string(store.EffectivePaymentStatus()),
		SubscriptionExpiry: store.SubscriptionExpiry,
		Expired:            !policy.IsActive(store.SubscriptionExpiry, now),
	}
	if store.SubscriptionExpiry != nil {
		resp.ExpiryLabel = format.Date(*store.SubscriptionExpiry)
	}
	return resp, nil
}

// SimulatePayment applies a successful payment to the store owned by the
// seller with the given email.
func (s *Service) SimulatePayment(ctx context.Context, req domain.SimulatePaymentRequest) (*domain.TransitionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != authdomain.RoleSeller || user.StoreID == 0 {
		return nil, domain.ErrUserNotFound
	}

	store, err := s.stores.FindByID(ctx, user.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}

	source := req.Source
	if source == "" {
		source = domain.SourceAdmin
	}

	updated, err := s.transition(ctx, store, policy.TransitionSimulatePayment, source)
	if err != nil {
		return nil, err
	}

	receipt, err := s.issueReceipt(ctx, updated, user.Email, source)
	if err != nil {
		return nil, err
	}

	resp := s.toTransitionResponse(updated)
	resp.ReceiptNumber = receipt.Number
	return resp, nil
}

func (s *Service) ExtendPending(ctx context.Context, storeID string) (*domain.TransitionResponse, error) {
	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, store, policy.TransitionExtendPending, domain.SourceAdmin)
	if err != nil {
		return nil, err
	}
	return s.toTransitionResponse(updated), nil
}

func (s *Service) MarkPaid(ctx context.Context, storeID string) (*domain.TransitionResponse, error) {
	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, store, policy.TransitionMarkPaid, domain.SourceAdmin)
	if err != nil {
		return nil, err
	}
	return s.toTransitionResponse(updated), nil
}

// Checkout sends the seller to the hosted checkout when the integration is
// ready, otherwise switches the plan right away.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	store, err := s.findStore(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	target, ok := plandomain.Lookup(catalog, strings.TrimSpace(req.PlanID))
	if !ok {
		return nil, domain.ErrInvalidPlan
	}
	if target.ID == store.PlanID {
		return nil, domain.ErrAlreadyOnPlan
	}

	settings, err := s.kiwify.GetKiwify(ctx)
	if err != nil {
		return nil, err
	}
	if settings.CheckoutReady() {
		return &domain.CheckoutResponse{
			Mode:        domain.CheckoutModeRedirect,
			CheckoutURL: settings.CheckoutURL(s.cfg.Get().CheckoutBaseURL, req.Email),
			PlanID:      target.ID,
		}, nil
	}

	now := s.clock.Now().UTC()
	store, err = s.stores.Mutate(ctx, store.ID, func(row *tenantdomain.Store) error {
		if row.PlanID == target.ID {
			return domain.ErrAlreadyOnPlan
		}
		row.PlanID = target.ID
		row.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}

	s.metrics.RecordSubscriptionEvent(ctx, "plan_change", domain.SourceSeller)
	s.recordAudit(ctx, "subscription.plan_change", store, domain.SourceSeller)
	s.log.Info("plan changed", zap.Int64("store_id", store.ID), zap.String("plan_id", target.ID))
	return &domain.CheckoutResponse{Mode: domain.CheckoutModeDirect, PlanID: target.ID}, nil
}

func (s *Service) Overview(ctx context.Context) ([]domain.OverviewItem, error) {
	stores, err := s.stores.List(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	items := make([]domain.OverviewItem, 0, len(stores))
	for _, st := range stores {
		planName := st.PlanID
		if p, ok := plandomain.Lookup(catalog, st.PlanID); ok {
			planName = p.Name
		}
		item := domain.OverviewItem{
			StoreID:            snowflake.ID(st.ID).String(),
			StoreName:          st.Name,
			Slug:               st.Slug,
			PlanID:             st.PlanID,
			PlanName:           planName,
			SubscriptionExpiry: st.SubscriptionExpiry,
			Expired:            !policy.IsActive(st.SubscriptionExpiry, now),
			PaymentStatus:      string(st.EffectivePaymentStatus()),
			State:              policy.DeriveState(st, now),
		}
		if st.SubscriptionExpiry != nil {
			item.ExpiryLabel = format.Date(*st.SubscriptionExpiry)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) ListReceipts(ctx context.Context, storeID string) ([]domain.ReceiptResponse, error) {
	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListReceipts(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ReceiptResponse, 0, len(items))
	for _, rec := range items {
		resp = append(resp, domain.ReceiptResponse{
			Number:      rec.Number,
			StoreID:     snowflake.ID(rec.StoreID).String(),
			PlanID:      rec.PlanID,
			PlanName:    rec.PlanName,
			Amount:      rec.Amount,
			AmountLabel: format.BRL(rec.Amount),
			Status:      rec.Status,
			Source:      rec.Source,
			PaidAt:      rec.PaidAt,
			ValidUntil:  rec.ValidUntil,
		})
	}
	return resp, nil
}

func (s *Service) ReceiptPDF(ctx context.Context, number string) (io.Reader, error) {
	rec, err := s.repo.FindReceipt(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrReceiptNotFound
	}

	data := pdf.ReceiptData{
		Number:     rec.Number,
		IssuerName: s.appName,
		OwnerEmail: rec.OwnerEmail,
		PlanName:   rec.PlanName,
		Amount:     format.BRL(rec.Amount),
		DatePaid:   format.Date(rec.PaidAt),
		ValidUntil: format.Date(rec.ValidUntil),
	}
	if store, err := s.stores.FindByID(ctx, rec.StoreID); err == nil && store != nil {
		data.StoreName = store.Name
		data.StoreSlug = store.Slug
	}
	if rec.Source == domain.SourceAdmin {
		data.PaymentNote = "Pagamento registrado manualmente pelo administrador."
	}

	return s.pdf.GenerateReceipt(ctx, data)
}

func (s *Service) transition(ctx context.Context, store *tenantdomain.Store, t policy.Transition, source string) (*tenantdomain.Store, error) {
	cfg := s.cfg.Get()
	now := s.clock.Now()

	// Apply runs against the stored row so concurrent payments extend from
	// each other's expiry.
	updated, err := s.stores.Mutate(ctx, store.ID, func(row *tenantdomain.Store) error {
		*row = policy.Apply(*row, t, cfg.UpgradePlanID, now, cfg.ExtensionDays)
		row.UpdatedAt = now.UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrStoreNotFound
	}

	s.metrics.RecordSubscriptionEvent(ctx, string(t), source)
	s.recordAudit(ctx, "subscription."+string(t), updated, source)
	fields := []zap.Field{
		zap.Int64("store_id", updated.ID),
		zap.String("transition", string(t)),
		zap.String("source", source),
		zap.String("plan_id", updated.PlanID),
	}
	if updated.SubscriptionExpiry != nil {
		fields = append(fields, zap.Time("expiry", *updated.SubscriptionExpiry))
	}
	s.log.Info("subscription updated", fields...)
	return updated, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, store *tenantdomain.Store, source string) {
	if s.auditSvc == nil || store == nil {
		return
	}

	metadata := map[string]any{
		"plan_id":        store.PlanID,
		"payment_status": string(store.EffectivePaymentStatus()),
		"source":         source,
	}
	if store.SubscriptionExpiry != nil {
		metadata["subscription_expiry"] = format.ISO(*store.SubscriptionExpiry)
	}
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:     action,
		TargetType: auditdomain.TargetStore,
		TargetID:   snowflake.ID(store.ID).String(),
		Metadata:   metadata,
	})
}

func (s *Service) issueReceipt(ctx context.Context, store *tenantdomain.Store, email, source string) (*domain.Receipt, error) {
	catalog, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	p := plandomain.Resolve(catalog, store.PlanID)

	now := s.clock.Now()
	rec := &domain.Receipt{
		Number:     ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		StoreID:    store.ID,
		OwnerEmail: email,
		PlanID:     p.ID,
		PlanName:   p.Name,
		Amount:     p.Price,
		Status:     string(tenantdomain.PaymentStatusPaid),
		Source:     source,
		PaidAt:     now,
	}
	if store.SubscriptionExpiry != nil {
		rec.ValidUntil = *store.SubscriptionExpiry
	}
	if err := s.repo.InsertReceipt(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) findStore(ctx context.Context, id string) (*tenantdomain.Store, error) {
	storeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidStore
	}

	store, err := s.stores.FindByID(ctx, storeID.Int64())
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	return store, nil
}

func (s *Service) toTransitionResponse(store *tenantdomain.Store) *domain.TransitionResponse {
	resp := &domain.TransitionResponse{
		StoreID:       snowflake.ID(store.ID).String(),
		PlanID:        store.PlanID,
		PaymentStatus: string(store.EffectivePaymentStatus()),
		State:         policy.DeriveState(*store, s.clock.Now()),
	}
	if store.SubscriptionExpiry != nil {
		resp.SubscriptionExpiry = format.ISO(*store.SubscriptionExpiry)
	}
	return resp
}
