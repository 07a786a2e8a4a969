package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/vitrine/internal/analytics"
	analyticsdomain "github.com/smallbiznis/vitrine/internal/analytics/domain"
	"github.com/smallbiznis/vitrine/internal/audit"
	auditdomain "github.com/smallbiznis/vitrine/internal/audit/domain"
	"github.com/smallbiznis/vitrine/internal/auth"
	authdomain "github.com/smallbiznis/vitrine/internal/auth/domain"
	"github.com/smallbiznis/vitrine/internal/authorization"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/integration"
	integrationdomain "github.com/smallbiznis/vitrine/internal/integration/domain"
	"github.com/smallbiznis/vitrine/internal/observability"
	obslogger "github.com/smallbiznis/vitrine/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/vitrine/internal/observability/metrics"
	obstracing "github.com/smallbiznis/vitrine/internal/observability/tracing"
	"github.com/smallbiznis/vitrine/internal/order"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	"github.com/smallbiznis/vitrine/internal/plan"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	"github.com/smallbiznis/vitrine/internal/product"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	"github.com/smallbiznis/vitrine/internal/providers"
	"github.com/smallbiznis/vitrine/internal/ratelimit"
	"github.com/smallbiznis/vitrine/internal/segmentation"
	segmentationdomain "github.com/smallbiznis/vitrine/internal/segmentation/domain"
	"github.com/smallbiznis/vitrine/internal/storefront"
	storefrontdomain "github.com/smallbiznis/vitrine/internal/storefront/domain"
	"github.com/smallbiznis/vitrine/internal/subscription"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	"github.com/smallbiznis/vitrine/internal/tenant"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	providers.Module,
	ratelimit.Module,
	audit.Module,
	authorization.Module,
	auth.Module,
	plan.Module,
	tenant.Module,
	product.Module,
	order.Module,
	analytics.Module,
	segmentation.Module,
	subscription.Module,
	integration.Module,
	storefront.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	if httpMetrics != nil {
		r.Use(httpMetrics.GinMiddleware())
	}
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if httpMetrics != nil {
		r.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
	}

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, s *Server) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	authSvc         authdomain.Service
	authzSvc        authorization.Service
	auditSvc        auditdomain.Service
	planSvc         plandomain.Service
	storeSvc        tenantdomain.Service
	productSvc      productdomain.Service
	orderSvc        orderdomain.Service
	analyticsSvc    analyticsdomain.Service
	segmentationSvc segmentationdomain.Service
	subscriptionSvc subscriptiondomain.Service
	integrationSvc  integrationdomain.Service
	storefrontSvc   storefrontdomain.Service
	limiter         *ratelimit.RequestLimiter
	metrics         *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	AuthSvc         authdomain.Service
	AuthzSvc        authorization.Service
	AuditSvc        auditdomain.Service
	PlanSvc         plandomain.Service
	StoreSvc        tenantdomain.Service
	ProductSvc      productdomain.Service
	OrderSvc        orderdomain.Service
	AnalyticsSvc    analyticsdomain.Service
	SegmentationSvc segmentationdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	IntegrationSvc  integrationdomain.Service
	StorefrontSvc   storefrontdomain.Service
	Limiter         *ratelimit.RequestLimiter `optional:"true"`
	Metrics         *obsmetrics.Metrics       `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		authSvc:         p.AuthSvc,
		authzSvc:        p.AuthzSvc,
		auditSvc:        p.AuditSvc,
		planSvc:         p.PlanSvc,
		storeSvc:        p.StoreSvc,
		productSvc:      p.ProductSvc,
		orderSvc:        p.OrderSvc,
		analyticsSvc:    p.AnalyticsSvc,
		segmentationSvc: p.SegmentationSvc,
		subscriptionSvc: p.SubscriptionSvc,
		integrationSvc:  p.IntegrationSvc,
		storefrontSvc:   p.StorefrontSvc,
		limiter:         p.Limiter,
		metrics:         p.Metrics,
	}

	svc.registerAuthRoutes()
	svc.registerStorefrontRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()
	svc.registerWebhookRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.rateLimited(ratelimit.ScopeLogin), s.Login)
	auth.GET("/me", s.ActorRequired(), s.Me)
}

func (s *Server) registerStorefrontRoutes() {
	store := s.engine.Group("/s/:slug")

	store.GET("", s.GetStorefront)
	store.GET("/products", s.ListStorefrontProducts)
	store.POST("/checkout", s.rateLimited(ratelimit.ScopeCheckout), s.StorefrontCheckout)
	store.GET("/qr.png", s.StorefrontQRCode)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/stores/:store_id")
	api.Use(s.ActorRequired())

	// -------- Store --------
	api.GET("", s.authorize(authorization.ObjectStore, authorization.ActionView), s.GetStore)
	api.PATCH("", s.authorize(authorization.ObjectStore, authorization.ActionUpdate), s.UpdateStore)
	api.PUT("/payment-methods", s.authorize(authorization.ObjectStore, authorization.ActionUpdate), s.SetPaymentMethods)
	api.POST("/categories", s.authorize(authorization.ObjectStore, authorization.ActionUpdate), s.AddCategory)
	api.DELETE("/categories/:name", s.authorize(authorization.ObjectStore, authorization.ActionUpdate), s.DeleteCategory)
	api.POST("/categories/:name/restore", s.authorize(authorization.ObjectStore, authorization.ActionUpdate), s.RestoreCategory)

	// -------- Products --------
	api.GET("/products", s.authorize(authorization.ObjectProduct, authorization.ActionView), s.ListProducts)
	api.POST("/products", s.authorize(authorization.ObjectProduct, authorization.ActionCreate), s.CreateProduct)
	api.GET("/products/trash", s.authorize(authorization.ObjectProduct, authorization.ActionView), s.ListDeletedProducts)
	api.GET("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionView), s.GetProduct)
	api.PATCH("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionUpdate), s.UpdateProduct)
	api.DELETE("/products/:id", s.authorize(authorization.ObjectProduct, authorization.ActionDelete), s.DeleteProduct)
	api.POST("/products/:id/restore", s.authorize(authorization.ObjectProduct, authorization.ActionUpdate), s.RestoreProduct)

	// -------- Orders & insights --------
	api.GET("/orders", s.authorize(authorization.ObjectOrder, authorization.ActionView), s.ListOrders)
	api.POST("/orders", s.authorize(authorization.ObjectOrder, authorization.ActionCreate), s.RecordOrder)
	api.GET("/analytics", s.authorize(authorization.ObjectAnalytics, authorization.ActionView), s.GetAnalytics)
	api.GET("/customers", s.authorize(authorization.ObjectSegment, authorization.ActionView), s.ListCustomerMetrics)
	api.GET("/customers/segments", s.authorize(authorization.ObjectSegment, authorization.ActionView), s.GetCustomerSegments)

	// -------- Subscription --------
	api.GET("/subscription", s.authorize(authorization.ObjectSubscription, authorization.ActionView), s.GetSubscription)
	api.POST("/subscription/checkout", s.authorize(authorization.ObjectSubscription, authorization.ActionCheckout), s.SubscriptionCheckout)
	api.GET("/subscription/receipts", s.authorize(authorization.ObjectSubscription, authorization.ActionView), s.ListReceipts)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.ActorRequired())

	admin.GET("/stores", s.authorize(authorization.ObjectStore, authorization.ActionList), s.ListStoreOverview)
	admin.POST("/stores/:store_id/subscription/extend-pending", s.authorize(authorization.ObjectSubscription, authorization.ActionManage), s.ExtendPending)
	admin.POST("/stores/:store_id/subscription/mark-paid", s.authorize(authorization.ObjectSubscription, authorization.ActionManage), s.MarkPaid)

	admin.GET("/plans", s.authorize(authorization.ObjectPlan, authorization.ActionView), s.ListPlans)
	admin.PUT("/plans", s.authorize(authorization.ObjectPlan, authorization.ActionManage), s.ReplacePlans)
	admin.PUT("/plans/:id", s.authorize(authorization.ObjectPlan, authorization.ActionManage), s.UpsertPlan)
	admin.DELETE("/plans/:id", s.authorize(authorization.ObjectPlan, authorization.ActionManage), s.DeletePlan)

	admin.GET("/integrations/kiwify", s.authorize(authorization.ObjectIntegration, authorization.ActionView), s.GetKiwify)
	admin.PUT("/integrations/kiwify", s.authorize(authorization.ObjectIntegration, authorization.ActionUpdate), s.UpdateKiwify)
	admin.POST("/integrations/kiwify/simulate", s.authorize(authorization.ObjectSubscription, authorization.ActionManage), s.SimulatePayment)

	admin.GET("/receipts/:number/pdf", s.authorize(authorization.ObjectReceipt, authorization.ActionView), s.DownloadReceipt)

	admin.GET("/audit-logs", s.authorize(authorization.ObjectAudit, authorization.ActionList), s.ListAuditLogs)
}

func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/webhooks/kiwify", s.rateLimited(ratelimit.ScopeWebhook), s.KiwifyWebhook)
}
