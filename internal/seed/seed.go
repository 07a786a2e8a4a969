// Package seed bootstraps the in-memory datastore: the plan catalog always,
// the demo tenant when enabled.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/smallbiznis/vitrine/internal/auth/domain"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/datastore"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultAdminEmail  = "admin@zap.com"
	defaultAdminName   = "Administrador"
	defaultSellerEmail = "loja@zap.com"
	defaultSellerName  = "Loja Moda Style"
	defaultStoreName   = "Moda Style"
	defaultStorePhone  = "5511999999999"
	defaultStoreLogo   = "https://via.placeholder.com/150"
	defaultStoreBanner = "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=1200&q=80"
	defaultStorePlan   = "free"
	defaultTrialDays   = 30
)

var Module = fx.Module("seed",
	fx.Invoke(Run),
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Cfg   config.Config
	Subs  *config.SubscriptionConfigHolder
	Store *datastore.Store
	GenID *snowflake.Node
	Clock clock.Clock
}

func Run(p Params) error {
	log := p.Log.Named("seed")
	ctx := context.Background()

	if err := EnsurePlans(p.Store, p.Subs.Get()); err != nil {
		return err
	}
	if !p.Cfg.SeedDemoData {
		return nil
	}

	storeSlug := p.Cfg.DefaultStoreSlug
	if storeSlug == "" {
		storeSlug = slug.Make(defaultStoreName)
	}
	if err := EnsureDemoStore(ctx, p.Store, p.GenID, p.Clock.Now(), storeSlug); err != nil {
		return err
	}
	log.Info("demo data ready",
		zap.String("store_slug", storeSlug),
		zap.Int("plans", p.Store.Plans.Len()),
		zap.Int("products", p.Store.Products.Len()),
		zap.Int("orders", p.Store.Orders.Len()),
	)
	return nil
}

// EnsurePlans loads the configured catalog when no plan exists yet.
func EnsurePlans(ds *datastore.Store, cfg config.SubscriptionConfig) error {
	if ds.Plans.Len() > 0 {
		return nil
	}
	plans := make([]plandomain.Plan, 0, len(cfg.Plans))
	for _, p := range cfg.Plans {
		plans = append(plans, plandomain.Plan{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Features:    append([]string(nil), p.Features...),
			Recommended: p.Recommended,
			Limits: plandomain.Limits{
				MaxProducts:        p.Limits.MaxProducts,
				CanCustomizeBanner: p.Limits.CanCustomizeBanner,
				CanUseIntegrations: p.Limits.CanUseIntegrations,
				CanUseCustomDomain: p.Limits.CanUseCustomDomain,
			},
		})
	}
	ds.Plans.Replace(plans)
	return nil
}

// EnsureDemoStore seeds the admin, the demo seller with its store, the
// catalog and a set of past orders. It does nothing when the store exists.
func EnsureDemoStore(ctx context.Context, ds *datastore.Store, node *snowflake.Node, now time.Time, storeSlug string) error {
	if _, ok := ds.Stores.Find(func(s tenantdomain.Store) bool { return s.Slug == storeSlug }); ok {
		return nil
	}

	now = now.UTC()
	adminID := node.Generate().Int64()
	sellerID := node.Generate().Int64()
	storeID := node.Generate().Int64()

	users := []authdomain.User{
		{ID: adminID, Name: defaultAdminName, Email: defaultAdminEmail, Role: authdomain.RoleAdmin, CreatedAt: now},
		{ID: sellerID, Name: defaultSellerName, Email: defaultSellerEmail, Role: authdomain.RoleSeller, StoreID: storeID, CreatedAt: now},
	}
	if err := ds.Users.Update(func(rows []authdomain.User) ([]authdomain.User, error) {
		for _, u := range users {
			if !hasEmail(rows, u.Email) {
				rows = append(rows, u)
			}
		}
		return rows, nil
	}); err != nil {
		return err
	}

	expiry := now.AddDate(0, 0, defaultTrialDays)
	store := tenantdomain.Store{
		ID:                     storeID,
		OwnerID:                sellerID,
		Slug:                   storeSlug,
		Name:                   defaultStoreName,
		Phone:                  defaultStorePhone,
		Logo:                   defaultStoreLogo,
		Banner:                 defaultStoreBanner,
		Categories:             []string{"Camisetas", "Calças", "Vestidos", "Casacos", "Shorts", "Camisas", "Calçados", "Acessórios"},
		AcceptedPaymentMethods: []string{tenantdomain.PaymentMethodPix, tenantdomain.PaymentMethodCreditCard, tenantdomain.PaymentMethodCash},
		PlanID:                 defaultStorePlan,
		SubscriptionExpiry:     &expiry,
		PaymentStatus:          tenantdomain.PaymentStatusPaid,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := ds.Stores.Update(func(rows []tenantdomain.Store) ([]tenantdomain.Store, error) {
		return append(rows, store), nil
	}); err != nil {
		return err
	}

	products, ids := demoProducts(node, storeID, now)
	if err := ds.Products.Update(func(rows []productdomain.Product) ([]productdomain.Product, error) {
		return append(rows, products...), nil
	}); err != nil {
		return err
	}

	orders := demoOrders(node, storeID, ids, now)
	return ds.Orders.Update(func(rows []orderdomain.Order) ([]orderdomain.Order, error) {
		return append(rows, orders...), nil
	})
}

func hasEmail(users []authdomain.User, email string) bool {
	for _, u := range users {
		if u.Email == email {
			return true
		}
	}
	return false
}
