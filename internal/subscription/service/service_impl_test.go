package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/vitrine/internal/auth/domain"
	authrepo "github.com/smallbiznis/vitrine/internal/auth/repository"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/datastore"
	integrationdomain "github.com/smallbiznis/vitrine/internal/integration/domain"
	integrationrepo "github.com/smallbiznis/vitrine/internal/integration/repository"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	planrepo "github.com/smallbiznis/vitrine/internal/plan/repository"
	productrepo "github.com/smallbiznis/vitrine/internal/product/repository"
	"github.com/smallbiznis/vitrine/internal/providers/pdf"
	"github.com/smallbiznis/vitrine/internal/subscription/domain"
	"github.com/smallbiznis/vitrine/internal/subscription/policy"
	"github.com/smallbiznis/vitrine/internal/subscription/repository"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	tenantrepo "github.com/smallbiznis/vitrine/internal/tenant/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testStoreID int64 = 2001
	testUserID  int64 = 3001
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, expiry *time.Time, status tenantdomain.PaymentStatus) (domain.Service, *datastore.Store) {
	t.Helper()

	ds := datastore.New()
	ds.Plans.Replace([]plandomain.Plan{
		{ID: "free", Name: "Iniciante", Price: 0, Limits: plandomain.Limits{MaxProducts: 10}},
		{ID: "pro", Name: "Profissional", Price: 2990, Limits: plandomain.Limits{MaxProducts: 50, CanCustomizeBanner: true}},
	})
	ds.Users.Replace([]authdomain.User{
		{ID: 1, Name: "Admin", Email: "admin@zap.com", Role: authdomain.RoleAdmin},
		{ID: testUserID, Name: "Loja", Email: "loja@zap.com", Role: authdomain.RoleSeller, StoreID: testStoreID},
	})
	ds.Stores.Replace([]tenantdomain.Store{
		{ID: testStoreID, OwnerID: testUserID, Slug: "moda-style", Name: "Moda Style", PlanID: "free", SubscriptionExpiry: expiry, PaymentStatus: status},
	})

	svc := New(Params{
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(testNow),
		AppCfg:   config.Config{AppName: "vitrine"},
		Cfg:      config.NewStaticSubscriptionConfigHolder(config.DefaultSubscriptionConfig()),
		Repo:     repository.Provide(ds),
		Stores:   tenantrepo.Provide(ds),
		Users:    authrepo.Provide(ds),
		Plans:    planrepo.Provide(ds),
		Products: productrepo.Provide(ds),
		Kiwify:   integrationrepo.Provide(ds),
		PDF:      pdf.New(),
	})
	return svc, ds
}

func at(t time.Time) *time.Time { return &t }

func storeIDString() string { return snowflake.ID(testStoreID).String() }

func loadStore(t *testing.T, ds *datastore.Store) tenantdomain.Store {
	t.Helper()
	st, ok := ds.Stores.Find(func(s tenantdomain.Store) bool { return s.ID == testStoreID })
	require.True(t, ok)
	return st
}

func TestSimulatePaymentFromExpired(t *testing.T) {
	svc, ds := newTestService(t, at(testNow.AddDate(0, 0, -1)), tenantdomain.PaymentStatusPending)

	resp, err := svc.SimulatePayment(context.Background(), domain.SimulatePaymentRequest{Email: "loja@zap.com"})
	require.NoError(t, err)
	assert.Equal(t, "pro", resp.PlanID)
	assert.Equal(t, policy.StatePaidActive, resp.State)
	assert.NotEmpty(t, resp.ReceiptNumber)

	st := loadStore(t, ds)
	require.NotNil(t, st.SubscriptionExpiry)
	assert.True(t, st.SubscriptionExpiry.Equal(testNow.AddDate(0, 0, 30)))
	assert.Equal(t, tenantdomain.PaymentStatusPaid, st.PaymentStatus)
}

func TestSimulatePaymentExtendsActiveExpiry(t *testing.T) {
	svc, ds := newTestService(t, at(testNow.AddDate(0, 0, 10)), tenantdomain.PaymentStatusPaid)

	_, err := svc.SimulatePayment(context.Background(), domain.SimulatePaymentRequest{Email: "LOJA@zap.com "})
	require.NoError(t, err)

	st := loadStore(t, ds)
	assert.True(t, st.SubscriptionExpiry.Equal(testNow.AddDate(0, 0, 40)))
}

func TestSimulatePaymentConcurrentExtensionsAccumulate(t *testing.T) {
	for round := 0; round < 20; round++ {
		svc, ds := newTestService(t, nil, tenantdomain.PaymentStatusPaid)

		const payments = 8
		var wg sync.WaitGroup
		for i := 0; i < payments; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.SimulatePayment(context.Background(), domain.SimulatePaymentRequest{Email: "loja@zap.com"})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		st := loadStore(t, ds)
		require.NotNil(t, st.SubscriptionExpiry)
		require.True(t, st.SubscriptionExpiry.Equal(testNow.AddDate(0, 0, 30*payments)),
			"expiry %s", st.SubscriptionExpiry)
		require.Equal(t, payments, ds.Receipts.Len())
	}
}

func TestSimulatePaymentUnknownEmail(t *testing.T) {
	svc, ds := newTestService(t, nil, tenantdomain.PaymentStatusPaid)
	ctx := context.Background()

	_, err := svc.SimulatePayment(ctx, domain.SimulatePaymentRequest{Email: "ninguem@zap.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.SimulatePayment(ctx, domain.SimulatePaymentRequest{Email: "admin@zap.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.SimulatePayment(ctx, domain.SimulatePaymentRequest{Email: "sem-arroba"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	st := loadStore(t, ds)
	assert.Nil(t, st.SubscriptionExpiry)
	assert.Equal(t, "free", st.PlanID)
}

func TestExtendPendingAndMarkPaid(t *testing.T) {
	svc, ds := newTestService(t, at(testNow.AddDate(0, 0, -5)), tenantdomain.PaymentStatusPaid)
	ctx := context.Background()

	resp, err := svc.ExtendPending(ctx, storeIDString())
	require.NoError(t, err)
	assert.Equal(t, policy.StatePendingActive, resp.State)
	assert.Equal(t, "pro", resp.PlanID)

	st := loadStore(t, ds)
	assert.Equal(t, tenantdomain.PaymentStatusPending, st.PaymentStatus)
	assert.True(t, st.SubscriptionExpiry.Equal(testNow.AddDate(0, 0, 30)))

	resp, err = svc.MarkPaid(ctx, storeIDString())
	require.NoError(t, err)
	assert.Equal(t, policy.StatePaidActive, resp.State)

	st = loadStore(t, ds)
	assert.Equal(t, tenantdomain.PaymentStatusPaid, st.PaymentStatus)
	assert.True(t, st.SubscriptionExpiry.Equal(testNow.AddDate(0, 0, 30)))
}

func TestTransitionsRejectUnknownStore(t *testing.T) {
	svc, _ := newTestService(t, nil, tenantdomain.PaymentStatusPaid)
	ctx := context.Background()

	_, err := svc.MarkPaid(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidStore)

	_, err = svc.ExtendPending(ctx, snowflake.ID(99).String())
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}

func TestCheckoutDirectWithoutIntegration(t *testing.T) {
	svc, ds := newTestService(t, at(testNow.AddDate(0, 0, 3)), tenantdomain.PaymentStatusPaid)

	resp, err := svc.Checkout(context.Background(), domain.CheckoutRequest{StoreID: storeIDString(), PlanID: "pro", Email: "loja@zap.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutModeDirect, resp.Mode)

	st := loadStore(t, ds)
	assert.Equal(t, "pro", st.PlanID)
	assert.True(t, st.SubscriptionExpiry.Equal(testNow.AddDate(0, 0, 3)))
}

func TestCheckoutDirectConcurrentSwitchesOnce(t *testing.T) {
	svc, ds := newTestService(t, at(testNow.AddDate(0, 0, 3)), tenantdomain.PaymentStatusPaid)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		switched int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Checkout(context.Background(), domain.CheckoutRequest{StoreID: storeIDString(), PlanID: "pro", Email: "loja@zap.com"})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrAlreadyOnPlan)
				return
			}
			mu.Lock()
			switched++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, switched)
	assert.Equal(t, "pro", loadStore(t, ds).PlanID)
}

func TestCheckoutRedirectsWhenKiwifyReady(t *testing.T) {
	svc, ds := newTestService(t, nil, tenantdomain.PaymentStatusPaid)
	ds.Kiwify.Set(integrationdomain.KiwifySettings{Enabled: true, ProductID: "prod-1"})

	resp, err := svc.Checkout(context.Background(), domain.CheckoutRequest{StoreID: storeIDString(), PlanID: "pro", Email: "loja@zap.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutModeRedirect, resp.Mode)
	assert.Equal(t, "https://pay.kiwify.com.br/prod-1?email=loja%40zap.com", resp.CheckoutURL)
	assert.Equal(t, "free", loadStore(t, ds).PlanID)
}

func TestCheckoutRejectsUnknownOrCurrentPlan(t *testing.T) {
	svc, _ := newTestService(t, nil, tenantdomain.PaymentStatusPaid)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, domain.CheckoutRequest{StoreID: storeIDString(), PlanID: "gold"})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)

	_, err = svc.Checkout(ctx, domain.CheckoutRequest{StoreID: storeIDString(), PlanID: "free"})
	assert.ErrorIs(t, err, domain.ErrAlreadyOnPlan)
}

func TestStatusAndOverview(t *testing.T) {
	svc, ds := newTestService(t, at(testNow.AddDate(0, 0, -1)), tenantdomain.PaymentStatusPaid)
	ds.Stores.Update(func(rows []tenantdomain.Store) ([]tenantdomain.Store, error) {
		return append(rows, tenantdomain.Store{ID: 2002, Slug: "outra", Name: "Outra", PlanID: "legacy"}), nil
	})
	ctx := context.Background()

	status, err := svc.Status(ctx, storeIDString())
	require.NoError(t, err)
	assert.Equal(t, policy.StateExpired, status.State)
	assert.True(t, status.Expired)
	assert.Equal(t, "31/05/2024", status.ExpiryLabel)
	assert.Equal(t, 10, status.Capabilities.MaxProducts)

	items, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Iniciante", items[0].PlanName)
	assert.Equal(t, "legacy", items[1].PlanName)
	assert.True(t, items[1].Expired)
}

func TestReceiptIssuedAndRendered(t *testing.T) {
	svc, _ := newTestService(t, nil, tenantdomain.PaymentStatusPending)
	ctx := context.Background()

	resp, err := svc.SimulatePayment(ctx, domain.SimulatePaymentRequest{Email: "loja@zap.com"})
	require.NoError(t, err)

	receipts, err := svc.ListReceipts(ctx, storeIDString())
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, resp.ReceiptNumber, receipts[0].Number)
	assert.Equal(t, int64(2990), receipts[0].Amount)
	assert.Equal(t, "Profissional", receipts[0].PlanName)
	assert.Equal(t, domain.SourceAdmin, receipts[0].Source)

	r, err := svc.ReceiptPDF(ctx, resp.ReceiptNumber)
	require.NoError(t, err)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	_, err = svc.ReceiptPDF(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
}
