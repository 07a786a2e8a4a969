package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/datastore"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	planrepo "github.com/smallbiznis/vitrine/internal/plan/repository"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	productrepo "github.com/smallbiznis/vitrine/internal/product/repository"
	"github.com/smallbiznis/vitrine/internal/tenant/domain"
	"github.com/smallbiznis/vitrine/internal/tenant/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testStoreID int64 = 2001

var testStoreKey = snowflake.ID(testStoreID).String()

func newTestService(t *testing.T, planID string) (domain.Service, *datastore.Store) {
	t.Helper()

	ds := datastore.New()
	ds.Plans.Replace([]plandomain.Plan{
		{ID: "free", Limits: plandomain.Limits{MaxProducts: 10}},
		{ID: "pro", Limits: plandomain.Limits{MaxProducts: 50, CanCustomizeBanner: true}},
	})
	ds.Stores.Replace([]domain.Store{{
		ID:                     testStoreID,
		Slug:                   "moda-style",
		Name:                   "Moda Style",
		Phone:                  "5511999999999",
		PlanID:                 planID,
		Categories:             []string{"Camisetas", "Calças"},
		AcceptedPaymentMethods: []string{domain.PaymentMethodPix},
	}})

	svc := New(Params{
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
		Repo:     repository.Provide(ds),
		Products: productrepo.Provide(ds),
		Plans:    planrepo.Provide(ds),
	})
	return svc, ds
}

func TestAddCategory(t *testing.T) {
	svc, _ := newTestService(t, "free")
	ctx := context.Background()

	resp, err := svc.AddCategory(ctx, testStoreKey, "  Bonés ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Camisetas", "Calças", "Bonés"}, resp.Categories)

	_, err = svc.AddCategory(ctx, testStoreKey, "Camisetas")
	assert.ErrorIs(t, err, domain.ErrDuplicateCategory)

	_, err = svc.AddCategory(ctx, testStoreKey, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestConcurrentStoreEditsAreNotLost(t *testing.T) {
	svc, ds := newTestService(t, "pro")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddCategory(ctx, testStoreKey, "Categoria "+strconv.Itoa(i))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			name := "Moda Style Outlet"
			_, err := svc.UpdateBranding(ctx, domain.UpdateBrandingRequest{StoreID: testStoreKey, Name: &name})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, ok := ds.Stores.Find(func(s domain.Store) bool { return s.ID == testStoreID })
	require.True(t, ok)
	assert.Len(t, st.Categories, 22)
	assert.Equal(t, "Moda Style Outlet", st.Name)
}

func TestDeleteAndRestoreCategory(t *testing.T) {
	svc, ds := newTestService(t, "free")
	ctx := context.Background()

	ds.Products.Replace([]productdomain.Product{
		{ID: 1, StoreID: testStoreID, Name: "A", Category: "Camisetas"},
		{ID: 2, StoreID: testStoreID, Name: "B", Category: "Camisetas", Deleted: true},
	})

	deleted, err := svc.DeleteCategory(ctx, testStoreKey, "Camisetas")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted.ActiveProducts)
	assert.Equal(t, []string{"Calças"}, deleted.Store.Categories)
	assert.Equal(t, []string{"Camisetas"}, deleted.Store.DeletedCategories)

	// re-created manually while in the trash
	_, err = svc.AddCategory(ctx, testStoreKey, "Camisetas")
	require.NoError(t, err)

	restored, err := svc.RestoreCategory(ctx, testStoreKey, "Camisetas")
	require.NoError(t, err)
	assert.Equal(t, []string{"Calças", "Camisetas"}, restored.Categories)
	assert.Empty(t, restored.DeletedCategories)

	_, err = svc.RestoreCategory(ctx, testStoreKey, "Camisetas")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestSetPaymentMethods(t *testing.T) {
	svc, _ := newTestService(t, "free")
	ctx := context.Background()

	_, err := svc.SetPaymentMethods(ctx, domain.PaymentMethodsRequest{StoreID: testStoreKey})
	assert.ErrorIs(t, err, domain.ErrPaymentMethodRequired)

	_, err = svc.SetPaymentMethods(ctx, domain.PaymentMethodsRequest{StoreID: testStoreKey, Methods: []string{"Boleto"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)

	resp, err := svc.SetPaymentMethods(ctx, domain.PaymentMethodsRequest{
		StoreID: testStoreKey,
		Methods: []string{domain.PaymentMethodCash, domain.PaymentMethodPix, domain.PaymentMethodCash},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.PaymentMethodCash, domain.PaymentMethodPix}, resp.AcceptedPaymentMethods)
}

func TestUpdateBrandingBannerRequiresPlan(t *testing.T) {
	banner := "https://img/banner.png"
	name := "Moda Style Plus"
	phone := "+55 (11) 98888-7777"

	free, _ := newTestService(t, "free")
	_, err := free.UpdateBranding(context.Background(), domain.UpdateBrandingRequest{StoreID: testStoreKey, Banner: &banner})
	assert.ErrorIs(t, err, domain.ErrBannerNotAllowed)

	resp, err := free.UpdateBranding(context.Background(), domain.UpdateBrandingRequest{StoreID: testStoreKey, Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Moda Style Plus", resp.Name)
	assert.Equal(t, "5511988887777", resp.Phone)

	pro, _ := newTestService(t, "pro")
	resp, err = pro.UpdateBranding(context.Background(), domain.UpdateBrandingRequest{StoreID: testStoreKey, Banner: &banner})
	require.NoError(t, err)
	assert.Equal(t, banner, resp.Banner)
}

func TestGetBySlugAndDefaults(t *testing.T) {
	svc, _ := newTestService(t, "free")

	resp, err := svc.GetBySlug(context.Background(), "Moda-Style")
	require.NoError(t, err)
	assert.Equal(t, testStoreKey, resp.ID)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Nil(t, resp.SubscriptionExpiry)

	_, err = svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
