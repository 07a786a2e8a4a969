package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/datastore"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	planrepo "github.com/smallbiznis/vitrine/internal/plan/repository"
	"github.com/smallbiznis/vitrine/internal/product/domain"
	"github.com/smallbiznis/vitrine/internal/product/repository"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	tenantrepo "github.com/smallbiznis/vitrine/internal/tenant/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testStoreID int64 = 1001

func newTestService(t *testing.T, planID string, categories []string) (domain.Service, *datastore.Store) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ds := datastore.New()
	ds.Plans.Replace([]plandomain.Plan{
		{ID: "free", Name: "Iniciante", Limits: plandomain.Limits{MaxProducts: 10}},
		{ID: "pro", Name: "Profissional", Limits: plandomain.Limits{MaxProducts: 50}},
	})
	ds.Stores.Replace([]tenantdomain.Store{
		{ID: testStoreID, Slug: "loja", Name: "Loja", PlanID: planID, Categories: categories},
	})

	svc := New(Params{
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)),
		Validate: validator.New(),
		Repo:     repository.Provide(ds),
		Stores:   tenantrepo.Provide(ds),
		Plans:    planrepo.Provide(ds),
	})
	return svc, ds
}

func storeIDString() string {
	return snowflake.ID(testStoreID).String()
}

func TestCreateRejectsAtPlanLimit(t *testing.T) {
	svc, _ := newTestService(t, "free", []string{"Camisetas"})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: "Produto " + strconv.Itoa(i), Price: 1000})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: "Produto extra", Price: 1000})
	assert.ErrorIs(t, err, domain.ErrProductLimitReached)

	items, err := svc.List(ctx, domain.ListRequest{StoreID: storeIDString()})
	require.NoError(t, err)
	assert.Len(t, items, 10)
}

func TestCreateConcurrentRespectsPlanLimit(t *testing.T) {
	for round := 0; round < 20; round++ {
		svc, ds := newTestService(t, "free", []string{"Camisetas"})
		ctx := context.Background()

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
			denied  int
		)
		for i := 0; i < 40; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: "Produto " + strconv.Itoa(i), Price: 1000})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					assert.ErrorIs(t, err, domain.ErrProductLimitReached)
					denied++
					return
				}
				created++
			}(i)
		}
		wg.Wait()

		require.Equal(t, 10, created)
		require.Equal(t, 30, denied)
		require.Equal(t, 10, ds.Products.Len())
	}
}

func TestCreateAllowedAfterSoftDelete(t *testing.T) {
	svc, _ := newTestService(t, "free", []string{"Camisetas"})
	ctx := context.Background()

	var first *domain.Response
	for i := 0; i < 10; i++ {
		resp, err := svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: "Produto " + strconv.Itoa(i), Price: 1000})
		require.NoError(t, err)
		if first == nil {
			first = resp
		}
	}

	_, err := svc.Delete(ctx, storeIDString(), first.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: "Novo", Price: 1000})
	assert.NoError(t, err)

	trash, err := svc.List(ctx, domain.ListRequest{StoreID: storeIDString(), Deleted: true})
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, first.ID, trash[0].ID)
}

func TestCreateUnknownPlanUsesFirstCatalogEntry(t *testing.T) {
	svc, ds := newTestService(t, "gold", []string{"Camisetas"})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: "P" + strconv.Itoa(i), Price: 100})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: "P10", Price: 100})
	assert.ErrorIs(t, err, domain.ErrProductLimitReached)
	assert.Equal(t, 10, ds.Products.Len())
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t, "pro", []string{"Camisetas", "Calças"})

	resp, err := svc.Create(context.Background(), domain.CreateRequest{StoreID: storeIDString(), Name: "Camiseta Básica", Price: 4990})
	require.NoError(t, err)

	assert.Equal(t, "Camisetas", resp.Category)
	assert.Equal(t, "https://via.placeholder.com/400?text=Camiseta%20B%C3%A1sica", resp.Image)
	assert.Equal(t, "R$ 49,90", resp.PriceLabel)
	assert.False(t, resp.Deleted)
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name       string
		categories []string
		req        domain.CreateRequest
		wantErr    error
	}{
		{name: "no_categories", categories: nil, req: domain.CreateRequest{Name: "X", Price: 1}, wantErr: domain.ErrNoCategories},
		{name: "empty_name", categories: []string{"A"}, req: domain.CreateRequest{Name: "  ", Price: 1}, wantErr: domain.ErrInvalidName},
		{name: "negative_price", categories: []string{"A"}, req: domain.CreateRequest{Name: "X", Price: -1}, wantErr: domain.ErrInvalidPrice},
		{name: "price_above_limit", categories: []string{"A"}, req: domain.CreateRequest{Name: "X", Price: domain.MaxPrice + 1}, wantErr: domain.ErrInvalidPrice},
		{name: "bad_store", categories: []string{"A"}, req: domain.CreateRequest{StoreID: "abc", Name: "X"}, wantErr: domain.ErrInvalidStore},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, "pro", tc.categories)
			if tc.req.StoreID == "" {
				tc.req.StoreID = storeIDString()
			}
			_, err := svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUpdateAndRestore(t *testing.T) {
	svc, _ := newTestService(t, "pro", []string{"A"})
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: "Boné", Price: 3000, Image: "https://img/x.png"})
	require.NoError(t, err)

	price := int64(3500)
	name := "Boné Trucker"
	updated, err := svc.Update(ctx, domain.UpdateRequest{StoreID: storeIDString(), ID: created.ID, Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Boné Trucker", updated.Name)
	assert.Equal(t, int64(3500), updated.Price)
	assert.Equal(t, "https://img/x.png", updated.Image)

	tooExpensive := domain.MaxPrice + 1
	_, err = svc.Update(ctx, domain.UpdateRequest{StoreID: storeIDString(), ID: created.ID, Price: &tooExpensive})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.Delete(ctx, storeIDString(), created.ID)
	require.NoError(t, err)
	restored, err := svc.Restore(ctx, storeIDString(), created.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)

	_, err = svc.Get(ctx, storeIDString(), "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSearch(t *testing.T) {
	svc, _ := newTestService(t, "pro", []string{"A"})
	ctx := context.Background()

	for _, n := range []string{"Camiseta Branca", "Calça Jeans", "camiseta preta"} {
		_, err := svc.Create(ctx, domain.CreateRequest{StoreID: storeIDString(), Name: n, Price: 100})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, domain.ListRequest{StoreID: storeIDString(), Query: "CAMISETA"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
