package datastore

import (
	"errors"
	"sync"
	"testing"

	integrationdomain "github.com/smallbiznis/vitrine/internal/integration/domain"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableReturnsCopies(t *testing.T) {
	ds := New()
	ds.Plans.Replace([]plandomain.Plan{
		{ID: "free", Name: "Free", Features: []string{"10 produtos"}},
		{ID: "pro", Name: "Pro", Price: 4990},
	})

	got, ok := ds.Plans.Find(func(p plandomain.Plan) bool { return p.ID == "free" })
	require.True(t, ok)
	got.Features[0] = "changed"
	got.Name = "changed"

	again, _ := ds.Plans.Find(func(p plandomain.Plan) bool { return p.ID == "free" })
	assert.Equal(t, "Free", again.Name)
	assert.Equal(t, []string{"10 produtos"}, again.Features)

	_, ok = ds.Plans.Find(func(p plandomain.Plan) bool { return p.ID == "enterprise" })
	assert.False(t, ok)

	paid := ds.Plans.Filter(func(p plandomain.Plan) bool { return p.Price > 0 })
	require.Len(t, paid, 1)
	assert.Equal(t, "pro", paid[0].ID)
	assert.Equal(t, 2, ds.Plans.Len())
}

func TestTableUpdateIsAtomic(t *testing.T) {
	ds := New()
	ds.Plans.Replace([]plandomain.Plan{{ID: "free"}})

	err := ds.Plans.Update(func(rows []plandomain.Plan) ([]plandomain.Plan, error) {
		rows[0].Name = "partial"
		return nil, errors.New("rejected")
	})
	require.Error(t, err)
	assert.Equal(t, "", ds.Plans.All()[0].Name)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ds.Plans.Update(func(rows []plandomain.Plan) ([]plandomain.Plan, error) {
				rows[0].Price++
				return rows, nil
			})
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 50, ds.Plans.All()[0].Price)
}

func TestValueRoundTrip(t *testing.T) {
	ds := New()
	assert.False(t, ds.Kiwify.Get().Enabled)

	ds.Kiwify.Set(integrationdomain.KiwifySettings{Enabled: true})
	assert.True(t, ds.Kiwify.Get().Enabled)
}
