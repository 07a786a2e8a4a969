package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	catalog := []Plan{
		{ID: "free", Limits: Limits{MaxProducts: 10}},
		{ID: "pro", Limits: Limits{MaxProducts: 50}},
	}

	cases := []struct {
		name   string
		plans  []Plan
		id     string
		wantID string
	}{
		{name: "match", plans: catalog, id: "pro", wantID: "pro"},
		{name: "unknown_falls_back_to_first", plans: catalog, id: "gold", wantID: "free"},
		{name: "empty_id_falls_back", plans: catalog, id: "", wantID: "free"},
		{name: "empty_catalog", plans: nil, id: "pro", wantID: FallbackPlan.ID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.plans, tc.id)
			assert.Equal(t, tc.wantID, got.ID)
		})
	}
}

func TestPlanCloneCopiesFeatures(t *testing.T) {
	p := Plan{ID: "pro", Features: []string{"a"}}
	c := p.Clone()
	c.Features[0] = "b"
	assert.Equal(t, "a", p.Features[0])
}
