package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSubscriptionConfigMatchesCatalog(t *testing.T) {
	cfg := DefaultSubscriptionConfig()

	assert.Equal(t, 30, cfg.ExtensionDays)
	assert.Equal(t, "pro", cfg.UpgradePlanID)
	require.Len(t, cfg.Plans, 3)
	assert.Equal(t, "free", cfg.Plans[0].ID)
	assert.Equal(t, 10, cfg.Plans[0].Limits.MaxProducts)
	assert.True(t, cfg.Plans[1].Limits.CanCustomizeBanner)
	assert.True(t, cfg.Plans[2].Limits.CanUseIntegrations)
}

func TestStaticHolderFillsDefaults(t *testing.T) {
	holder := NewStaticSubscriptionConfigHolder(SubscriptionConfig{
		CheckoutBaseURL: "https://pay.example.com/",
	})

	cfg := holder.Get()
	assert.Equal(t, 30, cfg.ExtensionDays)
	assert.Equal(t, "pro", cfg.UpgradePlanID)
	assert.Equal(t, "https://pay.example.com", cfg.CheckoutBaseURL)
	assert.Len(t, cfg.Plans, 3)
}

func TestValidateSubscriptionConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     SubscriptionConfig
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultSubscriptionConfig()},
		{name: "negative_days", cfg: SubscriptionConfig{ExtensionDays: -1}, wantErr: true},
		{name: "empty_plan_id", cfg: SubscriptionConfig{Plans: []PlanSeed{{Name: "x"}}}, wantErr: true},
		{name: "duplicate_plan_id", cfg: SubscriptionConfig{Plans: []PlanSeed{{ID: "a"}, {ID: "a"}}}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSubscriptionConfig(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
