package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// SubscriptionConfig controls the subscription cycle and the plan catalog
// loaded at startup.
type SubscriptionConfig struct {
	ExtensionDays   int        `mapstructure:"extension_days"`
	UpgradePlanID   string     `mapstructure:"upgrade_plan_id"`
	CheckoutBaseURL string     `mapstructure:"checkout_base_url"`
	Plans           []PlanSeed `mapstructure:"plans"`
}

type PlanSeed struct {
	ID          string         `mapstructure:"id"`
	Name        string         `mapstructure:"name"`
	Price       int64          `mapstructure:"price"`
	Description string         `mapstructure:"description"`
	Features    []string       `mapstructure:"features"`
	Recommended bool           `mapstructure:"recommended"`
	Limits      PlanLimitsSeed `mapstructure:"limits"`
}

type PlanLimitsSeed struct {
	MaxProducts        int  `mapstructure:"max_products"`
	CanCustomizeBanner bool `mapstructure:"can_customize_banner"`
	CanUseIntegrations bool `mapstructure:"can_use_integrations"`
	CanUseCustomDomain bool `mapstructure:"can_use_custom_domain"`
}

func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		ExtensionDays:   30,
		UpgradePlanID:   "pro",
		CheckoutBaseURL: "https://pay.kiwify.com.br",
		Plans: []PlanSeed{
			{
				ID:          "free",
				Name:        "Iniciante",
				Price:       0,
				Description: "Para quem está começando",
				Features:    []string{"Até 10 produtos", "Catálogo Básico", "Link para WhatsApp"},
				Limits:      PlanLimitsSeed{MaxProducts: 10},
			},
			{
				ID:          "pro",
				Name:        "Profissional",
				Price:       2990,
				Description: "Para lojas em crescimento",
				Features:    []string{"Até 50 produtos", "Banner Personalizado", "Dashboard de Vendas", "Matriz RFV"},
				Recommended: true,
				Limits: PlanLimitsSeed{
					MaxProducts:        50,
					CanCustomizeBanner: true,
					CanUseCustomDomain: true,
				},
			},
			{
				ID:          "enterprise",
				Name:        "Empresarial",
				Price:       5990,
				Description: "Sem limites para grandes negócios",
				Features:    []string{"Produtos ilimitados", "Integrações (Kiwify)", "Suporte Prioritário", "Tudo do Pro"},
				Limits: PlanLimitsSeed{
					MaxProducts:        999999,
					CanCustomizeBanner: true,
					CanUseIntegrations: true,
					CanUseCustomDomain: true,
				},
			},
		},
	}
}

type SubscriptionConfigHolder struct {
	current atomic.Value // holds SubscriptionConfig
}

// NewStaticSubscriptionConfigHolder returns a holder that never reloads.
func NewStaticSubscriptionConfigHolder(cfg SubscriptionConfig) *SubscriptionConfigHolder {
	holder := &SubscriptionConfigHolder{}
	holder.current.Store(withDefaults(cfg))
	return holder
}

func NewSubscriptionConfigHolder(log *zap.Logger) (*SubscriptionConfigHolder, error) {
	log = log.Named("config.subscription")

	v := viper.New()
	v.SetConfigName("subscription")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/vitrine")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VITRINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &SubscriptionConfigHolder{}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultSubscriptionConfig())
		log.Info("subscription config file not found, using defaults")
		return holder, nil
	}

	cfg, err := decodeSubscriptionConfig(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeSubscriptionConfig(v)
		if err != nil {
			log.Warn("subscription config reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("subscription config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *SubscriptionConfigHolder) Get() SubscriptionConfig {
	return h.current.Load().(SubscriptionConfig)
}

func decodeSubscriptionConfig(v *viper.Viper) (SubscriptionConfig, error) {
	var cfg SubscriptionConfig
	if err := v.UnmarshalKey("subscription", &cfg); err != nil {
		return SubscriptionConfig{}, err
	}
	cfg = withDefaults(cfg)
	if err := validateSubscriptionConfig(cfg); err != nil {
		return SubscriptionConfig{}, err
	}
	return cfg, nil
}

func withDefaults(cfg SubscriptionConfig) SubscriptionConfig {
	defaults := DefaultSubscriptionConfig()
	if cfg.ExtensionDays == 0 {
		cfg.ExtensionDays = defaults.ExtensionDays
	}
	if strings.TrimSpace(cfg.UpgradePlanID) == "" {
		cfg.UpgradePlanID = defaults.UpgradePlanID
	}
	if strings.TrimSpace(cfg.CheckoutBaseURL) == "" {
		cfg.CheckoutBaseURL = defaults.CheckoutBaseURL
	}
	cfg.CheckoutBaseURL = strings.TrimRight(cfg.CheckoutBaseURL, "/")
	if len(cfg.Plans) == 0 {
		cfg.Plans = defaults.Plans
	}
	return cfg
}

func validateSubscriptionConfig(cfg SubscriptionConfig) error {
	if cfg.ExtensionDays < 0 {
		return errors.New("subscription.extension_days cannot be negative")
	}
	seen := make(map[string]struct{}, len(cfg.Plans))
	for _, p := range cfg.Plans {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return errors.New("subscription.plans[].id cannot be empty")
		}
		if _, ok := seen[id]; ok {
			return errors.New("subscription.plans contains duplicate id " + id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
