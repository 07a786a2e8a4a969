package observability

import (
	"testing"

	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(config.Config{Environment: "development", AppVersion: " 1.0.0 "})

	assert.Equal(t, "vitrine", cfg.ServiceName)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.False(t, cfg.OtelEnabled)
	assert.True(t, cfg.Debug())
}

func TestLoadConfigClampsSamplingRatio(t *testing.T) {
	cfg := LoadConfig(config.Config{AppName: "loja", OtelSamplingRatio: 3, OTLPProtocol: "HTTP"})

	assert.Equal(t, "loja", cfg.ServiceName)
	assert.Equal(t, 0.1, cfg.OtelSamplingRatio)
	assert.Equal(t, "http", cfg.OtelExporterProtocol)
}

func TestDebugOffInProduction(t *testing.T) {
	cfg := Config{Environment: "production", LogLevel: "info"}
	assert.False(t, cfg.Debug())

	cfg.LogLevel = "debug"
	assert.True(t, cfg.Debug())
}
