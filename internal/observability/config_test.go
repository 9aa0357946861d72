package observability

import (
	"testing"

	"github.com/smallbiznis/retailerp/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigNormalizes(t *testing.T) {
	cfg := LoadConfig(config.Config{
		Environment:       "production",
		AppVersion:        "1.2.0",
		OtelEnabled:       true,
		OTLPEndpoint:      " collector:4318 ",
		OTLPProtocol:      "http",
		OtelSamplingRatio: 3,
	})

	assert.Equal(t, "retailerp", cfg.ServiceName)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "collector:4318", cfg.OtelExporterEndpoint)
	assert.Equal(t, "http", cfg.OtelExporterProtocol)
	assert.Equal(t, float64(1), cfg.OtelSamplingRatio)
	assert.True(t, cfg.OtelEnabled)
	assert.False(t, cfg.Debug())
}

func TestLoadConfigDisablesOtelWithoutEndpoint(t *testing.T) {
	cfg := LoadConfig(config.Config{OtelEnabled: true, OTLPProtocol: "udp"})

	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
}

func TestDebug(t *testing.T) {
	assert.True(t, Config{Environment: "development"}.Debug())
	assert.True(t, Config{Environment: "production", LogLevel: "DEBUG"}.Debug())
	assert.False(t, Config{Environment: "staging"}.Debug())
}
