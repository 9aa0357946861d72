package observability

import (
	"strings"

	"github.com/smallbiznis/retailerp/internal/config"
)

// Config is the slice of application config the logger, tracer and meters
// are built from.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "retailerp"
	}

	protocol := cfg.OTLPProtocol
	if protocol != "http" {
		protocol = "grpc"
	}

	ratio := cfg.OtelSamplingRatio
	switch {
	case ratio < 0:
		ratio = 0
	case ratio > 1:
		ratio = 1
	}

	logFormat := cfg.LogFormat
	if logFormat == "" {
		logFormat = "json"
	}

	return Config{
		ServiceName:          serviceName,
		Environment:          strings.TrimSpace(cfg.Environment),
		Version:              strings.TrimSpace(cfg.AppVersion),
		LogLevel:             cfg.LogLevel,
		LogFormat:            logFormat,
		OtelEnabled:          cfg.OtelEnabled && strings.TrimSpace(cfg.OTLPEndpoint) != "",
		OtelExporterEndpoint: strings.TrimSpace(cfg.OTLPEndpoint),
		OtelExporterProtocol: protocol,
		OtelSamplingRatio:    ratio,
	}
}

// Debug turns on verbose request logs and stack traces outside production.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}
