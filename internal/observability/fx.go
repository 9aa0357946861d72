package observability

import (
	"github.com/smallbiznis/retailerp/internal/observability/logger"
	"github.com/smallbiznis/retailerp/internal/observability/metrics"
	"github.com/smallbiznis/retailerp/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module wires logging, tracing and metrics from the process config. Every
// binary includes it; the scheduler uses the job metrics, the API the rest.
var Module = fx.Module("observability",
	fx.Provide(LoadConfig),
	loggingModule,
	tracingModule,
	metricsModule,
)

var loggingModule = fx.Module("observability.logging",
	fx.Provide(loggerConfig, logger.New),
)

var tracingModule = fx.Module("observability.tracing",
	fx.Provide(tracingConfig, tracing.NewProvider),
	// nothing else depends on the provider; force it so spans are exported
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

var metricsModule = fx.Module("observability.metrics",
	fx.Provide(
		metricsConfig,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
		metrics.CheckoutWithConfig,
		metrics.JobsWithConfig,
	),
)

func loggerConfig(cfg Config) logger.Config {
	debug := cfg.Debug()
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		Debug:               debug,
		IncludeCaller:       true,
		IncludeStackOnError: debug,
	}
}

func tracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.OtelEnabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		SamplingRatio:    cfg.OtelSamplingRatio,
	}
}

func metricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.OtelEnabled,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
	}
}
