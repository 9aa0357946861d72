package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	obscontext "github.com/smallbiznis/retailerp/internal/observability/context"
	"github.com/smallbiznis/retailerp/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string
	Level       string
	// Format is "json" (default) or "console".
	Format string
	Debug  bool

	// Zero values fall back to 100 initial and 100 thereafter per second.
	SamplingInitial    int
	SamplingThereafter int
	SamplingWindow     time.Duration

	IncludeCaller       bool
	IncludeStackOnError bool
}

// New builds the process logger, installs it as the zap global so
// FromContext works outside fx, and syncs it on shutdown.
func New(lc fx.Lifecycle, cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level, cfg.Debug)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	zapCfg.Encoding = normalizeFormat(cfg.Format)
	zapCfg.Sampling = nil
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stdout"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	options := []zap.Option{sampler(cfg)}
	if cfg.IncludeCaller {
		options = append(options, zap.AddCaller())
	}
	if cfg.IncludeStackOnError {
		options = append(options, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	base, err := zapCfg.Build(options...)
	if err != nil {
		return nil, err
	}

	log := base.With(
		zap.String("service", fallback(cfg.ServiceName, "retailerp")),
		zap.String("env", strings.TrimSpace(cfg.Environment)),
		zap.String("version", strings.TrimSpace(cfg.Version)),
	)
	zap.ReplaceGlobals(log)

	if lc != nil {
		lc.Append(fx.StopHook(func() {
			_ = log.Sync()
		}))
	}
	return log, nil
}

// parseLevel defaults to info, or debug when the process runs in debug mode.
func parseLevel(raw string, debug bool) (zap.AtomicLevel, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		text = "info"
		if debug {
			text = "debug"
		}
	}
	level, err := zap.ParseAtomicLevel(text)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", text, err)
	}
	return level, nil
}

func sampler(cfg Config) zap.Option {
	initial := cfg.SamplingInitial
	if initial <= 0 {
		initial = 100
	}
	thereafter := cfg.SamplingThereafter
	if thereafter <= 0 {
		thereafter = 100
	}
	window := cfg.SamplingWindow
	if window <= 0 {
		window = time.Second
	}
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewSamplerWithOptions(core, window, initial, thereafter)
	})
}

func fallback(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "console" {
		return "console"
	}
	return "json"
}

// FromContext returns the global logger enriched with request-scoped fields.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext adds request id, actor, correlation id and trace ids when the
// context carries them. Empty values are left out.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}

	var fields []zap.Field
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if actorType, actorID := obscontext.ActorFromContext(ctx); actorType != "" {
		fields = append(fields, zap.String("actor_type", actorType), zap.String("actor_id", actorID))
	}
	if cid := correlation.ExtractCorrelationID(ctx); cid != "" {
		fields = append(fields, zap.String("correlation_id", cid))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

func WithOrder(log *zap.Logger, orderID, orderNo string) *zap.Logger {
	if log == nil {
		return nil
	}
	return log.With(
		zap.String("order_id", strings.TrimSpace(orderID)),
		zap.String("order_no", strings.TrimSpace(orderNo)),
	)
}
