package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes retail instruments exported over OTLP.
type Metrics struct {
	ordersCreated    metric.Int64Counter
	orderTotal       metric.Float64Histogram
	checkoutRejected metric.Int64Counter
	pointsAwarded    metric.Int64Counter
	numbersGenerated metric.Int64Counter
	stockMovements   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New creates the retail instruments on the given provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(serviceName(cfg))

	var err error
	counter := func(name, desc string) metric.Int64Counter {
		if err != nil {
			return nil
		}
		var c metric.Int64Counter
		c, err = meter.Int64Counter(name, metric.WithDescription(desc))
		return c
	}

	m := &Metrics{
		ordersCreated:    counter("retailerp_orders_created_total", "Committed orders."),
		checkoutRejected: counter("retailerp_checkout_rejected_total", "Checkouts that created no order."),
		pointsAwarded:    counter("retailerp_points_awarded_total", "Loyalty points accrued at checkout."),
		numbersGenerated: counter("retailerp_numbers_generated_total", "Document numbers issued."),
		stockMovements:   counter("retailerp_stock_movements_total", "Inventory movements written."),
	}
	if err != nil {
		return nil, err
	}

	m.orderTotal, err = meter.Float64Histogram("retailerp_order_total_amount",
		metric.WithDescription("Order totals in the store currency."),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func serviceName(cfg Config) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	return "retailerp"
}

// RecordOrderCreated counts a committed order by payment status and records
// its total.
func (m *Metrics) RecordOrderCreated(ctx context.Context, paymentStatus string, total float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(FilterAttributes(attribute.String("payment_status", strings.TrimSpace(paymentStatus)))...)
	m.ordersCreated.Add(ctx, 1, attrs)
	if total > 0 {
		m.orderTotal.Record(ctx, total, attrs)
	}
}

// RecordCheckoutRejected counts a checkout that created nothing.
func (m *Metrics) RecordCheckoutRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.checkoutRejected.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordPointsAwarded(ctx context.Context, points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.pointsAwarded.Add(ctx, points)
}

func (m *Metrics) RecordNumberGenerated(ctx context.Context, ruleCode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("rule_code", strings.TrimSpace(ruleCode)))
	m.numbersGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordStockMovement(ctx context.Context, movementType string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("movement_type", strings.TrimSpace(movementType)))
	m.stockMovements.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":       {},
	"status_code":    {},
	"reason":         {},
	"outcome":        {},
	"rule_code":      {},
	"payment_status": {},
	"movement_type":  {},
	"job":            {},
}

// FilterAttributes strips labels that could carry ids, keeping series
// counts bounded.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
