package observability

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"courtline/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the settlement service
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	wagersCheckedCounter    metric.Int64Counter
	wagersSettledCounter    metric.Int64Counter
	legsUnresolvedCounter   metric.Int64Counter
	ambiguousMatchesCounter metric.Int64Counter
	passDurationHist        metric.Float64Histogram
	gatewayCallsCounter     metric.Int64Counter
	gatewayTimeoutsCounter  metric.Int64Counter
	hitRateRecomputeCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Println("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Println("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	// Create resource with service information
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	// Create appropriate exporter based on config
	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Println("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.Printf("Using OTLP metric exporter: %s", mp.config.OTelEndpoint)

	case "none":
		log.Println("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	// Create meter provider with periodic reader
	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(60*time.Second),
			),
		),
	)

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)

	mp.meter = mp.meterProvider.Meter("courtline")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Println("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.wagersCheckedCounter, err = mp.meter.Int64Counter(
		WagersCheckedTotal,
		metric.WithDescription("Total number of pending wagers examined by settlement passes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers checked counter: %w", err)
	}

	mp.wagersSettledCounter, err = mp.meter.Int64Counter(
		WagersSettledTotal,
		metric.WithDescription("Total number of wagers settled"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers settled counter: %w", err)
	}

	mp.legsUnresolvedCounter, err = mp.meter.Int64Counter(
		LegsUnresolvedTotal,
		metric.WithDescription("Total number of legs left unresolved by settlement passes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create legs unresolved counter: %w", err)
	}

	mp.ambiguousMatchesCounter, err = mp.meter.Int64Counter(
		AmbiguousMatchesTotal,
		metric.WithDescription("Total number of legs matching more than one game"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ambiguous matches counter: %w", err)
	}

	mp.passDurationHist, err = mp.meter.Float64Histogram(
		SettlementPassDuration,
		metric.WithDescription("Duration of settlement passes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 15, 30, 60, 120, 300),
	)
	if err != nil {
		return fmt.Errorf("failed to create pass duration histogram: %w", err)
	}

	mp.gatewayCallsCounter, err = mp.meter.Int64Counter(
		GatewayCallsTotal,
		metric.WithDescription("Total number of stat provider calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create gateway calls counter: %w", err)
	}

	mp.gatewayTimeoutsCounter, err = mp.meter.Int64Counter(
		GatewayTimeoutsTotal,
		metric.WithDescription("Total number of stat provider calls that timed out"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create gateway timeouts counter: %w", err)
	}

	mp.hitRateRecomputeCounter, err = mp.meter.Int64Counter(
		HitRateRecomputesTotal,
		metric.WithDescription("Total number of hit-rate recomputations triggered by line changes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create hit-rate recompute counter: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordWagersChecked records pending wagers examined by a pass
func (mp *MetricsProvider) RecordWagersChecked(count int64) {
	if !mp.isEnabled() {
		return
	}

	mp.wagersCheckedCounter.Add(context.Background(), count)
}

// RecordWagerSettled records a settled wager with its verdict
func (mp *MetricsProvider) RecordWagerSettled(verdict string) {
	if !mp.isEnabled() {
		return
	}

	mp.wagersSettledCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelVerdict, verdict),
		),
	)
}

// RecordLegUnresolved records a leg left unresolved and why
func (mp *MetricsProvider) RecordLegUnresolved(reason string) {
	if !mp.isEnabled() {
		return
	}

	mp.legsUnresolvedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelReason, reason),
		),
	)
}

// RecordAmbiguousMatch records a leg matching more than one game
func (mp *MetricsProvider) RecordAmbiguousMatch() {
	if !mp.isEnabled() {
		return
	}

	mp.ambiguousMatchesCounter.Add(context.Background(), 1)
}

// RecordPassDuration records how long a settlement pass took
func (mp *MetricsProvider) RecordPassDuration(duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	mp.passDurationHist.Record(context.Background(), duration.Seconds())
}

// RecordGatewayCall records a stat provider call
func (mp *MetricsProvider) RecordGatewayCall(method string) {
	if !mp.isEnabled() {
		return
	}

	mp.gatewayCallsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelMethod, method),
		),
	)
}

// RecordGatewayTimeout records a stat provider call that timed out
func (mp *MetricsProvider) RecordGatewayTimeout(method string) {
	if !mp.isEnabled() {
		return
	}

	mp.gatewayTimeoutsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelMethod, method),
		),
	)
}

// RecordHitRateRecompute records a line-change recomputation
func (mp *MetricsProvider) RecordHitRateRecompute(stat string) {
	if !mp.isEnabled() {
		return
	}

	mp.hitRateRecomputeCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelStat, stat),
		),
	)
}

// isEnabled checks if metrics are enabled and initialized.
// Safe on a nil receiver so callers can record unconditionally.
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.config.OTelEnabled && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
