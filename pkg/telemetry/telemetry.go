// Package telemetry wires OpenTelemetry metrics, backed by a Prometheus
// exporter, around rule loading, automaton construction, and keystroke
// handling.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "emil-typing-automaton"

	metricRuleLoadDuration       = "rule.load.duration"
	metricAutomatonBuildDuration = "automaton.build.duration"
	metricAutomatonBuildsTotal   = "automaton.builds.total"
	metricAutomatonBuildFailures = "automaton.build.failures.total"
	metricKeystrokeTotal         = "keystroke.total"
	metricKeystrokeAccepted      = "keystroke.accepted.total"
	metricKeystrokeRejected      = "keystroke.rejected.total"
)

// Provider manages OpenTelemetry setup and the metric instruments this
// module records.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	ruleLoadDuration       metric.Float64Histogram
	automatonBuildDuration metric.Float64Histogram
	automatonBuildsTotal   metric.Int64Counter
	automatonBuildFailures metric.Int64Counter
	keystrokeTotal         metric.Int64Counter
	keystrokeAccepted      metric.Int64Counter
	keystrokeRejected      metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a telemetry provider with a Prometheus metrics
// exporter.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	p := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	if cfg.EnableMetrics {
		if err := p.initMetrics(res); err != nil {
			return nil, fmt.Errorf("init metrics: %w", err)
		}
	}
	if cfg.EnableTracing {
		p.initTracing()
	}
	return p, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

func (p *Provider) createMetricInstruments() error {
	var err error

	if p.ruleLoadDuration, err = p.meter.Float64Histogram(
		metricRuleLoadDuration,
		metric.WithDescription("Rule file load and preprocessing duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return err
	}

	if p.automatonBuildDuration, err = p.meter.Float64Histogram(
		metricAutomatonBuildDuration,
		metric.WithDescription("Automaton graph construction duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return err
	}

	if p.automatonBuildsTotal, err = p.meter.Int64Counter(
		metricAutomatonBuildsTotal,
		metric.WithDescription("Total number of automaton builds"),
	); err != nil {
		return err
	}

	if p.automatonBuildFailures, err = p.meter.Int64Counter(
		metricAutomatonBuildFailures,
		metric.WithDescription("Total number of automaton builds that failed"),
	); err != nil {
		return err
	}

	if p.keystrokeTotal, err = p.meter.Int64Counter(
		metricKeystrokeTotal,
		metric.WithDescription("Total number of keystrokes submitted to any automaton"),
	); err != nil {
		return err
	}

	if p.keystrokeAccepted, err = p.meter.Int64Counter(
		metricKeystrokeAccepted,
		metric.WithDescription("Total number of keystrokes accepted"),
	); err != nil {
		return err
	}

	if p.keystrokeRejected, err = p.meter.Int64Counter(
		metricKeystrokeRejected,
		metric.WithDescription("Total number of keystrokes rejected"),
	); err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordRuleLoad records the duration of a rule load/preprocess.
func (p *Provider) RecordRuleLoad(ctx context.Context, entryCount int, duration time.Duration) {
	if p.meter == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Int("entries", entryCount))
	p.ruleLoadDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordAutomatonBuild records an automaton build attempt.
func (p *Provider) RecordAutomatonBuild(ctx context.Context, textLength int, duration time.Duration, success bool) {
	if p.meter == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Int("text.length", textLength))
	p.automatonBuildsTotal.Add(ctx, 1, attrs)
	p.automatonBuildDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if !success {
		p.automatonBuildFailures.Add(ctx, 1, attrs)
	}
}

// RecordKeystroke records the outcome of one keystroke evaluation.
func (p *Provider) RecordKeystroke(ctx context.Context, succeeded bool) {
	if p.meter == nil {
		return
	}
	p.keystrokeTotal.Add(ctx, 1)
	if succeeded {
		p.keystrokeAccepted.Add(ctx, 1)
	} else {
		p.keystrokeRejected.Add(ctx, 1)
	}
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown meter provider: %w", err)
		}
	}
	return nil
}
