package telemetry

import (
	"context"
	"testing"
	"time"
)

// TestProvider exercises NewProvider, every Record* method, and
// Shutdown against a single provider instance. Metrics instruments
// register with the global Prometheus registry, so constructing more
// than one Provider with metrics enabled per test binary risks
// duplicate-registration errors; this test deliberately stays to one.
func TestProvider(t *testing.T) {
	ctx := context.Background()
	p, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if p.Meter() == nil {
		t.Error("Meter() = nil, want configured meter")
	}
	if p.Tracer() == nil {
		t.Error("Tracer() = nil, want configured tracer")
	}

	p.RecordRuleLoad(ctx, 10, 5*time.Millisecond)
	p.RecordAutomatonBuild(ctx, 3, time.Millisecond, true)
	p.RecordAutomatonBuild(ctx, 3, time.Millisecond, false)
	p.RecordKeystroke(ctx, true)
	p.RecordKeystroke(ctx, false)

	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestProviderWithMetricsAndTracingDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		ServiceName:    "test-service",
		ServiceVersion: "0.0.0",
		Environment:    "test",
		EnableMetrics:  false,
		EnableTracing:  false,
	}

	p, err := NewProvider(ctx, cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	// Recording must be a safe no-op when metrics are disabled, and
	// must not touch the global Prometheus registry.
	p.RecordKeystroke(ctx, true)
	p.RecordRuleLoad(ctx, 1, time.Millisecond)

	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
