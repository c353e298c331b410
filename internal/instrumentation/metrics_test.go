package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordEmailsFetched(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordEmailsFetched(ctx, "scraper@example.com", 12)
	metrics.RecordEmailsFetched(ctx, "scraper@example.com", 0)
}

func TestMetrics_RecordParseResult(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordParseResult(ctx, "success", "REVIEW", 2*time.Millisecond)
	metrics.RecordParseResult(ctx, "error", "", time.Millisecond)
}

func TestMetrics_RecordGmailOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordGmailOperation(ctx, "search", "success", 200*time.Millisecond)
	metrics.RecordGmailOperation(ctx, "get", "error", 500*time.Millisecond)
}

func TestMetrics_RecordDBBatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordDBBatch(ctx, "insert_emails", 30*time.Millisecond)
}

func TestMetrics_NoOpWhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create disabled provider: %v", err)
	}
	if provider.Enabled() {
		t.Fatal("expected provider to be disabled")
	}

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected no-op metrics recorder")
	}

	// Zero-value instruments must be safe to call.
	metrics.RecordEmailsFetched(ctx, "scraper@example.com", 5)
	metrics.RecordParseResult(ctx, "success", "REVIEW", time.Millisecond)
	metrics.RecordGmailOperation(ctx, "search", "success", time.Millisecond)
	metrics.RecordDBBatch(ctx, "insert_emails", time.Millisecond)

	if err := provider.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown of disabled provider: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")

	cfg := ConfigFromEnv("copscan", "1.2.3")
	if cfg.Enabled {
		t.Error("expected instrumentation disabled")
	}
	if cfg.MetricsExporter != ExporterStdout {
		t.Errorf("expected stdout exporter, got %q", cfg.MetricsExporter)
	}
	if cfg.ServiceName != "copscan" || cfg.ServiceVersion != "1.2.3" {
		t.Errorf("unexpected service identity: %+v", cfg)
	}
}
