package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrAccount     = "account"
	attrOperation   = "operation"
	attrStatus      = "status"
	attrPackageType = "package_type"
)

// Metrics provides methods for recording pipeline metrics. The zero value is
// a no-op recorder.
type Metrics struct {
	emailsFetchedTotal metric.Int64Counter

	parseResultsTotal metric.Int64Counter
	parseDuration     metric.Float64Histogram

	gmailOperationsTotal   metric.Int64Counter
	gmailOperationDuration metric.Float64Histogram

	dbBatchDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments registered.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.emailsFetchedTotal, err = meter.Int64Counter(
		"emails_fetched_total",
		metric.WithDescription("Total number of new emails fetched from Gmail"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create emails_fetched_total counter: %w", err)
	}

	m.parseResultsTotal, err = meter.Int64Counter(
		"parse_results_total",
		metric.WithDescription("Total number of parsed emails by outcome and package type"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse_results_total counter: %w", err)
	}

	m.parseDuration, err = meter.Float64Histogram(
		"parse_duration_seconds",
		metric.WithDescription("Time spent parsing a single email body"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse_duration_seconds histogram: %w", err)
	}

	m.gmailOperationsTotal, err = meter.Int64Counter(
		"gmail_api_operations_total",
		metric.WithDescription("Total number of Gmail API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_api_operations_total counter: %w", err)
	}

	m.gmailOperationDuration, err = meter.Float64Histogram(
		"gmail_api_operation_duration_seconds",
		metric.WithDescription("Gmail API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_api_operation_duration_seconds histogram: %w", err)
	}

	m.dbBatchDuration, err = meter.Float64Histogram(
		"db_batch_duration_seconds",
		metric.WithDescription("Database batch write duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_batch_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordEmailsFetched records newly fetched emails for an account.
func (m *Metrics) RecordEmailsFetched(ctx context.Context, account string, count int) {
	if m.emailsFetchedTotal == nil {
		return
	}
	m.emailsFetchedTotal.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String(attrAccount, account),
	))
}

// RecordParseResult records one parse outcome.
// Status should be "success" or "error"; packageType is the classified type
// or empty when parsing failed before classification.
func (m *Metrics) RecordParseResult(ctx context.Context, status, packageType string, duration time.Duration) {
	if m.parseResultsTotal == nil || m.parseDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
		attribute.String(attrPackageType, packageType),
	}
	m.parseResultsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.parseDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGmailOperation records a Gmail API call with operation, status, and
// duration. Status should be "success" or "error".
func (m *Metrics) RecordGmailOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.gmailOperationsTotal == nil || m.gmailOperationDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}
	m.gmailOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.gmailOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDBBatch records a database batch write duration.
func (m *Metrics) RecordDBBatch(ctx context.Context, operation string, duration time.Duration) {
	if m.dbBatchDuration == nil {
		return
	}
	m.dbBatchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrOperation, operation),
	))
}
