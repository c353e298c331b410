package instrumentation

import (
	"os"
	"strconv"
)

// Exporter types for metrics.
const (
	ExporterPrometheus = "prometheus"
	ExporterStdout     = "stdout"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName identifies the service in exported metrics.
	ServiceName string

	// ServiceVersion is the running binary's version.
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: true).
	// Set INSTRUMENTATION_ENABLED=false to disable.
	Enabled bool

	// MetricsExporter is "prometheus" (default) or "stdout".
	MetricsExporter string
}

// ConfigFromEnv builds an instrumentation config from the environment.
func ConfigFromEnv(serviceName, serviceVersion string) Config {
	cfg := Config{
		ServiceName:     serviceName,
		ServiceVersion:  serviceVersion,
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
	}
	if v := os.Getenv("INSTRUMENTATION_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = enabled
		}
	}
	if v := os.Getenv("METRICS_EXPORTER"); v != "" {
		cfg.MetricsExporter = v
	}
	return cfg
}
