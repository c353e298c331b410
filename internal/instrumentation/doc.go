// Package instrumentation wires OpenTelemetry metrics for the pipeline:
// emails fetched, parse outcomes by package type, Gmail API and database
// batch latency. Metrics are exported through a Prometheus registry served
// on the configured metrics address, or to stdout for local debugging.
package instrumentation
