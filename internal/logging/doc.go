// Package logging provides slog attribute helpers used across the pipeline.
//
// Attribute keys are defined once here so that every package logs the same
// field names, which keeps log queries simple.
package logging
