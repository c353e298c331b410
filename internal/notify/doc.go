// Package notify builds and sends the pipeline run-report email: an HTML
// status summary with the run's package records workbook and log output
// attached. Send failures are logged, never fatal, so a broken mailer cannot
// take down an otherwise successful run.
package notify
