// Package pipeline orchestrates the scrape, parse, and notify stages.
//
// Scrape fetches new report emails from Gmail incrementally and stages them
// in the warehouse. Parse extracts package records from staged HTML bodies
// with a bounded worker pool. Notify mails the run summary with the records
// workbook attached. Run chains all three.
package pipeline
