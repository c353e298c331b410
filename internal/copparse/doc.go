// Package copparse extracts close-out package reports from email HTML bodies.
//
// The bodies it handles were authored by many different people over years,
// using copy-pasted and inconsistently nested table templates. Given one raw
// HTML body the parser:
//   - prunes invisible zero-font spans used to embed tracking hashes
//   - locates the report header cell among arbitrary surrounding markup
//   - classifies the report into a package type (REVIEW, REVISION, PMI, ...)
//   - resolves the innermost table containing the header
//   - extracts ordered label:value field pairs and the fixed download links
//
// Parsing is a pure function of the input body: no I/O, no shared state, safe
// to call from any number of goroutines. Failures are reported as data on the
// Result, never as errors, so every body yields a storable record.
//
// Known limitation: a cell counts as a label when it is a <th> or its text
// ends with a colon, so a free-text cell that happens to end with a colon can
// be paired with its neighbor as if it were a field.
package copparse
