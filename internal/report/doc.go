// Package report builds the Excel workbook attached to the run-report email.
//
// The sheet has a fixed column set sourced from the deduped warehouse view,
// followed by dynamically discovered columns: any extracted field key not in
// the known set is appended automatically, so new report templates show up
// without a code change.
package report
