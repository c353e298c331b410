package store

import (
	"time"

	"github.com/ontelworks/copscan/internal/copparse"
)

// Email is one scraped message, carrying both the raw and staging shapes.
type Email struct {
	MessageID    string
	ThreadID     string
	Sender       string
	SenderName   string
	SenderEmail  string
	RecipientsTo []string
	RecipientsCc []string
	Subject      string
	ReceivedAt   time.Time
	HTMLBody     string
	Headers      map[string]string
	Labels       []string
}

// StagedEmail is the slice of a staged email the parser needs.
type StagedEmail struct {
	MessageID string
	Subject   string
	HTMLBody  string
}

// Record is one parsed package record ready for upsert.
type Record struct {
	MessageID string
	Result    copparse.Result
}

// TypeCount is a package-type bucket in the run summary.
type TypeCount struct {
	PackageType string
	Count       int64
}

// Totals summarizes table sizes for the run-report email.
type Totals struct {
	StagedEmails   int64
	ParsedRecords  int64
	DedupedRecords int64
}

// ReportRow is one spreadsheet row: the deduped view's fixed columns by
// name, plus the raw extracted fields for dynamic-column discovery.
type ReportRow struct {
	Columns map[string]any
	Fields  *copparse.FieldMap
}
