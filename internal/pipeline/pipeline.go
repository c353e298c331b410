package pipeline

import (
	"context"
	"log/slog"
	"time"

	gapi "google.golang.org/api/gmail/v1"

	"github.com/ontelworks/copscan/internal/config"
	"github.com/ontelworks/copscan/internal/instrumentation"
	"github.com/ontelworks/copscan/internal/notify"
	"github.com/ontelworks/copscan/internal/store"
)

// MessageSource is the slice of the Gmail client the scraper needs.
type MessageSource interface {
	Account() string
	SearchMessages(query string, maxResults int64) ([]*gapi.Message, error)
	GetFullMessage(messageID string) (*gapi.Message, error)
}

// Storage is the warehouse surface the pipeline drives.
type Storage interface {
	LastReceivedAt(ctx context.Context) (time.Time, bool, error)
	ExistingMessageIDs(ctx context.Context) (map[string]struct{}, error)
	InsertEmails(ctx context.Context, emails []*store.Email) error
	PendingParse(ctx context.Context) ([]store.StagedEmail, error)
	AllStaged(ctx context.Context) ([]store.StagedEmail, error)
	UpsertRecords(ctx context.Context, records []store.Record) error
	Summary(ctx context.Context) (store.Totals, []store.TypeCount, error)
	ThreadIDsFor(ctx context.Context, messageIDs []string) ([]string, error)
	ReportRows(ctx context.Context, threadIDs []string) ([]store.ReportRow, error)
}

// ReportSender sends the run-report email. Implemented by notify.Notifier.
type ReportSender interface {
	SendRunReport(stats notify.RunStats, workbook []byte, logText string) error
}

// Pipeline wires the stages together.
type Pipeline struct {
	source   MessageSource
	storage  Storage
	notifier ReportSender
	settings config.Settings
	metrics  *instrumentation.Metrics
	logger   *slog.Logger

	// logText, when set, supplies the captured run log attached to the
	// report email.
	logText func() string
}

// Options configures a Pipeline. Source, Storage, and Logger are required;
// Notifier and Metrics may be nil (notify is skipped, metrics are no-ops).
type Options struct {
	Source   MessageSource
	Storage  Storage
	Notifier ReportSender
	Settings config.Settings
	Metrics  *instrumentation.Metrics
	Logger   *slog.Logger
	LogText  func() string
}

func New(opts Options) *Pipeline {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	logText := opts.LogText
	if logText == nil {
		logText = func() string { return "" }
	}
	return &Pipeline{
		source:   opts.Source,
		storage:  opts.Storage,
		notifier: opts.Notifier,
		settings: opts.Settings,
		metrics:  metrics,
		logger:   opts.Logger,
		logText:  logText,
	}
}
