package pipeline

import (
	"context"
	"time"

	"github.com/ontelworks/copscan/internal/logging"
	"github.com/ontelworks/copscan/internal/notify"
	"github.com/ontelworks/copscan/internal/report"
)

// Notify builds and sends the run-report email for the given new message
// ids. Failures are logged and swallowed so a broken mailer never fails an
// otherwise successful run.
func (p *Pipeline) Notify(ctx context.Context, newMessageIDs []string, started, ended time.Time) {
	logger := logging.WithStage(p.logger, "notify")
	if p.notifier == nil {
		logger.Info("notifier not configured, skipping")
		return
	}

	totals, typeCounts, err := p.storage.Summary(ctx)
	if err != nil {
		logger.Error("failed to query run summary", logging.Err(err))
		return
	}

	threadIDs, err := p.storage.ThreadIDsFor(ctx, newMessageIDs)
	if err != nil {
		logger.Error("failed to resolve thread ids", logging.Err(err))
		return
	}
	rows, err := p.storage.ReportRows(ctx, threadIDs)
	if err != nil {
		logger.Error("failed to query report rows", logging.Err(err))
		return
	}

	workbook, err := report.Build(rows)
	if err != nil {
		logger.Error("failed to build workbook", logging.Err(err))
		return
	}

	stats := notify.RunStats{
		Started:    started,
		Ended:      ended,
		NewEmails:  len(newMessageIDs),
		Totals:     totals,
		TypeCounts: typeCounts,
	}
	if err := p.notifier.SendRunReport(stats, workbook, p.logText()); err != nil {
		logger.Error("failed to send run report", logging.Err(err))
		return
	}
	logger.Info("run report sent",
		logging.Count(len(rows)),
		logging.Status(logging.StatusSuccess))
}
