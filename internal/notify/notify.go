package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ontelworks/copscan/internal/gmail"
	"github.com/ontelworks/copscan/internal/logging"
	"github.com/ontelworks/copscan/internal/store"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Reports land in Eastern time regardless of where the job runs.
var easternTime = time.FixedZone("EST", -5*60*60)

// RunStats summarizes a pipeline run for the report email.
type RunStats struct {
	Started    time.Time
	Ended      time.Time
	NewEmails  int
	Totals     store.Totals
	TypeCounts []store.TypeCount
}

// Sender is the slice of the Gmail client the notifier needs.
type Sender interface {
	SendReport(msg *gmail.ReportMessage) (string, error)
}

type Notifier struct {
	sender Sender
	to     string
	logger *slog.Logger
}

func New(sender Sender, to string, logger *slog.Logger) *Notifier {
	return &Notifier{sender: sender, to: to, logger: logger}
}

// SendRunReport mails the run summary with the records workbook and log text
// attached. Callers treat a returned error as non-fatal: a broken mailer
// must not fail an otherwise successful run.
func (n *Notifier) SendRunReport(stats RunStats, workbook []byte, logText string) error {
	if n.to == "" {
		n.logger.Info("report recipient not configured, skipping notification",
			logging.Operation("send_report"))
		return nil
	}

	body, err := renderBody(stats)
	if err != nil {
		return fmt.Errorf("render report body: %w", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	msg := &gmail.ReportMessage{
		To:       []string{n.to},
		Subject:  fmt.Sprintf("Gmail Package Scraper: SUCCESS -- %s", today),
		HTMLBody: body,
		Attachments: []gmail.Attachment{
			{
				Filename: fmt.Sprintf("package_records_%s.xlsx", today),
				MimeType: xlsxMimeType,
				Data:     workbook,
			},
			{
				Filename: fmt.Sprintf("scraper_%s.log", today),
				MimeType: "text/plain",
				Data:     []byte(logText),
			},
		},
	}

	id, err := n.sender.SendReport(msg)
	if err != nil {
		return fmt.Errorf("send report to %s: %w", n.to, err)
	}
	n.logger.Info("report email sent",
		logging.Operation("send_report"),
		logging.MessageID(id),
		slog.String("to", n.to),
		logging.Status(logging.StatusSuccess))
	return nil
}
