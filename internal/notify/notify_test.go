package notify

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontelworks/copscan/internal/gmail"
	"github.com/ontelworks/copscan/internal/store"
)

type fakeSender struct {
	sent *gmail.ReportMessage
	err  error
}

func (f *fakeSender) SendReport(msg *gmail.ReportMessage) (string, error) {
	f.sent = msg
	if f.err != nil {
		return "", f.err
	}
	return "msg-123", nil
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sampleStats() RunStats {
	started := time.Date(2026, 2, 25, 14, 0, 0, 0, time.UTC)
	return RunStats{
		Started:   started,
		Ended:     started.Add(95 * time.Second),
		NewEmails: 12,
		Totals: store.Totals{
			StagedEmails:   15234,
			ParsedRecords:  1201,
			DedupedRecords: 987,
		},
		TypeCounts: []store.TypeCount{
			{PackageType: "REVIEW", Count: 700},
			{PackageType: "REVISION", Count: 287},
		},
	}
}

func TestRenderBody(t *testing.T) {
	body, err := renderBody(sampleStats())
	require.NoError(t, err)

	assert.Contains(t, body, "Gmail Package Scraper: SUCCESS")
	assert.Contains(t, body, "2026-02-25 09:00:00 EST")
	assert.Contains(t, body, "2026-02-25 09:01:35 EST")
	assert.Contains(t, body, "1m 35s")
	assert.Contains(t, body, "12 new emails fetched")
	assert.Contains(t, body, "15,234")
	assert.Contains(t, body, "+12")
	assert.Contains(t, body, "#2e7d32")
	assert.Contains(t, body, "REVISION")
	assert.Contains(t, body, "v_cop_emails (deduped)")
}

func TestRenderBodyNoNewEmails(t *testing.T) {
	stats := sampleStats()
	stats.NewEmails = 0

	body, err := renderBody(stats)
	require.NoError(t, err)
	assert.Contains(t, body, "#888")
	assert.NotContains(t, body, "+0")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "1m 0s", formatDuration(time.Minute))
	assert.Equal(t, "12m 3s", formatDuration(12*time.Minute+3*time.Second))
}

func TestCommaInt(t *testing.T) {
	assert.Equal(t, "0", commaInt(0))
	assert.Equal(t, "999", commaInt(999))
	assert.Equal(t, "1,000", commaInt(1000))
	assert.Equal(t, "15,234,567", commaInt(15234567))
	assert.Equal(t, "-1,234", commaInt(-1234))
}

func TestSendRunReport(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, "ops@example.com", discard())

	err := n.SendRunReport(sampleStats(), []byte("xlsx-bytes"), "log line\n")
	require.NoError(t, err)
	require.NotNil(t, sender.sent)

	assert.Equal(t, []string{"ops@example.com"}, sender.sent.To)
	assert.Contains(t, sender.sent.Subject, "Gmail Package Scraper: SUCCESS -- ")
	assert.Contains(t, sender.sent.HTMLBody, "Pipeline Details")

	require.Len(t, sender.sent.Attachments, 2)
	assert.Contains(t, sender.sent.Attachments[0].Filename, "package_records_")
	assert.Equal(t, xlsxMimeType, sender.sent.Attachments[0].MimeType)
	assert.Equal(t, []byte("xlsx-bytes"), sender.sent.Attachments[0].Data)
	assert.Contains(t, sender.sent.Attachments[1].Filename, "scraper_")
	assert.Equal(t, "text/plain", sender.sent.Attachments[1].MimeType)
}

func TestSendRunReportNoRecipient(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, "", discard())

	err := n.SendRunReport(sampleStats(), nil, "")
	require.NoError(t, err)
	assert.Nil(t, sender.sent, "nothing sent when recipient unset")
}

func TestSendRunReportError(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	n := New(sender, "ops@example.com", discard())

	err := n.SendRunReport(sampleStats(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ops@example.com")
}
