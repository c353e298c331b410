package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gapi "google.golang.org/api/gmail/v1"

	"github.com/ontelworks/copscan/internal/config"
	"github.com/ontelworks/copscan/internal/notify"
	"github.com/ontelworks/copscan/internal/store"
)

const sampleBody = `<table>
  <tr><td>CLOSE OUT PACKAGE REVIEW</td></tr>
  <tr><td>SITE ID:</td><td>ABC123</td></tr>
</table>`

type fakeSource struct {
	messages map[string]*gapi.Message
	matched  []string
	query    string
}

func (f *fakeSource) Account() string { return "scraper@example.com" }

func (f *fakeSource) SearchMessages(query string, maxResults int64) ([]*gapi.Message, error) {
	f.query = query
	var out []*gapi.Message
	for _, id := range f.matched {
		out = append(out, &gapi.Message{Id: id})
		if int64(len(out)) >= maxResults {
			break
		}
	}
	return out, nil
}

func (f *fakeSource) GetFullMessage(messageID string) (*gapi.Message, error) {
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("no such message %s", messageID)
	}
	return msg, nil
}

type fakeStorage struct {
	lastReceived time.Time
	hasLast      bool
	existing     map[string]struct{}
	inserted     []*store.Email
	staged       []store.StagedEmail
	allStaged    []store.StagedEmail
	upserted     []store.Record
	totals       store.Totals
	typeCounts   []store.TypeCount
	reportRows   []store.ReportRow
}

func (f *fakeStorage) LastReceivedAt(context.Context) (time.Time, bool, error) {
	return f.lastReceived, f.hasLast, nil
}

func (f *fakeStorage) ExistingMessageIDs(context.Context) (map[string]struct{}, error) {
	if f.existing == nil {
		return map[string]struct{}{}, nil
	}
	return f.existing, nil
}

func (f *fakeStorage) InsertEmails(_ context.Context, emails []*store.Email) error {
	f.inserted = append(f.inserted, emails...)
	return nil
}

func (f *fakeStorage) PendingParse(context.Context) ([]store.StagedEmail, error) {
	return f.staged, nil
}

func (f *fakeStorage) AllStaged(context.Context) ([]store.StagedEmail, error) {
	return f.allStaged, nil
}

func (f *fakeStorage) UpsertRecords(_ context.Context, records []store.Record) error {
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeStorage) Summary(context.Context) (store.Totals, []store.TypeCount, error) {
	return f.totals, f.typeCounts, nil
}

func (f *fakeStorage) ThreadIDsFor(_ context.Context, ids []string) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "thread-" + id
	}
	return out, nil
}

func (f *fakeStorage) ReportRows(context.Context, []string) ([]store.ReportRow, error) {
	return f.reportRows, nil
}

type fakeNotifier struct {
	stats    *notify.RunStats
	workbook []byte
	logText  string
}

func (f *fakeNotifier) SendRunReport(stats notify.RunStats, workbook []byte, logText string) error {
	f.stats = &stats
	f.workbook = workbook
	f.logText = logText
	return nil
}

func fullMessage(id string, received time.Time, htmlBody string) *gapi.Message {
	return &gapi.Message{
		Id:           id,
		ThreadId:     "t-" + id,
		InternalDate: received.UnixMilli(),
		Payload: &gapi.MessagePart{
			MimeType: "text/html",
			Headers: []*gapi.MessagePartHeader{
				{Name: "From", Value: "Reports <reports@example.com>"},
				{Name: "Subject", Value: "Site ABC123 COP"},
			},
			Body: &gapi.MessagePartBody{
				Data: base64.URLEncoding.EncodeToString([]byte(htmlBody)),
			},
		},
	}
}

func testSettings() config.Settings {
	return config.Settings{
		GmailQuery:      "in:inbox",
		GmailDaysBack:   30,
		GmailMaxResults: 500,
	}
}

func newTestPipeline(src *fakeSource, st *fakeStorage, n ReportSender) *Pipeline {
	return New(Options{
		Source:   src,
		Storage:  st,
		Notifier: n,
		Settings: testSettings(),
		Logger:   slog.New(slog.DiscardHandler),
		LogText:  func() string { return "captured log" },
	})
}

func TestScrapeIncremental(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{
		matched: []string{"m1", "m2", "m3"},
		messages: map[string]*gapi.Message{
			// m2 arrives before m1 to exercise oldest-first ordering.
			"m1": fullMessage("m1", now.Add(-time.Hour), sampleBody),
			"m2": fullMessage("m2", now.Add(-2*time.Hour), sampleBody),
		},
	}
	st := &fakeStorage{
		lastReceived: now.Add(-24 * time.Hour),
		hasLast:      true,
		existing:     map[string]struct{}{"m3": {}},
	}

	ids, err := newTestPipeline(src, st, nil).Scrape(context.Background(), ScrapeOptions{})
	require.NoError(t, err)

	// after: backs up one day from the last seen email.
	assert.Contains(t, src.query, "in:inbox after:2026/03/08")

	assert.Equal(t, []string{"m2", "m1"}, ids, "oldest first")
	require.Len(t, st.inserted, 2)
	assert.Equal(t, "m2", st.inserted[0].MessageID)
	assert.Equal(t, "reports@example.com", st.inserted[0].SenderEmail)
	assert.Contains(t, st.inserted[0].HTMLBody, "CLOSE OUT PACKAGE")
}

func TestScrapeFirstRunWindow(t *testing.T) {
	src := &fakeSource{}
	st := &fakeStorage{}

	ids, err := newTestPipeline(src, st, nil).Scrape(context.Background(), ScrapeOptions{})
	require.NoError(t, err)
	assert.Empty(t, ids)

	want := time.Now().UTC().AddDate(0, 0, -30).Format("2006/01/02")
	assert.Contains(t, src.query, "after:"+want)
}

func TestScrapeReprocessIgnoresCursor(t *testing.T) {
	src := &fakeSource{}
	st := &fakeStorage{
		lastReceived: time.Now().UTC(),
		hasLast:      true,
	}

	_, err := newTestPipeline(src, st, nil).Scrape(context.Background(), ScrapeOptions{Reprocess: true})
	require.NoError(t, err)

	want := time.Now().UTC().AddDate(0, 0, -30).Format("2006/01/02")
	assert.Contains(t, src.query, "after:"+want)
}

func TestScrapeQueryOverride(t *testing.T) {
	src := &fakeSource{}
	st := &fakeStorage{}

	_, err := newTestPipeline(src, st, nil).Scrape(context.Background(), ScrapeOptions{Query: "in:sent"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src.query, "in:sent after:"), "query was %q", src.query)
}

func TestScrapeAllAlreadyLoaded(t *testing.T) {
	src := &fakeSource{matched: []string{"m1"}}
	st := &fakeStorage{existing: map[string]struct{}{"m1": {}}}

	ids, err := newTestPipeline(src, st, nil).Scrape(context.Background(), ScrapeOptions{})
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, st.inserted)
}

func TestParsePending(t *testing.T) {
	st := &fakeStorage{
		staged: []store.StagedEmail{
			{MessageID: "m1", HTMLBody: sampleBody},
			{MessageID: "m2", HTMLBody: ""},
		},
	}

	summary, err := newTestPipeline(&fakeSource{}, st, nil).Parse(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Parsed)
	assert.Equal(t, 1, summary.Errors)

	require.Len(t, st.upserted, 2)
	byID := map[string]store.Record{}
	for _, r := range st.upserted {
		byID[r.MessageID] = r
	}
	good := byID["m1"]
	assert.Equal(t, "REVIEW", good.Result.PackageType)
	v, _ := good.Result.Fields.Get("SITE ID")
	assert.Equal(t, "ABC123", v)
	assert.False(t, byID["m2"].Result.OK())
}

func TestParseReparseUsesAllStaged(t *testing.T) {
	st := &fakeStorage{
		staged:    []store.StagedEmail{{MessageID: "pending", HTMLBody: sampleBody}},
		allStaged: []store.StagedEmail{{MessageID: "a", HTMLBody: sampleBody}, {MessageID: "b", HTMLBody: sampleBody}},
	}

	summary, err := newTestPipeline(&fakeSource{}, st, nil).Parse(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Parsed)
	assert.Len(t, st.upserted, 2)
}

func TestParseKeepsInputOrder(t *testing.T) {
	var staged []store.StagedEmail
	for i := 0; i < 120; i++ {
		staged = append(staged, store.StagedEmail{
			MessageID: fmt.Sprintf("m%03d", i),
			HTMLBody:  sampleBody,
		})
	}
	st := &fakeStorage{staged: staged}

	_, err := newTestPipeline(&fakeSource{}, st, nil).Parse(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, st.upserted, 120)
	for i, r := range st.upserted {
		assert.Equal(t, fmt.Sprintf("m%03d", i), r.MessageID)
	}
}

func TestRunSendsReport(t *testing.T) {
	now := time.Now().UTC()
	src := &fakeSource{
		matched:  []string{"m1"},
		messages: map[string]*gapi.Message{"m1": fullMessage("m1", now, sampleBody)},
	}
	st := &fakeStorage{
		staged: []store.StagedEmail{{MessageID: "m1", HTMLBody: sampleBody}},
		totals: store.Totals{StagedEmails: 1, ParsedRecords: 1, DedupedRecords: 1},
		typeCounts: []store.TypeCount{
			{PackageType: "REVIEW", Count: 1},
		},
	}
	n := &fakeNotifier{}

	err := newTestPipeline(src, st, n).Run(context.Background(), ScrapeOptions{})
	require.NoError(t, err)

	require.NotNil(t, n.stats)
	assert.Equal(t, 1, n.stats.NewEmails)
	assert.Equal(t, st.totals, n.stats.Totals)
	assert.NotEmpty(t, n.workbook, "workbook attachment built")
	assert.Equal(t, "captured log", n.logText)
	assert.False(t, n.stats.Started.After(n.stats.Ended))
}

func TestNotifyWithoutNotifier(t *testing.T) {
	st := &fakeStorage{}
	p := newTestPipeline(&fakeSource{}, st, nil)

	// Must be a no-op, not a panic.
	p.Notify(context.Background(), []string{"m1"}, time.Now(), time.Now())
}
