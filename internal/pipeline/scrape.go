package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ontelworks/copscan/internal/gmail"
	"github.com/ontelworks/copscan/internal/logging"
	"github.com/ontelworks/copscan/internal/store"
)

// ScrapeOptions override the environment defaults for one run.
type ScrapeOptions struct {
	// Reprocess ignores the last seen date and re-fetches the full
	// GMAIL_DAYS_BACK window.
	Reprocess bool
	// Query overrides the base Gmail search query.
	Query string
	// MaxResults overrides the fetch cap.
	MaxResults int
}

// Scrape fetches new report emails and stages them. It returns the message
// ids of newly loaded emails, oldest first.
func (p *Pipeline) Scrape(ctx context.Context, opts ScrapeOptions) ([]string, error) {
	logger := logging.WithStage(p.logger, "scrape")

	baseQuery := opts.Query
	if baseQuery == "" {
		baseQuery = p.settings.GmailQuery
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = p.settings.GmailMaxResults
	}

	fullQuery, err := p.buildQuery(ctx, baseQuery, opts.Reprocess, logger)
	if err != nil {
		return nil, err
	}

	existing, err := p.storage.ExistingMessageIDs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded existing message ids", logging.Count(len(existing)))

	logger.Info("searching gmail",
		slog.String(logging.KeyQuery, fullQuery),
		slog.String("account", p.source.Account()))
	start := time.Now()
	matches, err := p.source.SearchMessages(fullQuery, int64(maxResults))
	p.metrics.RecordGmailOperation(ctx, "search", statusOf(err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("search gmail: %w", err)
	}
	logger.Info("search complete", logging.Count(len(matches)))

	var newIDs []string
	for _, m := range matches {
		if _, seen := existing[m.Id]; !seen {
			newIDs = append(newIDs, m.Id)
		}
	}
	logger.Info("new emails to load",
		logging.Count(len(newIDs)),
		slog.Int("already_loaded", len(matches)-len(newIDs)))
	if len(newIDs) == 0 {
		return nil, nil
	}

	emails, err := p.fetchFull(ctx, newIDs, logger)
	if err != nil {
		return nil, err
	}

	// Load oldest first so an interrupted run leaves a clean incremental
	// cursor in MAX(received_at).
	sort.Slice(emails, func(i, j int) bool {
		return emails[i].ReceivedAt.Before(emails[j].ReceivedAt)
	})

	loaded := 0
	for batchStart := 0; batchStart < len(emails); batchStart += store.BatchSize {
		end := batchStart + store.BatchSize
		if end > len(emails) {
			end = len(emails)
		}
		start := time.Now()
		if err := p.storage.InsertEmails(ctx, emails[batchStart:end]); err != nil {
			return nil, err
		}
		p.metrics.RecordDBBatch(ctx, "insert_emails", time.Since(start))
		loaded = end
		logger.Info("loaded batch", logging.Count(loaded), slog.Int("total", len(emails)))
	}

	p.metrics.RecordEmailsFetched(ctx, p.source.Account(), len(emails))
	logger.Info("scrape complete",
		logging.Count(len(emails)),
		logging.Status(logging.StatusSuccess))

	ids := make([]string, len(emails))
	for i, e := range emails {
		ids[i] = e.MessageID
	}
	return ids, nil
}

// buildQuery appends the incremental after: filter to the base query. The
// cutoff backs up one day from the last seen email so same-day arrivals are
// not missed; dedup makes the overlap harmless.
func (p *Pipeline) buildQuery(ctx context.Context, baseQuery string, reprocess bool, logger *slog.Logger) (string, error) {
	var cutoff time.Time
	if !reprocess {
		last, ok, err := p.storage.LastReceivedAt(ctx)
		if err != nil {
			return "", err
		}
		if ok {
			cutoff = last.AddDate(0, 0, -1)
			logger.Info("incremental mode", slog.String("after", cutoff.Format("2006/01/02")))
		}
	}
	if cutoff.IsZero() {
		cutoff = time.Now().UTC().AddDate(0, 0, -p.settings.GmailDaysBack)
		logger.Info("full window mode",
			slog.Int("days_back", p.settings.GmailDaysBack),
			slog.String("after", cutoff.Format("2006/01/02")))
	}
	return fmt.Sprintf("%s after:%s", baseQuery, cutoff.Format("2006/01/02")), nil
}

// fetchFull downloads and flattens each new message.
func (p *Pipeline) fetchFull(ctx context.Context, ids []string, logger *slog.Logger) ([]*store.Email, error) {
	emails := make([]*store.Email, 0, len(ids))
	for i, id := range ids {
		start := time.Now()
		msg, err := p.source.GetFullMessage(id)
		p.metrics.RecordGmailOperation(ctx, "get", statusOf(err), time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("fetch message %s: %w", id, err)
		}
		emails = append(emails, toStoreEmail(gmail.ParseMessage(msg)))
		if (i+1)%50 == 0 {
			logger.Info("fetching full messages", logging.Count(i+1), slog.Int("total", len(ids)))
		}
	}
	return emails, nil
}

func toStoreEmail(e *gmail.Email) *store.Email {
	return &store.Email{
		MessageID:    e.MessageID,
		ThreadID:     e.ThreadID,
		Sender:       e.Sender,
		SenderName:   e.SenderName,
		SenderEmail:  e.SenderEmail,
		RecipientsTo: e.RecipientsTo,
		RecipientsCc: e.RecipientsCc,
		Subject:      e.Subject,
		ReceivedAt:   e.ReceivedAt,
		HTMLBody:     e.HTMLBody,
		Headers:      e.Headers,
		Labels:       e.Labels,
	}
}

func statusOf(err error) string {
	if err != nil {
		return logging.StatusError
	}
	return logging.StatusSuccess
}
