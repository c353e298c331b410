package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ontelworks/copscan/internal/config"
)

// LastReceivedAt returns the most recent received_at already scraped, and
// whether any row exists at all.
func (s *Store) LastReceivedAt(ctx context.Context) (time.Time, bool, error) {
	var last *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT MAX(received_at) FROM `+config.SchemaRaw+`.raw_emails`,
	).Scan(&last)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query last received_at: %w", err)
	}
	if last == nil {
		return time.Time{}, false, nil
	}
	return *last, true, nil
}

// ExistingMessageIDs returns all message ids already scraped, for in-memory
// dedup before fetching full messages.
func (s *Store) ExistingMessageIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT message_id FROM `+config.SchemaRaw+`.raw_emails`)
	if err != nil {
		return nil, fmt.Errorf("query existing message ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// InsertEmails writes a batch of scraped emails into both the raw and
// staging tables. Duplicates are skipped, so re-running is always safe.
func (s *Store) InsertEmails(ctx context.Context, emails []*Email) error {
	if len(emails) == 0 {
		return nil
	}
	return s.retry(ctx, "insert email batch", func() error {
		batch := &pgx.Batch{}
		for _, e := range emails {
			headers, err := json.Marshal(e.Headers)
			if err != nil {
				return fmt.Errorf("marshal headers for %s: %w", e.MessageID, err)
			}
			batch.Queue(
				`INSERT INTO `+config.SchemaRaw+`.raw_emails
					(message_id, thread_id, sender, recipients, subject,
					 received_at, html_body, headers, labels)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				 ON CONFLICT (message_id) DO NOTHING`,
				e.MessageID, e.ThreadID, e.Sender,
				map[string]any{"to": e.RecipientsTo, "cc": e.RecipientsCc},
				e.Subject, e.ReceivedAt, e.HTMLBody, headers, e.Labels,
			)
			batch.Queue(
				`INSERT INTO `+config.SchemaStaging+`.stg_emails
					(message_id, thread_id, sender_email, sender_name,
					 recipients_to, recipients_cc, subject, received_at, html_body)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				 ON CONFLICT (message_id) DO NOTHING`,
				e.MessageID, e.ThreadID, e.SenderEmail, e.SenderName,
				e.RecipientsTo, e.RecipientsCc, e.Subject, e.ReceivedAt, e.HTMLBody,
			)
		}
		return s.pool.SendBatch(ctx, batch).Close()
	})
}

// PendingParse returns staged emails that have no parsed record yet.
func (s *Store) PendingParse(ctx context.Context) ([]StagedEmail, error) {
	return s.stagedEmails(ctx,
		`SELECT e.message_id, e.subject, e.html_body
		 FROM `+config.SchemaStaging+`.stg_emails e
		 LEFT JOIN `+config.SchemaStaging+`.stg_cop_emails c USING (message_id)
		 WHERE c.message_id IS NULL`)
}

// AllStaged returns every staged email, for --reparse runs.
func (s *Store) AllStaged(ctx context.Context) ([]StagedEmail, error) {
	return s.stagedEmails(ctx,
		`SELECT message_id, subject, html_body FROM `+config.SchemaStaging+`.stg_emails`)
}

func (s *Store) stagedEmails(ctx context.Context, query string) ([]StagedEmail, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query staged emails: %w", err)
	}
	defer rows.Close()

	var emails []StagedEmail
	for rows.Next() {
		var e StagedEmail
		var body *string
		if err := rows.Scan(&e.MessageID, &e.Subject, &body); err != nil {
			return nil, err
		}
		if body != nil {
			e.HTMLBody = *body
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// ThreadIDsFor resolves message ids to their distinct thread ids, used to
// filter the deduped report view to the current run.
func (s *Store) ThreadIDsFor(ctx context.Context, messageIDs []string) ([]string, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT thread_id
		 FROM `+config.SchemaStaging+`.stg_emails
		 WHERE message_id = ANY($1)`, messageIDs)
	if err != nil {
		return nil, fmt.Errorf("query thread ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
