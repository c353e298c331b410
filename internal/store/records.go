package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ontelworks/copscan/internal/config"
	"github.com/ontelworks/copscan/internal/copparse"
)

// schemaAnalytics holds the deduped reporting view maintained in the
// warehouse (one row per thread, latest record wins).
const schemaAnalytics = "analytics"

// UpsertRecords writes parsed package records. Conflicts on message_id
// update in place, so re-parsing after a parser fix refreshes stored rows.
func (s *Store) UpsertRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	return s.retry(ctx, "upsert record batch", func() error {
		batch := &pgx.Batch{}
		for _, r := range records {
			fields, err := fieldsJSON(r.Result.Fields)
			if err != nil {
				return fmt.Errorf("marshal fields for %s: %w", r.MessageID, err)
			}
			batch.Queue(
				`INSERT INTO `+config.SchemaStaging+`.stg_cop_emails
					(message_id, package_type, fields, dropbox_url, swift_url, parse_error)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (message_id) DO UPDATE SET
					package_type = EXCLUDED.package_type,
					fields       = EXCLUDED.fields,
					dropbox_url  = EXCLUDED.dropbox_url,
					swift_url    = EXCLUDED.swift_url,
					parse_error  = EXCLUDED.parse_error,
					parsed_at    = NOW()`,
				r.MessageID,
				nullable(r.Result.PackageType),
				fields,
				nullable(r.Result.DropboxURL),
				nullable(r.Result.SwiftURL),
				nullable(r.Result.ParseError),
			)
		}
		return s.pool.SendBatch(ctx, batch).Close()
	})
}

// Summary returns table totals and per-type counts for the run report.
func (s *Store) Summary(ctx context.Context) (Totals, []TypeCount, error) {
	var t Totals
	err := s.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM `+config.SchemaStaging+`.stg_emails),
			(SELECT COUNT(*) FROM `+config.SchemaStaging+`.stg_cop_emails),
			(SELECT COUNT(*) FROM `+schemaAnalytics+`.v_cop_emails)`,
	).Scan(&t.StagedEmails, &t.ParsedRecords, &t.DedupedRecords)
	if err != nil {
		return Totals{}, nil, fmt.Errorf("query summary totals: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT package_type, COUNT(*)
		 FROM `+schemaAnalytics+`.v_cop_emails
		 GROUP BY package_type ORDER BY COUNT(*) DESC`)
	if err != nil {
		return Totals{}, nil, fmt.Errorf("query type counts: %w", err)
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var c TypeCount
		var pt *string
		if err := rows.Scan(&pt, &c.Count); err != nil {
			return Totals{}, nil, err
		}
		if pt != nil {
			c.PackageType = *pt
		} else {
			c.PackageType = copparse.TypeUnknown
		}
		counts = append(counts, c)
	}
	return t, counts, rows.Err()
}

// ReportRows returns the deduped report view rows for the given threads,
// ordered by receipt time. Columns are keyed by the view's column names so
// the spreadsheet builder stays data-driven; the raw extracted fields ride
// along as ordered JSON for dynamic-column discovery.
func (s *Store) ReportRows(ctx context.Context, threadIDs []string) ([]ReportRow, error) {
	if len(threadIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT v.*, c.fields::text AS __fields
		 FROM `+schemaAnalytics+`.v_cop_emails v
		 JOIN `+config.SchemaStaging+`.stg_cop_emails c USING (message_id)
		 WHERE v.thread_id = ANY($1)
		 ORDER BY v.received_at_et`, threadIDs)
	if err != nil {
		return nil, fmt.Errorf("query report rows: %w", err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	var out []ReportRow
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := ReportRow{
			Columns: make(map[string]any, len(descs)),
			Fields:  copparse.NewFieldMap(),
		}
		for i, d := range descs {
			if d.Name == "__fields" {
				if text, ok := values[i].(string); ok && text != "" {
					if err := json.Unmarshal([]byte(text), row.Fields); err != nil {
						return nil, fmt.Errorf("decode fields json: %w", err)
					}
				}
				continue
			}
			row.Columns[d.Name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// nullable maps "" to NULL so empty classifier output does not masquerade as
// a real value in the warehouse.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fieldsJSON renders extracted fields as the jsonb upsert parameter. Failed
// parses carry no field map; those store SQL NULL, not the jsonb 'null'
// literal.
func fieldsJSON(fields *copparse.FieldMap) (any, error) {
	if fields == nil {
		return nil, nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return b, nil
}
