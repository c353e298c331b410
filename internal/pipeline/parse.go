package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ontelworks/copscan/internal/copparse"
	"github.com/ontelworks/copscan/internal/logging"
	"github.com/ontelworks/copscan/internal/store"
)

// ParseSummary reports what one parse stage did.
type ParseSummary struct {
	Parsed int
	Errors int
}

// Parse extracts package records from staged email bodies and upserts them.
// With reparse set, every staged email is reprocessed instead of only the
// pending ones.
func (p *Pipeline) Parse(ctx context.Context, reparse bool) (ParseSummary, error) {
	logger := logging.WithStage(p.logger, "parse")

	var (
		staged []store.StagedEmail
		err    error
	)
	if reparse {
		staged, err = p.storage.AllStaged(ctx)
		logger.Info("reparse mode", logging.Count(len(staged)))
	} else {
		staged, err = p.storage.PendingParse(ctx)
		logger.Info("emails pending parse", logging.Count(len(staged)))
	}
	if err != nil {
		return ParseSummary{}, err
	}
	if len(staged) == 0 {
		logger.Info("nothing to parse")
		return ParseSummary{}, nil
	}

	records := p.parseAll(ctx, staged)

	summary := ParseSummary{Parsed: len(records)}
	for _, r := range records {
		if !r.Result.OK() {
			summary.Errors++
			logger.Debug("parse error",
				logging.MessageID(r.MessageID),
				slog.String(logging.KeyError, r.Result.ParseError))
		}
	}

	logger.Info("upserting records", logging.Count(len(records)))
	for batchStart := 0; batchStart < len(records); batchStart += store.BatchSize {
		end := batchStart + store.BatchSize
		if end > len(records) {
			end = len(records)
		}
		start := time.Now()
		if err := p.storage.UpsertRecords(ctx, records[batchStart:end]); err != nil {
			return ParseSummary{}, err
		}
		p.metrics.RecordDBBatch(ctx, "upsert_records", time.Since(start))
	}

	logger.Info("parse complete",
		slog.Int("parsed_ok", summary.Parsed-summary.Errors),
		slog.Int("parse_errors", summary.Errors),
		logging.Status(logging.StatusSuccess))
	return summary, nil
}

// parseAll maps the extraction engine over the staged emails with a bounded
// worker pool. Results keep the input order so upsert batches stay stable.
func (p *Pipeline) parseAll(ctx context.Context, staged []store.StagedEmail) []store.Record {
	parser := copparse.NewDefault()
	records := make([]store.Record, len(staged))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, email := range staged {
		g.Go(func() error {
			start := time.Now()
			result := parser.Parse(email.HTMLBody)
			records[i] = store.Record{MessageID: email.MessageID, Result: result}

			status := logging.StatusSuccess
			if !result.OK() {
				status = logging.StatusError
			}
			p.metrics.RecordParseResult(gctx, status, result.PackageType, time.Since(start))
			return nil
		})
	}
	// Workers never return errors; Wait only closes out the pool.
	_ = g.Wait()
	return records
}
