package pipeline

import (
	"context"
	"time"

	"github.com/ontelworks/copscan/internal/logging"
)

// Run executes scrape, parse, and notify in order. The notify stage always
// runs on success so the daily report goes out even when nothing was new.
func (p *Pipeline) Run(ctx context.Context, opts ScrapeOptions) error {
	started := time.Now().UTC()

	newIDs, err := p.Scrape(ctx, opts)
	if err != nil {
		return err
	}

	if _, err := p.Parse(ctx, opts.Reprocess); err != nil {
		return err
	}

	ended := time.Now().UTC()
	p.Notify(ctx, newIDs, started, ended)

	p.logger.Info("pipeline run complete",
		logging.Operation("run"),
		logging.Count(len(newIDs)),
		logging.Status(logging.StatusSuccess))
	return nil
}
