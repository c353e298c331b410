package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ontelworks/copscan/internal/pipeline"
)

func newScrapeCmd() *cobra.Command {
	var (
		account    string
		reprocess  bool
		query      string
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch new report emails from Gmail into the warehouse",
		Long: `Incrementally fetch report emails from Gmail and stage them in Postgres.

By default only emails newer than the last scraped one are fetched. With
--reprocess the full GMAIL_DAYS_BACK window is re-fetched; already loaded
messages are skipped either way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := newDeps(ctx)
			if err != nil {
				return err
			}
			defer d.close(ctx)

			p, err := d.newPipeline(ctx, account, false)
			if err != nil {
				return err
			}
			_, err = p.Scrape(ctx, pipeline.ScrapeOptions{
				Reprocess:  reprocess,
				Query:      query,
				MaxResults: maxResults,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().BoolVar(&reprocess, "reprocess", false, "Ignore last seen date; re-fetch the full GMAIL_DAYS_BACK window")
	cmd.Flags().StringVar(&query, "query", "", "Override the Gmail search query (default: GMAIL_QUERY)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Override max messages to fetch (default: GMAIL_MAX_RESULTS)")
	return cmd
}
