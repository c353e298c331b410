package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ontelworks/copscan/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	var (
		account    string
		reprocess  bool
		query      string
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: scrape, parse, and send the run report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := newDeps(ctx)
			if err != nil {
				return err
			}
			defer d.close(ctx)

			srv := d.provider.ServeMetrics(d.settings.MetricsAddr, d.logger)
			if srv != nil {
				defer func() { _ = srv.Shutdown(ctx) }()
			}

			p, err := d.newPipeline(ctx, account, true)
			if err != nil {
				return err
			}
			return p.Run(ctx, pipeline.ScrapeOptions{
				Reprocess:  reprocess,
				Query:      query,
				MaxResults: maxResults,
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().BoolVar(&reprocess, "reprocess", false, "Ignore last seen date; re-fetch the full GMAIL_DAYS_BACK window")
	cmd.Flags().StringVar(&query, "query", "", "Override the Gmail search query (default: GMAIL_QUERY)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Override max messages to fetch (default: GMAIL_MAX_RESULTS)")
	return cmd
}
