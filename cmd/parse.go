package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ontelworks/copscan/internal/pipeline"
)

func newParseCmd() *cobra.Command {
	var reparse bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract package records from staged email bodies",
		Long: `Parse staged HTML email bodies into package records.

By default only emails without a parsed record are processed. With --reparse
every staged email is reprocessed, which refreshes stored records after a
parser change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := newDeps(ctx)
			if err != nil {
				return err
			}
			defer d.close(ctx)

			// Parsing never talks to Gmail, so no client is wired.
			p := pipeline.New(pipeline.Options{
				Storage:  d.store,
				Settings: d.settings,
				Metrics:  d.provider.Metrics(),
				Logger:   d.logger,
			})
			_, err = p.Parse(ctx, reparse)
			return err
		},
	}

	cmd.Flags().BoolVar(&reparse, "reparse", false, "Re-parse all staged emails, not just pending ones")
	return cmd
}
