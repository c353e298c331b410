package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newNotifyCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send the run-report email with current warehouse totals",
		Long: `Send the run-report email on demand. The report carries the current
warehouse totals and an empty records workbook, since no scrape ran.
REPORT_EMAIL_TO must be set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := newDeps(ctx)
			if err != nil {
				return err
			}
			defer d.close(ctx)

			p, err := d.newPipeline(ctx, account, true)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			p.Notify(ctx, nil, now, now)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	return cmd
}
