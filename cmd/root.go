package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the copscan application
var rootCmd = &cobra.Command{
	Use:   "copscan",
	Short: "Scrapes close-out package emails from Gmail into the warehouse",
	Long: `copscan pulls close-out package report emails from Gmail, extracts the
package records from their HTML tables, and loads them into Postgres.

Stages can run individually (scrape, parse, notify) or chained with run,
which is the default when no subcommand is given.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "copscan version %s\n" .Version}}`)

	// If no subcommand is provided, run the full pipeline by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newScrapeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newNotifyCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
