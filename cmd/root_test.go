package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"run", "scrape", "parse", "notify", "auth", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, "subcommand %s", name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestScrapeFlags(t *testing.T) {
	cmd := newScrapeCmd()
	for _, flag := range []string{"account", "reprocess", "query", "max-results"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag --%s", flag)
	}
}

func TestParseFlags(t *testing.T) {
	cmd := newParseCmd()
	assert.NotNil(t, cmd.Flags().Lookup("reparse"))
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", rootCmd.Version)
}
