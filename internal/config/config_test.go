package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("GMAIL_QUERY", "")
	t.Setenv("GMAIL_DAYS_BACK", "")
	t.Setenv("GMAIL_MAX_RESULTS", "")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "in:inbox", s.GmailQuery)
	assert.Equal(t, 30, s.GmailDaysBack)
	assert.Equal(t, 500, s.GmailMaxResults)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("GMAIL_QUERY", "label:cop-reports")
	t.Setenv("GMAIL_DAYS_BACK", "7")
	t.Setenv("GMAIL_MAX_RESULTS", "100")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "label:cop-reports", s.GmailQuery)
	assert.Equal(t, 7, s.GmailDaysBack)
	assert.Equal(t, 100, s.GmailMaxResults)
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("GMAIL_DAYS_BACK", "soon")

	_, err := Load()
	assert.Error(t, err)
}
