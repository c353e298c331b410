// Package config loads pipeline settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Schema names used by the store. These mirror the warehouse layout and are
// constant for the life of the deployment.
const (
	SchemaRaw     = "data_raw"
	SchemaStaging = "data_staging"
)

// Settings holds everything the pipeline reads from the environment.
type Settings struct {
	// GmailQuery is the base Gmail search query for the scraper.
	GmailQuery string
	// GmailDaysBack is the lookback window used on first run or reprocess.
	GmailDaysBack int
	// GmailMaxResults caps how many messages one scrape fetches.
	GmailMaxResults int

	// DatabaseURL is the Postgres DSN.
	DatabaseURL string

	// ReportEmailTo receives the run-report email. Empty disables notify.
	ReportEmailTo string

	// MetricsAddr, when set, serves Prometheus metrics during a run
	// (e.g. ":9464"). Empty disables the endpoint.
	MetricsAddr string
}

// Load reads Settings from the environment, applying defaults for everything
// except the database DSN, which is required.
func Load() (Settings, error) {
	s := Settings{
		GmailQuery:      getenv("GMAIL_QUERY", "in:inbox"),
		GmailDaysBack:   30,
		GmailMaxResults: 500,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ReportEmailTo:   os.Getenv("REPORT_EMAIL_TO"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
	}

	var err error
	if s.GmailDaysBack, err = getenvInt("GMAIL_DAYS_BACK", s.GmailDaysBack); err != nil {
		return Settings{}, err
	}
	if s.GmailMaxResults, err = getenvInt("GMAIL_MAX_RESULTS", s.GmailMaxResults); err != nil {
		return Settings{}, err
	}
	if s.DatabaseURL == "" {
		return Settings{}, fmt.Errorf("DATABASE_URL is not set")
	}
	return s, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
