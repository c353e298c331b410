package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ontelworks/copscan/internal/config"
	"github.com/ontelworks/copscan/internal/gmail"
	"github.com/ontelworks/copscan/internal/instrumentation"
	"github.com/ontelworks/copscan/internal/logging"
	"github.com/ontelworks/copscan/internal/notify"
	"github.com/ontelworks/copscan/internal/pipeline"
	"github.com/ontelworks/copscan/internal/store"
)

// deps holds everything a pipeline command needs, plus cleanup.
type deps struct {
	settings config.Settings
	logger   *slog.Logger
	logBuf   *logging.Buffer
	store    *store.Store
	provider *instrumentation.Provider
}

// newDeps loads settings, connects the store, and starts instrumentation.
func newDeps(ctx context.Context) (*deps, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, logBuf := logging.NewWithCapture()

	provider, err := instrumentation.NewProvider(ctx,
		instrumentation.ConfigFromEnv("copscan", version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize instrumentation: %w", err)
	}

	st, err := store.New(ctx, settings.DatabaseURL, logger)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	return &deps{
		settings: settings,
		logger:   logger,
		logBuf:   logBuf,
		store:    st,
		provider: provider,
	}, nil
}

func (d *deps) close(ctx context.Context) {
	d.store.Close()
	if err := d.provider.Shutdown(ctx); err != nil {
		d.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}

// newPipeline assembles the pipeline for an account. withNotifier controls
// whether the run-report mailer is attached.
func (d *deps) newPipeline(ctx context.Context, account string, withNotifier bool) (*pipeline.Pipeline, error) {
	client, err := gmail.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
	}

	var notifier pipeline.ReportSender
	if withNotifier {
		notifier = notify.New(client, d.settings.ReportEmailTo, d.logger)
	}

	return pipeline.New(pipeline.Options{
		Source:   client,
		Storage:  d.store,
		Notifier: notifier,
		Settings: d.settings,
		Metrics:  d.provider.Metrics(),
		Logger:   d.logger,
		LogText:  d.logBuf.String,
	}), nil
}
