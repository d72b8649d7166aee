package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"

	"capsnav/internal/config"
	"capsnav/internal/filter"
	"capsnav/internal/inputevent"
	"capsnav/internal/logging"
	"capsnav/internal/store"
)

func runFilter(ctx context.Context, opts *rootOptions) error {
	loader := opts.loader()
	defer loader.Close()
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", loader.Path(), err)
	}

	lc, err := cfg.LoggerConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(lc)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logger.Close()
	defer logger.RecoverAndExit()

	// Report a vanished reader as EPIPE instead of dying on SIGPIPE.
	signal.Ignore(unix.SIGPIPE)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, unix.SIGTERM)
	defer stop()

	f := filter.New(os.Stdin, os.Stdout,
		filter.WithLogger(logger.WithComponent("filter")),
		filter.WithTrace(cfg.Trace.Enabled),
	)
	if cfg.Trace.Enabled && logger.Level() > logging.LevelDebug {
		logger.Warn("trace enabled but log level hides debug records", "level", cfg.Logging.Level)
	}

	if cfg.Watch.Enabled {
		loader.OnChange(func(_, next *config.Config) {
			applyReload(logger, f, next)
		})
		if err := loader.Watch(); err != nil {
			logger.Warn("config watch disabled", "path", loader.Path(), "error", err)
		} else {
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case err := <-loader.Errors():
						logger.Warn("config reload rejected", "error", err)
					}
				}
			}()
		}
	}

	started := time.Now()
	ledger, runID := openLedger(logger, cfg, started)
	if ledger != nil {
		defer ledger.Close()
	}

	logger.Info("filter started",
		"version", version,
		"record_size", inputevent.Size,
		"pid", os.Getpid(),
	)

	errCh := make(chan error, 1)
	go func() {
		defer logger.RecoverAndExit()
		errCh <- f.Run(ctx)
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		// The blocked read cannot be interrupted; the process exits around it.
		runErr = ctx.Err()
	}

	stats := f.Stats()
	reason := exitReason(runErr)
	if ledger != nil {
		if err := ledger.FinishRun(runID, time.Now(), countersOf(stats), reason); err != nil {
			logger.Warn("record run", "error", err)
		}
	}

	attrs := []any{
		"reason", reason,
		"uptime", time.Since(started).Round(time.Millisecond).String(),
		"records", stats.Records,
		"key_events", stats.KeyEvents,
		"synthesized", stats.Synthesized,
		"suppressed", stats.Suppressed,
	}
	if errors.Is(runErr, context.Canceled) {
		logger.Info("filter stopped", attrs...)
		return nil
	}
	logger.Error("filter stopped", append(attrs, "error", runErr)...)
	return &loggedError{err: runErr}
}

func applyReload(logger *logging.Logger, f *filter.Filter, cfg *config.Config) {
	if level, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	f.SetTrace(cfg.Trace.Enabled)
	logger.Info("config reloaded", "level", cfg.Logging.Level, "trace", cfg.Trace.Enabled)
}

// openLedger opens the run ledger when enabled. A ledger failure is logged
// and the filter runs without it.
func openLedger(logger *logging.Logger, cfg *config.Config, started time.Time) (*store.Store, int64) {
	if !cfg.Stats.Enabled {
		return nil, 0
	}
	ledger, err := store.Open(cfg.Stats.Path)
	if err != nil {
		logger.Warn("run ledger disabled", "path", cfg.Stats.Path, "error", err)
		return nil, 0
	}
	id, err := ledger.BeginRun(os.Getpid(), version, started)
	if err != nil {
		logger.Warn("run ledger disabled", "path", cfg.Stats.Path, "error", err)
		ledger.Close()
		return nil, 0
	}
	return ledger, id
}

func countersOf(s filter.Stats) store.Counters {
	return store.Counters{
		Records:     s.Records,
		KeyEvents:   s.KeyEvents,
		Passthrough: s.Passthrough,
		Forwarded:   s.Forwarded,
		Suppressed:  s.Suppressed,
		Synthesized: s.Synthesized,
	}
}

func exitReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled):
		return "signal"
	case errors.Is(err, filter.ErrInputClosed):
		return "input closed"
	case errors.Is(err, inputevent.ErrShortRecord):
		return "short record"
	case errors.Is(err, inputevent.ErrInvalidKeyValue):
		return "invalid key value"
	case errors.Is(err, inputevent.ErrNotKeyEvent):
		return "internal error"
	case filter.IsBrokenPipe(err):
		return "broken pipe"
	case errors.Is(err, filter.ErrOutputClosed):
		return "output closed"
	default:
		return "read error"
	}
}
