package audit

// retention.go runs the periodic cleanup of old audit entries.
//
// The job is long-running and context-aware. A failed prune is logged and
// retried on the next tick; it never stops the application.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls the pruning job.
type RetentionConfig struct {
	RetentionDays int           // Entries older than this are deleted (default: 30)
	CheckInterval time.Duration // How often to prune (default: 24h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = 30
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartRetention prunes immediately, then every CheckInterval until ctx is done.
func StartRetention(ctx context.Context, store Store, cfg RetentionConfig) {
	cfg = cfg.withDefaults()

	slog.Info("audit retention started",
		"retention_days", cfg.RetentionDays,
		"check_interval", cfg.CheckInterval,
	)

	runPrune(ctx, store, cfg, time.Now())

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention stopped")
			return
		case now := <-ticker.C:
			runPrune(ctx, store, cfg, now)
		}
	}
}

func runPrune(ctx context.Context, store Store, cfg RetentionConfig, now time.Time) {
	cutoff := now.AddDate(0, 0, -cfg.RetentionDays)

	pruned, err := store.Prune(ctx, cutoff)
	if err != nil {
		slog.Error("audit prune failed", "error", err)
		return
	}
	if pruned > 0 {
		slog.Info("audit entries pruned", "count", pruned, "cutoff", cutoff)
	}
}
