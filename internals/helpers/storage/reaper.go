package storage

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"gabconcours_backend/internals/configs"
)

// StartTrashReaperCron menjadwalkan pembersihan trash/ sesuai RETENTION_DAYS.
// Caller bertanggung jawab memanggil Stop() saat shutdown.
func StartTrashReaperCron(store Store, cfg configs.ReaperConfig) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		RunTrashReaper(ctx, store, cfg.RetentionDays, cfg.DryRun)
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("schedule", cfg.Schedule).
		Int("retention_days", cfg.RetentionDays).
		Bool("dry_run", cfg.DryRun).
		Msg("[TRASH-REAPER] started")
	c.Start()
	return c, nil
}

func RunTrashReaper(ctx context.Context, store Store, retentionDays int, dryRun bool) int {
	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	n, err := store.PurgeTrash(ctx, cutoff, dryRun)
	if err != nil {
		log.Error().Err(err).Int("deleted", n).Msg("[TRASH-REAPER] purge failed")
		return n
	}
	if dryRun {
		log.Info().Int("would_delete", n).Time("cutoff", cutoff).Msg("[TRASH-REAPER] dry-run")
	} else if n > 0 {
		log.Info().Int("deleted", n).Time("cutoff", cutoff).Msg("[TRASH-REAPER] purged")
	}
	return n
}
