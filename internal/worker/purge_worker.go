package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/vaultexam/vaultexam-backend/internal/service"
)

// PurgeWorker runs the expired-row purge on a cron schedule.
type PurgeWorker struct {
	purgeService *service.PurgeService
	schedule     string
	log          zerolog.Logger
	cron         *cron.Cron
}

// NewPurgeWorker creates a new PurgeWorker with a standard 5-field cron
// schedule, e.g. "*/15 * * * *".
func NewPurgeWorker(purgeService *service.PurgeService, schedule string, log zerolog.Logger) *PurgeWorker {
	return &PurgeWorker{
		purgeService: purgeService,
		schedule:     schedule,
		log:          log.With().Str("component", "purge_worker").Logger(),
	}
}

// Start schedules the purge job and runs one pass immediately so a restart
// never leaves expired rows waiting for the next tick.
func (w *PurgeWorker) Start(ctx context.Context) error {
	if w.schedule == "" {
		w.log.Info().Msg("Purge schedule empty, scheduled purge disabled")
		return nil
	}

	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.schedule, func() { w.run(ctx) }); err != nil {
		return err
	}
	w.cron.Start()
	w.log.Info().Str("schedule", w.schedule).Msg("Purge worker started")

	go w.run(ctx)
	return nil
}

// Stop halts the scheduler and waits for an in-flight run to finish.
func (w *PurgeWorker) Stop() {
	if w.cron == nil {
		return
	}
	stopCtx := w.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		w.log.Warn().Msg("Timed out waiting for purge run to finish")
	}
	w.log.Info().Msg("Purge worker stopped")
}

func (w *PurgeWorker) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if _, err := w.purgeService.PurgeExpired(runCtx); err != nil {
		w.log.Error().Err(err).Msg("Purge run failed")
	}
}
