package service

import (
	"context"
	"time"

	"lodge/config"

	"github.com/rs/zerolog/log"
)

const defaultSweepInterval = 60 * time.Second

// Sweeper runs the sync sweep on a fixed interval until its context is
// cancelled.
type Sweeper struct {
	svc Sync
	cfg *config.Config
}

func NewSweeper(svc Sync, cfg *config.Config) *Sweeper {
	return &Sweeper{
		svc: svc,
		cfg: cfg,
	}
}

func (w *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(w.cfg.Sync.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	log.Info().Dur("interval", interval).Msg("sync sweeper started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sync sweeper stopped")

			return
		case <-ticker.C:
			result, err := w.svc.Sweep(ctx)
			if err != nil {
				log.Error().Err(err).Msg("sync sweep failed")

				continue
			}

			if result.Pushed > 0 || result.Conflicts > 0 || result.Failed > 0 {
				log.Info().
					Int("pushed", result.Pushed).
					Int("conflicts", result.Conflicts).
					Int("failed", result.Failed).
					Msg("sync sweep finished")
			}
		}
	}
}
