package appbootstrap

import (
	"context"
	"time"

	"presswatch/api"
	"presswatch/config"
	"presswatch/core/store"
	"presswatch/core/utils"
)

// Run wires the stores, services and workers, applies migrations and serves
// until ctx is cancelled.
func Run(ctx context.Context, cfg *config.AppConfig, logger *utils.Logger) error {
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, logger); err != nil {
		return err
	}

	comp, err := composeRuntime(cfg, db, logger)
	if err != nil {
		return err
	}

	for _, worker := range comp.workers {
		worker.StartWithContext(ctx)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, worker := range comp.workers {
			if err := worker.StopWithContext(stopCtx); err != nil && logger != nil {
				logger.Errorf("stop worker: %v", err)
			}
		}
	}()

	server := api.NewServer(cfg, comp.serverDeps, logger)
	return server.Run(ctx)
}
