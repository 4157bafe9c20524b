package appbootstrap

import (
	"database/sql"

	"presswatch/api"
	"presswatch/config"
	"presswatch/core/aggregates"
	"presswatch/core/incidents"
	"presswatch/core/store"
	"presswatch/core/utils"
)

type runtimeComposition struct {
	serverDeps api.ServerDeps
	workers    []api.BackgroundWorker
}

func composeRuntime(cfg *config.AppConfig, db *sql.DB, logger *utils.Logger) (*runtimeComposition, error) {
	incidentsStore := store.NewIncidentsStore(db)
	aggregatesStore := store.NewAggregatesStore(db)
	lookupsStore := store.NewLookupsStore(db)

	updater := aggregates.NewUpdater(aggregatesStore, incidentsStore, logger)
	attachments, err := incidents.NewAttachmentStore(cfg.Uploads.StorageDir, incidentsStore, logger)
	if err != nil {
		return nil, err
	}
	incidentsSvc := incidents.NewService(incidentsStore, updater, attachments, logger)
	scheduler := aggregates.NewScheduler(cfg.Reconciler, cfg.Uploads, updater, attachments, logger)

	return &runtimeComposition{
		serverDeps: api.ServerDeps{
			IncidentsSvc:    incidentsSvc,
			Updater:         updater,
			AggregatesStore: aggregatesStore,
			LookupsStore:    lookupsStore,
		},
		workers: []api.BackgroundWorker{scheduler},
	}, nil
}
