package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"presswatch/api/handlers"
)

func (s *Server) newRouter() http.Handler {
	incidentsHandler := handlers.NewIncidentsHandler(s.cfg, s.deps.IncidentsSvc, s.logger)
	aggregatesHandler := handlers.NewAggregatesHandler(s.deps.AggregatesStore, s.deps.Updater, s.logger)
	lookupsHandler := handlers.NewLookupsHandler(s.deps.LookupsStore, s.logger)

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(corsMiddleware)
	r.Use(s.maxBytesMiddleware)

	r.Post("/registerIncident", incidentsHandler.Register)
	r.Get("/getIncidents", incidentsHandler.ListByUser)

	r.Get("/attack-type-count", aggregatesHandler.AttackTypeCounts)
	r.Get("/social-media-attacks", aggregatesHandler.PlatformCounts)
	r.Post("/reconcilePlatformCounts", aggregatesHandler.Reconcile)

	r.Get("/attackTypes", lookupsHandler.AttackTypes)
	r.Get("/platforms", lookupsHandler.Platforms)
	r.Get("/hashtags", lookupsHandler.Hashtags)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
