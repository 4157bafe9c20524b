package handlers

import (
	"net/http"

	"presswatch/core/aggregates"
	"presswatch/core/store"
	"presswatch/core/utils"
)

type AggregatesHandler struct {
	store   store.AggregatesStore
	updater *aggregates.Updater
	logger  *utils.Logger
}

func NewAggregatesHandler(st store.AggregatesStore, updater *aggregates.Updater, logger *utils.Logger) *AggregatesHandler {
	return &AggregatesHandler{store: st, updater: updater, logger: logger}
}

func (h *AggregatesHandler) AttackTypeCounts(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAttackTypeCounts(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("attack-type-count: %v", err)
		}
		writeFailure(w, http.StatusInternalServerError, "Error querying the database.")
		return
	}
	if items == nil {
		items = []store.AttackTypeCount{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AggregatesHandler) PlatformCounts(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListPlatformCounts(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("social-media-attacks: %v", err)
		}
		writeFailure(w, http.StatusInternalServerError, "Error querying the database.")
		return
	}
	if items == nil {
		items = []store.PlatformCount{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AggregatesHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	affected, err := h.updater.RecomputePlatformCounts(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("reconcilePlatformCounts: %v", err)
		}
		writeFailure(w, http.StatusInternalServerError, "Error recomputing platform counts.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "rowsAffected": affected})
}
