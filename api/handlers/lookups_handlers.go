package handlers

import (
	"context"
	"net/http"

	"presswatch/core/store"
	"presswatch/core/utils"
)

type LookupsHandler struct {
	store  store.LookupsStore
	logger *utils.Logger
}

func NewLookupsHandler(st store.LookupsStore, logger *utils.Logger) *LookupsHandler {
	return &LookupsHandler{store: st, logger: logger}
}

func (h *LookupsHandler) AttackTypes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "attackTypes", h.store.ListAttackTypes)
}

func (h *LookupsHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "platforms", h.store.ListPlatforms)
}

func (h *LookupsHandler) Hashtags(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "hashtags", h.store.ListHashtags)
}

func (h *LookupsHandler) list(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context) ([]store.LookupItem, error)) {
	items, err := fn(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("%s: %v", name, err)
		}
		writeFailure(w, http.StatusInternalServerError, "Error querying the database.")
		return
	}
	if items == nil {
		items = []store.LookupItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
