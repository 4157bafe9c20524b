package handlers

import (
	"errors"
	"net/http"
	"strings"

	"presswatch/config"
	"presswatch/core/aggregates"
	"presswatch/core/incidents"
	"presswatch/core/store"
	"presswatch/core/utils"
)

const uploadFieldName = "files"

// parseMemoryLimit bounds the in-memory portion of a multipart parse; larger
// parts spill to temp files.
const parseMemoryLimit = 32 << 20

type IncidentsHandler struct {
	cfg    *config.AppConfig
	svc    *incidents.Service
	logger *utils.Logger
}

func NewIncidentsHandler(cfg *config.AppConfig, svc *incidents.Service, logger *utils.Logger) *IncidentsHandler {
	return &IncidentsHandler{cfg: cfg, svc: svc, logger: logger}
}

func (h *IncidentsHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			writeFailure(w, http.StatusBadRequest, "Could not parse the submitted form.")
			return
		}
		if err := r.ParseForm(); err != nil {
			writeFailure(w, http.StatusBadRequest, "Could not parse the submitted form.")
			return
		}
	}
	sub := incidents.Submission{
		PublicUserID:   r.FormValue("public_user_id"),
		AbuserHandle:   r.FormValue("abuser_handle"),
		AttackType:     r.FormValue("attack_type"),
		Description:    r.FormValue("description"),
		TargetOfAttack: r.FormValue("target_of_attack"),
		ReporterName:   r.FormValue("reporter_name"),
		Affiliation:    r.FormValue("affiliation"),
		EntityName:     r.FormValue("entity_name"),
		ActionsTaken:   r.FormValue("actions_taken"),
		Platform:       r.FormValue("platform"),
		Tags:           r.FormValue("tags"),
		URL:            r.FormValue("url"),
	}

	var uploads []incidents.Upload
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File[uploadFieldName] {
			f, err := fh.Open()
			if err != nil {
				writeFailure(w, http.StatusBadRequest, "Could not read an uploaded file.")
				return
			}
			defer f.Close()
			uploads = append(uploads, incidents.Upload{Name: fh.Filename, Data: f})
		}
	}

	id, err := h.svc.Register(r.Context(), sub, uploads)
	if err != nil {
		h.writeRegisterError(w, id, err)
		return
	}
	message := "Incident registered successfully, with some fields using default values. No files were uploaded."
	if len(uploads) > 0 {
		message = "Incident and files registered successfully, with some fields using default values."
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message})
}

// writeRegisterError maps the failure stage to a response. Failures after the
// incident row committed (aggregate update, attachment persistence) still
// leave the incident recorded; only the derived data is behind.
func (h *IncidentsHandler) writeRegisterError(w http.ResponseWriter, incidentID int64, err error) {
	var vErr *incidents.ValidationError
	if errors.As(err, &vErr) {
		writeFailure(w, http.StatusBadRequest, "Invalid incident: "+vErr.Field+" was rejected.")
		return
	}
	var aggErr *aggregates.UpdateError
	if errors.As(err, &aggErr) {
		if h.logger != nil {
			h.logger.Errorf("registerIncident: incident %d committed, %v", incidentID, aggErr)
		}
		writeFailure(w, http.StatusInternalServerError, "Incident was recorded but its counters could not be updated.")
		return
	}
	var attErr *incidents.AttachmentError
	if errors.As(err, &attErr) {
		if h.logger != nil {
			h.logger.Errorf("registerIncident: incident %d committed, %v", incidentID, attErr)
		}
		writeFailure(w, http.StatusInternalServerError, "Incident was recorded but its files could not be registered.")
		return
	}
	if h.logger != nil {
		h.logger.Errorf("registerIncident: %v", err)
	}
	writeFailure(w, http.StatusInternalServerError, "Error registering the incident.")
}

func (h *IncidentsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "User ID is missing."})
		return
	}
	items, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("getIncidents: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Error querying the database."})
		return
	}
	if items == nil {
		items = []store.Incident{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": items})
}
