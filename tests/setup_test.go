package tests

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"testing"

	"presswatch/api"
	"presswatch/config"
	"presswatch/core/aggregates"
	"presswatch/core/incidents"
	"presswatch/core/store"
	"presswatch/core/utils"
)

type testEnv struct {
	cfg             *config.AppConfig
	handler         http.Handler
	incidentsStore  store.IncidentsStore
	aggregatesStore store.AggregatesStore
	incidentsSvc    *incidents.Service
	updater         *aggregates.Updater
	attachments     *incidents.AttachmentStore
	uploadsDir      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	uploadsDir := filepath.Join(dir, "uploads")
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBURL:    filepath.Join(dir, "presswatch.db"),
		Uploads:  config.UploadsConfig{StorageDir: uploadsDir, MaxUploadBytes: 10 << 20, OrphanGraceMinutes: 60},
	}
	logger := utils.NewLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	incidentsStore := store.NewIncidentsStore(db)
	aggregatesStore := store.NewAggregatesStore(db)
	lookupsStore := store.NewLookupsStore(db)
	updater := aggregates.NewUpdater(aggregatesStore, incidentsStore, logger)
	attachments, err := incidents.NewAttachmentStore(uploadsDir, incidentsStore, logger)
	if err != nil {
		t.Fatalf("attachment store: %v", err)
	}
	svc := incidents.NewService(incidentsStore, updater, attachments, logger)

	server := api.NewServer(cfg, api.ServerDeps{
		IncidentsSvc:    svc,
		Updater:         updater,
		AggregatesStore: aggregatesStore,
		LookupsStore:    lookupsStore,
	}, logger)

	return &testEnv{
		cfg:             cfg,
		handler:         server.Handler(),
		incidentsStore:  incidentsStore,
		aggregatesStore: aggregatesStore,
		incidentsSvc:    svc,
		updater:         updater,
		attachments:     attachments,
		uploadsDir:      uploadsDir,
	}
}

type filePart struct {
	name    string
	content string
}

// multipartBody builds a registerIncident form with the given fields and
// file parts under the "files" field.
func multipartBody(t *testing.T, fields map[string]string, files []filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatalf("create file part %s: %v", f.name, err)
		}
		if _, err := io.WriteString(part, f.content); err != nil {
			t.Fatalf("write file part %s: %v", f.name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
