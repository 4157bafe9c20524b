package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postRegister(t *testing.T, env *testEnv, fields map[string]string, files []filePart) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, "/registerIncident", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRegisterIncidentAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	rec := postRegister(t, env, map[string]string{"attack_type": "Trolling"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success, got %v", body)
	}

	items, err := env.incidentsStore.ListIncidentsByUser(context.Background(), "1")
	if err != nil {
		t.Fatalf("list incidents: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 incident, got %d", len(items))
	}
	inc := items[0]
	checks := map[string]string{
		"public_user_id":   inc.PublicUserID,
		"abuser_handle":    inc.AbuserHandle,
		"description":      inc.Description,
		"target_of_attack": inc.TargetOfAttack,
		"reporter_name":    inc.ReporterName,
		"affiliation":      inc.Affiliation,
		"entity_name":      inc.EntityName,
		"actions_taken":    inc.ActionsTaken,
		"tags":             inc.Tags,
		"url":              inc.URL,
		"platform":         inc.Platform,
	}
	want := map[string]string{
		"public_user_id":   "1",
		"abuser_handle":    "N/A",
		"description":      "No description provided",
		"target_of_attack": "N/A",
		"reporter_name":    "Anonymous",
		"affiliation":      "Independent",
		"entity_name":      "N/A",
		"actions_taken":    "None reported",
		"tags":             "general",
		"url":              "url",
		"platform":         "Other",
	}
	for field, got := range checks {
		if got != want[field] {
			t.Errorf("%s = %q, want %q", field, got, want[field])
		}
	}
	if inc.AttackType != "Trolling" {
		t.Errorf("attack_type = %q, want Trolling", inc.AttackType)
	}
}

func TestRegisterIncidentRequiresAttackType(t *testing.T) {
	env := newTestEnv(t)
	rec := postRegister(t, env, map[string]string{"description": "no category"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected failure body, got %v", body)
	}
	items, err := env.incidentsStore.ListIncidentsByUser(context.Background(), "1")
	if err != nil {
		t.Fatalf("list incidents: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no incidents, got %d", len(items))
	}
}

func TestRegisterIncidentRejectsUnknownAttackType(t *testing.T) {
	env := newTestEnv(t)
	rec := postRegister(t, env, map[string]string{"attack_type": "Not a category"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterIncidentWithoutFiles(t *testing.T) {
	env := newTestEnv(t)
	rec := postRegister(t, env, map[string]string{"attack_type": "Doxxing", "public_user_id": "42"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if !strings.Contains(body["message"].(string), "No files were uploaded") {
		t.Fatalf("unexpected message %v", body["message"])
	}

	items, err := env.incidentsStore.ListIncidentsByUser(context.Background(), "42")
	if err != nil || len(items) != 1 {
		t.Fatalf("list incidents: %v, n=%d", err, len(items))
	}
	files, err := env.incidentsStore.ListIncidentFiles(context.Background(), items[0].ID)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected 0 attachment rows, got %d", len(files))
	}
}

func TestRegisterIncidentWithFiles(t *testing.T) {
	env := newTestEnv(t)
	parts := []filePart{
		{name: "one.png", content: "png-bytes"},
		{name: "two.pdf", content: "pdf-bytes"},
		{name: "three.txt", content: "text"},
	}
	rec := postRegister(t, env, map[string]string{"attack_type": "Threats", "public_user_id": "7"}, parts)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	items, err := env.incidentsStore.ListIncidentsByUser(context.Background(), "7")
	if err != nil || len(items) != 1 {
		t.Fatalf("list incidents: %v, n=%d", err, len(items))
	}
	files, err := env.incidentsStore.ListIncidentFiles(context.Background(), items[0].ID)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != len(parts) {
		t.Fatalf("expected %d attachment rows, got %d", len(parts), len(files))
	}
	for _, f := range files {
		if f.IncidentID != items[0].ID {
			t.Errorf("attachment %d references incident %d, want %d", f.ID, f.IncidentID, items[0].ID)
		}
	}
}

func TestGetIncidentsMissingUserID(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/getIncidents", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["message"] != "User ID is missing." {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestGetIncidentsFiltersBySubmitter(t *testing.T) {
	env := newTestEnv(t)
	postRegister(t, env, map[string]string{"attack_type": "Trolling", "public_user_id": "a"}, nil)
	postRegister(t, env, map[string]string{"attack_type": "Doxxing", "public_user_id": "b"}, nil)
	postRegister(t, env, map[string]string{"attack_type": "Threats", "public_user_id": "a"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/getIncidents?userId=a", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("unexpected body %v", body)
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("expected 2 incidents for user a, got %v", body["data"])
	}
}
