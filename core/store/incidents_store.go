package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type Incident struct {
	ID             int64     `json:"id"`
	PublicUserID   string    `json:"public_user_id"`
	AbuserHandle   string    `json:"abuser_handle"`
	AttackType     string    `json:"attack_type"`
	Description    string    `json:"description"`
	TargetOfAttack string    `json:"target_of_attack"`
	ReporterName   string    `json:"reporter_name"`
	Affiliation    string    `json:"affiliation"`
	EntityName     string    `json:"entity_name"`
	ActionsTaken   string    `json:"actions_taken"`
	Platform       string    `json:"platform"`
	Tags           string    `json:"tags"`
	URL            string    `json:"url"`
	CreatedAt      time.Time `json:"created_at"`
}

type IncidentFile struct {
	ID         int64     `json:"id"`
	IncidentID int64     `json:"incident_id"`
	FilePath   string    `json:"file_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlatformGroup is one row of the GROUP BY platform aggregation over
// incidents.
type PlatformGroup struct {
	Platform string
	Count    int64
}

type IncidentsStore interface {
	CreateIncident(ctx context.Context, incident *Incident) (int64, error)
	ListIncidentsByUser(ctx context.Context, publicUserID string) ([]Incident, error)

	// AddIncidentFiles records all paths in a single multi-row insert.
	AddIncidentFiles(ctx context.Context, incidentID int64, paths []string) error
	ListIncidentFiles(ctx context.Context, incidentID int64) ([]IncidentFile, error)
	// ListStoredFilePaths returns every recorded file path, for the orphan
	// sweep.
	ListStoredFilePaths(ctx context.Context) (map[string]struct{}, error)

	CountIncidentsByPlatform(ctx context.Context) ([]PlatformGroup, error)
}

type incidentsStore struct {
	db *sql.DB
}

func NewIncidentsStore(db *sql.DB) IncidentsStore {
	return &incidentsStore{db: db}
}

func (s *incidentsStore) CreateIncident(ctx context.Context, incident *Incident) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO incidents(public_user_id, abuser_handle, attack_type, description, target_of_attack, reporter_name, affiliation, entity_name, actions_taken, platform, tags, url, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		incident.PublicUserID, incident.AbuserHandle, incident.AttackType, incident.Description, incident.TargetOfAttack, incident.ReporterName, incident.Affiliation, incident.EntityName, incident.ActionsTaken, incident.Platform, incident.Tags, incident.URL, now)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	incident.ID = id
	incident.CreatedAt = now
	return id, nil
}

func (s *incidentsStore) ListIncidentsByUser(ctx context.Context, publicUserID string) ([]Incident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, public_user_id, abuser_handle, attack_type, description, target_of_attack, reporter_name, affiliation, entity_name, actions_taken, platform, tags, url, created_at
		FROM incidents WHERE public_user_id=? ORDER BY created_at DESC, id DESC`, publicUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Incident
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(&inc.ID, &inc.PublicUserID, &inc.AbuserHandle, &inc.AttackType, &inc.Description, &inc.TargetOfAttack, &inc.ReporterName, &inc.Affiliation, &inc.EntityName, &inc.ActionsTaken, &inc.Platform, &inc.Tags, &inc.URL, &inc.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, inc)
	}
	return res, rows.Err()
}

func (s *incidentsStore) AddIncidentFiles(ctx context.Context, incidentID int64, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	now := time.Now().UTC()
	var sb strings.Builder
	sb.WriteString(`INSERT INTO incident_files(incident_id, file_path, created_at) VALUES`)
	args := make([]any, 0, len(paths)*3)
	for i, p := range paths {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?)")
		args = append(args, incidentID, p, now)
	}
	_, err := s.db.ExecContext(ctx, sb.String(), args...)
	return err
}

func (s *incidentsStore) ListIncidentFiles(ctx context.Context, incidentID int64) ([]IncidentFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, incident_id, file_path, created_at
		FROM incident_files WHERE incident_id=? ORDER BY id ASC`, incidentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []IncidentFile
	for rows.Next() {
		var f IncidentFile
		if err := rows.Scan(&f.ID, &f.IncidentID, &f.FilePath, &f.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

func (s *incidentsStore) ListStoredFilePaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_path FROM incident_files`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := map[string]struct{}{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		res[p] = struct{}{}
	}
	return res, rows.Err()
}

func (s *incidentsStore) CountIncidentsByPlatform(ctx context.Context) ([]PlatformGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, COUNT(*) FROM incidents GROUP BY platform`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []PlatformGroup
	for rows.Next() {
		var g PlatformGroup
		if err := rows.Scan(&g.Platform, &g.Count); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

// IsForeignKeyViolation reports whether err is a foreign-key rejection from
// either supported driver.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
