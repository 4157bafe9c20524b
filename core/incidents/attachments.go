package incidents

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"

	"presswatch/core/store"
	"presswatch/core/utils"
)

// Upload is one multipart blob handed over by the HTTP boundary.
type Upload struct {
	Name string
	Data io.Reader
}

// AttachmentStore writes uploaded blobs into the content directory and
// records their paths in incident_files. The blob write and the row insert
// commit independently; a failed insert leaves orphan blobs on disk for the
// sweep.
type AttachmentStore struct {
	dir       string
	incidents store.IncidentsStore
	logger    *utils.Logger
}

func NewAttachmentStore(dir string, incidents store.IncidentsStore, logger *utils.Logger) (*AttachmentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &AttachmentStore{dir: dir, incidents: incidents, logger: logger}, nil
}

// Persist stores each blob under a generated name and records all paths in a
// single batched insert. Zero uploads is a no-op success.
func (a *AttachmentStore) Persist(ctx context.Context, incidentID int64, uploads []Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	saved := make([]string, 0, len(uploads))
	for _, up := range uploads {
		path := filepath.Join(a.dir, a.blobName(up.Name))
		if err := writeBlob(path, up.Data); err != nil {
			return saved, &AttachmentError{Saved: saved, Err: fmt.Errorf("store blob %s: %w", up.Name, err)}
		}
		saved = append(saved, path)
	}
	if err := a.incidents.AddIncidentFiles(ctx, incidentID, saved); err != nil {
		return saved, &AttachmentError{Saved: saved, Err: fmt.Errorf("record incident files: %w", err)}
	}
	return saved, nil
}

func (a *AttachmentStore) blobName(original string) string {
	suffix := uuid.Must(uuid.NewV4()).String()[:8]
	return fmt.Sprintf("files-%d-%s%s", time.Now().UnixNano(), suffix, filepath.Ext(original))
}

func writeBlob(path string, data io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// SweepOrphans deletes stored blobs older than the grace window that no
// incident_files row references. Returns the number of blobs removed.
func (a *AttachmentStore) SweepOrphans(ctx context.Context, olderThan time.Duration) (int, error) {
	recorded, err := a.incidents.ListStoredFilePaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recorded paths: %w", err)
	}
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return 0, fmt.Errorf("read uploads dir: %w", err)
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(a.dir, entry.Name())
		if _, ok := recorded[path]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			if a.logger != nil {
				a.logger.Errorf("sweep orphan %s: %v", path, err)
			}
			continue
		}
		removed++
	}
	if removed > 0 && a.logger != nil {
		a.logger.Printf("swept %d orphan blob(s)", removed)
	}
	return removed, nil
}
