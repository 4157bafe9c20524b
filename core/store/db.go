package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"presswatch/config"
	"presswatch/core/utils"
)

// NewDB opens the configured database. SQLite is the test and single-host
// runtime; postgres (pgx) is the server deployment.
func NewDB(cfg *config.AppConfig, logger *utils.Logger) (*sql.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if cfg.IsSQLite() {
		return newSQLiteDB(cfg.DBURL, logger)
	}
	db, err := sql.Open("pgx", cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if logger != nil {
		logger.Printf("connected to postgres")
	}
	return db, nil
}

func newSQLiteDB(path string, logger *utils.Logger) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		path = "data/presswatch.db"
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer; concurrent requests queue on the pool instead of
	// tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if logger != nil {
		logger.Printf("opened sqlite database at %s", path)
	}
	return db, nil
}
