package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"presswatch/core/utils"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS attack_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS platforms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS hashtags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS incidents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		public_user_id TEXT NOT NULL,
		abuser_handle TEXT NOT NULL,
		attack_type TEXT NOT NULL REFERENCES attack_types(name),
		description TEXT NOT NULL,
		target_of_attack TEXT NOT NULL,
		reporter_name TEXT NOT NULL,
		affiliation TEXT NOT NULL,
		entity_name TEXT NOT NULL,
		actions_taken TEXT NOT NULL,
		platform TEXT NOT NULL,
		tags TEXT NOT NULL,
		url TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_incidents_user ON incidents(public_user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_incidents_platform ON incidents(platform);`,
	`CREATE INDEX IF NOT EXISTS idx_incidents_attack_type ON incidents(attack_type);`,
	`CREATE TABLE IF NOT EXISTS incident_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		incident_id INTEGER NOT NULL,
		file_path TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY(incident_id) REFERENCES incidents(id) ON DELETE CASCADE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_incident_files_incident ON incident_files(incident_id);`,
	`CREATE TABLE IF NOT EXISTS attack_type_counts (
		attack_type TEXT PRIMARY KEY REFERENCES attack_types(name),
		attack_count INTEGER NOT NULL DEFAULT 0,
		harassment_count INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS platform_counts (
		platform TEXT PRIMARY KEY,
		harassment_count INTEGER NOT NULL DEFAULT 0
	);`,
}

// AttackTypes are the built-in attack categories. Every entry gets an
// attack_type_counts row at migration time; the incremental counter path
// never creates rows on its own.
var AttackTypes = []string{
	"Hate speech",
	"Threats",
	"Doxxing",
	"Impersonation",
	"Sexual harassment",
	"Trolling",
	"Misinformation",
	"Surveillance",
	"Other",
}

var BuiltinPlatforms = []string{
	"Facebook",
	"Twitter",
	"Instagram",
	"YouTube",
	"TikTok",
	"WhatsApp",
	"Telegram",
	"Email",
	"Other",
}

var BuiltinHashtags = []string{
	"general",
	"journalism",
	"elections",
	"online-safety",
	"press-freedom",
}

func ApplyMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	isPG, err := isPostgresDB(ctx, db)
	if err != nil {
		return err
	}
	if isPG {
		return applyGooseMigrations(ctx, db, logger)
	}
	return applySQLiteMigrations(ctx, db, logger)
}

func applySQLiteMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migration #%d failed: %w", i+1, err)
		}
	}
	post := []func(context.Context, *sql.DB) error{
		ensureAttackTypes,
		ensurePlatforms,
		ensureHashtags,
		ensurePlatformCounters,
	}
	for _, fn := range post {
		if err := fn(ctx, db); err != nil {
			return err
		}
	}
	if logger != nil {
		logger.Printf("sqlite migrations applied")
	}
	return nil
}

func applyGooseMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	goose.SetBaseFS(embeddedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	if logger != nil {
		logger.Printf("postgres migrations applied")
	}
	return nil
}

func isPostgresDB(ctx context.Context, db *sql.DB) (bool, error) {
	var version string
	if err := db.QueryRowContext(ctx, `SELECT sqlite_version()`).Scan(&version); err != nil {
		return true, nil
	}
	return false, nil
}

func ensureAttackTypes(ctx context.Context, db *sql.DB) error {
	for _, name := range AttackTypes {
		val := strings.TrimSpace(name)
		if val == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO attack_types(name, created_at)
			VALUES(?, CURRENT_TIMESTAMP)`, val); err != nil {
			return fmt.Errorf("insert attack type %s: %w", val, err)
		}
		if _, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO attack_type_counts(attack_type, attack_count, harassment_count)
			VALUES(?, 0, 0)`, val); err != nil {
			return fmt.Errorf("insert attack type counter %s: %w", val, err)
		}
	}
	return nil
}

func ensurePlatforms(ctx context.Context, db *sql.DB) error {
	for _, name := range BuiltinPlatforms {
		if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO platforms(name) VALUES(?)`, name); err != nil {
			return fmt.Errorf("insert platform %s: %w", name, err)
		}
	}
	return nil
}

func ensureHashtags(ctx context.Context, db *sql.DB) error {
	for _, name := range BuiltinHashtags {
		if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO hashtags(name) VALUES(?)`, name); err != nil {
			return fmt.Errorf("insert hashtag %s: %w", name, err)
		}
	}
	return nil
}

func ensurePlatformCounters(ctx context.Context, db *sql.DB) error {
	for _, name := range BuiltinPlatforms {
		if _, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO platform_counts(platform, harassment_count)
			VALUES(?, 0)`, name); err != nil {
			return fmt.Errorf("insert platform counter %s: %w", name, err)
		}
	}
	return nil
}
