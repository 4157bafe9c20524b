package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ErrCounterMissing is returned when an increment targets an attack type
// with no pre-existing counter row.
var ErrCounterMissing = errors.New("counter row missing")

type AttackTypeCount struct {
	AttackType      string `json:"attack_type"`
	AttackCount     int64  `json:"attack_count"`
	HarassmentCount int64  `json:"harassment_count"`
}

type PlatformCount struct {
	Platform        string `json:"platform"`
	HarassmentCount int64  `json:"harassment_count"`
}

type AggregatesStore interface {
	// IncrementAttackTypeCount bumps both counters by one in a single
	// in-place update. Counter rows are never auto-created.
	IncrementAttackTypeCount(ctx context.Context, attackType string) error
	ListAttackTypeCounts(ctx context.Context) ([]AttackTypeCount, error)
	ListPlatformCounts(ctx context.Context) ([]PlatformCount, error)

	// ReconcilePlatformCounts overwrites platform counters with the fresh
	// group counts and zeroes counters for platforms no longer present.
	// Returns the number of rows whose stored value actually changed.
	ReconcilePlatformCounts(ctx context.Context, groups []PlatformGroup) (int64, error)
}

type aggregatesStore struct {
	db *sql.DB
}

func NewAggregatesStore(db *sql.DB) AggregatesStore {
	return &aggregatesStore{db: db}
}

func (s *aggregatesStore) IncrementAttackTypeCount(ctx context.Context, attackType string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE attack_type_counts
		SET attack_count=attack_count+1, harassment_count=harassment_count+1
		WHERE attack_type=?`, attackType)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCounterMissing
	}
	return nil
}

func (s *aggregatesStore) ListAttackTypeCounts(ctx context.Context) ([]AttackTypeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT attack_type, attack_count, harassment_count
		FROM attack_type_counts ORDER BY attack_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []AttackTypeCount
	for rows.Next() {
		var c AttackTypeCount
		if err := rows.Scan(&c.AttackType, &c.AttackCount, &c.HarassmentCount); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (s *aggregatesStore) ListPlatformCounts(ctx context.Context) ([]PlatformCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, harassment_count
		FROM platform_counts ORDER BY platform ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []PlatformCount
	for rows.Next() {
		var c PlatformCount
		if err := rows.Scan(&c.Platform, &c.HarassmentCount); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (s *aggregatesStore) ReconcilePlatformCounts(ctx context.Context, groups []PlatformGroup) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	var affected int64
	seen := make([]string, 0, len(groups))
	for _, g := range groups {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO platform_counts(platform, harassment_count)
			VALUES(?,?)
			ON CONFLICT (platform)
			DO UPDATE SET harassment_count=excluded.harassment_count
			WHERE platform_counts.harassment_count<>excluded.harassment_count`,
			g.Platform, g.Count)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		n, _ := res.RowsAffected()
		affected += n
		seen = append(seen, g.Platform)
	}
	zeroQuery := `UPDATE platform_counts SET harassment_count=0 WHERE harassment_count<>0`
	args := make([]any, 0, len(seen))
	if len(seen) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?,", len(seen)), ",")
		zeroQuery += ` AND platform NOT IN (` + placeholders + `)`
		for _, p := range seen {
			args = append(args, p)
		}
	}
	res, err := tx.ExecContext(ctx, zeroQuery, args...)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	n, _ := res.RowsAffected()
	affected += n
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}
