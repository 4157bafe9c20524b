package store

import (
	"context"
	"database/sql"
)

type LookupItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LookupsStore serves the dropdown lists used by the report form.
type LookupsStore interface {
	ListAttackTypes(ctx context.Context) ([]LookupItem, error)
	ListPlatforms(ctx context.Context) ([]LookupItem, error)
	ListHashtags(ctx context.Context) ([]LookupItem, error)
}

type lookupsStore struct {
	db *sql.DB
}

func NewLookupsStore(db *sql.DB) LookupsStore {
	return &lookupsStore{db: db}
}

func (s *lookupsStore) ListAttackTypes(ctx context.Context) ([]LookupItem, error) {
	return s.list(ctx, `SELECT id, name FROM attack_types ORDER BY name ASC`)
}

func (s *lookupsStore) ListPlatforms(ctx context.Context) ([]LookupItem, error) {
	return s.list(ctx, `SELECT id, name FROM platforms ORDER BY name ASC`)
}

func (s *lookupsStore) ListHashtags(ctx context.Context) ([]LookupItem, error) {
	return s.list(ctx, `SELECT id, name FROM hashtags ORDER BY name ASC`)
}

func (s *lookupsStore) list(ctx context.Context, query string) ([]LookupItem, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []LookupItem
	for rows.Next() {
		var item LookupItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, rows.Err()
}
