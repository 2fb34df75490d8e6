package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"insights-dashboard/internal/model"
	"insights-dashboard/internal/query"
)

// datasetName is the dataset_meta row tracking the insights table
const datasetName = "insights"

const selectColumns = `id, title, insight, url, added, published, start_year, end_year,
	topic, sector, region, pestle, source, swot, country, city,
	intensity, likelihood, relevance, impact`

const insertInsight = `INSERT INTO insights (
	id, title, insight, url, added, published, start_year, end_year,
	topic, sector, region, pestle, source, swot, country, city,
	intensity, likelihood, relevance, impact
) VALUES (
	:id, :title, :insight, :url, :added, :published, :start_year, :end_year,
	:topic, :sector, :region, :pestle, :source, :swot, :country, :city,
	:intensity, :likelihood, :relevance, :impact
)`

// Find returns every insight matching p. Order is not defined. Zero matches
// is an empty, non-nil slice.
func (s *Store) Find(ctx context.Context, p query.Predicate) ([]model.Record, error) {
	if p.MatchNone {
		return []model.Record{}, nil
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	q := "SELECT " + selectColumns + " FROM insights"
	where, args := p.Where()
	if where != "" {
		q += " WHERE " + where
	}

	records := []model.Record{}
	if err := db.SelectContext(ctx, &records, db.Rebind(q), args...); err != nil {
		return nil, queryError("find", err)
	}
	return records, nil
}

// Insert stores records in one transaction and bumps the dataset version.
// It returns the number of rows written.
func (s *Store) Insert(ctx context.Context, records []model.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range records {
		if _, err := tx.NamedExecContext(ctx, insertInsight, records[i]); err != nil {
			return 0, fmt.Errorf("insert insight %s: %w", records[i].ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE dataset_meta SET version = version + 1 WHERE name = ?`), datasetName,
	); err != nil {
		return 0, fmt.Errorf("bump dataset version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return len(records), nil
}

// DatasetVersion returns a counter that changes whenever the insights table
// is written through this store
func (s *Store) DatasetVersion(ctx context.Context) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}

	var version int64
	err = db.GetContext(ctx, &version,
		db.Rebind(`SELECT version FROM dataset_meta WHERE name = ?`), datasetName)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, queryError("dataset version", err)
	}
	return version, nil
}
