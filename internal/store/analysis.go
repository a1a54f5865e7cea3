package store

import (
	"database/sql"
	"errors"
	"time"
)

// Source describes how an analysis was produced.
type Source string

const (
	// SourceLive marks analyses recorded by the local capture pipeline.
	SourceLive Source = "live"
	// SourceUpload marks analyses ingested through the batch upload API.
	SourceUpload Source = "upload"
)

// Analysis represents one recorded or uploaded cycle analysis.
type Analysis struct {
	ID           string
	Name         string
	Source       Source
	SessionStart float64
	CycleCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AnalysisRepository provides CRUD operations for analyses.
type AnalysisRepository struct {
	db *sql.DB
}

// Analyses returns the analysis repository for this store.
func (s *Store) Analyses() *AnalysisRepository {
	return &AnalysisRepository{db: s.db}
}

// Create inserts a new analysis into the database.
func (r *AnalysisRepository) Create(a *Analysis) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO analyses (id, name, source, session_start, cycle_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Source), a.SessionStart, a.CycleCount, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// GetByID retrieves an analysis by its ID.
func (r *AnalysisRepository) GetByID(id string) (*Analysis, error) {
	a := &Analysis{}
	var source string

	err := r.db.QueryRow(
		`SELECT id, name, source, session_start, cycle_count, created_at, updated_at
		 FROM analyses WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Name, &source, &a.SessionStart, &a.CycleCount, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Source = Source(source)
	return a, nil
}

// List retrieves all analyses, newest first.
func (r *AnalysisRepository) List() ([]*Analysis, error) {
	rows, err := r.db.Query(
		`SELECT id, name, source, session_start, cycle_count, created_at, updated_at
		 FROM analyses ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		a := &Analysis{}
		var source string
		if err := rows.Scan(&a.ID, &a.Name, &source, &a.SessionStart, &a.CycleCount, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Source = Source(source)
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

// Update modifies an existing analysis's name and session start.
func (r *AnalysisRepository) Update(a *Analysis) error {
	a.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE analyses SET name = ?, session_start = ?, updated_at = ? WHERE id = ?`,
		a.Name, a.SessionStart, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an analysis and, via cascade, its cycles.
func (r *AnalysisRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
