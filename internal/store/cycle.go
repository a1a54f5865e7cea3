package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Cycle represents one motion cycle row belonging to an analysis.
type Cycle struct {
	ID         string          `json:"id"`
	AnalysisID string          `json:"analysis_id"`
	Seq        int             `json:"seq"`
	Start      float64         `json:"start"`
	End        float64         `json:"end"`
	Duration   float64         `json:"duration"`
	Confidence float64         `json:"confidence"`
	Keypoints  json.RawMessage `json:"keypoints,omitempty"`
}

// CycleRepository provides operations on an analysis's cycle timeline.
type CycleRepository struct {
	db *sql.DB
}

// Cycles returns the cycle repository for this store.
func (s *Store) Cycles() *CycleRepository {
	return &CycleRepository{db: s.db}
}

// Replace swaps an analysis's whole cycle timeline in a single transaction
// and updates its cycle count. Sequence numbers follow slice order, which
// for normalized timelines is start-time order.
func (r *CycleRepository) Replace(analysisID string, cycles []Cycle) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cycles WHERE analysis_id = ?`, analysisID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO cycles (id, analysis_id, seq, start_time, end_time, duration, confidence, keypoints)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range cycles {
		var keypoints interface{}
		if len(c.Keypoints) > 0 {
			keypoints = string(c.Keypoints)
		}
		if _, err := stmt.Exec(c.ID, analysisID, i, c.Start, c.End, c.Duration, c.Confidence, keypoints); err != nil {
			return err
		}
	}

	result, err := tx.Exec(`UPDATE analyses SET cycle_count = ?, updated_at = ? WHERE id = ?`,
		len(cycles), time.Now(), analysisID)
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

	return tx.Commit()
}

// Append adds one cycle to the end of an analysis's timeline, as the live
// capture pipeline emits them.
func (r *CycleRepository) Append(analysisID string, c Cycle) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM cycles WHERE analysis_id = ?`, analysisID,
	).Scan(&seq); err != nil {
		return err
	}

	var keypoints interface{}
	if len(c.Keypoints) > 0 {
		keypoints = string(c.Keypoints)
	}

	if _, err := tx.Exec(
		`INSERT INTO cycles (id, analysis_id, seq, start_time, end_time, duration, confidence, keypoints)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, analysisID, seq, c.Start, c.End, c.Duration, c.Confidence, keypoints,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`UPDATE analyses SET cycle_count = ?, updated_at = ? WHERE id = ?`,
		seq+1, time.Now(), analysisID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByAnalysisID retrieves an analysis's cycles ordered by sequence.
func (r *CycleRepository) GetByAnalysisID(analysisID string) ([]Cycle, error) {
	rows, err := r.db.Query(
		`SELECT id, analysis_id, seq, start_time, end_time, duration, confidence, keypoints
		 FROM cycles WHERE analysis_id = ? ORDER BY seq`,
		analysisID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var c Cycle
		var keypoints sql.NullString
		if err := rows.Scan(&c.ID, &c.AnalysisID, &c.Seq, &c.Start, &c.End, &c.Duration, &c.Confidence, &keypoints); err != nil {
			return nil, err
		}
		if keypoints.Valid {
			c.Keypoints = json.RawMessage(keypoints.String)
		}
		cycles = append(cycles, c)
	}

	return cycles, rows.Err()
}
