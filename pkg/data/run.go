package data

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	timeFormat = time.RFC3339

	insertRunSQL = `INSERT INTO run (
			id, created_at, method, ppi_source, annotation_source,
			nodes, edges, known, top_k
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	insertRunEntrySQL = `INSERT INTO run_entry (run_id, position, protein, score)
		VALUES (?, ?, ?, ?)
	`

	selectRunsSQL = `SELECT id, created_at, method, ppi_source, annotation_source,
			nodes, edges, known, top_k
		FROM run
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	selectRunSQL = `SELECT id, created_at, method, ppi_source, annotation_source,
			nodes, edges, known, top_k
		FROM run
		WHERE id = ?
	`

	selectRunEntriesSQL = `SELECT protein, score
		FROM run_entry
		WHERE run_id = ?
		ORDER BY position
	`

	deleteRunEntriesSQL = `DELETE FROM run_entry`
	deleteRunsSQL       = `DELETE FROM run`
)

// Run is a recorded ranking report.
type Run struct {
	ID               string      `json:"id" yaml:"id"`
	CreatedAt        time.Time   `json:"created_at" yaml:"createdAt"`
	Method           string      `json:"method" yaml:"method"`
	PPISource        string      `json:"ppi_source" yaml:"ppiSource"`
	AnnotationSource string      `json:"annotation_source" yaml:"annotationSource"`
	Nodes            int         `json:"nodes" yaml:"nodes"`
	Edges            int         `json:"edges" yaml:"edges"`
	Known            int         `json:"known" yaml:"known"`
	TopK             int         `json:"top_k" yaml:"topK"`
	Entries          []*RunEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// RunEntry is one ranked protein of a run, in rank order.
type RunEntry struct {
	Protein string  `json:"protein" yaml:"protein"`
	Score   float64 `json:"score" yaml:"score"`
}

// SaveRun stores the run and its entries in a single transaction. Missing
// ID and CreatedAt are filled in.
func SaveRun(db *sql.DB, r *Run) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r == nil {
		return errors.New("run required")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if _, err := tx.Exec(insertRunSQL,
		r.ID, r.CreatedAt.UTC().Format(timeFormat), r.Method, r.PPISource, r.AnnotationSource,
		r.Nodes, r.Edges, r.Known, r.TopK); err != nil {
		rollbackTransaction(tx)
		return errors.Wrapf(err, "failed to insert run: %s", r.ID)
	}

	stmt, err := tx.Prepare(insertRunEntrySQL)
	if err != nil {
		rollbackTransaction(tx)
		return errors.Wrap(err, "failed to prepare run entry statement")
	}
	defer stmt.Close()

	for i, e := range r.Entries {
		if _, err := stmt.Exec(r.ID, i+1, e.Protein, e.Score); err != nil {
			rollbackTransaction(tx)
			return errors.Wrapf(err, "failed to insert entry %d of run: %s", i+1, r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ListRuns returns the most recent runs without their entries.
func ListRuns(db *sql.DB, limit int) ([]*Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectRunsSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	list := make([]*Run, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate runs")
	}
	return list, nil
}

// GetRun returns the run with its entries, or nil when it does not exist.
func GetRun(db *sql.DB, id string) (*Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	r, err := scanRun(db.QueryRow(selectRunSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(selectRunEntriesSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query entries of run: %s", id)
	}
	defer rows.Close()

	r.Entries = make([]*RunEntry, 0)
	for rows.Next() {
		e := &RunEntry{}
		if err := rows.Scan(&e.Protein, &e.Score); err != nil {
			return nil, errors.Wrap(err, "failed to scan run entry")
		}
		r.Entries = append(r.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate run entries")
	}
	return r, nil
}

// DeleteRuns removes all recorded runs and returns how many were removed.
func DeleteRuns(db *sql.DB) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}

	if _, err := tx.Exec(deleteRunEntriesSQL); err != nil {
		rollbackTransaction(tx)
		return 0, errors.Wrap(err, "failed to delete run entries")
	}

	res, err := tx.Exec(deleteRunsSQL)
	if err != nil {
		rollbackTransaction(tx)
		return 0, errors.Wrap(err, "failed to delete runs")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count deleted runs")
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	r := &Run{}
	var created string
	if err := s.Scan(&r.ID, &created, &r.Method, &r.PPISource, &r.AnnotationSource,
		&r.Nodes, &r.Edges, &r.Known, &r.TopK); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to scan run")
	}

	t, err := time.Parse(timeFormat, created)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid run timestamp: %s", created)
	}
	r.CreatedAt = t
	return r, nil
}
