package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/chriscorrea/termweight/internal/report"
	"github.com/chriscorrea/termweight/internal/tfidf"
)

// Run describes one stored invocation.
type Run struct {
	RunID         int64
	Mode          string
	Variant       string
	HashRange     int
	DocumentCount int
	CreatedAt     time.Time
}

// SaveBatch stores the TF, IDF and tf×idf values of corpus as a new run,
// returning the run_id.
func (db *DB) SaveBatch(corpus *tfidf.Corpus) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runID, err := insertRun(tx, "batch", "", 0, len(corpus.IDs))
	if err != nil {
		return 0, err
	}

	for term, idf := range corpus.IDF {
		if _, err := tx.Exec(`INSERT INTO idf (run_id, term, idf) VALUES (?, ?, ?)`, runID, term, idf); err != nil {
			return 0, fmt.Errorf("failed to insert idf for %q: %w", term, err)
		}
	}

	for i, id := range corpus.IDs {
		tf := corpus.TermFrequencies[id]
		weights := corpus.Weights(i)
		for term, value := range tf {
			_, err := tx.Exec(`
				INSERT INTO term_weights (run_id, document, term, tf, tfidf)
				VALUES (?, ?, ?, ?, ?)
			`, runID, id, term, value, weights[term])
			if err != nil {
				return 0, fmt.Errorf("failed to insert weight for %q in %q: %w", term, id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch run: %w", err)
	}
	return runID, nil
}

// SaveMapReduce stores the emitted pairs of a map/reduce run, returning the
// run_id. Sparse fragments are stored with the bucket as key.
func (db *DB) SaveMapReduce(r *report.MapReduce, documents int) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runID, err := insertRun(tx, "mapreduce", r.Variant, r.HashRange, documents)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO mapreduce_pairs (run_id, key, article, tfidf) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare pair insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range r.Emissions {
		if _, err := stmt.Exec(runID, e.Key, e.Article, e.TFIDF); err != nil {
			return 0, fmt.Errorf("failed to insert pair %q: %w", e.Key, err)
		}
	}
	for _, f := range r.Fragments {
		if _, err := stmt.Exec(runID, strconv.Itoa(f.Bucket), strconv.Itoa(f.Article), f.TFIDF); err != nil {
			return 0, fmt.Errorf("failed to insert fragment %d: %w", f.Bucket, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit mapreduce run: %w", err)
	}
	return runID, nil
}

func insertRun(tx *sql.Tx, mode, variant string, hashRange, documents int) (int64, error) {
	result, err := tx.Exec(`
		INSERT INTO runs (mode, variant, hash_range, document_count)
		VALUES (?, ?, ?, ?)
	`, mode, nullString(variant), nullInt(hashRange), documents)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// ListRuns returns every stored run, oldest first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, mode, variant, hash_range, document_count, created_at
		FROM runs ORDER BY run_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var variant sql.NullString
		var hashRange sql.NullInt64
		if err := rows.Scan(&run.RunID, &run.Mode, &variant, &hashRange, &run.DocumentCount, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Variant = variant.String
		run.HashRange = int(hashRange.Int64)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// IDF returns the stored IDF of a batch run.
func (db *DB) IDF(runID int64) (map[string]float64, error) {
	rows, err := db.Query(`SELECT term, idf FROM idf WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query idf: %w", err)
	}
	defer rows.Close()

	idf := make(map[string]float64)
	for rows.Next() {
		var term string
		var value float64
		if err := rows.Scan(&term, &value); err != nil {
			return nil, fmt.Errorf("failed to scan idf: %w", err)
		}
		idf[term] = value
	}
	return idf, rows.Err()
}

// Pairs returns the stored pairs of a map/reduce run in emission order.
func (db *DB) Pairs(runID int64) ([]report.Emission, error) {
	rows, err := db.Query(`
		SELECT key, article, tfidf FROM mapreduce_pairs
		WHERE run_id = ? ORDER BY pair_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pairs: %w", err)
	}
	defer rows.Close()

	var pairs []report.Emission
	for rows.Next() {
		var e report.Emission
		if err := rows.Scan(&e.Key, &e.Article, &e.TFIDF); err != nil {
			return nil, fmt.Errorf("failed to scan pair: %w", err)
		}
		pairs = append(pairs, e)
	}
	return pairs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n > 0}
}
