package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-verification
// LogVerification writes a provenance entry to the verification_log table.
func LogVerification(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO verification_log (proof_id, hypothesis, verdict, confidence, step_count, trace_json, warnings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ProofID,
		nullIfEmpty(entry.Hypothesis),
		entry.Verdict,
		entry.Confidence,
		entry.StepCount,
		nullIfEmpty(entry.TraceJSON),
		nullIfEmpty(entry.Warnings),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log verification: %w", err)
	}
	return nil
}

// EnsureLogTable creates the verification_log table when it does not exist.
// Command binaries call it once before their first LogVerification.
func EnsureLogTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS verification_log (
		proof_id   TEXT NOT NULL,
		hypothesis TEXT,
		verdict    TEXT NOT NULL,
		confidence REAL NOT NULL,
		step_count INTEGER NOT NULL,
		trace_json TEXT,
		warnings   TEXT,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("ensure verification_log: %w", err)
	}
	return nil
}

// #endregion log-verification

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
