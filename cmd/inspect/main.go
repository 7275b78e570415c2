package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/formulation-prover/internal/logging"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to audit SQLite database")
	last := flag.Int("last", 20, "show N most recent verifications")
	proofID := flag.String("proof", "", "show single verification detail (ID prefix accepted)")
	verdict := flag.String("verdict", "", "filter list to one verdict")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/audit.db [--last N] [--proof id] [--verdict name] [--json]")
		os.Exit(2)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *proofID != "" {
		if err := runDetailMode(db, *proofID, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := runListMode(db, *last, *verdict, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ProofID    string  `json:"proof_id"`
	Hypothesis string  `json:"hypothesis"`
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence"`
	StepCount  int     `json:"step_count"`
	Warnings   int     `json:"warnings"`
	CreatedAt  string  `json:"created_at"`
}

func runListMode(db *sql.DB, last int, verdictFilter string, jsonOut bool) error {
	query := `SELECT proof_id, hypothesis, verdict, confidence, step_count, warnings, created_at
		FROM verification_log`
	args := []interface{}{}
	if verdictFilter != "" {
		query += ` WHERE verdict = ?`
		args = append(args, verdictFilter)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, last)

	rows, err := db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("query verification_log: %w", err)
	}
	defer rows.Close()

	var listRows []listRow
	for rows.Next() {
		var r listRow
		var hypothesis, warnings sql.NullString
		if err := rows.Scan(&r.ProofID, &hypothesis, &r.Verdict, &r.Confidence,
			&r.StepCount, &warnings, &r.CreatedAt); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if hypothesis.Valid {
			r.Hypothesis = hypothesis.String
		}
		if warnings.Valid && warnings.String != "" {
			r.Warnings = len(strings.Split(warnings.String, "; "))
		}
		listRows = append(listRows, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	if len(listRows) == 0 {
		fmt.Fprintln(os.Stderr, "no verifications found")
		return nil
	}

	// Query returns DESC, reverse for chronological order
	for i, j := 0, len(listRows)-1; i < j; i, j = i+1, j-1 {
		listRows[i], listRows[j] = listRows[j], listRows[i]
	}

	if jsonOut {
		return printJSON(listRows)
	}
	return printListTable(listRows)
}

func printListTable(rows []listRow) error {
	fmt.Printf("%-14s  %-12s  %10s  %5s  %8s  %-20s  %s\n",
		"Proof", "Verdict", "Confidence", "Steps", "Warnings", "Time", "Hypothesis")
	fmt.Printf("%-14s  %-12s  %10s  %5s  %8s  %-20s  %s\n",
		"--------------", "------------", "----------", "-----", "--------",
		"--------------------", "--------------------")

	for _, r := range rows {
		fmt.Printf("%-14s  %-12s  %10.3f  %5d  %8d  %-20s  %s\n",
			shortID(r.ProofID), r.Verdict, r.Confidence, r.StepCount,
			r.Warnings, formatTime(r.CreatedAt), truncate(r.Hypothesis, 48))
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	ProofID    string               `json:"proof_id"`
	Hypothesis string               `json:"hypothesis"`
	Verdict    string               `json:"verdict"`
	Confidence float64              `json:"confidence"`
	StepCount  int                  `json:"step_count"`
	CreatedAt  string               `json:"created_at"`
	Warnings   []string             `json:"warnings,omitempty"`
	Trace      *logging.TraceRecord `json:"trace,omitempty"`
}

func runDetailMode(db *sql.DB, proofID string, jsonOut bool) error {
	var out detailOutput
	var hypothesis, traceJSON, warnings sql.NullString
	err := db.QueryRow(
		`SELECT proof_id, hypothesis, verdict, confidence, step_count, trace_json, warnings, created_at
		 FROM verification_log WHERE proof_id LIKE ? ORDER BY created_at DESC LIMIT 1`,
		proofID+"%",
	).Scan(&out.ProofID, &hypothesis, &out.Verdict, &out.Confidence,
		&out.StepCount, &traceJSON, &warnings, &out.CreatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no verification matching %q", proofID)
	}
	if err != nil {
		return fmt.Errorf("query verification_log: %w", err)
	}

	if hypothesis.Valid {
		out.Hypothesis = hypothesis.String
	}
	if warnings.Valid && warnings.String != "" {
		out.Warnings = strings.Split(warnings.String, "; ")
	}
	if traceJSON.Valid {
		out.Trace = parseTrace(traceJSON.String)
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Proof:       %s\n", out.ProofID)
	fmt.Printf("Hypothesis:  %s\n", out.Hypothesis)
	fmt.Printf("Verdict:     %s\n", out.Verdict)
	fmt.Printf("Confidence:  %.3f\n", out.Confidence)
	fmt.Printf("Steps:       %d\n", out.StepCount)
	fmt.Printf("Created:     %s\n", formatTime(out.CreatedAt))

	if out.Trace != nil {
		fmt.Printf("\nSoundness:\n")
		fmt.Printf("  Validity:      %.3f  (min %.2f)\n",
			out.Trace.Validity, out.Trace.Thresholds.MinValidity)
		fmt.Printf("  Completeness:  %.3f  (min %.2f)\n",
			out.Trace.Completeness, out.Trace.Thresholds.MinCompleteness)
		fmt.Printf("  Relevance:     %.3f\n", out.Trace.CognitiveRelevance)

		if len(out.Trace.Stages) > 0 {
			fmt.Printf("\nStages:\n")
			for _, s := range out.Trace.Stages {
				fmt.Printf("  %-10s  %s  %s\n", s.Stage, s.At.Format("15:04:05"), s.Note)
			}
		}
		if out.Trace.Request != nil {
			fmt.Printf("\nRequest:\n")
			for _, ing := range out.Trace.Request.Ingredients {
				fmt.Printf("  %-20s  %.1f%%\n", ing.Label, ing.Concentration)
			}
		}
	}

	if len(out.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range out.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	return nil
}

// #endregion detail-mode

// #region output

func parseTrace(traceJSON string) *logging.TraceRecord {
	if traceJSON == "" {
		return nil
	}
	var tr logging.TraceRecord
	if err := json.Unmarshal([]byte(traceJSON), &tr); err == nil && tr.ProofID != "" {
		return &tr
	}
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func formatTime(raw string) string {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02 15:04:05")
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func shortID(id string) string {
	if len(id) > 14 {
		return id[:14]
	}
	return id
}

// #endregion output
