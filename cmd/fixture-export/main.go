package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/formulation-prover/internal/logging"
	"github.com/danielpatrickdp/formulation-prover/internal/replay"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to audit SQLite database")
	last := flag.Int("last", 8, "number of most recent verifications to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/audit.db --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

// auditRow holds one parsed verification_log row.
type auditRow struct {
	Trace      logging.TraceRecord
	Verdict    string
	Confidence float64
	StepCount  int
}

func run(dbPath string, last int, outPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	// Last N rows (DESC then reverse for chronological order)
	rows, err := db.Query(
		`SELECT trace_json, verdict, confidence, step_count FROM (
			SELECT trace_json, verdict, confidence, step_count, created_at FROM verification_log
			WHERE trace_json IS NOT NULL
			ORDER BY created_at DESC LIMIT ?
		) sub ORDER BY created_at ASC`, last,
	)
	if err != nil {
		return fmt.Errorf("query verification_log: %w", err)
	}
	defer rows.Close()

	var auditRows []auditRow
	for rows.Next() {
		var traceJSON sql.NullString
		var r auditRow
		if err := rows.Scan(&traceJSON, &r.Verdict, &r.Confidence, &r.StepCount); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if !traceJSON.Valid || traceJSON.String == "" {
			continue
		}

		if err := json.Unmarshal([]byte(traceJSON.String), &r.Trace); err != nil {
			continue
		}
		if r.Trace.Request == nil {
			continue // trace predates request capture
		}
		auditRows = append(auditRows, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	if len(auditRows) == 0 {
		return fmt.Errorf("no request-carrying rows found in last %d verifications", last)
	}

	fmt.Printf("Found %d request-carrying rows\n", len(auditRows))

	fixture := buildFixture(auditRows)
	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region output

func buildFixture(rows []auditRow) replay.Fixture {
	requests := make([]replay.FixtureRequest, len(rows))
	expected := make([]replay.FixtureExpectation, len(rows))

	for i, r := range rows {
		requests[i] = toFixtureRequest(r.Trace.ProofID, *r.Trace.Request)
		expected[i] = replay.FixtureExpectation{
			RequestID:     r.Trace.ProofID,
			IsValid:       r.Verdict == "supported",
			MinConfidence: r.Confidence,
			MinSteps:      r.StepCount,
		}
	}

	return replay.Fixture{
		Description:  fmt.Sprintf("Audit export: %d verification runs, default tuning", len(rows)),
		Requests:     requests,
		Expectations: expected,
	}
}

// toFixtureRequest converts a trace request back to the fixture schema.
func toFixtureRequest(id string, tr logging.TraceRequest) replay.FixtureRequest {
	fr := replay.FixtureRequest{ID: id, Hypothesis: tr.Hypothesis}
	for _, ing := range tr.Ingredients {
		fr.Ingredients = append(fr.Ingredients, replay.FixtureIngredient{
			ID:              ing.ID,
			Label:           ing.Label,
			Concentration:   ing.Concentration,
			MolecularWeight: ing.MolecularWeight,
			LogP:            ing.LogP,
		})
	}
	for _, eff := range tr.TargetEffects {
		fr.TargetEffects = append(fr.TargetEffects, replay.FixtureEffect{
			IngredientID:      eff.IngredientID,
			TargetLayer:       eff.TargetLayer,
			EffectType:        eff.EffectType,
			Magnitude:         eff.Magnitude,
			Timeframe:         eff.Timeframe,
			Confidence:        eff.Confidence,
			MechanismOfAction: eff.MechanismOfAction,
		})
	}
	for _, c := range tr.Constraints {
		fr.Constraints = append(fr.Constraints, replay.FixtureConstraint{
			Type:      c.Type,
			Parameter: c.Parameter,
			Value:     c.Value,
			Options:   c.Options,
			Operator:  c.Operator,
			Required:  c.Required,
		})
	}
	return fr
}

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d requests)\n", outPath, len(data), len(fixture.Requests))
	return nil
}

// #endregion output
