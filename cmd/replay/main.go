package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/formulation-prover/internal/logging"
	"github.com/danielpatrickdp/formulation-prover/internal/refstore"
	"github.com/danielpatrickdp/formulation-prover/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	dbPath := flag.String("db", "", "path to reference store SQLite database")
	jsonOut := flag.Bool("json", false, "output as JSON instead of a table")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--db ref.db] [--json]")
		os.Exit(2)
	}

	os.Exit(runReplay(*fixturePath, *dbPath, *jsonOut, *logLevel))
}

// #endregion main

// #region run

func runReplay(fixturePath, dbPath string, jsonOut bool, logLevel string) int {
	logger := logging.Setup(os.Stderr, logging.ParseLevel(logLevel))

	f, err := replay.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	var reader refstore.Reader
	if dbPath != "" {
		store, err := refstore.NewStore(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open db: %v\n", err)
			return 2
		}
		defer store.Close()
		reader, err = store.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "load reference data: %v\n", err)
			return 2
		}
	}

	outcomes, summary := replay.Run(f, reader, logger)

	if jsonOut {
		if err := printJSON(toRunOutput(outcomes, summary)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
	} else {
		printOutcomes(outcomes, summary)
	}

	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// #endregion run

// #region output

type outcomeRow struct {
	RequestID  string   `json:"request_id"`
	Passed     bool     `json:"passed"`
	Confidence float64  `json:"confidence"`
	Steps      int      `json:"steps"`
	Failures   []string `json:"failures,omitempty"`
}

type runOutput struct {
	RunID       string       `json:"run_id"`
	Description string       `json:"description"`
	Total       int          `json:"total"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	Outcomes    []outcomeRow `json:"outcomes"`
}

func toRunOutput(outcomes []replay.Outcome, summary replay.Summary) runOutput {
	out := runOutput{
		RunID:       summary.RunID,
		Description: summary.Description,
		Total:       summary.Total,
		Passed:      summary.Passed,
		Failed:      summary.Failed,
	}
	for _, o := range outcomes {
		out.Outcomes = append(out.Outcomes, outcomeRow{
			RequestID:  o.RequestID,
			Passed:     o.Passed,
			Confidence: o.Result.Confidence,
			Steps:      len(o.Result.Proof.Steps),
			Failures:   o.Failures,
		})
	}
	return out
}

func printOutcomes(outcomes []replay.Outcome, summary replay.Summary) {
	if summary.Description != "" {
		fmt.Printf("Fixture: %s\n\n", summary.Description)
	}

	fmt.Printf("%-16s| %-7s| %-11s| %-6s| %s\n", "Request", "Status", "Confidence", "Steps", "Failures")
	fmt.Printf("%-16s+%-8s+%-12s+%-7s+%s\n",
		"----------------", "--------", "------------", "-------", "----------")

	for _, o := range outcomes {
		status := "FAIL"
		if o.Passed {
			status = "OK"
		}
		fmt.Printf("%-16s| %-7s| %11.3f| %6d| %s\n",
			o.RequestID, status, o.Result.Confidence, len(o.Result.Proof.Steps),
			strings.Join(o.Failures, "; "))
	}

	fmt.Printf("\nSummary: %d total, %d passed, %d failed (run %s)\n",
		summary.Total, summary.Passed, summary.Failed, shortID(summary.RunID))
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// #endregion output
