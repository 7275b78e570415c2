package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/formulation-prover/internal/config"
	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/logging"
	"github.com/danielpatrickdp/formulation-prover/internal/orchestrator"
	"github.com/danielpatrickdp/formulation-prover/internal/refstore"
	"github.com/danielpatrickdp/formulation-prover/internal/replay"
	_ "modernc.org/sqlite"
)

// #region main

type proverOptions struct {
	requestPath string
	dbPath      string
	tuningPath  string
	auditPath   string
	memoryPath  string
	acceptID    string
	jsonOut     bool
	logLevel    string
}

func main() {
	requestPath := flag.String("request", "", "path to verification request JSON")
	dbPath := flag.String("db", envOr("PROVER_REFDB", ""), "path to reference store SQLite database")
	tuningPath := flag.String("tuning", envOr("PROVER_TUNING", ""), "path to tuning YAML (defaults apply when empty)")
	auditPath := flag.String("audit", "", "path to audit SQLite database (appends to verification_log)")
	memoryPath := flag.String("memory", "", "path to suggestion memory SQLite database")
	acceptID := flag.String("accept", "", "alternative ID the formulator took (requires --memory)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of a report")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if *requestPath == "" {
		fmt.Fprintln(os.Stderr, "usage: prover --request path/to/request.json [--db ref.db] [--tuning tuning.yaml]")
		fmt.Fprintln(os.Stderr, "              [--audit audit.db] [--memory memory.db] [--accept alt-id] [--json]")
		os.Exit(2)
	}

	os.Exit(runProver(proverOptions{
		requestPath: *requestPath,
		dbPath:      *dbPath,
		tuningPath:  *tuningPath,
		auditPath:   *auditPath,
		memoryPath:  *memoryPath,
		acceptID:    *acceptID,
		jsonOut:     *jsonOut,
		logLevel:    *logLevel,
	}))
}

// #endregion main

// #region run

func runProver(opts proverOptions) int {
	logger := logging.Setup(os.Stderr, logging.ParseLevel(opts.logLevel))

	req, err := loadRequest(opts.requestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load request: %v\n", err)
		return 2
	}

	tuning := config.DefaultTuning()
	if opts.tuningPath != "" {
		tuning, err = config.Load(opts.tuningPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load tuning: %v\n", err)
			return 2
		}
	}

	var reader refstore.Reader
	if opts.dbPath != "" {
		store, err := refstore.NewStore(opts.dbPath)
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

	var memory *orchestrator.SuggestionMemory
	if opts.memoryPath != "" {
		memDB, err := sql.Open("sqlite", opts.memoryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open memory db: %v\n", err)
			return 2
		}
		defer memDB.Close()
		memory, err = orchestrator.NewSuggestionMemory(memDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "init suggestion memory: %v\n", err)
			return 2
		}
	}

	prover := orchestrator.New(orchestrator.Options{
		Tuning: &tuning,
		Reader: reader,
		Memory: memory,
		Logger: logger,
	})

	res := prover.Verify(req)
	verdict := verdictFor(res)

	if opts.auditPath != "" {
		if err := writeAudit(opts.auditPath, req, res, tuning, verdict); err != nil {
			logger.Warn("audit log failed", "err", err)
		}
	}
	if memory != nil && len(res.AlternativeFormulations) > 0 {
		if err := prover.RecordAcceptance(req, res, opts.acceptID); err != nil {
			logger.Warn("acceptance record failed", "err", err)
		}
	}

	if opts.jsonOut {
		if err := printJSON(toOutput(res, verdict)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
	} else {
		printReport(res, verdict)
	}

	if !res.IsValid {
		return 1
	}
	return 0
}

// loadRequest reads a single verification request from a JSON file. The file
// uses the same request schema as replay fixtures.
func loadRequest(path string) (formula.VerificationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return formula.VerificationRequest{}, fmt.Errorf("read request %s: %w", path, err)
	}
	var fr replay.FixtureRequest
	if err := json.Unmarshal(data, &fr); err != nil {
		return formula.VerificationRequest{}, fmt.Errorf("parse request %s: %w", path, err)
	}
	return fr.ToRequest(), nil
}

// verdictFor names the run outcome for the audit log and the report.
func verdictFor(res orchestrator.VerificationResult) string {
	for _, w := range res.Warnings {
		if strings.HasPrefix(w, "verification aborted") {
			return "aborted"
		}
	}
	if len(res.Trace) > 0 && res.Trace[len(res.Trace)-1].Stage == orchestrator.StageFailed {
		return "rejected"
	}
	if res.IsValid {
		return "supported"
	}
	return "unsupported"
}

// #endregion run

// #region audit

// writeAudit appends one verification_log row with the full trace JSON. The
// request rides along in the trace so the row can be exported as a fixture.
func writeAudit(path string, req formula.VerificationRequest, res orchestrator.VerificationResult, tuning config.Tuning, verdict string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open audit db: %w", err)
	}
	defer db.Close()

	if err := logging.EnsureLogTable(db); err != nil {
		return err
	}

	record := logging.TraceRecord{
		ProofID:            res.Proof.ID,
		Hypothesis:         res.Proof.Hypothesis,
		Request:            toTraceRequest(req),
		Validity:           res.Proof.Validity,
		Completeness:       res.Proof.Completeness,
		CognitiveRelevance: res.Proof.CognitiveRelevance,
		Thresholds: logging.TraceThresholds{
			MinValidity:         tuning.Validation.MinValidity,
			MinCompleteness:     tuning.Validation.MinCompleteness,
			LowStepConfidence:   tuning.Validation.LowStepConfidence,
			ConclusionThreshold: tuning.Validation.ConclusionThreshold,
		},
		Verdict:    verdict,
		Confidence: res.Confidence,
		Warnings:   res.Warnings,
	}
	for _, ev := range res.Trace {
		record.Stages = append(record.Stages, logging.TraceStage{
			Stage: string(ev.Stage),
			At:    ev.At,
			Note:  ev.Note,
		})
	}

	traceJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}

	return logging.LogVerification(db, logging.ProvenanceEntry{
		ProofID:    res.Proof.ID,
		Hypothesis: res.Proof.Hypothesis,
		Verdict:    verdict,
		Confidence: res.Confidence,
		StepCount:  len(res.Proof.Steps),
		TraceJSON:  string(traceJSON),
		Warnings:   strings.Join(res.Warnings, "; "),
		CreatedAt:  time.Now().UTC(),
	})
}

// toTraceRequest converts the domain request to its trace mirror.
func toTraceRequest(req formula.VerificationRequest) *logging.TraceRequest {
	tr := &logging.TraceRequest{Hypothesis: req.Hypothesis}
	for _, ing := range req.Ingredients {
		tr.Ingredients = append(tr.Ingredients, logging.TraceIngredient{
			ID:              ing.ID,
			Label:           ing.Label,
			Concentration:   ing.Concentration,
			MolecularWeight: ing.MolecularWeight,
			LogP:            ing.LogP,
		})
	}
	for _, eff := range req.TargetEffects {
		tr.TargetEffects = append(tr.TargetEffects, logging.TraceEffect{
			IngredientID:      eff.IngredientID,
			TargetLayer:       eff.TargetLayer,
			EffectType:        eff.EffectType,
			Magnitude:         eff.Magnitude,
			Timeframe:         eff.Timeframe,
			Confidence:        eff.Confidence,
			MechanismOfAction: eff.MechanismOfAction,
		})
	}
	for _, c := range req.Constraints {
		tr.Constraints = append(tr.Constraints, logging.TraceConstraint{
			Type:      string(c.Type),
			Parameter: c.Parameter,
			Value:     c.Value,
			Options:   c.Options,
			Operator:  string(c.Operator),
			Required:  c.Required,
		})
	}
	return tr
}

// #endregion audit

// #region output

type resultOutput struct {
	ProofID            string       `json:"proof_id"`
	Hypothesis         string       `json:"hypothesis"`
	Verdict            string       `json:"verdict"`
	IsValid            bool         `json:"is_valid"`
	Confidence         float64      `json:"confidence"`
	Validity           float64      `json:"validity"`
	Completeness       float64      `json:"completeness"`
	CognitiveRelevance float64      `json:"cognitive_relevance"`
	Conclusion         string       `json:"conclusion"`
	Steps              []stepOutput `json:"steps"`
	Warnings           []string     `json:"warnings,omitempty"`
	Recommendations    []string     `json:"recommendations,omitempty"`
	Alternatives       []altOutput  `json:"alternatives,omitempty"`
	Stages             []stageRow   `json:"stages"`
}

type stepOutput struct {
	ID         string  `json:"id"`
	Rule       string  `json:"rule"`
	Statement  string  `json:"statement"`
	Confidence float64 `json:"confidence"`
}

type altOutput struct {
	ID                  string  `json:"id"`
	Description         string  `json:"description"`
	Reasoning           string  `json:"reasoning"`
	ExpectedImprovement string  `json:"expected_improvement"`
	Confidence          float64 `json:"confidence"`
}

type stageRow struct {
	Stage string `json:"stage"`
	At    string `json:"at"`
	Note  string `json:"note,omitempty"`
}

func toOutput(res orchestrator.VerificationResult, verdict string) resultOutput {
	out := resultOutput{
		ProofID:            res.Proof.ID,
		Hypothesis:         res.Proof.Hypothesis,
		Verdict:            verdict,
		IsValid:            res.IsValid,
		Confidence:         res.Confidence,
		Validity:           res.Proof.Validity,
		Completeness:       res.Proof.Completeness,
		CognitiveRelevance: res.Proof.CognitiveRelevance,
		Conclusion:         res.Proof.Conclusion,
		Warnings:           res.Warnings,
		Recommendations:    res.Recommendations,
	}
	for _, s := range res.Proof.Steps {
		out.Steps = append(out.Steps, stepOutput{
			ID:         s.ID,
			Rule:       s.Rule,
			Statement:  s.Statement,
			Confidence: s.Confidence,
		})
	}
	for _, alt := range res.AlternativeFormulations {
		out.Alternatives = append(out.Alternatives, altOutput{
			ID:                  alt.ID,
			Description:         alt.Description,
			Reasoning:           alt.Reasoning,
			ExpectedImprovement: alt.ExpectedImprovement,
			Confidence:          alt.Confidence,
		})
	}
	for _, ev := range res.Trace {
		out.Stages = append(out.Stages, stageRow{
			Stage: string(ev.Stage),
			At:    ev.At.Format("15:04:05"),
			Note:  ev.Note,
		})
	}
	return out
}

func printReport(res orchestrator.VerificationResult, verdict string) {
	fmt.Printf("Proof:        %s\n", shortID(res.Proof.ID))
	fmt.Printf("Hypothesis:   %s\n", res.Proof.Hypothesis)
	fmt.Printf("Verdict:      %s\n", verdict)
	fmt.Printf("Confidence:   %.3f\n", res.Confidence)
	fmt.Printf("Validity:     %.3f\n", res.Proof.Validity)
	fmt.Printf("Completeness: %.3f\n", res.Proof.Completeness)
	fmt.Printf("Relevance:    %.3f\n", res.Proof.CognitiveRelevance)

	if len(res.Proof.Steps) > 0 {
		fmt.Printf("\nSteps:\n")
		for _, s := range res.Proof.Steps {
			fmt.Printf("  %-8s  %-22s  %.2f  %s\n", s.ID, s.Rule, s.Confidence, s.Statement)
		}
	}

	if len(res.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range res.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
	if len(res.Recommendations) > 0 {
		fmt.Printf("\nRecommendations:\n")
		for _, r := range res.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
	if len(res.AlternativeFormulations) > 0 {
		fmt.Printf("\nAlternatives:\n")
		for _, alt := range res.AlternativeFormulations {
			fmt.Printf("  %-24s  %.2f  %s\n", alt.ID, alt.Confidence, alt.Description)
		}
	}

	fmt.Printf("\nStages:\n")
	for _, ev := range res.Trace {
		fmt.Printf("  %-10s  %s  %s\n", ev.Stage, ev.At.Format("15:04:05"), ev.Note)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 14 {
		return id[:14]
	}
	return id
}

// #endregion helpers
