package replay

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/formulation-prover/internal/config"
	"github.com/danielpatrickdp/formulation-prover/internal/orchestrator"
	"github.com/danielpatrickdp/formulation-prover/internal/refstore"
)

// #region types

// Outcome captures the result of replaying one request and checking it
// against its expectation.
type Outcome struct {
	RequestID string
	Passed    bool
	Failures  []string
	Result    orchestrator.VerificationResult
}

// Summary provides aggregate stats for one replay run.
type Summary struct {
	RunID       string
	Description string
	Total       int
	Passed      int
	Failed      int
}

// #endregion types

// #region run

// Run replays every request in the fixture through one shared prover and
// checks each result against the matching expectation. Requests replay in
// declaration order, so earlier requests shape the cognitive session that
// later ones see. Expectations naming unknown request IDs fail the run.
func Run(f *Fixture, reader refstore.Reader, logger *slog.Logger) ([]Outcome, Summary) {
	if logger == nil {
		logger = slog.Default()
	}

	tuning := f.Tuning.Apply(config.DefaultTuning())
	prover := orchestrator.New(orchestrator.Options{
		Tuning: &tuning,
		Reader: reader,
		Logger: logger,
	})

	expected := make(map[string]FixtureExpectation, len(f.Expectations))
	for _, e := range f.Expectations {
		expected[e.RequestID] = e
	}

	outcomes := make([]Outcome, 0, len(f.Requests))
	seen := make(map[string]bool, len(f.Requests))

	for _, fr := range f.Requests {
		seen[fr.ID] = true
		res := prover.Verify(fr.ToRequest())

		o := Outcome{RequestID: fr.ID, Result: res}
		exp, ok := expected[fr.ID]
		if !ok {
			o.Failures = append(o.Failures, "no expectation declared for this request")
		} else {
			o.Failures = check(res, exp)
		}
		o.Passed = len(o.Failures) == 0

		logger.Info("request replayed", "request", fr.ID,
			"passed", o.Passed, "confidence", res.Confidence)
		outcomes = append(outcomes, o)
	}

	// Expectations that never matched a request are fixture-authoring errors.
	for _, e := range f.Expectations {
		if seen[e.RequestID] {
			continue
		}
		outcomes = append(outcomes, Outcome{
			RequestID: e.RequestID,
			Failures:  []string{"expectation references an unknown request"},
		})
	}

	return outcomes, summarize(f.Description, outcomes)
}

// check compares one verification result against its expectation.
func check(res orchestrator.VerificationResult, exp FixtureExpectation) []string {
	var failures []string
	if res.IsValid != exp.IsValid {
		failures = append(failures, fmt.Sprintf(
			"is_valid = %v, want %v", res.IsValid, exp.IsValid))
	}
	if res.Confidence < exp.MinConfidence {
		failures = append(failures, fmt.Sprintf(
			"confidence %.3f below minimum %.3f", res.Confidence, exp.MinConfidence))
	}
	if len(res.Proof.Steps) < exp.MinSteps {
		failures = append(failures, fmt.Sprintf(
			"proof has %d steps, want at least %d", len(res.Proof.Steps), exp.MinSteps))
	}
	return failures
}

func summarize(description string, outcomes []Outcome) Summary {
	s := Summary{
		RunID:       "run-" + uuid.New().String(),
		Description: description,
		Total:       len(outcomes),
	}
	for _, o := range outcomes {
		if o.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// #endregion run
