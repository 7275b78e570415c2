package orchestrator

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/formulation-prover/internal/config"
	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
	"github.com/danielpatrickdp/formulation-prover/internal/refstore"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProver(t *testing.T, reader refstore.Reader) *Prover {
	t.Helper()
	p := New(Options{Reader: reader, Logger: quietLogger()})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return base }
	return p
}

func serumRequest() formula.VerificationRequest {
	return formula.VerificationRequest{
		Hypothesis: "hyaluronic acid serum hydrates the epidermis",
		Ingredients: []formula.Ingredient{
			{ID: "hyaluronic-acid", Label: "hyaluronic acid", Concentration: 2, MolecularWeight: 800, LogP: -3.1},
		},
		TargetEffects: []formula.TargetEffect{{
			IngredientID:      "hyaluronic-acid",
			TargetLayer:       "epidermis",
			EffectType:        "hydration",
			Magnitude:         0.7,
			Confidence:        0.8,
			MechanismOfAction: "humectant water binding",
		}},
	}
}

func hasWarning(res VerificationResult, fragment string) bool {
	for _, w := range res.Warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}

func hasRecommendationText(res VerificationResult, fragment string) bool {
	for _, r := range res.Recommendations {
		if strings.Contains(r, fragment) {
			return true
		}
	}
	return false
}

func stepTypeCounts(pr proof.Proof) map[proof.StepType]int {
	counts := make(map[proof.StepType]int)
	for _, s := range pr.Steps {
		counts[s.Type]++
	}
	return counts
}

func TestVerifyRejectsRequestWithoutIngredients(t *testing.T) {
	p := newTestProver(t, nil)

	res := p.Verify(formula.VerificationRequest{Hypothesis: "an empty formulation works"})

	if res.IsValid {
		t.Error("invalid request reported as valid")
	}
	if res.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", res.Confidence)
	}
	if len(res.Proof.Steps) != 0 {
		t.Errorf("got %d proof steps, want none", len(res.Proof.Steps))
	}
	if !hasWarning(res, "ingredient list is empty") {
		t.Errorf("missing rejection warning, got %v", res.Warnings)
	}
	if len(res.Trace) == 0 || res.Trace[len(res.Trace)-1].Stage != StageFailed {
		t.Errorf("trace should end failed, got %v", res.Trace)
	}
}

func TestVerifySupportedHypothesis(t *testing.T) {
	p := newTestProver(t, nil)

	res := p.Verify(serumRequest())

	if !res.IsValid {
		t.Fatalf("expected valid result, warnings: %v", res.Warnings)
	}
	if res.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5", res.Confidence)
	}
	if !strings.HasPrefix(res.Proof.ID, "proof-") {
		t.Errorf("proof id %q lacks prefix", res.Proof.ID)
	}

	counts := stepTypeCounts(res.Proof)
	for _, st := range []proof.StepType{
		proof.StepAssumption, proof.StepVerification, proof.StepDeduction, proof.StepConclusion,
	} {
		if counts[st] == 0 {
			t.Errorf("proof has no %s step", st)
		}
	}

	first := res.Proof.Steps[0]
	if first.Type != proof.StepAssumption {
		t.Errorf("first step type = %s, want assumption", first.Type)
	}
	last := res.Proof.Steps[len(res.Proof.Steps)-1]
	if last.Type != proof.StepConclusion {
		t.Errorf("last step type = %s, want conclusion", last.Type)
	}
	if !strings.Contains(last.Statement, "is supported with confidence") {
		t.Errorf("conclusion %q should be supportive", last.Statement)
	}
	if res.Proof.Conclusion != last.Statement {
		t.Error("proof conclusion does not match the closing step")
	}
}

func TestVerifyTraceStageOrder(t *testing.T) {
	p := newTestProver(t, nil)

	res := p.Verify(serumRequest())

	want := []Stage{StageValidating, StageGenerating, StageRealizing, StageDeriving, StageValidated}
	if len(res.Trace) != len(want) {
		t.Fatalf("got %d trace events, want %d: %v", len(res.Trace), len(want), res.Trace)
	}
	for i, stage := range want {
		if res.Trace[i].Stage != stage {
			t.Errorf("trace[%d] = %s, want %s", i, res.Trace[i].Stage, stage)
		}
	}
}

func TestVerifyAvoidPairSurfacesWarnings(t *testing.T) {
	reader := refstore.NewMemoryReader([]refstore.IngredientRecord{
		{
			ID: "retinol", Label: "retinol", SafetyRating: 0.8,
			Relations: []refstore.Relation{{TargetID: "glycolic-acid", Kind: "avoid", Strength: 0.9}},
		},
		{ID: "glycolic-acid", Label: "glycolic acid", SafetyRating: 0.7},
	}, nil)
	p := newTestProver(t, reader)

	res := p.Verify(formula.VerificationRequest{
		Hypothesis: "retinol and glycolic acid can share a night serum",
		Ingredients: []formula.Ingredient{
			{ID: "retinol", Label: "retinol", Concentration: 0.3},
			{ID: "glycolic-acid", Label: "glycolic acid", Concentration: 5},
		},
	})

	if !hasWarning(res, "avoid combining retinol and glycolic acid") {
		t.Errorf("missing pair warning, got %v", res.Warnings)
	}
	if !hasRecommendationText(res, "avoid combining") {
		t.Errorf("missing graph recommendation, got %v", res.Recommendations)
	}
	if !hasRecommendationText(res, "declared antagonistic") {
		t.Errorf("recommendation should name the antagonistic relation, got %v", res.Recommendations)
	}
}

type panicReader struct{}

func (panicReader) Ingredient(string) (refstore.IngredientRecord, bool) {
	panic("reference store corrupted")
}
func (panicReader) Relations(string) []refstore.Relation {
	return nil
}

func (panicReader) Suppliers(string) []refstore.SupplierRecord {
	return nil
}

func TestVerifyRecoversFromPanic(t *testing.T) {
	p := newTestProver(t, panicReader{})

	res := p.Verify(serumRequest())

	if res.IsValid {
		t.Error("panicked run reported as valid")
	}
	if res.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", res.Confidence)
	}
	if !hasWarning(res, "verification aborted") {
		t.Errorf("missing abort warning, got %v", res.Warnings)
	}
	last := res.Trace[len(res.Trace)-1]
	if last.Stage != StageFailed || !strings.Contains(last.Note, "recovered") {
		t.Errorf("trace should end with a recovery note, got %+v", last)
	}
}

func TestVerifyWeakProofOffersAlternatives(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Alternatives.Trigger = 1.0
	p := New(Options{Tuning: &tuning, Logger: quietLogger()})

	res := p.Verify(formula.VerificationRequest{
		Hypothesis: "a two-active brightening serum evens skin tone",
		Ingredients: []formula.Ingredient{
			{ID: "niacinamide", Label: "niacinamide", Concentration: 4},
			{ID: "arbutin", Label: "arbutin", Concentration: 2},
		},
	})

	if len(res.AlternativeFormulations) != 3 {
		t.Fatalf("got %d alternatives, want 3", len(res.AlternativeFormulations))
	}
	wantIDs := []string{"alt-risk-reduced", "alt-enhanced-penetration", "alt-simplified"}
	for i, want := range wantIDs {
		if res.AlternativeFormulations[i].ID != want {
			t.Errorf("alternative[%d].ID = %q, want %q", i, res.AlternativeFormulations[i].ID, want)
		}
	}

	risk := res.AlternativeFormulations[0]
	if risk.Ingredients[0].Concentration != 2 || risk.Ingredients[1].Concentration != 1 {
		t.Errorf("risk-reduced concentrations = %v/%v, want halved",
			risk.Ingredients[0].Concentration, risk.Ingredients[1].Concentration)
	}

	enhanced := res.AlternativeFormulations[1]
	carrier := enhanced.Ingredients[len(enhanced.Ingredients)-1]
	if carrier.ID != "propanediol" || carrier.Concentration != 3 {
		t.Errorf("enhanced alternative should end with propanediol at 3%%, got %+v", carrier)
	}

	if n := len(res.AlternativeFormulations[2].Ingredients); n != 1 {
		t.Errorf("simplified alternative kept %d ingredients, want 1", n)
	}
}
