package orchestrator

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

func containsFragment(items []string, fragment string) bool {
	for _, s := range items {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

func TestRecommendKeyedSuggestions(t *testing.T) {
	p := newTestProver(t, nil)
	req := formula.VerificationRequest{Hypothesis: "x"}

	t.Run("weak validity", func(t *testing.T) {
		recs := p.recommend(proof.Proof{Validity: 0.5, Completeness: 1.0}, req)
		if !containsFragment(recs, "strengthen the evidence base") {
			t.Errorf("recs = %v", recs)
		}
		if containsFragment(recs, "well supported") {
			t.Errorf("weak proof should not look supported: %v", recs)
		}
	})

	t.Run("incomplete proof", func(t *testing.T) {
		recs := p.recommend(proof.Proof{Validity: 0.9, Completeness: 0.75}, req)
		if !containsFragment(recs, "add the missing reasoning categories") {
			t.Errorf("recs = %v", recs)
		}
	})

	t.Run("weak safety step", func(t *testing.T) {
		pr := proof.Proof{
			Validity:     0.9,
			Completeness: 1.0,
			Steps: []proof.Step{{
				Rule:       "safety_check",
				Produces:   []string{"safety:kojic-acid"},
				Confidence: 0.6,
			}},
		}
		recs := p.recommend(pr, req)
		if !containsFragment(recs, "source safety data for kojic-acid") {
			t.Errorf("recs = %v", recs)
		}
	})

	t.Run("well supported", func(t *testing.T) {
		recs := p.recommend(proof.Proof{Validity: 0.9, Completeness: 1.0}, req)
		if len(recs) != 1 || !strings.Contains(recs[0], "well supported") {
			t.Errorf("recs = %v", recs)
		}
	})
}

func TestSafetySubjectFallsBackToStepID(t *testing.T) {
	s := proof.Step{ID: "step-9", Produces: []string{"compat:a+b"}}
	if got := safetySubject(s); got != "step-9" {
		t.Errorf("subject = %q, want the step id", got)
	}

	s = proof.Step{ID: "step-9", Produces: []string{"safety:urea"}}
	if got := safetySubject(s); got != "urea" {
		t.Errorf("subject = %q, want urea", got)
	}
}

func TestRiskReducedHalvesConcentrations(t *testing.T) {
	p := newTestProver(t, nil)
	req := formula.VerificationRequest{
		Ingredients: []formula.Ingredient{
			{ID: "a", Label: "a", Concentration: 4},
			{ID: "b", Label: "b"}, // unset concentration halves from the default
		},
	}

	alt := p.riskReduced(req)

	if alt.ID != "alt-risk-reduced" {
		t.Errorf("id = %q", alt.ID)
	}
	if alt.Ingredients[0].Concentration != 2 {
		t.Errorf("concentration = %v, want 2", alt.Ingredients[0].Concentration)
	}
	if alt.Ingredients[1].Concentration != 0.5 {
		t.Errorf("default concentration halved = %v, want 0.5", alt.Ingredients[1].Concentration)
	}
	if req.Ingredients[0].Concentration != 4 {
		t.Error("original request mutated")
	}
	if alt.Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", alt.Confidence)
	}
}

func TestEnhancedPenetrationAddsCarrier(t *testing.T) {
	p := newTestProver(t, nil)
	req := formula.VerificationRequest{
		Ingredients: []formula.Ingredient{{ID: "a", Label: "a", Concentration: 2}},
	}

	alt := p.enhancedPenetration(req)

	if alt.ID != "alt-enhanced-penetration" {
		t.Errorf("id = %q", alt.ID)
	}
	if len(alt.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want original plus carrier", len(alt.Ingredients))
	}
	carrier := alt.Ingredients[1]
	if carrier.ID != "propanediol" || carrier.Concentration != 3 {
		t.Errorf("carrier = %+v", carrier)
	}
	if len(req.Ingredients) != 1 {
		t.Error("original request mutated")
	}
}

func TestSimplifiedKeepsBestVerifiedHalf(t *testing.T) {
	p := newTestProver(t, nil)
	req := formula.VerificationRequest{
		Ingredients: []formula.Ingredient{
			{ID: "a", Label: "a"}, {ID: "b", Label: "b"},
			{ID: "c", Label: "c"}, {ID: "d", Label: "d"},
		},
	}
	pr := proof.Proof{Steps: []proof.Step{
		{Rule: "safety_check", Produces: []string{"safety:a"}, Confidence: 0.9},
		{Rule: "safety_check", Produces: []string{"safety:b"}, Confidence: 0.3},
		{Rule: "safety_check", Produces: []string{"safety:c"}, Confidence: 0.7},
		{Rule: "safety_check", Produces: []string{"safety:d"}, Confidence: 0.5},
	}}

	alt, ok := p.simplified(req, pr)
	if !ok {
		t.Fatal("expected a simplified alternative")
	}
	if len(alt.Ingredients) != 2 {
		t.Fatalf("kept %d ingredients, want 2", len(alt.Ingredients))
	}
	if alt.Ingredients[0].ID != "a" || alt.Ingredients[1].ID != "c" {
		t.Errorf("kept %s and %s, want the best-verified a and c",
			alt.Ingredients[0].ID, alt.Ingredients[1].ID)
	}
}

func TestSimplifiedSkipsSingleIngredient(t *testing.T) {
	p := newTestProver(t, nil)
	req := formula.VerificationRequest{
		Ingredients: []formula.Ingredient{{ID: "a", Label: "a"}},
	}

	if _, ok := p.simplified(req, proof.Proof{}); ok {
		t.Error("single-ingredient request cannot be simplified")
	}
}

func TestAlternativesBundle(t *testing.T) {
	p := newTestProver(t, nil)
	req := formula.VerificationRequest{
		Ingredients: []formula.Ingredient{
			{ID: "a", Label: "a", Concentration: 1},
			{ID: "b", Label: "b", Concentration: 2},
		},
	}

	alts := p.alternatives(req, proof.Proof{})

	if len(alts) != 3 {
		t.Fatalf("got %d alternatives, want 3", len(alts))
	}
	for _, alt := range alts {
		if alt.Confidence <= 0 || alt.Confidence > 1 {
			t.Errorf("%s confidence = %v", alt.ID, alt.Confidence)
		}
		if alt.Description == "" || alt.Reasoning == "" || alt.ExpectedImprovement == "" {
			t.Errorf("%s has empty narrative fields", alt.ID)
		}
		if len(alt.Tradeoffs) == 0 {
			t.Errorf("%s lists no tradeoffs", alt.ID)
		}
	}
}
