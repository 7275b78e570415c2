package orchestrator

// #region imports
import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #endregion

// #region recommendations

// recommend produces free-text suggestions keyed off validity, completeness,
// and the weakest safety findings.
func (p *Prover) recommend(pr proof.Proof, req formula.VerificationRequest) []string {
	var recs []string

	if pr.Validity < p.tuning.Alternatives.Trigger {
		recs = append(recs, fmt.Sprintf(
			"strengthen the evidence base before formulating: overall validity is %.2f", pr.Validity))
	}
	if pr.Completeness < 1.0 {
		recs = append(recs, fmt.Sprintf(
			"add the missing reasoning categories to complete the proof (completeness %.2f)",
			pr.Completeness))
	}

	for _, s := range pr.Steps {
		if s.Rule != "safety_check" || s.Confidence >= 0.7 {
			continue
		}
		recs = append(recs, fmt.Sprintf(
			"source safety data for %s or reduce its concentration (confidence %.2f)",
			safetySubject(s), s.Confidence))
	}

	if len(recs) == 0 {
		recs = append(recs,
			"formulation hypothesis is well supported; proceed to stability testing")
	}
	return recs
}

// safetySubject recovers the ingredient id from a safety step's produced fact.
func safetySubject(s proof.Step) string {
	for _, fact := range s.Produces {
		if rest, ok := strings.CutPrefix(fact, "safety:"); ok {
			return rest
		}
	}
	return s.ID
}

// #endregion

// #region alternatives

// alternatives emits up to three fixed-shape reformulation templates for a
// weak proof, ordered by the advisor's plan for this request.
func (p *Prover) alternatives(req formula.VerificationRequest, pr proof.Proof) []AlternativeFormulation {
	class := ClassifyRequest(req, p.avoidPairCount(req.Ingredients))
	diag := DiagnoseProof(pr)
	plan := p.advisor.Plan(class, diag)
	p.logger.Debug("alternatives planned", "profile", class.Profile,
		"risk", class.Risk, "failure", diag.Failure)

	out := make([]AlternativeFormulation, 0, len(plan))
	for _, kind := range plan {
		if alt, ok := p.buildAlternative(kind, req, pr); ok {
			out = append(out, alt)
		}
	}
	return out
}

// buildAlternative dispatches one suggestion kind to its template builder.
// The simplified template declines single-ingredient requests.
func (p *Prover) buildAlternative(kind SuggestionKind, req formula.VerificationRequest, pr proof.Proof) (AlternativeFormulation, bool) {
	switch kind {
	case SuggestRiskReduced:
		return p.riskReduced(req), true
	case SuggestEnhancedPenetration:
		return p.enhancedPenetration(req), true
	case SuggestSimplified:
		return p.simplified(req, pr)
	}
	return AlternativeFormulation{}, false
}

// avoidPairCount counts declared avoid or antagonistic pairs among the
// request's ingredients, feeding the risk classification.
func (p *Prover) avoidPairCount(ingredients []formula.Ingredient) int {
	count := 0
	for i := range ingredients {
		for j := i + 1; j < len(ingredients); j++ {
			rel, ok := p.relationBetween(ingredients[i].ID, ingredients[j].ID)
			if ok && (rel.Kind == "avoid" || rel.Kind == "antagonistic") {
				count++
			}
		}
	}
	return count
}

func (p *Prover) riskReduced(req formula.VerificationRequest) AlternativeFormulation {
	ingredients := make([]formula.Ingredient, len(req.Ingredients))
	copy(ingredients, req.Ingredients)
	for i := range ingredients {
		conc := ingredients[i].Concentration
		if conc <= 0 {
			conc = defaultConcentration
		}
		ingredients[i].Concentration = conc / 2
	}
	return AlternativeFormulation{
		ID:                  "alt-risk-reduced",
		Description:         "same actives at half concentration",
		Ingredients:         ingredients,
		Reasoning:           "halving concentrations widens the safety margin on every uncertain ingredient",
		ExpectedImprovement: "lower irritation risk and higher safety confidence",
		Tradeoffs:           []string{"slower onset of visible effects", "may need a longer treatment period"},
		Confidence:          p.tuning.Alternatives.RiskReduced,
	}
}

func (p *Prover) enhancedPenetration(req formula.VerificationRequest) AlternativeFormulation {
	ingredients := make([]formula.Ingredient, len(req.Ingredients), len(req.Ingredients)+1)
	copy(ingredients, req.Ingredients)
	ingredients = append(ingredients, formula.Ingredient{
		ID:            "propanediol",
		Label:         "propanediol",
		Concentration: 3,
	})
	return AlternativeFormulation{
		ID:                  "alt-enhanced-penetration",
		Description:         "original formulation plus a penetration-enhancing carrier",
		Ingredients:         ingredients,
		Reasoning:           "a carrier improves delivery of high molecular weight actives to deeper layers",
		ExpectedImprovement: "greater penetration depth and effect magnitude",
		Tradeoffs:           []string{"higher irritation potential", "added carrier needs regulatory review"},
		Confidence:          p.tuning.Alternatives.EnhancedPenetration,
	}
}

// simplified keeps the best-verified half of the ingredient list. Skipped
// for single-ingredient requests, which cannot be reduced further.
func (p *Prover) simplified(req formula.VerificationRequest, pr proof.Proof) (AlternativeFormulation, bool) {
	if len(req.Ingredients) < 2 {
		return AlternativeFormulation{}, false
	}

	safety := make(map[string]float64)
	for _, s := range pr.Steps {
		if s.Rule == "safety_check" {
			safety[safetySubject(s)] = s.Confidence
		}
	}

	ingredients := make([]formula.Ingredient, len(req.Ingredients))
	copy(ingredients, req.Ingredients)
	sort.SliceStable(ingredients, func(i, j int) bool {
		return safety[ingredients[i].ID] > safety[ingredients[j].ID]
	})

	keep := len(ingredients) / 2
	if keep < 1 {
		keep = 1
	}
	ingredients = ingredients[:keep]

	return AlternativeFormulation{
		ID:                  "alt-simplified",
		Description:         fmt.Sprintf("reduced to the %d best-verified ingredient(s)", keep),
		Ingredients:         ingredients,
		Reasoning:           "dropping weakly verified ingredients removes the least supported claims",
		ExpectedImprovement: "higher overall validity from a smaller, better-evidenced set",
		Tradeoffs:           []string{"narrower effect coverage"},
		Confidence:          p.tuning.Alternatives.Simplified,
	}, true
}

// #endregion
