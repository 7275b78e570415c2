package orchestrator

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
)

// #endregion

// #region advisor-struct

// Advisor decides the order in which alternative formulations are offered,
// based on request classification, proof diagnosis, and recorded acceptance
// history.
type Advisor struct {
	memory *SuggestionMemory // nil = no acceptance history
}

// NewAdvisor creates an advisor with optional memory backing.
func NewAdvisor(memory *SuggestionMemory) *Advisor {
	return &Advisor{memory: memory}
}

// #endregion

// #region plan

// Plan returns the suggestion order for one weak proof. The failure
// escalation chain overrides the classification default; a learned best kind
// (3+ accepted samples) is promoted to the front of whichever chain applies.
func (a *Advisor) Plan(class RequestClassification, diag ProofDiagnosis) []SuggestionKind {
	chain, ok := failureEscalation[diag.Failure]
	if !ok {
		chain = planFor(class)
	}

	if a.memory != nil {
		best, _, err := a.memory.BestSuggestion(
			string(class.Profile), string(class.Complexity), string(class.Risk),
		)
		if err == nil && best != "" && containsKind(chain, best) {
			chain = promote(chain, best)
		}
	}

	return chain
}

// #endregion

// #region record

// RecordOutcomes persists every offered alternative for a completed
// verification. accepted names the kind the formulator took; pass "" when
// none was.
func (a *Advisor) RecordOutcomes(
	proofID string,
	class RequestClassification,
	offered []SuggestionKind,
	accepted SuggestionKind,
	quality float64,
) error {
	if a.memory == nil {
		return nil
	}

	for i, kind := range offered {
		rec := OutcomeRecord{
			ProofID:    proofID,
			Profile:    class.Profile,
			Complexity: class.Complexity,
			Risk:       class.Risk,
			Kind:       kind,
			Rank:       i,
			Quality:    quality,
			Accepted:   kind == accepted,
			CreatedAt:  time.Now().UTC(),
		}
		if err := a.memory.RecordOutcome(rec); err != nil {
			return err
		}
	}
	return nil
}

// #endregion

// #region record-acceptance

// RecordAcceptance persists the offered alternatives of a finished
// verification, marking which one the formulator took. acceptedID is the
// alternative ID from the result; pass "" when none was taken. A result
// without alternatives records nothing.
func (p *Prover) RecordAcceptance(req formula.VerificationRequest, res VerificationResult, acceptedID string) error {
	if len(res.AlternativeFormulations) == 0 {
		return nil
	}
	class := ClassifyRequest(req, p.avoidPairCount(req.Ingredients))
	diag := DiagnoseProof(res.Proof)

	offered := make([]SuggestionKind, 0, len(res.AlternativeFormulations))
	var accepted SuggestionKind
	for _, alt := range res.AlternativeFormulations {
		kind, ok := kindForAlternative(alt.ID)
		if !ok {
			continue
		}
		offered = append(offered, kind)
		if alt.ID == acceptedID {
			accepted = kind
		}
	}
	return p.advisor.RecordOutcomes(res.Proof.ID, class, offered, accepted, diag.Quality)
}

// kindForAlternative maps an alternative ID back to its suggestion kind.
func kindForAlternative(id string) (SuggestionKind, bool) {
	switch id {
	case "alt-risk-reduced":
		return SuggestRiskReduced, true
	case "alt-enhanced-penetration":
		return SuggestEnhancedPenetration, true
	case "alt-simplified":
		return SuggestSimplified, true
	}
	return "", false
}

// #endregion

// #region helpers

func containsKind(plan []SuggestionKind, kind SuggestionKind) bool {
	for _, k := range plan {
		if k == kind {
			return true
		}
	}
	return false
}

// promote copies the plan with kind moved to the front.
func promote(plan []SuggestionKind, kind SuggestionKind) []SuggestionKind {
	out := make([]SuggestionKind, 0, len(plan))
	out = append(out, kind)
	for _, k := range plan {
		if k != kind {
			out = append(out, k)
		}
	}
	return out
}

// #endregion
