package orchestrator

// #region imports
import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #endregion

// #region ordering

// orderSteps arranges steps so no step precedes a producer of one of its
// premises: assumptions first, then a repeated fill of any step whose
// premises are all satisfied, keeping generation order as the tie-break.
// Steps whose premises never resolve are dropped with a warning.
func orderSteps(steps []proof.Step) ([]proof.Step, []string) {
	ordered := make([]proof.Step, 0, len(steps))
	produced := make(map[string]bool)
	var remaining []proof.Step

	for _, s := range steps {
		if s.Type == proof.StepAssumption {
			ordered = append(ordered, s)
			for _, fact := range s.Produces {
				produced[fact] = true
			}
			continue
		}
		remaining = append(remaining, s)
	}

	for len(remaining) > 0 {
		progress := false
		var blocked []proof.Step
		for _, s := range remaining {
			if premisesSatisfied(s, produced) {
				ordered = append(ordered, s)
				for _, fact := range s.Produces {
					produced[fact] = true
				}
				progress = true
				continue
			}
			blocked = append(blocked, s)
		}
		remaining = blocked
		if !progress {
			break
		}
	}

	var warnings []string
	for _, s := range remaining {
		var unresolved []string
		for _, fact := range s.Premises {
			if !produced[fact] {
				unresolved = append(unresolved, fact)
			}
		}
		warnings = append(warnings, fmt.Sprintf(
			"dropping step %s (%s): unresolved premises %s",
			s.ID, s.Rule, strings.Join(unresolved, ", ")))
	}
	return ordered, warnings
}

func premisesSatisfied(s proof.Step, produced map[string]bool) bool {
	for _, fact := range s.Premises {
		if !produced[fact] {
			return false
		}
	}
	return true
}

// #endregion

// #region conclusion

// synthesizeConclusion appends the closing step: its confidence is the mean
// of everything before it, and its wording flips at the conclusion threshold.
func (p *Prover) synthesizeConclusion(req formula.VerificationRequest, ordered []proof.Step) proof.Step {
	confidence := meanConfidence(ordered)

	statement := fmt.Sprintf(
		"overall the formulation hypothesis %q is not sufficiently supported (confidence %.2f)",
		req.Hypothesis, confidence)
	if confidence >= p.tuning.Validation.ConclusionThreshold {
		statement = fmt.Sprintf(
			"overall the formulation hypothesis %q is supported with confidence %.2f",
			req.Hypothesis, confidence)
	}

	var premises []string
	seen := make(map[string]bool)
	for _, s := range ordered {
		for _, fact := range s.Produces {
			if !seen[fact] {
				seen[fact] = true
				premises = append(premises, fact)
			}
		}
	}

	return proof.Step{
		ID:         "step-conclusion",
		Type:       proof.StepConclusion,
		Statement:  statement,
		Premises:   premises,
		Rule:       "synthesis",
		Confidence: confidence,
		CreatedAt:  p.now(),
	}
}

// #endregion
