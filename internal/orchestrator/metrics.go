package orchestrator

// #region imports
import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #endregion

// #region proof-metrics

// meanConfidence is the proof validity measure.
func meanConfidence(steps []proof.Step) float64 {
	if len(steps) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range steps {
		sum += s.Confidence
	}
	return sum / float64(len(steps))
}

// completeness is the fraction of required step categories present. The
// deduction category is only required when the request declares target
// effects.
func completeness(steps []proof.Step, hasEffects bool) float64 {
	required := []proof.StepType{proof.StepAssumption, proof.StepVerification, proof.StepConclusion}
	if hasEffects {
		required = append(required, proof.StepDeduction)
	}

	present := make(map[proof.StepType]bool, len(steps))
	for _, s := range steps {
		present[s.Type] = true
	}

	count := 0
	for _, t := range required {
		if present[t] {
			count++
		}
	}
	return float64(count) / float64(len(required))
}

// cognitiveRelevance averages each step's mean evidence relevance, treating
// evidence-free steps as weakly relevant.
func cognitiveRelevance(steps []proof.Step) float64 {
	if len(steps) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range steps {
		if len(s.Evidence) == 0 {
			sum += 0.1
			continue
		}
		evSum := 0.0
		for _, ev := range s.Evidence {
			evSum += ev.Relevance
		}
		sum += evSum / float64(len(s.Evidence))
	}
	return sum / float64(len(steps))
}

// #endregion

// #region soundness

// validateSoundness applies the soft-degradation rules: validity below the
// minimum flips the verdict; low completeness and low-confidence steps each
// multiply the final confidence down and add a warning.
func (p *Prover) validateSoundness(pr proof.Proof) (bool, float64, []string) {
	var warnings []string
	isValid := pr.Validity >= p.tuning.Validation.MinValidity
	confidence := pr.Validity

	if pr.Completeness < p.tuning.Validation.MinCompleteness {
		warnings = append(warnings, fmt.Sprintf(
			"proof completeness %.2f is below %.2f; missing reasoning categories",
			pr.Completeness, p.tuning.Validation.MinCompleteness))
		confidence *= p.tuning.Validation.CompletenessPenalty
	}

	low := 0
	for _, s := range pr.Steps {
		if s.Confidence < p.tuning.Validation.LowStepConfidence {
			low++
		}
	}
	if low > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d step(s) fall below confidence %.2f",
			low, p.tuning.Validation.LowStepConfidence))
		confidence *= p.tuning.Validation.StepPenalty
	}

	return isValid, math.Min(confidence, 1.0), warnings
}

// #endregion
