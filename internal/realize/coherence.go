package realize

import (
	"strings"

	"github.com/danielpatrickdp/formulation-prover/internal/cognitive"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #region narrative-keywords

// narrativeKeywords lists type-appropriate signal words per step type.
var narrativeKeywords = map[proof.StepType][]string{
	proof.StepAssumption:   {"assume", "given", "suppose"},
	proof.StepDeduction:    {"therefore", "derive", "follows", "model", "predict"},
	proof.StepVerification: {"verif", "confirm", "check", "satisf", "within"},
	proof.StepConclusion:   {"conclude", "thus", "overall", "support"},
}

// #endregion

// #region batch-signals

// batchSignals holds the batch-level facts shared by every candidate's
// coherence score: which step types co-occur, whether confidences agree,
// and which facts are produced by whom.
type batchSignals struct {
	hasAssumption   bool
	hasVerification bool
	hasConclusion   bool
	lowVariance     bool
	producedBy      map[string]*proof.Step // fact id -> producing step
	consumers       map[string][]string    // fact id -> consuming step ids
}

func analyzeBatch(steps []proof.Step) batchSignals {
	sig := batchSignals{
		producedBy: make(map[string]*proof.Step),
		consumers:  make(map[string][]string),
	}
	confidences := make([]float64, 0, len(steps))
	for i := range steps {
		step := &steps[i]
		switch step.Type {
		case proof.StepAssumption:
			sig.hasAssumption = true
		case proof.StepVerification:
			sig.hasVerification = true
		case proof.StepConclusion:
			sig.hasConclusion = true
		}
		confidences = append(confidences, step.Confidence)
		for _, fact := range step.Produces {
			sig.producedBy[fact] = step
		}
		for _, fact := range step.Premises {
			sig.consumers[fact] = append(sig.consumers[fact], step.ID)
		}
	}
	sig.lowVariance = variance(confidences) < 0.1
	return sig
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	v := 0.0
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return v / float64(len(xs))
}

// #endregion

// #region coherence

// coherence scores how well a candidate hangs together with its batch:
// 0.5 base plus rule, dependency, narrative, and temporal bonuses.
func coherence(step proof.Step, ctx cognitive.Context, sig batchSignals) float64 {
	score := 0.5
	score += ruleBonus(sig)
	score += dependencyCoherence(step, sig)
	score += narrativeCoherence(step, ctx)
	score += temporalCoherence(step, sig)
	return clamp01(score)
}

func ruleBonus(sig batchSignals) float64 {
	bonus := 0.0
	if sig.hasAssumption && sig.hasConclusion {
		bonus += 0.2
	}
	if sig.hasVerification && sig.hasConclusion {
		bonus += 0.15
	}
	if sig.lowVariance {
		bonus += 0.1
	}
	return bonus
}

// dependencyCoherence rewards premises satisfied inside the batch (0.3 times
// the satisfied fraction) and being depended upon (0.1 per consumer of a
// produced fact, capped 0.2).
func dependencyCoherence(step proof.Step, sig batchSignals) float64 {
	score := 0.0
	if len(step.Premises) > 0 {
		satisfied := 0
		for _, fact := range step.Premises {
			if producer, ok := sig.producedBy[fact]; ok && producer.ID != step.ID {
				satisfied++
			}
		}
		score += 0.3 * float64(satisfied) / float64(len(step.Premises))
	}
	dependents := 0
	for _, fact := range step.Produces {
		for _, consumer := range sig.consumers[fact] {
			if consumer != step.ID {
				dependents++
			}
		}
	}
	support := 0.1 * float64(dependents)
	if support > 0.2 {
		support = 0.2
	}
	return score + support
}

func narrativeCoherence(step proof.Step, ctx cognitive.Context) float64 {
	stmt := strings.ToLower(step.Statement)
	score := 0.0
	if containsAny(stmt, narrativeKeywords[step.Type]) {
		score += 0.2
	}
	if ctx.SkinCondition != "" && strings.Contains(stmt, strings.ToLower(ctx.SkinCondition)) {
		score += 0.1
	}
	return score
}

// temporalCoherence starts at 0.2 and adds 0.1 per premise whose producer
// was created before this step, capped at 0.5.
func temporalCoherence(step proof.Step, sig batchSignals) float64 {
	score := 0.2
	for _, fact := range step.Premises {
		producer, ok := sig.producedBy[fact]
		if !ok || producer.ID == step.ID {
			continue
		}
		if producer.CreatedAt.Before(step.CreatedAt) {
			score += 0.1
		}
	}
	if score > 0.5 {
		score = 0.5
	}
	return score
}

// #endregion
