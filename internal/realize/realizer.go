// Package realize implements the three-phase relevance realizer. Candidate
// proof steps are scored for salience, coherence, and elegance against the
// request context and a cognitive session snapshot, then filtered and
// reordered by the integrated score. The whole package is pure: nothing
// here mutates the session or the candidates.
package realize

import (
	"sort"

	"github.com/danielpatrickdp/formulation-prover/internal/cognitive"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #region realize

// Realize scores every candidate through the three phases and returns the
// ones whose integrated score clears the keep threshold, best first.
func Realize(candidates []proof.Step, ctx cognitive.Context, snap cognitive.Snapshot, cfg Config) Result {
	result := Result{Scores: make(map[string]PhaseScores, len(candidates))}
	if len(candidates) == 0 {
		return result
	}

	sig := analyzeBatch(candidates)
	for _, step := range candidates {
		s := salience(step, ctx, snap)
		c := coherence(step, ctx, sig)
		e := elegance(step)
		overall := clamp01(cfg.SalienceWeight*s + cfg.CoherenceWeight*c + cfg.EleganceWeight*e)
		result.Scores[step.ID] = PhaseScores{Salience: s, Coherence: c, Elegance: e, Overall: overall}
		if overall > cfg.KeepThreshold {
			result.Kept = append(result.Kept, step)
		}
	}

	sort.SliceStable(result.Kept, func(i, j int) bool {
		return result.Scores[result.Kept[i].ID].Overall > result.Scores[result.Kept[j].ID].Overall
	})
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
