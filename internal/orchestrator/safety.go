package orchestrator

// #region imports
import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
)

// #endregion

// #region ingredient-safety

var maxConcentrationPattern = regexp.MustCompile(`up to (\d+(?:\.\d+)?)% maximum`)

// VerifyIngredientSafety checks one ingredient at one concentration by
// building a single-ingredient request and running the full pipeline. The
// maximum safe concentration comes from the reference store when available,
// falling back to the percentage token in the safety step's statement.
func (p *Prover) VerifyIngredientSafety(ingredientID string, concentration float64) SafetyAssessment {
	label := ingredientID
	if rec, ok := p.ingredientProfile(ingredientID); ok && rec.Label != "" {
		label = rec.Label
	}

	req := formula.VerificationRequest{
		Hypothesis: fmt.Sprintf("%s is safe for topical use at %.2f%% concentration",
			label, concentration),
		Ingredients: []formula.Ingredient{
			{ID: ingredientID, Label: label, Concentration: concentration},
		},
		Constraints: []formula.Constraint{{
			Type:      formula.ConstraintConcentration,
			Parameter: ingredientID,
			Value:     concentration,
			Operator:  formula.OpLte,
			Required:  true,
		}},
	}

	res := p.Verify(req)

	max := 0.0
	if rec, ok := p.ingredientProfile(ingredientID); ok && rec.MaxConcentration > 0 {
		max = rec.MaxConcentration
	} else {
		for _, s := range res.Proof.Steps {
			if s.Rule != "safety_check" {
				continue
			}
			if parsed, ok := parseMaxConcentration(s.Statement); ok {
				max = parsed
				break
			}
		}
	}

	assessment := SafetyAssessment{
		IngredientID:         ingredientID,
		Safe:                 res.IsValid,
		Confidence:           res.Confidence,
		MaxSafeConcentration: max,
		Warnings:             res.Warnings,
	}
	if max > 0 && concentration > max {
		assessment.Safe = false
		assessment.Warnings = append(assessment.Warnings, fmt.Sprintf(
			"requested %.2f%% exceeds the maximum safe concentration %.2f%%",
			concentration, max))
	}
	return assessment
}

// parseMaxConcentration extracts the "up to N% maximum" token from a safety
// statement.
func parseMaxConcentration(statement string) (float64, bool) {
	m := maxConcentrationPattern.FindStringSubmatch(statement)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// #endregion

// #region penetration-batch

// ModelSkinPenetration estimates penetration for a batch of ingredients
// against the default skin model. A failing item logs and degrades to a
// zero estimate; it never aborts the batch.
func (p *Prover) ModelSkinPenetration(ingredients []formula.Ingredient) []PenetrationEstimate {
	model := formula.DefaultSkinModel()
	out := make([]PenetrationEstimate, 0, len(ingredients))

	for _, ing := range ingredients {
		depth, err := p.penetrationDepth(ing)
		if err != nil {
			p.logger.Warn("penetration modelling failed",
				"ingredient", ing.ID, "err", err)
			out = append(out, PenetrationEstimate{IngredientID: ing.ID})
			continue
		}
		out = append(out, PenetrationEstimate{
			IngredientID: ing.ID,
			Depth:        depth,
			Layer:        layerAtDepth(model, depth),
			Confidence:   p.tuning.Steps.Penetration,
		})
	}
	return out
}

// #endregion
