package orchestrator

// #region imports
import (
	"fmt"
	"strings"
	"time"

	"github.com/danielpatrickdp/formulation-prover/internal/cognitive"
	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
	"github.com/danielpatrickdp/formulation-prover/internal/refstore"
	"github.com/danielpatrickdp/formulation-prover/internal/tensor"
)

// #endregion

// defaultConcentration stands in when a request leaves concentration unset,
// keeping the penetration operation's positive post-condition satisfiable.
const defaultConcentration = 1.0

// #region context

// buildContext derives the relevance-realization context from a request.
func buildContext(req formula.VerificationRequest) cognitive.Context {
	condition := "normal skin"
	if len(req.TargetEffects) > 0 && req.TargetEffects[0].TargetLayer != "" {
		condition = req.TargetEffects[0].TargetLayer
	}

	ids := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ids = append(ids, ing.ID)
	}
	constraints := make([]string, 0, len(req.Constraints))
	for _, c := range req.Constraints {
		constraints = append(constraints, c.Parameter)
	}

	return cognitive.Context{
		Goal:              req.Hypothesis,
		ActiveIngredients: ids,
		SkinCondition:     condition,
		UserConstraints:   constraints,
		Environment:       req.Environment(),
	}
}

// #endregion

// #region generate

// generateSteps produces the full candidate set: one assumption, one safety
// verification per ingredient, one compatibility verification per unordered
// pair, one verification per target effect and constraint, and one
// penetration deduction per ingredient. Step IDs and fact IDs are derived
// deterministically from generation order.
func (p *Prover) generateSteps(req formula.VerificationRequest) ([]proof.Step, []string) {
	var steps []proof.Step
	var warnings []string
	base := p.now()

	next := func() (string, time.Time) {
		n := len(steps) + 1
		return fmt.Sprintf("step-%d", n), base.Add(time.Duration(n) * time.Millisecond)
	}

	id, at := next()
	steps = append(steps, proof.Step{
		ID:         id,
		Type:       proof.StepAssumption,
		Statement:  fmt.Sprintf("assume formulation hypothesis: %s", req.Hypothesis),
		Produces:   []string{"hypothesis"},
		Rule:       "assumption",
		Confidence: p.tuning.Steps.Assumption,
		CreatedAt:  at,
	})

	for _, ing := range req.Ingredients {
		id, at := next()
		steps = append(steps, p.safetyStep(id, at, ing))
	}

	for i := 0; i < len(req.Ingredients); i++ {
		for j := i + 1; j < len(req.Ingredients); j++ {
			id, at := next()
			step, warning := p.compatibilityStep(id, at, req.Ingredients[i], req.Ingredients[j])
			steps = append(steps, step)
			if warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}

	for _, effect := range req.TargetEffects {
		id, at := next()
		steps = append(steps, p.effectStep(id, at, effect, req))
	}

	for _, c := range req.Constraints {
		id, at := next()
		steps = append(steps, constraintStep(id, at, c, p.tuning.Steps.Constraint))
	}

	for _, ing := range req.Ingredients {
		id, at := next()
		step, err := p.penetrationStep(id, at, ing, req.SkinModel)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(
				"penetration modelling unavailable for %s: %v", ing.ID, err))
			p.logger.Warn("penetration step skipped", "ingredient", ing.ID, "err", err)
			continue
		}
		steps = append(steps, step)
	}

	return steps, warnings
}

// #endregion

// #region safety

func (p *Prover) safetyStep(id string, at time.Time, ing formula.Ingredient) proof.Step {
	conc := ing.Concentration
	if conc <= 0 {
		conc = defaultConcentration
	}
	label := strings.ToLower(ing.Label)

	confidence := p.tuning.Steps.SafetyUnknown
	statement := fmt.Sprintf("%s is safe at %.2f%% concentration within assessed limits", label, conc)
	var evidence []proof.Evidence

	if rec, ok := p.ingredientProfile(ing.ID); ok {
		confidence = p.tuning.Steps.SafetyKnown
		if rec.SafetyRating > 0 {
			confidence = rec.SafetyRating
		}
		if rec.MaxConcentration > 0 {
			statement = fmt.Sprintf("%s is safe at %.2f%% concentration, up to %.2f%% maximum",
				label, conc, rec.MaxConcentration)
		}
		evidence = append(evidence, proof.Evidence{
			ID:          "ev-safety-" + ing.ID,
			Type:        proof.EvidenceLiterature,
			Source:      "ingredient reference data",
			Reliability: confidence,
			Relevance:   0.9,
		})
	}

	return proof.Step{
		ID:         id,
		Type:       proof.StepVerification,
		Statement:  statement,
		Premises:   []string{"hypothesis"},
		Produces:   []string{"safety:" + ing.ID},
		Rule:       "safety_check",
		Confidence: confidence,
		Evidence:   evidence,
		CreatedAt:  at,
	}
}

// #endregion

// #region compatibility

func (p *Prover) compatibilityStep(id string, at time.Time, a, b formula.Ingredient) (proof.Step, string) {
	la, lb := strings.ToLower(a.Label), strings.ToLower(b.Label)

	step := proof.Step{
		ID:         id,
		Type:       proof.StepVerification,
		Statement:  fmt.Sprintf("%s and %s have no known interaction and are assumed compatible", la, lb),
		Premises:   []string{"safety:" + a.ID, "safety:" + b.ID},
		Produces:   []string{"compat:" + a.ID + "+" + b.ID},
		Rule:       "compatibility_check",
		Confidence: p.tuning.Steps.CompatibilityUnknown,
		CreatedAt:  at,
	}

	rel, ok := p.relationBetween(a.ID, b.ID)
	if !ok {
		return step, ""
	}

	step.Evidence = []proof.Evidence{{
		ID:          "ev-compat-" + a.ID + "+" + b.ID,
		Type:        proof.EvidenceLiterature,
		Source:      "ingredient reference data",
		Reliability: rel.Strength,
		Relevance:   0.8,
	}}

	var warning string
	switch rel.Kind {
	case "synergistic":
		step.Confidence = p.tuning.Steps.CompatibilitySynergy
		step.Statement = fmt.Sprintf("%s and %s are synergistic and can be combined", la, lb)
	case "antagonistic", "avoid":
		step.Confidence = p.tuning.Steps.CompatibilityAvoid
		step.Statement = fmt.Sprintf("%s and %s should not be combined", la, lb)
		warning = fmt.Sprintf("avoid combining %s and %s: declared %s relation", la, lb, rel.Kind)
	default:
		step.Confidence = p.tuning.Steps.CompatibilityKnown
		step.Statement = fmt.Sprintf("%s and %s are compatible", la, lb)
	}
	return step, warning
}

// relationBetween checks the reference data in both directions.
func (p *Prover) relationBetween(aID, bID string) (refstore.Relation, bool) {
	if p.reader == nil {
		return refstore.Relation{}, false
	}
	for _, rel := range p.reader.Relations(aID) {
		if rel.TargetID == bID {
			return rel, true
		}
	}
	for _, rel := range p.reader.Relations(bID) {
		if rel.TargetID == aID {
			return rel, true
		}
	}
	return refstore.Relation{}, false
}

// #endregion

// #region effect

func (p *Prover) effectStep(id string, at time.Time, effect formula.TargetEffect, req formula.VerificationRequest) proof.Step {
	label := effect.IngredientID
	for _, ing := range req.Ingredients {
		if ing.ID == effect.IngredientID {
			label = strings.ToLower(ing.Label)
			break
		}
	}
	mechanism := effect.MechanismOfAction
	if mechanism == "" {
		mechanism = "an unspecified mechanism"
	}

	confidence := effect.Confidence
	if confidence <= 0 {
		confidence = p.tuning.Steps.EffectFallback
	}

	premises := []string{"safety:" + effect.IngredientID}
	if !hasIngredient(req, effect.IngredientID) {
		premises = []string{"hypothesis"}
	}

	return proof.Step{
		ID:   id,
		Type: proof.StepVerification,
		Statement: fmt.Sprintf("%s produces the %s effect in the %s via %s",
			label, effect.EffectType, effect.TargetLayer, mechanism),
		Premises:   premises,
		Produces:   []string{"effect:" + effect.IngredientID + ":" + effect.EffectType},
		Rule:       "effect_verification",
		Confidence: clamp01(confidence),
		Evidence: []proof.Evidence{{
			ID:          "ev-effect-" + effect.IngredientID + "-" + effect.EffectType,
			Type:        proof.EvidenceTheoretical,
			Source:      "declared target effect",
			Reliability: clamp01(confidence),
			Relevance:   0.8,
		}},
		CreatedAt: at,
	}
}

func hasIngredient(req formula.VerificationRequest, id string) bool {
	for _, ing := range req.Ingredients {
		if ing.ID == id {
			return true
		}
	}
	return false
}

// #endregion

// #region constraint

func constraintStep(id string, at time.Time, c formula.Constraint, confidence float64) proof.Step {
	detail := fmt.Sprintf("%s %.2f", c.Operator, c.Value)
	if len(c.Options) > 0 {
		detail = fmt.Sprintf("%s %s", c.Operator, strings.Join(c.Options, ", "))
	}
	return proof.Step{
		ID:   id,
		Type: proof.StepVerification,
		Statement: fmt.Sprintf("formulation satisfies the %s constraint on %s (%s)",
			c.Type, c.Parameter, detail),
		Premises:   []string{"hypothesis"},
		Produces:   []string{fmt.Sprintf("constraint:%s:%s", c.Type, c.Parameter)},
		Rule:       "constraint_check",
		Confidence: confidence,
		CreatedAt:  at,
	}
}

// #endregion

// #region penetration

func (p *Prover) penetrationStep(id string, at time.Time, ing formula.Ingredient, model formula.SkinModel) (proof.Step, error) {
	depth, err := p.penetrationDepth(ing)
	if err != nil {
		return proof.Step{}, err
	}

	if len(model.Layers) == 0 {
		model = formula.DefaultSkinModel()
	}
	layer := layerAtDepth(model, depth)

	return proof.Step{
		ID:   id,
		Type: proof.StepDeduction,
		Statement: fmt.Sprintf("model predicts %s penetrates to %.1f um, reaching the %s",
			strings.ToLower(ing.Label), depth, layer),
		Premises:   []string{"safety:" + ing.ID},
		Produces:   []string{"penetration:" + ing.ID},
		Rule:       "penetration_model",
		Confidence: p.tuning.Steps.Penetration,
		CreatedAt:  at,
	}, nil
}

// penetrationDepth evaluates the closed-form penetration operation for one
// ingredient, filling molecular weight and logP from the reference store
// when the request leaves them unset.
func (p *Prover) penetrationDepth(ing formula.Ingredient) (float64, error) {
	mw, logP := ing.MolecularWeight, ing.LogP
	if rec, ok := p.ingredientProfile(ing.ID); ok {
		if mw == 0 {
			mw = rec.MolecularWeight
		}
		if logP == 0 {
			logP = rec.LogP
		}
	}
	conc := ing.Concentration
	if conc <= 0 {
		conc = defaultConcentration
	}

	out, err := p.registry.Execute(tensor.OpPenetrationDepth,
		tensor.Scalar(mw, "Da"), tensor.Scalar(logP, ""), tensor.Scalar(conc, "%"))
	if err != nil {
		return 0, err
	}
	return out.Data[0], nil
}

// layerAtDepth maps a penetration depth onto the deepest layer reached.
func layerAtDepth(model formula.SkinModel, depth float64) string {
	cumulative := 0.0
	for _, layer := range model.Layers {
		cumulative += layer.Depth
		if depth <= cumulative {
			return layer.Name
		}
	}
	if n := len(model.Layers); n > 0 {
		return model.Layers[n-1].Name
	}
	return "unknown layer"
}

// #endregion

// #region profile

// ingredientProfile consults the reference store, degrading to a miss when
// no reader is configured.
func (p *Prover) ingredientProfile(id string) (refstore.IngredientRecord, bool) {
	if p.reader == nil {
		return refstore.IngredientRecord{}, false
	}
	return p.reader.Ingredient(id)
}

// #endregion

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
