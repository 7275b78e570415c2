// Package replay runs recorded verification fixtures through the full proof
// pipeline and checks the outcomes against declared expectations. Fixtures
// are JSON files bundling requests with expected results; they serve as
// regression baselines for the tuning table and the pipeline itself.
package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/formulation-prover/internal/config"
	"github.com/danielpatrickdp/formulation-prover/internal/formula"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture. Requests
// replay in order against one shared prover, so a fixture models one
// verification stream. The default skin model applies throughout.
type Fixture struct {
	Description  string               `json:"description"`
	Tuning       *FixtureTuning       `json:"tuning,omitempty"`
	Requests     []FixtureRequest     `json:"requests"`
	Expectations []FixtureExpectation `json:"expectations"`
}

// FixtureTuning overrides the default tuning table. A present group replaces
// that group wholesale; absent groups keep their defaults.
type FixtureTuning struct {
	Steps        *FixtureStepConfidences `json:"steps,omitempty"`
	Validation   *FixtureValidation      `json:"validation,omitempty"`
	Alternatives *FixtureAlternatives    `json:"alternatives,omitempty"`
}

// FixtureStepConfidences mirrors config.StepConfidences with JSON tags.
type FixtureStepConfidences struct {
	Assumption           float64 `json:"assumption"`
	SafetyKnown          float64 `json:"safety_known"`
	SafetyUnknown        float64 `json:"safety_unknown"`
	CompatibilityKnown   float64 `json:"compatibility_known"`
	CompatibilityUnknown float64 `json:"compatibility_unknown"`
	CompatibilitySynergy float64 `json:"compatibility_synergy"`
	CompatibilityAvoid   float64 `json:"compatibility_avoid"`
	EffectFallback       float64 `json:"effect_fallback"`
	Constraint           float64 `json:"constraint"`
	Penetration          float64 `json:"penetration"`
}

// FixtureValidation mirrors config.Validation with JSON tags.
type FixtureValidation struct {
	MinValidity         float64 `json:"min_validity"`
	MinCompleteness     float64 `json:"min_completeness"`
	LowStepConfidence   float64 `json:"low_step_confidence"`
	CompletenessPenalty float64 `json:"completeness_penalty"`
	StepPenalty         float64 `json:"step_penalty"`
	ConclusionThreshold float64 `json:"conclusion_threshold"`
}

// FixtureAlternatives mirrors config.Alternatives with JSON tags.
type FixtureAlternatives struct {
	Trigger             float64 `json:"trigger"`
	RiskReduced         float64 `json:"risk_reduced"`
	EnhancedPenetration float64 `json:"enhanced_penetration"`
	Simplified          float64 `json:"simplified"`
}

// FixtureRequest mirrors formula.VerificationRequest with JSON tags plus an
// ID used to match expectations.
type FixtureRequest struct {
	ID            string              `json:"id"`
	Hypothesis    string              `json:"hypothesis"`
	Ingredients   []FixtureIngredient `json:"ingredients"`
	TargetEffects []FixtureEffect     `json:"target_effects,omitempty"`
	Constraints   []FixtureConstraint `json:"constraints,omitempty"`
}

// FixtureIngredient mirrors formula.Ingredient with JSON tags.
type FixtureIngredient struct {
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	Concentration   float64 `json:"concentration,omitempty"`
	MolecularWeight float64 `json:"molecular_weight,omitempty"`
	LogP            float64 `json:"log_p,omitempty"`
}

// FixtureEffect mirrors formula.TargetEffect with JSON tags.
type FixtureEffect struct {
	IngredientID      string  `json:"ingredient_id"`
	TargetLayer       string  `json:"target_layer"`
	EffectType        string  `json:"effect_type"`
	Magnitude         float64 `json:"magnitude,omitempty"`
	Timeframe         float64 `json:"timeframe,omitempty"`
	Confidence        float64 `json:"confidence,omitempty"`
	MechanismOfAction string  `json:"mechanism_of_action,omitempty"`
}

// FixtureConstraint mirrors formula.Constraint with JSON tags.
type FixtureConstraint struct {
	Type      string   `json:"type"`
	Parameter string   `json:"parameter"`
	Value     float64  `json:"value,omitempty"`
	Options   []string `json:"options,omitempty"`
	Operator  string   `json:"operator"`
	Required  bool     `json:"required,omitempty"`
}

// FixtureExpectation declares the minimum acceptable outcome for one request.
type FixtureExpectation struct {
	RequestID     string  `json:"request_id"`
	IsValid       bool    `json:"is_valid"`
	MinConfidence float64 `json:"min_confidence"`
	MinSteps      int     `json:"min_steps"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToRequest converts a FixtureRequest to a domain VerificationRequest.
func (fr *FixtureRequest) ToRequest() formula.VerificationRequest {
	req := formula.VerificationRequest{Hypothesis: fr.Hypothesis}
	for _, ing := range fr.Ingredients {
		req.Ingredients = append(req.Ingredients, formula.Ingredient{
			ID:              ing.ID,
			Label:           ing.Label,
			Concentration:   ing.Concentration,
			MolecularWeight: ing.MolecularWeight,
			LogP:            ing.LogP,
		})
	}
	for _, eff := range fr.TargetEffects {
		req.TargetEffects = append(req.TargetEffects, formula.TargetEffect{
			IngredientID:      eff.IngredientID,
			TargetLayer:       eff.TargetLayer,
			EffectType:        eff.EffectType,
			Magnitude:         eff.Magnitude,
			Timeframe:         eff.Timeframe,
			Confidence:        eff.Confidence,
			MechanismOfAction: eff.MechanismOfAction,
		})
	}
	for _, c := range fr.Constraints {
		req.Constraints = append(req.Constraints, formula.Constraint{
			Type:      formula.ConstraintKind(c.Type),
			Parameter: c.Parameter,
			Value:     c.Value,
			Options:   c.Options,
			Operator:  formula.Operator(c.Operator),
			Required:  c.Required,
		})
	}
	return req
}

// Apply overlays the fixture's tuning groups on a base table.
func (ft *FixtureTuning) Apply(base config.Tuning) config.Tuning {
	if ft == nil {
		return base
	}
	if ft.Steps != nil {
		base.Steps = config.StepConfidences{
			Assumption:           ft.Steps.Assumption,
			SafetyKnown:          ft.Steps.SafetyKnown,
			SafetyUnknown:        ft.Steps.SafetyUnknown,
			CompatibilityKnown:   ft.Steps.CompatibilityKnown,
			CompatibilityUnknown: ft.Steps.CompatibilityUnknown,
			CompatibilitySynergy: ft.Steps.CompatibilitySynergy,
			CompatibilityAvoid:   ft.Steps.CompatibilityAvoid,
			EffectFallback:       ft.Steps.EffectFallback,
			Constraint:           ft.Steps.Constraint,
			Penetration:          ft.Steps.Penetration,
		}
	}
	if ft.Validation != nil {
		base.Validation = config.Validation{
			MinValidity:         ft.Validation.MinValidity,
			MinCompleteness:     ft.Validation.MinCompleteness,
			LowStepConfidence:   ft.Validation.LowStepConfidence,
			CompletenessPenalty: ft.Validation.CompletenessPenalty,
			StepPenalty:         ft.Validation.StepPenalty,
			ConclusionThreshold: ft.Validation.ConclusionThreshold,
		}
	}
	if ft.Alternatives != nil {
		base.Alternatives = config.Alternatives{
			Trigger:             ft.Alternatives.Trigger,
			RiskReduced:         ft.Alternatives.RiskReduced,
			EnhancedPenetration: ft.Alternatives.EnhancedPenetration,
			Simplified:          ft.Alternatives.Simplified,
		}
	}
	return base
}

// #endregion fixture-loader
