// Package config holds the tunable confidence table for the proof pipeline.
// Every per-call confidence literal lives here as a named field so tests and
// deployments can assert against constants instead of embedded numbers.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region tuning

// Tuning is the full confidence table consumed by the orchestrator.
type Tuning struct {
	Steps        StepConfidences `yaml:"steps"`
	Validation   Validation      `yaml:"validation"`
	Alternatives Alternatives    `yaml:"alternatives"`
}

// StepConfidences assigns a base confidence to each generated step kind.
type StepConfidences struct {
	Assumption           float64 `yaml:"assumption"`
	SafetyKnown          float64 `yaml:"safety_known"`   // reference record present, no explicit rating
	SafetyUnknown        float64 `yaml:"safety_unknown"` // no reference data for the ingredient
	CompatibilityKnown   float64 `yaml:"compatibility_known"`
	CompatibilityUnknown float64 `yaml:"compatibility_unknown"`
	CompatibilitySynergy float64 `yaml:"compatibility_synergy"` // declared synergistic relation
	CompatibilityAvoid   float64 `yaml:"compatibility_avoid"`   // declared avoid relation
	EffectFallback       float64 `yaml:"effect_fallback"`       // used when a target effect carries no confidence
	Constraint           float64 `yaml:"constraint"`
	Penetration          float64 `yaml:"penetration"`
}

// Validation holds the soundness thresholds and multiplicative penalties.
type Validation struct {
	MinValidity         float64 `yaml:"min_validity"`         // isValid flips false below this
	MinCompleteness     float64 `yaml:"min_completeness"`     // below this, CompletenessPenalty applies
	LowStepConfidence   float64 `yaml:"low_step_confidence"`  // any step below this applies StepPenalty
	CompletenessPenalty float64 `yaml:"completeness_penalty"` // multiplier on final confidence
	StepPenalty         float64 `yaml:"step_penalty"`         // multiplier on final confidence
	ConclusionThreshold float64 `yaml:"conclusion_threshold"` // supportive vs refuting conclusion text
}

// Alternatives holds the alternative-formulation trigger and template confidences.
type Alternatives struct {
	Trigger             float64 `yaml:"trigger"` // generate alternatives when validity is below this
	RiskReduced         float64 `yaml:"risk_reduced"`
	EnhancedPenetration float64 `yaml:"enhanced_penetration"`
	Simplified          float64 `yaml:"simplified"`
}

// #endregion

// #region defaults

// DefaultTuning returns the shipped confidence table.
func DefaultTuning() Tuning {
	return Tuning{
		Steps: StepConfidences{
			Assumption:           0.9,
			SafetyKnown:          0.85,
			SafetyUnknown:        0.6,
			CompatibilityKnown:   0.8,
			CompatibilityUnknown: 0.55,
			CompatibilitySynergy: 0.9,
			CompatibilityAvoid:   0.2,
			EffectFallback:       0.6,
			Constraint:           0.75,
			Penetration:          0.8,
		},
		Validation: Validation{
			MinValidity:         0.6,
			MinCompleteness:     0.7,
			LowStepConfidence:   0.5,
			CompletenessPenalty: 0.8,
			StepPenalty:         0.9,
			ConclusionThreshold: 0.7,
		},
		Alternatives: Alternatives{
			Trigger:             0.7,
			RiskReduced:         0.75,
			EnhancedPenetration: 0.65,
			Simplified:          0.7,
		},
	}
}

// #endregion

// #region load

// Load reads a YAML tuning file, overlaying it on the defaults so partial
// files only override the fields they name.
func Load(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning file: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals YAML tuning data over the defaults.
func Parse(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// #endregion

// #region validate

// Validate checks every field is a usable confidence or multiplier.
func (t Tuning) Validate() error {
	unit := map[string]float64{
		"steps.assumption":            t.Steps.Assumption,
		"steps.safety_known":          t.Steps.SafetyKnown,
		"steps.safety_unknown":        t.Steps.SafetyUnknown,
		"steps.compatibility_known":   t.Steps.CompatibilityKnown,
		"steps.compatibility_unknown": t.Steps.CompatibilityUnknown,
		"steps.compatibility_synergy": t.Steps.CompatibilitySynergy,
		"steps.compatibility_avoid":   t.Steps.CompatibilityAvoid,
		"steps.effect_fallback":       t.Steps.EffectFallback,
		"steps.constraint":            t.Steps.Constraint,
		"steps.penetration":           t.Steps.Penetration,

		"validation.min_validity":         t.Validation.MinValidity,
		"validation.min_completeness":     t.Validation.MinCompleteness,
		"validation.low_step_confidence":  t.Validation.LowStepConfidence,
		"validation.conclusion_threshold": t.Validation.ConclusionThreshold,

		"alternatives.trigger":              t.Alternatives.Trigger,
		"alternatives.risk_reduced":         t.Alternatives.RiskReduced,
		"alternatives.enhanced_penetration": t.Alternatives.EnhancedPenetration,
		"alternatives.simplified":           t.Alternatives.Simplified,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}
	penalties := map[string]float64{
		"validation.completeness_penalty": t.Validation.CompletenessPenalty,
		"validation.step_penalty":         t.Validation.StepPenalty,
	}
	for name, v := range penalties {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0,1], got %v", name, v)
		}
	}
	return nil
}

// #endregion
