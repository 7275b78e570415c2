package logging

import "time"

// #region provenance-entry
// ProvenanceEntry is a single row in the verification_log table.
type ProvenanceEntry struct {
	ProofID    string
	Hypothesis string
	Verdict    string // "supported" | "unsupported" | "rejected" | "aborted"
	Confidence float64
	StepCount  int
	TraceJSON  string
	Warnings   string
	CreatedAt  time.Time
}

// #endregion provenance-entry

// #region trace-record
// TraceRecord captures the complete verification context for a single run.
// Serialized as JSON into verification_log.trace_json so a verdict can be
// re-examined after the tuning that produced it has changed.
type TraceRecord struct {
	ProofID    string `json:"proof_id"`
	Hypothesis string `json:"hypothesis"`

	// Full request, present when the caller opted in. Rows carrying it can
	// be exported as replay fixtures.
	Request *TraceRequest `json:"request,omitempty"`

	// Stage transitions as they happened at runtime
	Stages []TraceStage `json:"stages"`

	// Soundness metrics behind the verdict
	Validity           float64 `json:"validity"`
	Completeness       float64 `json:"completeness"`
	CognitiveRelevance float64 `json:"cognitive_relevance"`

	// Validation thresholds active at decision time
	Thresholds TraceThresholds `json:"thresholds"`

	// Pipeline output
	Verdict    string   `json:"verdict"`
	Confidence float64  `json:"confidence"`
	Warnings   []string `json:"warnings,omitempty"`
}

// TraceStage is one stage transition in the verification trace.
type TraceStage struct {
	Stage string    `json:"stage"`
	At    time.Time `json:"at"`
	Note  string    `json:"note,omitempty"`
}

// TraceThresholds captures the validation tuning active at decision time.
type TraceThresholds struct {
	MinValidity         float64 `json:"min_validity"`
	MinCompleteness     float64 `json:"min_completeness"`
	LowStepConfidence   float64 `json:"low_step_confidence"`
	ConclusionThreshold float64 `json:"conclusion_threshold"`
}

// #endregion trace-record

// #region trace-request

// TraceRequest mirrors the request with the fixture JSON field names, so an
// exported fixture round-trips without translation.
type TraceRequest struct {
	Hypothesis    string            `json:"hypothesis"`
	Ingredients   []TraceIngredient `json:"ingredients"`
	TargetEffects []TraceEffect     `json:"target_effects,omitempty"`
	Constraints   []TraceConstraint `json:"constraints,omitempty"`
}

// TraceIngredient is one requested ingredient.
type TraceIngredient struct {
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	Concentration   float64 `json:"concentration,omitempty"`
	MolecularWeight float64 `json:"molecular_weight,omitempty"`
	LogP            float64 `json:"log_p,omitempty"`
}

// TraceEffect is one requested target effect.
type TraceEffect struct {
	IngredientID      string  `json:"ingredient_id"`
	TargetLayer       string  `json:"target_layer"`
	EffectType        string  `json:"effect_type"`
	Magnitude         float64 `json:"magnitude,omitempty"`
	Timeframe         float64 `json:"timeframe,omitempty"`
	Confidence        float64 `json:"confidence,omitempty"`
	MechanismOfAction string  `json:"mechanism_of_action,omitempty"`
}

// TraceConstraint is one requested formulation constraint.
type TraceConstraint struct {
	Type      string   `json:"type"`
	Parameter string   `json:"parameter"`
	Value     float64  `json:"value,omitempty"`
	Options   []string `json:"options,omitempty"`
	Operator  string   `json:"operator"`
	Required  bool     `json:"required,omitempty"`
}

// #endregion trace-request
