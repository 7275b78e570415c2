package orchestrator

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #endregion

// #region stage

// Stage names one phase of the verification state machine.
type Stage string

const (
	StageValidating Stage = "validating"
	StageGenerating Stage = "generating"
	StageRealizing  Stage = "realizing"
	StageDeriving   Stage = "deriving"
	StageValidated  Stage = "validated"
	StageFailed     Stage = "failed"
)

// #endregion

// #region stage-event

// StageEvent records one stage transition for provenance.
type StageEvent struct {
	Stage Stage
	At    time.Time
	Note  string
}

// #endregion

// #region result

// VerificationResult is the full outcome of one hypothesis verification.
// It is always well formed: failed runs carry a zero-confidence result with
// the cause in Warnings rather than an error.
type VerificationResult struct {
	IsValid                 bool
	Confidence              float64
	Proof                   proof.Proof
	Warnings                []string
	Recommendations         []string
	AlternativeFormulations []AlternativeFormulation
	Trace                   []StageEvent
}

// #endregion

// #region alternative

// AlternativeFormulation is a heuristic reformulation template offered when
// the proof comes back weak. These are fixed-shape suggestions, not search
// results.
type AlternativeFormulation struct {
	ID                  string
	Description         string
	Ingredients         []formula.Ingredient
	Reasoning           string
	ExpectedImprovement string
	Tradeoffs           []string
	Confidence          float64
}

// #endregion

// #region safety-assessment

// SafetyAssessment is the outcome of a single-ingredient safety check.
type SafetyAssessment struct {
	IngredientID         string
	Safe                 bool
	Confidence           float64
	MaxSafeConcentration float64 // percent, 0 = unknown
	Warnings             []string
}

// #endregion

// #region penetration-estimate

// PenetrationEstimate is one ingredient's modelled penetration outcome.
// Failed items degrade to a zero estimate instead of aborting the batch.
type PenetrationEstimate struct {
	IngredientID string
	Depth        float64 // micrometers
	Layer        string  // deepest layer reached, "" when modelling failed
	Confidence   float64
}

// #endregion
