package orchestrator

// #region imports
import (
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #endregion

// #region failure-modes

// FailureMode names the dominant weakness of a finished proof.
type FailureMode string

const (
	FailureNone            FailureMode = "none"
	FailureIncompatibility FailureMode = "incompatibility"
	FailureIncomplete      FailureMode = "incomplete"
	FailureWeakEvidence    FailureMode = "weak_evidence"
)

// ProofDiagnosis summarizes a proof for the suggestion advisor.
type ProofDiagnosis struct {
	Quality float64 // 0..1 composite of validity, completeness, relevance
	Failure FailureMode
}

// #endregion

// #region thresholds

const (
	// compatibility steps at or below this carry a declared conflict
	conflictCompatConfidence = 0.3
	// completeness below this leaves at least one reasoning category missing
	incompleteBelow = 0.75
	// steps under this confidence count toward the weak-evidence mode
	weakStepConfidence = 0.5
)

// #endregion

// #region diagnose

// DiagnoseProof scores a proof and names its dominant failure mode. Purely
// structural; no model call, no reference lookups.
func DiagnoseProof(pr proof.Proof) ProofDiagnosis {
	quality := 0.4*pr.Validity + 0.3*pr.Completeness + 0.3*pr.CognitiveRelevance
	if quality > 1.0 {
		quality = 1.0
	}
	if quality < 0.0 {
		quality = 0.0
	}

	return ProofDiagnosis{
		Quality: quality,
		Failure: detectFailure(pr),
	}
}

// #endregion

// #region detect-failure

// detectFailure returns the highest-priority mode present. Declared conflicts
// rank above missing categories, which rank above thin evidence.
func detectFailure(pr proof.Proof) FailureMode {
	for _, s := range pr.Steps {
		if s.Rule == "compatibility_check" && s.Confidence <= conflictCompatConfidence {
			return FailureIncompatibility
		}
	}

	if pr.Completeness < incompleteBelow {
		return FailureIncomplete
	}

	weak := 0
	for _, s := range pr.Steps {
		if s.Confidence < weakStepConfidence {
			weak++
		}
	}
	if weak >= 2 {
		return FailureWeakEvidence
	}

	return FailureNone
}

// #endregion
