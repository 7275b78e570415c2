package proof

import "time"

// #region step-type

// StepType classifies the reasoning role of a proof step.
type StepType string

const (
	StepAssumption   StepType = "assumption"
	StepDeduction    StepType = "deduction"
	StepVerification StepType = "verification"
	StepConclusion   StepType = "conclusion"
)

// #endregion

// #region evidence

// EvidenceType classifies the provenance of an evidence record.
type EvidenceType string

const (
	EvidenceExperimental  EvidenceType = "experimental"
	EvidenceTheoretical   EvidenceType = "theoretical"
	EvidenceComputational EvidenceType = "computational"
	EvidenceLiterature    EvidenceType = "literature"
)

// Evidence is a provenance record backing a proof step.
type Evidence struct {
	ID          string
	Type        EvidenceType
	Source      string
	Reliability float64 // 0..1
	Relevance   float64 // 0..1
}

// #endregion

// #region step

// Step is one typed unit of reasoning. Steps are never mutated after creation.
// Premise linkage is by fact id: a step consumes the facts in Premises and
// establishes the facts in Produces. Assumption steps have no premises.
type Step struct {
	ID         string
	Type       StepType
	Statement  string
	Premises   []string // fact ids consumed
	Produces   []string // fact ids established
	Rule       string
	Confidence float64 // 0..1
	Evidence   []Evidence
	CreatedAt  time.Time
}

// #endregion

// #region proof

// Proof is the immutable final artifact of one verification call.
type Proof struct {
	ID                 string
	Hypothesis         string
	Conclusion         string
	Steps              []Step // ordered: assumptions first, then premise-satisfied order
	Validity           float64
	Completeness       float64
	CognitiveRelevance float64
}

// #endregion
