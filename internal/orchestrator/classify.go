package orchestrator

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
)

// #endregion

// #region classification-types

// FormulaProfile buckets a request by the shape of its ingredient list.
type FormulaProfile string

const (
	ProfileSingleActive  FormulaProfile = "single_active"
	ProfilePairedActives FormulaProfile = "paired_actives"
	ProfileMultiActive   FormulaProfile = "multi_active"
)

// Complexity grades how much reasoning a request demands.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Risk flags requests that need a conservative suggestion order.
type Risk string

const (
	RiskRoutine Risk = "routine"
	RiskCaution Risk = "caution"
)

// RequestClassification drives which alternative formulations get offered
// first when a proof comes out weak.
type RequestClassification struct {
	Profile    FormulaProfile
	Complexity Complexity
	Risk       Risk
}

// #endregion

// #region keywords

// hazardKeywords mark hypotheses about aggressive treatments. Matched
// case-insensitively against the hypothesis text.
var hazardKeywords = []string{
	"peel", "peeling", "bleach", "depigment", "microneedl",
	"resurfac", "strong exfoli",
}

// #endregion

// #region classify

// cautionConcentration is the percent above which any single active puts the
// request in the caution bucket.
const cautionConcentration = 10.0

// ClassifyRequest buckets a request by profile, complexity, and risk via
// structural heuristics. avoidPairs is the number of declared avoid or
// antagonistic pairs among the request's ingredients; the caller counts them
// because only it holds the reference reader.
func ClassifyRequest(req formula.VerificationRequest, avoidPairs int) RequestClassification {
	return RequestClassification{
		Profile:    classifyProfile(len(req.Ingredients)),
		Complexity: classifyComplexity(req),
		Risk:       classifyRisk(req, avoidPairs),
	}
}

// #endregion

// #region classify-profile

func classifyProfile(ingredients int) FormulaProfile {
	switch {
	case ingredients <= 1:
		return ProfileSingleActive
	case ingredients == 2:
		return ProfilePairedActives
	default:
		return ProfileMultiActive
	}
}

// #endregion

// #region classify-complexity

func classifyComplexity(req formula.VerificationRequest) Complexity {
	load := len(req.Ingredients) + len(req.TargetEffects) + len(req.Constraints)
	switch {
	case load <= 2:
		return ComplexitySimple
	case load <= 5:
		return ComplexityModerate
	default:
		return ComplexityComplex
	}
}

// #endregion

// #region classify-risk

func classifyRisk(req formula.VerificationRequest, avoidPairs int) Risk {
	if avoidPairs > 0 {
		return RiskCaution
	}

	lower := strings.ToLower(req.Hypothesis)
	for _, kw := range hazardKeywords {
		if strings.Contains(lower, kw) {
			return RiskCaution
		}
	}

	for _, ing := range req.Ingredients {
		if ing.Concentration > cautionConcentration {
			return RiskCaution
		}
	}

	for _, c := range req.Constraints {
		if c.Type == formula.ConstraintRegulatory && c.Required {
			return RiskCaution
		}
	}

	return RiskRoutine
}

// #endregion
