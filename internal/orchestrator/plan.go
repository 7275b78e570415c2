package orchestrator

// #region suggestion-kinds

// SuggestionKind names one of the built-in alternative-formulation templates.
type SuggestionKind string

const (
	SuggestRiskReduced         SuggestionKind = "risk_reduced"
	SuggestEnhancedPenetration SuggestionKind = "enhanced_penetration"
	SuggestSimplified          SuggestionKind = "simplified"
)

// allSuggestionKinds is the fallback pool once a preferred chain is exhausted.
var allSuggestionKinds = []SuggestionKind{
	SuggestRiskReduced, SuggestEnhancedPenetration, SuggestSimplified,
}

// #endregion

// #region default-plan

// defaultPlan maps (Risk, FormulaProfile) → preferred suggestion order.
var defaultPlan = map[Risk]map[FormulaProfile][]SuggestionKind{
	RiskRoutine: {
		ProfileSingleActive:  {SuggestRiskReduced, SuggestEnhancedPenetration, SuggestSimplified},
		ProfilePairedActives: {SuggestRiskReduced, SuggestEnhancedPenetration, SuggestSimplified},
		ProfileMultiActive:   {SuggestSimplified, SuggestRiskReduced, SuggestEnhancedPenetration},
	},
	RiskCaution: {
		ProfileSingleActive:  {SuggestRiskReduced, SuggestSimplified, SuggestEnhancedPenetration},
		ProfilePairedActives: {SuggestRiskReduced, SuggestSimplified, SuggestEnhancedPenetration},
		ProfileMultiActive:   {SuggestRiskReduced, SuggestSimplified, SuggestEnhancedPenetration},
	},
}

// #endregion

// #region failure-escalation

// failureEscalation overrides the default order when the proof has a named
// failure mode. A conflict makes a penetration enhancer the worst offer; a
// missing deduction category makes it the best one.
var failureEscalation = map[FailureMode][]SuggestionKind{
	FailureIncompatibility: {SuggestRiskReduced, SuggestSimplified, SuggestEnhancedPenetration},
	FailureWeakEvidence:    {SuggestSimplified, SuggestRiskReduced, SuggestEnhancedPenetration},
	FailureIncomplete:      {SuggestEnhancedPenetration, SuggestRiskReduced, SuggestSimplified},
}

// #endregion

// #region plan-for

// planFor resolves the default suggestion order for a classification.
func planFor(class RequestClassification) []SuggestionKind {
	if byProfile, ok := defaultPlan[class.Risk]; ok {
		if plan, ok := byProfile[class.Profile]; ok {
			return plan
		}
	}
	return allSuggestionKinds
}

// #endregion

// #region next-suggestion

// NextSuggestion picks the next template to offer after earlier offers were
// declined, skipping kinds already offered. Returns nil when every kind has
// been tried.
func NextSuggestion(class RequestClassification, failure FailureMode, offered []SuggestionKind) *SuggestionKind {
	offeredSet := make(map[SuggestionKind]bool)
	for _, k := range offered {
		offeredSet[k] = true
	}

	chain, ok := failureEscalation[failure]
	if !ok {
		chain = planFor(class)
	}

	for _, kind := range chain {
		if !offeredSet[kind] {
			k := kind
			return &k
		}
	}

	// Preferred chain exhausted; fall back to any untried kind.
	for _, kind := range allSuggestionKinds {
		if !offeredSet[kind] {
			k := kind
			return &k
		}
	}

	return nil
}

// #endregion
