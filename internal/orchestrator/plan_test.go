package orchestrator

import "testing"

func TestPlanForRiskAndProfile(t *testing.T) {
	cases := []struct {
		name  string
		class RequestClassification
		first SuggestionKind
	}{
		{
			name:  "routine paired leads with risk reduction",
			class: RequestClassification{Profile: ProfilePairedActives, Risk: RiskRoutine},
			first: SuggestRiskReduced,
		},
		{
			name:  "routine multi-active leads with simplification",
			class: RequestClassification{Profile: ProfileMultiActive, Risk: RiskRoutine},
			first: SuggestSimplified,
		},
		{
			name:  "caution always leads with risk reduction",
			class: RequestClassification{Profile: ProfileMultiActive, Risk: RiskCaution},
			first: SuggestRiskReduced,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := planFor(tc.class)
			if len(plan) != 3 {
				t.Fatalf("plan length = %d, want 3", len(plan))
			}
			if plan[0] != tc.first {
				t.Errorf("plan[0] = %q, want %q", plan[0], tc.first)
			}
		})
	}
}

func TestPlanForUnknownClassificationFallsBack(t *testing.T) {
	plan := planFor(RequestClassification{Profile: "mystery", Risk: "mystery"})
	if len(plan) != len(allSuggestionKinds) {
		t.Fatalf("fallback plan length = %d, want %d", len(plan), len(allSuggestionKinds))
	}
}

func TestFailureEscalationRanksEnhancerLast(t *testing.T) {
	chain := failureEscalation[FailureIncompatibility]
	if chain[len(chain)-1] != SuggestEnhancedPenetration {
		t.Errorf("incompatibility chain = %v, want the penetration enhancer last", chain)
	}

	chain = failureEscalation[FailureIncomplete]
	if chain[0] != SuggestEnhancedPenetration {
		t.Errorf("incomplete chain = %v, want the penetration enhancer first", chain)
	}
}

func TestNextSuggestionSkipsOffered(t *testing.T) {
	class := RequestClassification{Profile: ProfilePairedActives, Risk: RiskRoutine}

	next := NextSuggestion(class, FailureNone, nil)
	if next == nil || *next != SuggestRiskReduced {
		t.Fatalf("first suggestion = %v, want risk_reduced", next)
	}

	next = NextSuggestion(class, FailureNone, []SuggestionKind{SuggestRiskReduced})
	if next == nil || *next != SuggestEnhancedPenetration {
		t.Fatalf("second suggestion = %v, want enhanced_penetration", next)
	}
}

func TestNextSuggestionFollowsFailureChain(t *testing.T) {
	class := RequestClassification{Profile: ProfilePairedActives, Risk: RiskRoutine}

	next := NextSuggestion(class, FailureWeakEvidence, nil)
	if next == nil || *next != SuggestSimplified {
		t.Fatalf("weak-evidence suggestion = %v, want simplified", next)
	}
}

func TestNextSuggestionExhausted(t *testing.T) {
	class := RequestClassification{Profile: ProfileSingleActive, Risk: RiskRoutine}

	next := NextSuggestion(class, FailureNone, allSuggestionKinds)
	if next != nil {
		t.Errorf("exhausted pool returned %q, want nil", *next)
	}
}

func TestNextSuggestionUnknownFailureUsesClassDefault(t *testing.T) {
	class := RequestClassification{Profile: ProfileMultiActive, Risk: RiskRoutine}

	next := NextSuggestion(class, FailureMode("mystery"), nil)
	if next == nil || *next != SuggestSimplified {
		t.Fatalf("suggestion = %v, want the multi-active default simplified", next)
	}
}
