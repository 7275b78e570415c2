package hypergraph

import (
	"math"
	"strings"
	"testing"
)

func hasRecommendation(t *testing.T, res QueryResult, fragment string) {
	t.Helper()
	for _, r := range res.Recommendations {
		if strings.Contains(r, fragment) {
			return
		}
	}
	t.Errorf("expected a recommendation containing %q, got %v", fragment, res.Recommendations)
}

// #region test-compatibility
func TestCompatibilityQueryFlagsAvoidPair(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "r1", Category: CategoryIngredient, Label: "retinol", Confidence: 1.0})
	g.AddNode(Node{ID: "r2", Category: CategoryIngredient, Label: "glycolic acid", Confidence: 1.0})
	g.AddNode(Node{ID: "r3", Category: CategoryIngredient, Label: "ceramide np", Confidence: 1.0})
	g.AddEdge(Edge{
		ID: "int-r1-r2", Nodes: []string{"r1", "r2"},
		Type: InteractionEdgeType("avoid"), Weight: 0.9, Confidence: 0.8,
	})

	res := g.Query(QueryIngredientCompatibility)

	if len(res.Nodes) != 3 || len(res.Edges) != 1 {
		t.Fatalf("expected 3 nodes and 1 edge, got %d and %d", len(res.Nodes), len(res.Edges))
	}
	// 1 covered pair of 3 possible
	if math.Abs(res.Confidence-1.0/3.0) > 0.001 {
		t.Errorf("expected confidence 0.333, got %.4f", res.Confidence)
	}
	hasRecommendation(t, res, "avoid combining retinol and glycolic acid")
	hasRecommendation(t, res, "1 of 3 ingredient pairs")
}

func TestCompatibilityQuerySynergy(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "n1", Category: CategoryIngredient, Label: "niacinamide", Confidence: 1.0})
	g.AddNode(Node{ID: "n2", Category: CategoryIngredient, Label: "hyaluronic acid", Confidence: 1.0})
	g.AddEdge(Edge{
		ID: "int-n1-n2", Nodes: []string{"n1", "n2"},
		Type: InteractionEdgeType("synergistic"), Weight: 0.9, Confidence: 0.9,
	})

	res := g.Query(QueryIngredientCompatibility)

	if math.Abs(res.Confidence-1.0) > 0.001 {
		t.Errorf("full pair coverage should score 1.0, got %.4f", res.Confidence)
	}
	hasRecommendation(t, res, "synergistic")
	for _, r := range res.Recommendations {
		if strings.Contains(r, "validate the remainder") {
			t.Errorf("full coverage should not warn about remaining pairs: %q", r)
		}
	}
}

// #endregion test-compatibility

// #region test-effect-pathway
func TestEffectPathwayQuery(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a1", Category: "assumption", Confidence: 0.9})
	g.AddNode(Node{ID: "d1", Category: "deduction", Confidence: 0.8})
	g.AddNode(Node{ID: "c1", Category: "conclusion", Confidence: 0.7})
	g.AddEdge(Edge{ID: "dep-a1-d1", Nodes: []string{"a1", "d1"}, Type: EdgeDependency})
	g.AddEdge(Edge{ID: "dep-d1-c1", Nodes: []string{"d1", "c1"}, Type: EdgeDependency})

	res := g.Query(QueryEffectPathway)

	if len(res.Nodes) != 2 {
		t.Fatalf("pathway should hold deduction and conclusion, got %d nodes", len(res.Nodes))
	}
	if len(res.Edges) != 2 {
		t.Fatalf("expected 2 pathway edges, got %d", len(res.Edges))
	}
	// full coverage times mean confidence (0.8 + 0.7) / 2
	if math.Abs(res.Confidence-0.75) > 0.001 {
		t.Errorf("expected confidence 0.75, got %.4f", res.Confidence)
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("well-wired pathway should not warn, got %v", res.Recommendations)
	}
}

func TestEffectPathwayQueryWithoutDeductions(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a1", Category: "assumption", Confidence: 0.9})

	res := g.Query(QueryEffectPathway)

	if res.Confidence != 0 {
		t.Errorf("no pathway should score 0, got %.4f", res.Confidence)
	}
	hasRecommendation(t, res, "no deduction steps")
}

// #endregion test-effect-pathway

// #region test-safety-evidence
func TestSafetyEvidenceQuery(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "v1", Category: "verification", Label: "niacinamide is safe at 5.00% concentration", Confidence: 0.85})
	g.AddNode(Node{ID: "v2", Category: "verification", Label: "retinol is safe within limits", Confidence: 0.6})
	g.AddNode(Node{ID: "v3", Category: "verification", Label: "formulation ph is within range", Confidence: 0.75})
	g.AddNode(Node{ID: "ev1", Category: CategoryEvidence, Label: "cir assessment", Confidence: 0.9, Relevance: 0.8})
	g.AddEdge(Edge{ID: "ev-v1-ev1", Nodes: []string{"v1", "ev1"}, Type: EdgeEnhancement, Weight: 0.8, Confidence: 0.9})

	res := g.Query(QuerySafetyEvidence)

	// v1, its evidence, and the unevidenced v2; the ph check is not a safety claim
	if len(res.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %+v", len(res.Nodes), res.Nodes)
	}
	if len(res.Edges) != 1 {
		t.Fatalf("expected 1 evidence edge, got %d", len(res.Edges))
	}
	// half the claims evidenced, at reliability 0.9
	if math.Abs(res.Confidence-0.45) > 0.001 {
		t.Errorf("expected confidence 0.45, got %.4f", res.Confidence)
	}
	hasRecommendation(t, res, "retinol is safe within limits")
	hasRecommendation(t, res, "lacks direct evidence")
}

func TestSafetyEvidenceQueryWithoutClaims(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a1", Category: "assumption", Confidence: 0.9})

	res := g.Query(QuerySafetyEvidence)

	if res.Confidence != 0 {
		t.Errorf("no claims should score 0, got %.4f", res.Confidence)
	}
	hasRecommendation(t, res, "no safety verification steps")
}

// #endregion test-safety-evidence

// #region test-supply-risk
func TestSupplyRiskQuery(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "i1", Category: CategoryIngredient, Label: "niacinamide", Confidence: 1.0})
	g.AddNode(Node{ID: "i2", Category: CategoryIngredient, Label: "retinol", Confidence: 1.0})
	g.AddNode(Node{ID: "sup1", Category: CategorySupplier, Label: "acme actives", Confidence: 0.9})
	g.AddNode(Node{ID: "sup2", Category: CategorySupplier, Label: "budget chem", Confidence: 0.4})
	g.AddEdge(Edge{ID: "sup-sup1-i1", Nodes: []string{"sup1", "i1"}, Type: EdgeDependency, Weight: 0.9})
	g.AddEdge(Edge{ID: "sup-sup2-i1", Nodes: []string{"sup2", "i1"}, Type: EdgeDependency, Weight: 0.4})

	res := g.Query(QuerySupplyRisk)

	// niacinamide is dual-sourced, retinol unsourced: coverage 0.5
	// mean supplier reliability (0.9 + 0.4) / 2 = 0.65
	if math.Abs(res.Confidence-0.325) > 0.001 {
		t.Errorf("expected confidence 0.325, got %.4f", res.Confidence)
	}
	hasRecommendation(t, res, "no supplier recorded for retinol")
	hasRecommendation(t, res, "budget chem")
	for _, r := range res.Recommendations {
		if strings.Contains(r, "single-sourced") {
			t.Errorf("dual-sourced ingredient should not be flagged: %q", r)
		}
	}
}

func TestSupplyRiskQuerySingleSource(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "i1", Category: CategoryIngredient, Label: "niacinamide", Confidence: 1.0})
	g.AddNode(Node{ID: "sup1", Category: CategorySupplier, Label: "acme actives", Confidence: 0.9})
	g.AddEdge(Edge{ID: "sup-sup1-i1", Nodes: []string{"sup1", "i1"}, Type: EdgeDependency, Weight: 0.9})

	res := g.Query(QuerySupplyRisk)

	if math.Abs(res.Confidence-0.9) > 0.001 {
		t.Errorf("expected confidence 0.9, got %.4f", res.Confidence)
	}
	hasRecommendation(t, res, "single-sourced")
}

// #endregion test-supply-risk

// #region test-unknown
func TestQueryUnknownKind(t *testing.T) {
	g := New()
	res := g.Query(QueryKind("bogus"))
	if res.Kind != "bogus" || len(res.Nodes) != 0 || len(res.Recommendations) != 0 {
		t.Errorf("unknown kind should return an empty result, got %+v", res)
	}
}

// #endregion test-unknown
