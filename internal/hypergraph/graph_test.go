package hypergraph

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// buildSerumGraph converts a three-step proof about a niacinamide serum.
func buildSerumGraph(t *testing.T) *Graph {
	t.Helper()
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	pr := proof.Proof{
		ID:         "proof-1",
		Hypothesis: "brightening serum with niacinamide",
		Steps: []proof.Step{
			{
				ID: "s1", Type: proof.StepAssumption, Confidence: 0.9,
				Statement: "assume the brightening serum hypothesis holds for niacinamide",
				Produces:  []string{"hypothesis"},
				CreatedAt: t0,
			},
			{
				ID: "s2", Type: proof.StepVerification, Confidence: 0.85,
				Statement: "niacinamide is safe at 5.00% concentration",
				Premises:  []string{"hypothesis"},
				Produces:  []string{"safety:niacinamide"},
				Evidence: []proof.Evidence{{
					ID: "ev1", Type: proof.EvidenceLiterature, Source: "cir assessment",
					Reliability: 0.9, Relevance: 0.8,
				}},
				CreatedAt: t0.Add(time.Millisecond),
			},
			{
				ID: "s3", Type: proof.StepConclusion, Confidence: 0.775,
				Statement: "overall the hypothesis is supported",
				Premises:  []string{"safety:niacinamide"},
				CreatedAt: t0.Add(2 * time.Millisecond),
			},
		},
	}
	ingredients := []formula.Ingredient{
		{ID: "niacinamide", Label: "niacinamide", Concentration: 5},
	}
	g, err := Build(pr, ingredients)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

// #region test-build
func TestBuildGraphShape(t *testing.T) {
	g := buildSerumGraph(t)

	// 3 steps + 1 evidence + 1 ingredient
	if got := len(g.Nodes()); got != 5 {
		t.Fatalf("expected 5 nodes, got %d", got)
	}
	// ev-s2-ev1, ref edges to s1 and s2, dep-s1-s2, dep-s2-s3
	if got := len(g.Edges()); got != 5 {
		t.Fatalf("expected 5 edges, got %d", got)
	}

	n, ok := g.Node("s2")
	if !ok || n.Category != "verification" {
		t.Errorf("s2 should be a verification node, got %+v", n)
	}
	ev, ok := g.Node("ev1")
	if !ok {
		t.Fatal("evidence node missing")
	}
	if math.Abs(ev.Confidence-0.9) > 0.001 || math.Abs(ev.Relevance-0.8) > 0.001 {
		t.Errorf("evidence node should carry reliability and relevance, got %+v", ev)
	}

	if got := g.Degree("s2"); got != 4 {
		t.Errorf("s2 degree: expected 4, got %d", got)
	}
	want := []string{"ev1", "niacinamide", "s1", "s3"}
	got := g.Neighbors("s2")
	if len(got) != len(want) {
		t.Fatalf("s2 neighbors: expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("s2 neighbors[%d]: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBuildDependencyEdges(t *testing.T) {
	g := buildSerumGraph(t)

	var dep Edge
	for _, e := range g.Edges() {
		if e.ID == "dep-s1-s2" {
			dep = e
		}
	}
	if dep.ID == "" {
		t.Fatal("premise link s1->s2 should become a dependency edge")
	}
	if dep.Type != EdgeDependency {
		t.Errorf("expected dependency type, got %s", dep.Type)
	}
	// mean of the two step confidences: (0.9 + 0.85) / 2
	if math.Abs(dep.Confidence-0.875) > 0.001 {
		t.Errorf("expected edge confidence 0.875, got %.4f", dep.Confidence)
	}
}

func TestBuildIgnoresUnresolvablePremises(t *testing.T) {
	pr := proof.Proof{Steps: []proof.Step{
		{ID: "s1", Type: proof.StepVerification, Statement: "check", Premises: []string{"missing:fact"}},
	}}
	g, err := Build(pr, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := len(g.Edges()); got != 0 {
		t.Errorf("unresolvable premise should produce no edge, got %d", got)
	}
}

// #endregion test-build

// #region test-edges
func TestAddEdgeGuards(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Category: CategoryIngredient})
	g.AddNode(Node{ID: "b", Category: CategoryIngredient})

	if err := g.AddEdge(Edge{ID: "e1", Nodes: []string{"a"}}); !errors.Is(err, ErrInvalidEdge) {
		t.Errorf("single-member edge should fail, got %v", err)
	}
	if err := g.AddEdge(Edge{ID: "e2", Nodes: []string{"a", "ghost"}}); !errors.Is(err, ErrInvalidEdge) {
		t.Errorf("edge to missing node should fail, got %v", err)
	}

	if err := g.AddEdge(Edge{ID: "e3", Nodes: []string{"a", "b"}, Weight: 0.4}); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	// duplicate id keeps the first weight
	if err := g.AddEdge(Edge{ID: "e3", Nodes: []string{"a", "b"}, Weight: 0.9}); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge after duplicate, got %d", len(edges))
	}
	if math.Abs(edges[0].Weight-0.4) > 0.001 {
		t.Errorf("weight should not change on duplicate, got %.4f", edges[0].Weight)
	}
	if g.Degree("a") != 1 {
		t.Errorf("duplicate must not inflate degree, got %d", g.Degree("a"))
	}
}

// #endregion test-edges

// #region test-metrics
func TestAnalyzeSerumGraph(t *testing.T) {
	g := buildSerumGraph(t)
	m := g.Analyze()

	// 5 edges over 5 nodes, capped at 1
	if math.Abs(m.Connectivity-1.0) > 0.001 {
		t.Errorf("expected connectivity 1.0, got %.4f", m.Connectivity)
	}

	if len(m.CriticalPaths) != 1 {
		t.Fatalf("expected 1 critical path, got %d: %v", len(m.CriticalPaths), m.CriticalPaths)
	}
	want := []string{"s1", "s2", "s3"}
	for i, id := range want {
		if m.CriticalPaths[0][i] != id {
			t.Fatalf("critical path: expected %v, got %v", want, m.CriticalPaths[0])
		}
	}

	// ev1 and s3 each hang on a single edge
	wantVuln := []string{"ev1", "s3"}
	if len(m.Vulnerabilities) != 2 || m.Vulnerabilities[0] != wantVuln[0] || m.Vulnerabilities[1] != wantVuln[1] {
		t.Errorf("expected vulnerabilities %v, got %v", wantVuln, m.Vulnerabilities)
	}

	// s2 (0.85) and ev1 (0.9) touch the enhancement edge; s1 does not
	wantOpp := []string{"ev1", "s2"}
	if len(m.Opportunities) != 2 || m.Opportunities[0] != wantOpp[0] || m.Opportunities[1] != wantOpp[1] {
		t.Errorf("expected opportunities %v, got %v", wantOpp, m.Opportunities)
	}
}

func TestClusteringWithinCategory(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Category: CategoryIngredient})
	g.AddNode(Node{ID: "b", Category: CategoryIngredient})
	g.AddNode(Node{ID: "c", Category: CategoryIngredient})
	g.AddEdge(Edge{ID: "e1", Nodes: []string{"a", "b"}, Type: EdgeCorrelation})

	m := g.Analyze()
	// 1 internal edge of 3 possible pairs
	if math.Abs(m.Clustering-1.0/3.0) > 0.001 {
		t.Errorf("expected clustering 0.333, got %.4f", m.Clustering)
	}
}

func TestAnalyzeEmptyGraph(t *testing.T) {
	m := New().Analyze()
	if m.Connectivity != 0 || m.Clustering != 0 {
		t.Errorf("empty graph should score zero, got %+v", m)
	}
	if len(m.CriticalPaths) != 0 || len(m.Vulnerabilities) != 0 {
		t.Errorf("empty graph should have no paths or vulnerabilities, got %+v", m)
	}
}

// #endregion test-metrics

// #region test-merge
func TestMergeKeepsExistingEntries(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Category: CategoryIngredient, Label: "alpha"})
	g.AddNode(Node{ID: "b", Category: CategoryIngredient, Label: "beta"})
	g.AddEdge(Edge{ID: "e1", Nodes: []string{"a", "b"}, Type: EdgeCorrelation})

	other := New()
	other.AddNode(Node{ID: "a", Category: CategoryIngredient, Label: "other"})
	other.AddNode(Node{ID: "c", Category: CategorySupplier, Label: "gamma"})
	other.AddEdge(Edge{ID: "e2", Nodes: []string{"a", "c"}, Type: EdgeDependency})
	// reference to a node the union will never contain
	other.edges["e3"] = Edge{ID: "e3", Nodes: []string{"c", "ghost"}, Type: EdgeDependency}

	g.Merge(other)

	if got := len(g.Nodes()); got != 3 {
		t.Fatalf("expected 3 nodes after merge, got %d", got)
	}
	a, _ := g.Node("a")
	if a.Label != "alpha" {
		t.Errorf("existing node should win on collision, got label %q", a.Label)
	}
	if got := len(g.Edges()); got != 2 {
		t.Errorf("edge to missing node should be dropped, expected 2 edges, got %d", got)
	}
	if g.Degree("c") != 1 {
		t.Errorf("merged edge should index incidence, got degree %d", g.Degree("c"))
	}
}

func TestMergeNil(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Category: CategoryIngredient})
	g.Merge(nil)
	if len(g.Nodes()) != 1 {
		t.Errorf("nil merge should be a no-op")
	}
}

// #endregion test-merge
