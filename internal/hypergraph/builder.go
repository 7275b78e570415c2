package hypergraph

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #region build

// Build converts a finished proof and its referenced ingredients into a
// graph: one node per step, evidence item, and ingredient; dependency edges
// along premise links; enhancement edges from steps to their evidence;
// dependency edges from ingredients to the steps mentioning them.
func Build(pr proof.Proof, ingredients []formula.Ingredient) (*Graph, error) {
	g := New()

	stepConf := make(map[string]float64, len(pr.Steps))
	factProducer := make(map[string]string)
	for _, step := range pr.Steps {
		if err := g.AddNode(Node{
			ID:         step.ID,
			Category:   string(step.Type),
			Label:      step.Statement,
			Relevance:  step.Confidence,
			Confidence: step.Confidence,
		}); err != nil {
			return nil, fmt.Errorf("step node %s: %w", step.ID, err)
		}
		stepConf[step.ID] = step.Confidence
		for _, fact := range step.Produces {
			factProducer[fact] = step.ID
		}
	}

	for _, step := range pr.Steps {
		for i, ev := range step.Evidence {
			evID := ev.ID
			if evID == "" {
				evID = fmt.Sprintf("%s-ev-%d", step.ID, i+1)
			}
			if err := g.AddNode(Node{
				ID:         evID,
				Category:   CategoryEvidence,
				Label:      ev.Source,
				Relevance:  ev.Relevance,
				Confidence: ev.Reliability,
			}); err != nil {
				return nil, fmt.Errorf("evidence node %s: %w", evID, err)
			}
			err := g.AddEdge(Edge{
				ID:         "ev-" + step.ID + "-" + evID,
				Nodes:      []string{step.ID, evID},
				Type:       EdgeEnhancement,
				Weight:     ev.Relevance,
				Confidence: ev.Reliability,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	for _, ing := range ingredients {
		props := map[string]string{}
		if ing.Concentration > 0 {
			props["concentration"] = fmt.Sprintf("%.2f", ing.Concentration)
		}
		if err := g.AddNode(Node{
			ID:         ing.ID,
			Category:   CategoryIngredient,
			Label:      ing.Label,
			Properties: props,
			Relevance:  0.5,
			Confidence: 1.0,
		}); err != nil {
			return nil, fmt.Errorf("ingredient node %s: %w", ing.ID, err)
		}
	}

	// link ingredients to the steps that talk about them
	for _, step := range pr.Steps {
		stmt := strings.ToLower(step.Statement)
		for _, ing := range ingredients {
			if ing.Label == "" || !strings.Contains(stmt, strings.ToLower(ing.Label)) {
				continue
			}
			err := g.AddEdge(Edge{
				ID:         "ref-" + ing.ID + "-" + step.ID,
				Nodes:      []string{ing.ID, step.ID},
				Type:       EdgeDependency,
				Weight:     0.5,
				Confidence: step.Confidence,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	// premise links become dependency edges from producer to consumer
	for _, step := range pr.Steps {
		for _, fact := range step.Premises {
			producer, ok := factProducer[fact]
			if !ok || producer == step.ID {
				continue
			}
			err := g.AddEdge(Edge{
				ID:         "dep-" + producer + "-" + step.ID,
				Nodes:      []string{producer, step.ID},
				Type:       EdgeDependency,
				Weight:     1.0,
				Confidence: (stepConf[producer] + step.Confidence) / 2,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// #endregion build
