package orchestrator

// #region imports
import (
	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/hypergraph"
)

// #endregion

// #region reference-graph

// referenceGraph assembles the external subgraph for the request's
// ingredients: declared interactions between them and their known suppliers.
// Returns nil when no reader is configured; Merge treats nil as a no-op.
func (p *Prover) referenceGraph(ingredients []formula.Ingredient) *hypergraph.Graph {
	if p.reader == nil {
		return nil
	}

	g := hypergraph.New()
	inRequest := make(map[string]bool, len(ingredients))
	for _, ing := range ingredients {
		inRequest[ing.ID] = true
		_ = g.AddNode(hypergraph.Node{
			ID:         ing.ID,
			Category:   hypergraph.CategoryIngredient,
			Label:      ing.Label,
			Relevance:  0.5,
			Confidence: 1.0,
		})
	}

	for _, ing := range ingredients {
		for _, rel := range p.reader.Relations(ing.ID) {
			if !inRequest[rel.TargetID] || rel.TargetID == ing.ID {
				continue
			}
			a, b := ing.ID, rel.TargetID
			if a > b {
				a, b = b, a
			}
			err := g.AddEdge(hypergraph.Edge{
				ID:         "int-" + a + "-" + b,
				Nodes:      []string{a, b},
				Type:       hypergraph.InteractionEdgeType(rel.Kind),
				Weight:     rel.Strength,
				Confidence: rel.Strength,
			})
			if err != nil {
				p.logger.Debug("skipping reference edge", "err", err)
			}
		}

		for _, sup := range p.reader.Suppliers(ing.ID) {
			if sup.ID == "" {
				continue
			}
			_ = g.AddNode(hypergraph.Node{
				ID:         sup.ID,
				Category:   hypergraph.CategorySupplier,
				Label:      sup.Name,
				Relevance:  0.5,
				Confidence: sup.ReliabilityScore,
			})
			err := g.AddEdge(hypergraph.Edge{
				ID:         "supply-" + sup.ID + "-" + ing.ID,
				Nodes:      []string{sup.ID, ing.ID},
				Type:       hypergraph.EdgeDependency,
				Weight:     sup.ReliabilityScore,
				Confidence: sup.ReliabilityScore,
			})
			if err != nil {
				p.logger.Debug("skipping supplier edge", "err", err)
			}
		}
	}
	return g
}

// #endregion
