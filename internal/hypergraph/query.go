package hypergraph

import (
	"fmt"
	"sort"
	"strings"
)

// #region queries

// Query answers one of the fixed point queries against the graph. Unknown
// kinds return an empty result for that kind.
func (g *Graph) Query(kind QueryKind) QueryResult {
	switch kind {
	case QueryIngredientCompatibility:
		return g.queryCompatibility()
	case QueryEffectPathway:
		return g.queryEffectPathway()
	case QuerySafetyEvidence:
		return g.querySafetyEvidence()
	case QuerySupplyRisk:
		return g.querySupplyRisk()
	default:
		return QueryResult{Kind: kind}
	}
}

// queryCompatibility collects ingredient nodes and the interaction edges
// between them. Confidence is the fraction of ingredient pairs covered by at
// least one edge.
func (g *Graph) queryCompatibility() QueryResult {
	res := QueryResult{Kind: QueryIngredientCompatibility}

	ingredients := g.nodesByCategory(CategoryIngredient)
	inSet := make(map[string]bool, len(ingredients))
	for _, n := range ingredients {
		res.Nodes = append(res.Nodes, n)
		inSet[n.ID] = true
	}

	coveredPairs := make(map[string]bool)
	for _, e := range g.Edges() {
		members := ingredientMembers(e, inSet)
		if len(members) < 2 {
			continue
		}
		res.Edges = append(res.Edges, e)
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				coveredPairs[pairKey(members[i], members[j])] = true
			}
		}
		a, b := g.nodes[members[0]].Label, g.nodes[members[1]].Label
		switch e.Type {
		case EdgeInhibition:
			res.Recommendations = append(res.Recommendations,
				fmt.Sprintf("avoid combining %s and %s: declared antagonistic", a, b))
		case EdgeEnhancement:
			res.Recommendations = append(res.Recommendations,
				fmt.Sprintf("%s and %s are synergistic; consider co-formulation", a, b))
		}
	}

	totalPairs := len(ingredients) * (len(ingredients) - 1) / 2
	if totalPairs > 0 {
		res.Confidence = float64(len(coveredPairs)) / float64(totalPairs)
	}
	if totalPairs > 0 && len(coveredPairs) < totalPairs {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("interaction data covers %d of %d ingredient pairs; validate the remainder experimentally",
				len(coveredPairs), totalPairs))
	}
	sort.Strings(res.Recommendations)
	return res
}

// queryEffectPathway collects the deduction and conclusion steps modelling
// effects plus the edges wiring them together.
func (g *Graph) queryEffectPathway() QueryResult {
	res := QueryResult{Kind: QueryEffectPathway}

	pathway := make(map[string]bool)
	confSum := 0.0
	for _, n := range g.Nodes() {
		if n.Category != "deduction" && n.Category != "conclusion" {
			continue
		}
		res.Nodes = append(res.Nodes, n)
		pathway[n.ID] = true
		confSum += n.Confidence
	}
	if len(res.Nodes) == 0 {
		res.Recommendations = append(res.Recommendations,
			"no deduction steps model the effect pathway; add penetration or mechanism modelling")
		return res
	}

	for _, e := range g.Edges() {
		touches := false
		for _, id := range e.Nodes {
			if pathway[id] {
				touches = true
				break
			}
		}
		if touches && e.Type != EdgeInhibition {
			res.Edges = append(res.Edges, e)
		}
	}

	coverage := float64(len(res.Edges)) / float64(len(res.Nodes))
	if coverage > 1 {
		coverage = 1
	}
	res.Confidence = coverage * (confSum / float64(len(res.Nodes)))
	if coverage < 0.5 {
		res.Recommendations = append(res.Recommendations,
			"effect pathway is sparsely supported; link deductions to evidence or assumptions")
	}
	return res
}

// querySafetyEvidence collects safety verification steps and the evidence
// attached to them. Confidence is the evidenced fraction scaled by mean
// evidence reliability.
func (g *Graph) querySafetyEvidence() QueryResult {
	res := QueryResult{Kind: QuerySafetyEvidence}

	var safetySteps []Node
	for _, n := range g.nodesByCategory("verification") {
		if strings.Contains(strings.ToLower(n.Label), "safe") {
			safetySteps = append(safetySteps, n)
		}
	}
	if len(safetySteps) == 0 {
		res.Recommendations = append(res.Recommendations,
			"no safety verification steps present; verify each ingredient before formulation")
		return res
	}

	evidenced := 0
	relSum, relCount := 0.0, 0
	for _, step := range safetySteps {
		res.Nodes = append(res.Nodes, step)
		hasEvidence := false
		for _, e := range g.IncidentEdges(step.ID) {
			if e.Type != EdgeEnhancement {
				continue
			}
			res.Edges = append(res.Edges, e)
			for _, id := range e.Nodes {
				n, ok := g.Node(id)
				if !ok || n.Category != CategoryEvidence {
					continue
				}
				res.Nodes = append(res.Nodes, n)
				relSum += n.Confidence
				relCount++
				hasEvidence = true
			}
		}
		if hasEvidence {
			evidenced++
		} else {
			res.Recommendations = append(res.Recommendations,
				fmt.Sprintf("safety claim %q lacks direct evidence; attach toxicology sources", step.Label))
		}
	}

	coverage := float64(evidenced) / float64(len(safetySteps))
	meanReliability := 0.0
	if relCount > 0 {
		meanReliability = relSum / float64(relCount)
	}
	res.Confidence = coverage * meanReliability
	return res
}

// querySupplyRisk reports which ingredients have supplier coverage and which
// are single-sourced or unsourced.
func (g *Graph) querySupplyRisk() QueryResult {
	res := QueryResult{Kind: QuerySupplyRisk}

	ingredients := g.nodesByCategory(CategoryIngredient)
	if len(ingredients) == 0 {
		return res
	}

	suppliers := g.nodesByCategory(CategorySupplier)
	supplierSet := make(map[string]bool, len(suppliers))
	confSum := 0.0
	for _, s := range suppliers {
		res.Nodes = append(res.Nodes, s)
		supplierSet[s.ID] = true
		confSum += s.Confidence
		if s.Confidence < 0.5 {
			res.Recommendations = append(res.Recommendations,
				fmt.Sprintf("supplier %s has low reliability; qualify an alternative", s.Label))
		}
	}

	covered := 0
	for _, ing := range ingredients {
		res.Nodes = append(res.Nodes, ing)
		sources := 0
		for _, e := range g.IncidentEdges(ing.ID) {
			suppliesEdge := false
			for _, id := range e.Nodes {
				if supplierSet[id] {
					suppliesEdge = true
					break
				}
			}
			if suppliesEdge {
				res.Edges = append(res.Edges, e)
				sources++
			}
		}
		switch sources {
		case 0:
			res.Recommendations = append(res.Recommendations,
				fmt.Sprintf("no supplier recorded for %s", ing.Label))
		case 1:
			covered++
			res.Recommendations = append(res.Recommendations,
				fmt.Sprintf("%s is single-sourced; add a backup supplier", ing.Label))
		default:
			covered++
		}
	}

	coverage := float64(covered) / float64(len(ingredients))
	meanReliability := 0.0
	if len(suppliers) > 0 {
		meanReliability = confSum / float64(len(suppliers))
	}
	res.Confidence = coverage * meanReliability
	sort.Strings(res.Recommendations)
	return res
}

// #endregion queries

// #region helpers

func (g *Graph) nodesByCategory(category string) []Node {
	var out []Node
	for _, n := range g.Nodes() {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out
}

func ingredientMembers(e Edge, inSet map[string]bool) []string {
	var members []string
	for _, id := range e.Nodes {
		if inSet[id] {
			members = append(members, id)
		}
	}
	sort.Strings(members)
	return members
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// #endregion helpers
