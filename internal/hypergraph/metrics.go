package hypergraph

import (
	"math"
	"sort"

	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #region metrics

// Analyze computes structural health metrics over the current graph.
func (g *Graph) Analyze() Metrics {
	m := Metrics{}
	if len(g.nodes) > 0 {
		m.Connectivity = math.Min(float64(len(g.edges))/float64(len(g.nodes)), 1.0)
	}
	m.Clustering = g.clustering()
	m.CriticalPaths = g.criticalPaths()
	m.Vulnerabilities = g.vulnerabilities()
	m.Opportunities = g.opportunities()
	return m
}

// clustering measures how densely each category is wired internally,
// averaged over categories with at least two members.
func (g *Graph) clustering() float64 {
	byCategory := make(map[string][]string)
	for id, n := range g.nodes {
		byCategory[n.Category] = append(byCategory[n.Category], id)
	}

	total := 0.0
	groups := 0
	for _, members := range byCategory {
		n := len(members)
		if n < 2 {
			continue
		}
		inGroup := make(map[string]bool, n)
		for _, id := range members {
			inGroup[id] = true
		}
		internal := 0
		for _, e := range g.edges {
			all := true
			for _, id := range e.Nodes {
				if !inGroup[id] {
					all = false
					break
				}
			}
			if all {
				internal++
			}
		}
		maxPairs := n * (n - 1) / 2
		total += math.Min(float64(internal)/float64(maxPairs), 1.0)
		groups++
	}
	if groups == 0 {
		return 0
	}
	return total / float64(groups)
}

// criticalPaths returns a shortest path from every assumption node to every
// conclusion node it can reach. Paths are node id sequences.
func (g *Graph) criticalPaths() [][]string {
	var sources, targets []string
	for id, n := range g.nodes {
		switch n.Category {
		case string(proof.StepAssumption):
			sources = append(sources, id)
		case string(proof.StepConclusion):
			targets = append(targets, id)
		}
	}
	sort.Strings(sources)
	sort.Strings(targets)

	var paths [][]string
	for _, src := range sources {
		parent := g.bfsParents(src)
		for _, dst := range targets {
			if dst == src {
				continue
			}
			if _, reached := parent[dst]; !reached {
				continue
			}
			var path []string
			for at := dst; at != ""; at = parent[at] {
				path = append(path, at)
			}
			// reverse into source-first order
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			paths = append(paths, path)
		}
	}
	return paths
}

// bfsParents runs a breadth-first traversal from start and records each
// visited node's predecessor. The start node maps to the empty string.
func (g *Graph) bfsParents(start string) map[string]string {
	if _, ok := g.nodes[start]; !ok {
		return nil
	}
	parent := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(current) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			queue = append(queue, next)
		}
	}
	return parent
}

// vulnerabilities lists nodes that are weakly supported or structurally
// isolated: confidence below 0.5 or exactly one incident edge.
func (g *Graph) vulnerabilities() []string {
	var out []string
	for id, n := range g.nodes {
		if n.Confidence < 0.5 || g.Degree(id) == 1 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// opportunities lists high-confidence nodes touching at least one
// enhancement edge.
func (g *Graph) opportunities() []string {
	var out []string
	for id, n := range g.nodes {
		if n.Confidence <= 0.8 {
			continue
		}
		for _, e := range g.IncidentEdges(id) {
			if e.Type == EdgeEnhancement {
				out = append(out, id)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// #endregion metrics
