// Package hypergraph converts finished proofs into a typed hypergraph and
// analyzes it for connectivity, clustering, critical paths, vulnerabilities,
// and opportunities. Graphs are request-local and never persisted.
package hypergraph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidEdge marks a hyperedge that does not join two existing nodes.
var ErrInvalidEdge = errors.New("hyperedge needs at least two existing nodes")

// #region graph

// Graph is an in-memory hypergraph: nodes by id, hyperedges joining two or
// more member nodes.
type Graph struct {
	nodes    map[string]Node
	edges    map[string]Edge
	incident map[string][]string // node id -> incident edge ids
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]Node),
		edges:    make(map[string]Edge),
		incident: make(map[string][]string),
	}
}

// #endregion graph

// #region add

// AddNode inserts or replaces a node.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("node needs an id")
	}
	g.nodes[n.ID] = n
	return nil
}

// AddEdge inserts an edge after checking the membership invariant: at least
// two member nodes, all of which exist.
func (g *Graph) AddEdge(e Edge) error {
	if len(e.Nodes) < 2 {
		return fmt.Errorf("%w: edge %q has %d members", ErrInvalidEdge, e.ID, len(e.Nodes))
	}
	for _, id := range e.Nodes {
		if _, ok := g.nodes[id]; !ok {
			return fmt.Errorf("%w: edge %q references missing node %q", ErrInvalidEdge, e.ID, id)
		}
	}
	if _, dup := g.edges[e.ID]; dup {
		return nil
	}
	g.edges[e.ID] = e
	for _, id := range e.Nodes {
		g.incident[id] = append(g.incident[id], e.ID)
	}
	return nil
}

// #endregion add

// #region accessors

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges ordered by id.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Degree returns the number of edges incident to a node.
func (g *Graph) Degree(id string) int {
	return len(g.incident[id])
}

// IncidentEdges returns the edges touching a node, ordered by id.
func (g *Graph) IncidentEdges(id string) []Edge {
	ids := append([]string(nil), g.incident[id]...)
	sort.Strings(ids)
	out := make([]Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, g.edges[eid])
	}
	return out
}

// Neighbors returns the ids of nodes sharing an edge with the given node,
// sorted for deterministic traversal.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]bool)
	for _, eid := range g.incident[id] {
		for _, member := range g.edges[eid].Nodes {
			if member != id {
				seen[member] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// #endregion accessors

// #region merge

// Merge unions another graph into this one by node and edge id. Existing
// entries win on collision, so proof-derived nodes keep their scores when
// external reference data repeats them.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for id, n := range other.nodes {
		if _, ok := g.nodes[id]; !ok {
			g.nodes[id] = n
		}
	}
	for id, e := range other.edges {
		if _, ok := g.edges[id]; ok {
			continue
		}
		// drop external edges whose members never made it into the union
		valid := len(e.Nodes) >= 2
		for _, member := range e.Nodes {
			if _, ok := g.nodes[member]; !ok {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		g.edges[id] = e
		for _, member := range e.Nodes {
			g.incident[member] = append(g.incident[member], id)
		}
	}
}

// #endregion merge
