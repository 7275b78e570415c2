package hypergraph

// #region edge-type

// EdgeType classifies a hyperedge relation.
type EdgeType string

const (
	EdgeCausation   EdgeType = "causation"
	EdgeCorrelation EdgeType = "correlation"
	EdgeInhibition  EdgeType = "inhibition"
	EdgeEnhancement EdgeType = "enhancement"
	EdgeDependency  EdgeType = "dependency"
)

// InteractionEdgeType maps a declared ingredient relation to an edge type.
// Compatibility and avoidance data from external sources run through the
// same mapping.
func InteractionEdgeType(kind string) EdgeType {
	switch kind {
	case "synergistic":
		return EdgeEnhancement
	case "antagonistic", "avoid":
		return EdgeInhibition
	case "neutral":
		return EdgeCorrelation
	default:
		return EdgeDependency
	}
}

// #endregion

// #region node-categories

// Categories for non-step nodes. Step nodes carry their step type as category.
const (
	CategoryEvidence   = "evidence"
	CategoryIngredient = "ingredient"
	CategorySupplier   = "supplier"
	CategoryProduct    = "product"
)

// #endregion

// #region node

// Node is one vertex: a proof step, an evidence item, an ingredient, or an
// external entity.
type Node struct {
	ID         string
	Category   string // step type, or one of the Category constants
	Label      string
	Properties map[string]string
	Relevance  float64 // 0..1
	Confidence float64 // 0..1
}

// #endregion

// #region edge

// Edge is a typed, weighted relation joining two or more nodes.
type Edge struct {
	ID         string
	Nodes      []string // member node ids, at least 2
	Type       EdgeType
	Weight     float64
	Confidence float64
	Evidence   []string
}

// #endregion

// #region metrics

// Metrics summarizes the structural health of a graph.
type Metrics struct {
	Connectivity    float64    // min(edges/nodes, 1)
	Clustering      float64    // mean within-category edge density
	CriticalPaths   [][]string // shortest node-id paths, assumption to conclusion
	Vulnerabilities []string   // low-confidence or single-edge node ids
	Opportunities   []string   // high-confidence node ids with enhancement edges
}

// #endregion

// #region query

// QueryKind names a point query over the integrated graph.
type QueryKind string

const (
	QueryIngredientCompatibility QueryKind = "ingredient_compatibility"
	QueryEffectPathway           QueryKind = "effect_pathway"
	QuerySafetyEvidence          QueryKind = "safety_evidence"
	QuerySupplyRisk              QueryKind = "supply_risk"
)

// QueryResult carries the supporting subgraph, a coverage-based confidence,
// and template recommendations when the evidence is sparse.
type QueryResult struct {
	Kind            QueryKind
	Nodes           []Node
	Edges           []Edge
	Confidence      float64
	Recommendations []string
}

// #endregion
