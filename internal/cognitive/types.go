package cognitive

import "time"

// #region config

// Config holds attention and decay parameters for a session.
type Config struct {
	AttentionCapacity  int           // K, max concurrently prioritized items
	DecayRate          float64       // geometric decay applied to relevance weights per update
	GoalMatchIncrement float64       // weight boost when the goal text mentions the ingredient
	BaseIncrement      float64       // weight boost for every other active ingredient
	WeightFloor        float64       // relevance weights below this are pruned
	ActivationFloor    float64       // memory activations below this are pruned
	ActivationWindow   time.Duration // activation and recency decay by exp(-age/window)
	DefaultWeight      float64       // focus score for candidates without a weight entry
}

// DefaultConfig returns the standard attention parameters.
func DefaultConfig() Config {
	return Config{
		AttentionCapacity:  7,
		DecayRate:          0.1,
		GoalMatchIncrement: 0.2,
		BaseIncrement:      0.1,
		WeightFloor:        0.01,
		ActivationFloor:    0.1,
		ActivationWindow:   time.Hour,
		DefaultWeight:      0.1,
	}
}

// #endregion

// #region context

// Context describes what one verification call is about.
type Context struct {
	Goal              string
	ActiveIngredients []string // ingredient ids
	SkinCondition     string   // target skin layer or condition label
	UserConstraints   []string // constraint labels, e.g. "concentration:max_conc"
	Environment       map[string]float64
}

// #endregion

// #region uncertainty

// Uncertainty tracks how unsure the session is about the current problem.
type Uncertainty struct {
	Complexity  float64 // grows with ingredient and constraint counts
	Information float64 // shrinks as environmental factors accumulate
	Overall     float64 // mean of the two
}

// #endregion

// #region allocation

// Allocation is one step kept inside the attention window.
type Allocation struct {
	StepID    string
	Relevance float64
	Weight    float64 // 1.0 for the top rank, 0.1 less per rank, floored at 0.1
}

// AllocationResult bundles the kept steps with the load estimate for the batch.
type AllocationResult struct {
	Steps         []Allocation
	CognitiveLoad float64 // 0..1
}

// #endregion

// #region snapshot

// Snapshot is a read-only copy of session state for pure consumers.
type Snapshot struct {
	RelevanceWeights map[string]float64
	AttentionalFocus []string
	MemoryActivation map[string]float64 // decayed activation per key at snapshot time
	Uncertainty      Uncertainty
}

// #endregion
