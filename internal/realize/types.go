package realize

import "github.com/danielpatrickdp/formulation-prover/internal/proof"

// #region phase-scores

// PhaseScores holds the three phase scores and their integration for one step.
type PhaseScores struct {
	Salience  float64
	Coherence float64
	Elegance  float64
	Overall   float64
}

// #endregion

// #region result

// Result is the filtered, reordered candidate set plus raw scores by step id.
type Result struct {
	Kept   []proof.Step // candidates that passed the threshold, best first
	Scores map[string]PhaseScores
}

// #endregion

// #region config

// Config tunes the phase integration and the keep threshold.
type Config struct {
	SalienceWeight  float64
	CoherenceWeight float64
	EleganceWeight  float64
	KeepThreshold   float64 // candidates at or below this overall score are dropped
}

// DefaultConfig returns the standard 0.4/0.4/0.2 integration with a 0.3 floor.
func DefaultConfig() Config {
	return Config{
		SalienceWeight:  0.4,
		CoherenceWeight: 0.4,
		EleganceWeight:  0.2,
		KeepThreshold:   0.3,
	}
}

// #endregion
