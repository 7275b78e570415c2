package realize

import "github.com/danielpatrickdp/formulation-prover/internal/proof"

// #region elegance

// elegance scores a candidate's economy: 0.3 simplicity + 0.4 confidence +
// 0.2 evidence quality + 0.1 clarity.
func elegance(step proof.Step) float64 {
	return clamp01(0.3*simplicity(step) +
		0.4*step.Confidence +
		0.2*evidenceReliability(step) +
		0.1*clarity(step.Statement))
}

// simplicity falls 0.1 per premise or evidence item attached to the step.
func simplicity(step proof.Step) float64 {
	s := 1 - 0.1*float64(len(step.Premises)+len(step.Evidence))
	if s < 0 {
		s = 0
	}
	return s
}

// evidenceReliability is the mean reliability, 0.1 when nothing backs the step.
func evidenceReliability(step proof.Step) float64 {
	if len(step.Evidence) == 0 {
		return 0.1
	}
	sum := 0.0
	for _, ev := range step.Evidence {
		sum += ev.Reliability
	}
	return sum / float64(len(step.Evidence))
}

// clarity prefers short statements: min(1, 100/length).
func clarity(statement string) float64 {
	n := len(statement)
	if n == 0 {
		return 1
	}
	c := 100 / float64(n)
	if c > 1 {
		c = 1
	}
	return c
}

// #endregion
