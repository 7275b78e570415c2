// Package orchestrator runs the proof pipeline: request validation, candidate
// step generation, relevance realization, formal derivation, and soundness
// scoring, with reference data and the hypergraph integrator folded in.
package orchestrator

// #region imports
import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/formulation-prover/internal/cognitive"
	"github.com/danielpatrickdp/formulation-prover/internal/config"
	"github.com/danielpatrickdp/formulation-prover/internal/derivation"
	"github.com/danielpatrickdp/formulation-prover/internal/formula"
	"github.com/danielpatrickdp/formulation-prover/internal/hypergraph"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
	"github.com/danielpatrickdp/formulation-prover/internal/realize"
	"github.com/danielpatrickdp/formulation-prover/internal/refstore"
	"github.com/danielpatrickdp/formulation-prover/internal/tensor"
)

// #endregion

// #region prover-struct

// Prover is the top-level coordinator for one stream of verifications. It
// owns a cognitive session, so a Prover must not be shared across goroutines
// without external serialization.
type Prover struct {
	tuning     config.Tuning
	registry   *tensor.Registry
	session    *cognitive.Session
	realizeCfg realize.Config
	reader     refstore.Reader // nil = no reference data, lookups degrade to unknown
	advisor    *Advisor
	logger     *slog.Logger
	now        func() time.Time
}

// Options configures a Prover. Zero values select defaults.
type Options struct {
	Tuning  *config.Tuning
	Session *cognitive.Session
	Reader  refstore.Reader
	Memory  *SuggestionMemory // optional acceptance history for suggestion ordering
	Logger  *slog.Logger
}

// #endregion

// #region constructor

// New creates a fully wired prover.
func New(opts Options) *Prover {
	tuning := config.DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	session := opts.Session
	if session == nil {
		session = cognitive.NewSession(cognitive.DefaultConfig())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Prover{
		tuning:     tuning,
		registry:   tensor.NewRegistry(),
		session:    session,
		realizeCfg: realize.DefaultConfig(),
		reader:     opts.Reader,
		advisor:    NewAdvisor(opts.Memory),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// #endregion

// #region verify

// Verify runs the full pipeline on one request. All failures, including
// recovered panics, come back as a zero-confidence result with the cause in
// Warnings.
func (p *Prover) Verify(req formula.VerificationRequest) (res VerificationResult) {
	var trace []StageEvent
	push := func(stage Stage, note string) {
		trace = append(trace, StageEvent{Stage: stage, At: p.now(), Note: note})
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("verification panicked", "panic", r)
			push(StageFailed, fmt.Sprintf("recovered: %v", r))
			res = VerificationResult{
				Warnings: []string{fmt.Sprintf("verification aborted: %v", r)},
				Trace:    trace,
			}
		}
	}()

	p.logger.Info("verification started", "hypothesis", req.Hypothesis,
		"ingredients", len(req.Ingredients))

	push(StageValidating, "checking request shape")
	if err := req.Validate(); err != nil {
		p.logger.Warn("request rejected", "err", err)
		push(StageFailed, err.Error())
		return VerificationResult{
			Warnings: []string{err.Error()},
			Trace:    trace,
		}
	}

	rctx := buildContext(req)
	p.session.Update(rctx)

	candidates, warnings := p.generateSteps(req)
	push(StageGenerating, fmt.Sprintf("generated %d candidate steps", len(candidates)))

	alloc := p.session.Allocate(candidates, rctx)
	realized := realize.Realize(candidates, rctx, p.session.Snapshot(), p.realizeCfg)
	kept := inGenerationOrder(candidates, realized.Kept)
	push(StageRealizing, fmt.Sprintf("kept %d of %d candidates, cognitive load %.2f",
		len(kept), len(candidates), alloc.CognitiveLoad))
	p.logger.Debug("realization finished", "kept", len(kept),
		"candidates", len(candidates), "load", alloc.CognitiveLoad)

	ordered, dropWarnings := orderSteps(kept)
	warnings = append(warnings, dropWarnings...)
	ordered = append(ordered, p.synthesizeConclusion(req, ordered))

	der := derivation.GenerateDerivation(req)
	if report := derivation.Validate(der); !report.OK() {
		warnings = append(warnings, fmt.Sprintf(
			"formal derivation incomplete: %d tactic failures", len(report.Errors)))
		p.logger.Warn("derivation validation failed", "errors", len(report.Errors))
	}
	push(StageDeriving, fmt.Sprintf("derivation %s closed=%v", der.ID, der.Closed))

	pr := proof.Proof{
		ID:         "proof-" + uuid.New().String(),
		Hypothesis: req.Hypothesis,
		Conclusion: ordered[len(ordered)-1].Statement,
		Steps:      ordered,
	}
	pr.Validity = meanConfidence(pr.Steps)
	pr.Completeness = completeness(pr.Steps, len(req.TargetEffects) > 0)
	pr.CognitiveRelevance = cognitiveRelevance(pr.Steps)

	isValid, confidence, soundnessWarnings := p.validateSoundness(pr)
	warnings = append(warnings, soundnessWarnings...)

	recommendations := p.recommend(pr, req)
	graphRecs, graphNote := p.integrate(pr, req)
	recommendations = append(recommendations, graphRecs...)

	var alternatives []AlternativeFormulation
	if pr.Validity < p.tuning.Alternatives.Trigger {
		alternatives = p.alternatives(req, pr)
	}

	push(StageValidated, fmt.Sprintf("validity %.2f completeness %.2f; %s",
		pr.Validity, pr.Completeness, graphNote))
	p.logger.Info("verification finished", "valid", isValid,
		"confidence", confidence, "steps", len(pr.Steps), "warnings", len(warnings))

	return VerificationResult{
		IsValid:                 isValid,
		Confidence:              confidence,
		Proof:                   pr,
		Warnings:                warnings,
		Recommendations:         recommendations,
		AlternativeFormulations: alternatives,
		Trace:                   trace,
	}
}

// #endregion

// #region integrate

// integrate converts the finished proof into a hypergraph, merges reference
// data, and folds the compatibility query's advice into the result.
func (p *Prover) integrate(pr proof.Proof, req formula.VerificationRequest) ([]string, string) {
	g, err := hypergraph.Build(pr, req.Ingredients)
	if err != nil {
		p.logger.Warn("hypergraph build failed", "err", err)
		return nil, "graph unavailable"
	}
	g.Merge(p.referenceGraph(req.Ingredients))

	metrics := g.Analyze()
	compat := g.Query(hypergraph.QueryIngredientCompatibility)

	note := fmt.Sprintf("graph: %d vulnerable, %d promising nodes",
		len(metrics.Vulnerabilities), len(metrics.Opportunities))
	return compat.Recommendations, note
}

// #endregion

// #region helpers

// inGenerationOrder filters the candidate list down to the kept set while
// restoring generation order, which the realizer's score sort discarded.
func inGenerationOrder(candidates, kept []proof.Step) []proof.Step {
	keptIDs := make(map[string]bool, len(kept))
	for _, s := range kept {
		keptIDs[s.ID] = true
	}
	out := make([]proof.Step, 0, len(kept))
	for _, s := range candidates {
		if keptIDs[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// #endregion
