// Package cognitive implements the resource allocator: a bounded working set
// of relevance weights, attentional focus, and memory activation that the
// orchestrator feeds with every verification call.
package cognitive

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #region session

// Session is a caller-owned cognitive working set. It carries no internal
// locking; callers either serialize access or keep one session per logical
// stream. All pipeline state outside the session is request-local.
type Session struct {
	cfg              Config
	relevanceWeights map[string]float64
	attentionalFocus []string
	memoryActivation map[string]time.Time // last refresh per key
	uncertainty      Uncertainty
	now              func() time.Time
}

// NewSession returns an empty session. A zero-capacity config falls back to
// the defaults.
func NewSession(cfg Config) *Session {
	if cfg.AttentionCapacity <= 0 {
		cfg = DefaultConfig()
	}
	return &Session{
		cfg:              cfg,
		relevanceWeights: make(map[string]float64),
		memoryActivation: make(map[string]time.Time),
		now:              time.Now,
	}
}

// Reset clears the working set, keeping the configuration.
func (s *Session) Reset() {
	s.relevanceWeights = make(map[string]float64)
	s.attentionalFocus = nil
	s.memoryActivation = make(map[string]time.Time)
	s.uncertainty = Uncertainty{}
}

// Focus returns the current attentional focus, most relevant first.
func (s *Session) Focus() []string {
	return append([]string(nil), s.attentionalFocus...)
}

// Uncertainty returns the current uncertainty assessment.
func (s *Session) Uncertainty() Uncertainty {
	return s.uncertainty
}

// Snapshot copies the session state for pure consumers. Activations are
// decayed to their value at snapshot time.
func (s *Session) Snapshot() Snapshot {
	now := s.now().UTC()
	snap := Snapshot{
		RelevanceWeights: make(map[string]float64, len(s.relevanceWeights)),
		AttentionalFocus: s.Focus(),
		MemoryActivation: make(map[string]float64, len(s.memoryActivation)),
		Uncertainty:      s.uncertainty,
	}
	for k, v := range s.relevanceWeights {
		snap.RelevanceWeights[k] = v
	}
	for k, stamp := range s.memoryActivation {
		snap.MemoryActivation[k] = s.activation(stamp, now)
	}
	return snap
}

// #endregion

// #region update

// Update folds one verification context into the working set: reinforce and
// decay relevance weights, recompute the attentional focus, refresh memory
// activation, and reassess uncertainty.
func (s *Session) Update(ctx Context) {
	now := s.now().UTC()
	s.reinforce(ctx)
	s.decayWeights()
	s.refocus(ctx)
	s.refresh(ctx, now)
	s.uncertainty = assess(ctx)
}

func (s *Session) reinforce(ctx Context) {
	goal := strings.ToLower(ctx.Goal)
	for _, ing := range ctx.ActiveIngredients {
		if ing == "" {
			continue
		}
		if strings.Contains(goal, strings.ToLower(ing)) {
			s.relevanceWeights[ing] += s.cfg.GoalMatchIncrement
		} else {
			s.relevanceWeights[ing] += s.cfg.BaseIncrement
		}
	}
}

func (s *Session) decayWeights() {
	for k, v := range s.relevanceWeights {
		decayed := v * (1 - s.cfg.DecayRate)
		if decayed < s.cfg.WeightFloor {
			delete(s.relevanceWeights, k)
			continue
		}
		s.relevanceWeights[k] = decayed
	}
}

// refocus rebuilds the attentional focus from the context candidates,
// keeping the top K by relevance weight. Candidate order breaks ties, so
// the goal wins over ingredients, ingredients over constraints.
func (s *Session) refocus(ctx Context) {
	var candidates []string
	seen := make(map[string]bool)
	add := func(c string) {
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		candidates = append(candidates, c)
	}
	add(ctx.Goal)
	for _, ing := range ctx.ActiveIngredients {
		add(ing)
	}
	add(ctx.SkinCondition)
	for _, c := range ctx.UserConstraints {
		add(c)
	}

	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		if w, ok := s.relevanceWeights[c]; ok {
			scores[c] = w
		} else {
			scores[c] = s.cfg.DefaultWeight
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i]] > scores[candidates[j]]
	})
	if len(candidates) > s.cfg.AttentionCapacity {
		candidates = candidates[:s.cfg.AttentionCapacity]
	}
	s.attentionalFocus = candidates
}

func (s *Session) refresh(ctx Context, now time.Time) {
	touch := func(key string) {
		if key != "" {
			s.memoryActivation[key] = now
		}
	}
	touch(ctx.Goal)
	touch(ctx.SkinCondition)
	for _, ing := range ctx.ActiveIngredients {
		touch(ing)
	}
	for key, stamp := range s.memoryActivation {
		if s.activation(stamp, now) < s.cfg.ActivationFloor {
			delete(s.memoryActivation, key)
		}
	}
}

// activation decays exponentially with age over the configured window.
func (s *Session) activation(stamp, now time.Time) float64 {
	age := now.Sub(stamp)
	if age <= 0 {
		return 1.0
	}
	return math.Exp(-age.Hours() / s.cfg.ActivationWindow.Hours())
}

func assess(ctx Context) Uncertainty {
	complexity := math.Min(
		float64(len(ctx.ActiveIngredients)*len(ctx.UserConstraints))/100, 0.8)
	information := math.Max(0.1, 1-float64(len(ctx.Environment))/10)
	return Uncertainty{
		Complexity:  complexity,
		Information: information,
		Overall:     (complexity + information) / 2,
	}
}

// #endregion

// #region relevance

// RelevanceScore rates how much a step matters to the current context:
// 0.4 goal alignment + 0.3 ingredient overlap + 0.2 evidence quality +
// 0.1 temporal recency, clipped to [0,1]. Recency decays by exp(-age/1h)
// from the step's creation timestamp.
func RelevanceScore(step proof.Step, ctx Context, now time.Time) float64 {
	stmt := strings.ToLower(step.Statement)

	goalWords, matched := 0, 0
	for _, w := range strings.Fields(strings.ToLower(ctx.Goal)) {
		if len(w) <= 3 {
			continue
		}
		goalWords++
		if strings.Contains(stmt, w) {
			matched++
		}
	}
	alignment := 0.0
	if goalWords > 0 {
		alignment = float64(matched) / float64(goalWords)
	}

	overlap := 0.0
	if len(ctx.ActiveIngredients) > 0 {
		hits := 0
		for _, ing := range ctx.ActiveIngredients {
			if ing != "" && strings.Contains(stmt, strings.ToLower(ing)) {
				hits++
			}
		}
		overlap = float64(hits) / float64(len(ctx.ActiveIngredients))
	}

	quality := 0.1
	if len(step.Evidence) > 0 {
		sum := 0.0
		for _, ev := range step.Evidence {
			sum += (ev.Reliability + ev.Relevance) / 2
		}
		quality = sum / float64(len(step.Evidence))
	}

	recency := 1.0
	if !step.CreatedAt.IsZero() {
		recency = math.Exp(-now.Sub(step.CreatedAt).Hours())
	}

	return clamp01(0.4*alignment + 0.3*overlap + 0.2*quality + 0.1*recency)
}

// #endregion

// #region allocate

// Allocate ranks steps by relevance, keeps the top K inside the attention
// window, and prices the kept batch as cognitive load.
func (s *Session) Allocate(steps []proof.Step, ctx Context) AllocationResult {
	now := s.now().UTC()
	type ranked struct {
		step  proof.Step
		score float64
	}
	order := make([]ranked, len(steps))
	for i, st := range steps {
		order[i] = ranked{step: st, score: RelevanceScore(st, ctx, now)}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})
	if len(order) > s.cfg.AttentionCapacity {
		order = order[:s.cfg.AttentionCapacity]
	}

	var result AllocationResult
	for rank, r := range order {
		result.Steps = append(result.Steps, Allocation{
			StepID:    r.step.ID,
			Relevance: r.score,
			Weight:    math.Max(0.1, 1-float64(rank)*0.1),
		})
		result.CognitiveLoad += 0.1 +
			0.05*float64(len(r.step.Premises)) +
			0.03*float64(len(r.step.Evidence)) +
			0.1*(1-r.step.Confidence)
	}
	if result.CognitiveLoad > 1 {
		result.CognitiveLoad = 1
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
