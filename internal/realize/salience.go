package realize

import (
	"strings"

	"github.com/danielpatrickdp/formulation-prover/internal/cognitive"
	"github.com/danielpatrickdp/formulation-prover/internal/proof"
)

// #region keyword-tables

var safetyKeywords = []string{
	"safe", "safety", "toxic", "irritat", "adverse", "maximum concentration", "tolerated",
}

var effectKeywords = []string{
	"improve", "effect", "efficac", "hydrat", "benefit", "enhance", "restore",
}

var interactionKeywords = []string{
	"interact", "compatib", "synerg", "antagon", "combination", "conflict",
}

var ingredientKeywords = []string{
	"ingredient", "compound", "active", "formulation", "concentration",
}

var mechanismKeywords = []string{
	"mechanism", "pathway", "penetrat", "absorption", "barrier", "transport",
}

// keywordCategories pairs each table with its salience weight.
var keywordCategories = []struct {
	weight   float64
	keywords []string
}{
	{0.3, safetyKeywords},
	{0.25, effectKeywords},
	{0.2, interactionKeywords},
	{0.2, ingredientKeywords},
	{0.15, mechanismKeywords},
}

// #endregion

// #region salience

// salience scores how much a candidate step grabs attention: keyword
// categories, contextual matches, and the session's cognitive state.
func salience(step proof.Step, ctx cognitive.Context, snap cognitive.Snapshot) float64 {
	stmt := strings.ToLower(step.Statement)
	score := keywordSalience(stmt) + contextualSalience(stmt, ctx) + cognitiveSalience(stmt, snap)
	return clamp01(score)
}

// keywordSalience adds each category weight once when any of its keywords hits.
func keywordSalience(stmt string) float64 {
	score := 0.0
	for _, cat := range keywordCategories {
		if containsAny(stmt, cat.keywords) {
			score += cat.weight
		}
	}
	return score
}

// contextualSalience rewards mentions of the goal, active ingredients, the
// skin condition, and user constraints. Capped at 0.8.
func contextualSalience(stmt string, ctx cognitive.Context) float64 {
	score := 0.0
	if mentionsGoal(stmt, ctx.Goal) {
		score += 0.3
	}
	for _, ing := range ctx.ActiveIngredients {
		if ing != "" && strings.Contains(stmt, strings.ToLower(ing)) {
			score += 0.1
		}
	}
	if ctx.SkinCondition != "" && strings.Contains(stmt, strings.ToLower(ctx.SkinCondition)) {
		score += 0.2
	}
	for _, c := range ctx.UserConstraints {
		if c != "" && strings.Contains(stmt, strings.ToLower(c)) {
			score += 0.05
		}
	}
	if score > 0.8 {
		score = 0.8
	}
	return score
}

// cognitiveSalience folds in session state: activation of mentioned keys
// (capped 0.2), relevance weights of mentioned keys (capped 0.5), and the
// attentional focus (0.2 per focused item mentioned, capped 0.6).
func cognitiveSalience(stmt string, snap cognitive.Snapshot) float64 {
	activation := 0.0
	for key, act := range snap.MemoryActivation {
		if strings.Contains(stmt, strings.ToLower(key)) {
			activation += 0.1 * act
		}
	}
	if activation > 0.2 {
		activation = 0.2
	}

	weight := 0.0
	for key, w := range snap.RelevanceWeights {
		if strings.Contains(stmt, strings.ToLower(key)) {
			weight += w
		}
	}
	if weight > 0.5 {
		weight = 0.5
	}

	focus := 0.0
	for _, item := range snap.AttentionalFocus {
		if item != "" && strings.Contains(stmt, strings.ToLower(item)) {
			focus += 0.2
		}
	}
	if focus > 0.6 {
		focus = 0.6
	}

	return activation + weight + focus
}

// mentionsGoal reports whether any goal word longer than 3 characters
// appears in the statement.
func mentionsGoal(stmt, goal string) bool {
	for _, w := range strings.Fields(strings.ToLower(goal)) {
		if len(w) > 3 && strings.Contains(stmt, w) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// #endregion
