package derivation

// #region term

// TermKind classifies a node in the formal language.
type TermKind string

const (
	TermVariable    TermKind = "variable"
	TermFunction    TermKind = "function"
	TermProposition TermKind = "proposition"
	TermPredicate   TermKind = "predicate"
	TermLambda      TermKind = "lambda"
)

// Term is one node of a formal statement.
type Term struct {
	Kind TermKind
	Name string
	Args []Term // populated for function and predicate terms
}

// #endregion

// #region proposition

// Proposition is a theorem statement: hypothesis terms entailing a conclusion.
type Proposition struct {
	Statement  string
	Hypotheses []Term
	Conclusion Term
}

// #endregion

// #region tactic

// TacticKind names one derivation move.
type TacticKind string

const (
	TacticIntros     TacticKind = "intros"
	TacticApply      TacticKind = "apply"
	TacticUnfold     TacticKind = "unfold"
	TacticSimpl      TacticKind = "simpl"
	TacticAssumption TacticKind = "assumption"
	TacticSplit      TacticKind = "split"
	TacticLeft       TacticKind = "left"
	TacticRight      TacticKind = "right"
)

// Tactic is one scripted move. Arg names the axiom for apply and unfold.
type Tactic struct {
	Kind TacticKind
	Arg  string
}

// #endregion

// #region derivation

// Derivation is an ordered tactic script over a theorem plus a closed flag.
// The script is a documented annotation of the argument structure, not a
// searched proof: tactics other than intros and assumption pass the goal
// through unchanged.
type Derivation struct {
	ID      string
	Theorem Proposition
	Tactics []Tactic
	Closed  bool
}

// ValidationReport lists replay failures and whether goals stayed open.
type ValidationReport struct {
	Errors     []string
	Incomplete bool // goals remained open without the derivation being closed
}

// OK reports whether the replay finished with no failures and no open goals.
func (r ValidationReport) OK() bool {
	return len(r.Errors) == 0 && !r.Incomplete
}

// #endregion
