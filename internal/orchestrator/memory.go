package orchestrator

// #region imports
import (
	"database/sql"
	"math"
	"time"
)

// #endregion

// #region schema

const suggestionOutcomesSchema = `
CREATE TABLE IF NOT EXISTS suggestion_outcomes (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    proof_id    TEXT NOT NULL,
    profile     TEXT NOT NULL,
    complexity  TEXT NOT NULL,
    risk        TEXT NOT NULL,
    kind        TEXT NOT NULL,
    offer_rank  INTEGER NOT NULL,
    quality     REAL NOT NULL,
    accepted    INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL
);
`

const suggestionOutcomesIndex = `
CREATE INDEX IF NOT EXISTS idx_suggestion_outcomes_lookup
ON suggestion_outcomes(profile, complexity, risk, kind);
`

// #endregion

// #region outcome-record

// OutcomeRecord is one offered alternative and whether the formulator took it.
type OutcomeRecord struct {
	ProofID    string
	Profile    FormulaProfile
	Complexity Complexity
	Risk       Risk
	Kind       SuggestionKind
	Rank       int // position in the offered order, 0 = first
	Quality    float64
	Accepted   bool
	CreatedAt  time.Time
}

// #endregion

// #region memory-struct

// SuggestionMemory persists suggestion outcomes in SQLite and queries
// decay-weighted acceptance results.
type SuggestionMemory struct {
	db *sql.DB
}

// NewSuggestionMemory initializes the suggestion_outcomes table and returns a
// SuggestionMemory.
func NewSuggestionMemory(db *sql.DB) (*SuggestionMemory, error) {
	if _, err := db.Exec(suggestionOutcomesSchema); err != nil {
		return nil, err
	}
	if _, err := db.Exec(suggestionOutcomesIndex); err != nil {
		return nil, err
	}
	return &SuggestionMemory{db: db}, nil
}

// #endregion

// #region record-outcome

// RecordOutcome persists a single suggestion outcome row.
func (m *SuggestionMemory) RecordOutcome(rec OutcomeRecord) error {
	accepted := 0
	if rec.Accepted {
		accepted = 1
	}
	_, err := m.db.Exec(`
		INSERT INTO suggestion_outcomes
		(proof_id, profile, complexity, risk, kind, offer_rank, quality, accepted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ProofID,
		string(rec.Profile),
		string(rec.Complexity),
		string(rec.Risk),
		string(rec.Kind),
		rec.Rank,
		rec.Quality,
		accepted,
		rec.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// #endregion

// #region best-suggestion

// BestSuggestion returns the suggestion kind with the highest decay-weighted
// quality among accepted offers for the given classification. Returns
// ("", 0, nil) if no kind has 3 or more samples.
func (m *SuggestionMemory) BestSuggestion(profile, complexity, risk string) (SuggestionKind, float64, error) {
	rows, err := m.db.Query(`
		SELECT kind, quality, created_at
		FROM suggestion_outcomes
		WHERE profile = ? AND complexity = ? AND risk = ? AND accepted = 1`,
		profile, complexity, risk,
	)
	if err != nil {
		return "", 0, err
	}
	defer rows.Close()

	type kindAccum struct {
		weightedSum float64
		totalWeight float64
		count       int
	}

	now := time.Now()
	halfLife := 7.0 * 24.0 // 7 days in hours
	accum := make(map[SuggestionKind]*kindAccum)

	for rows.Next() {
		var kind string
		var quality float64
		var createdAtStr string
		if err := rows.Scan(&kind, &quality, &createdAtStr); err != nil {
			return "", 0, err
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			continue
		}
		ageHours := now.Sub(createdAt).Hours()
		weight := math.Exp(-ageHours / halfLife)

		k := SuggestionKind(kind)
		if _, ok := accum[k]; !ok {
			accum[k] = &kindAccum{}
		}
		accum[k].weightedSum += quality * weight
		accum[k].totalWeight += weight
		accum[k].count++
	}
	if err := rows.Err(); err != nil {
		return "", 0, err
	}

	var bestKind SuggestionKind
	var bestScore float64 = -1

	for kind, a := range accum {
		if a.count < 3 {
			continue
		}
		avg := a.weightedSum / a.totalWeight
		if avg > bestScore {
			bestScore = avg
			bestKind = kind
		}
	}

	if bestKind == "" {
		return "", 0, nil
	}
	return bestKind, bestScore, nil
}

// #endregion
