// Package refstore holds curated reference data about cosmetic ingredients
// and their suppliers. Verification consults it through the Reader interface;
// a nil Reader downgrades lookups to unknown rather than failing.
package refstore

// #region relation

// Relation declares how one ingredient behaves alongside another.
type Relation struct {
	TargetID string  `json:"targetId"`
	Kind     string  `json:"kind"` // "synergistic" | "antagonistic" | "neutral" | "avoid"
	Strength float64 `json:"strength"`
}

// #endregion relation

// #region records

// IngredientRecord is the curated profile of one ingredient.
type IngredientRecord struct {
	ID               string     `json:"id"`
	Label            string     `json:"label"`
	MolecularWeight  float64    `json:"molecularWeight"`
	LogP             float64    `json:"logP"`
	MaxConcentration float64    `json:"maxConcentration"` // percent, 0 when unrestricted
	SafetyRating     float64    `json:"safetyRating"`     // 0..1, 0 when unassessed
	Relations        []Relation `json:"relations,omitempty"`
}

// SupplierRecord describes a source for one or more ingredients.
type SupplierRecord struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	IngredientIDs    []string `json:"ingredientIds"`
	ReliabilityScore float64  `json:"reliabilityScore"` // 0..1
	Region           string   `json:"region,omitempty"`
}

// #endregion records

// #region reader

// Reader serves reference lookups during verification. Implementations must
// be safe for concurrent readers; all three lookups are misses-as-empty.
type Reader interface {
	Ingredient(id string) (IngredientRecord, bool)
	Relations(id string) []Relation
	Suppliers(ingredientID string) []SupplierRecord
}

// #endregion reader
