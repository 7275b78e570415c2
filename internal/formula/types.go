package formula

// #region constraint-kind

// ConstraintKind classifies what a formulation constraint restricts.
type ConstraintKind string

const (
	ConstraintConcentration ConstraintKind = "concentration"
	ConstraintPH            ConstraintKind = "ph"
	ConstraintTemperature   ConstraintKind = "temperature"
	ConstraintCompatibility ConstraintKind = "compatibility"
	ConstraintRegulatory    ConstraintKind = "regulatory"
)

// #endregion

// #region operator

// Operator is the comparison applied between a constraint parameter and its value.
type Operator string

const (
	OpEq    Operator = "eq"
	OpLt    Operator = "lt"
	OpGt    Operator = "gt"
	OpLte   Operator = "lte"
	OpGte   Operator = "gte"
	OpIn    Operator = "in"
	OpNotIn Operator = "not_in"
)

// #endregion

// #region request

// VerificationRequest is the immutable input for one hypothesis verification.
type VerificationRequest struct {
	Hypothesis    string
	Ingredients   []Ingredient
	TargetEffects []TargetEffect
	Constraints   []Constraint
	SkinModel     SkinModel
}

// #endregion

// #region ingredient

// Ingredient is one candidate formulation component.
type Ingredient struct {
	ID              string
	Label           string
	Concentration   float64 // percent w/w
	MolecularWeight float64 // daltons, 0 = unknown
	LogP            float64 // octanol-water partition coefficient
	Properties      map[string]string
}

// #endregion

// #region target-effect

// TargetEffect is one desired outcome attributed to an ingredient.
type TargetEffect struct {
	IngredientID      string
	TargetLayer       string // skin layer name, e.g. "epidermis"
	EffectType        string // e.g. "hydration", "anti_aging"
	Magnitude         float64
	Timeframe         float64 // minutes to observable effect
	Confidence        float64
	MechanismOfAction string
}

// #endregion

// #region constraint

// Constraint restricts the formulation along one parameter.
type Constraint struct {
	Type      ConstraintKind
	Parameter string
	Value     float64
	Options   []string // member list for "in" / "not_in" operators
	Operator  Operator
	Required  bool
}

// #endregion

// #region skin-model

// SkinLayer describes one stratum of the penetration model.
type SkinLayer struct {
	Name         string
	Depth        float64 // micrometers
	Permeability float64 // relative, 0..1
	PH           float64
}

// SkinModel is the layered barrier the pipeline reasons against.
type SkinModel struct {
	Layers []SkinLayer
}

// DefaultSkinModel returns the standard 3-layer model used when a request supplies none.
func DefaultSkinModel() SkinModel {
	return SkinModel{
		Layers: []SkinLayer{
			{Name: "stratum_corneum", Depth: 20, Permeability: 0.1, PH: 5.5},
			{Name: "epidermis", Depth: 100, Permeability: 0.3, PH: 7.0},
			{Name: "dermis", Depth: 2000, Permeability: 0.6, PH: 7.4},
		},
	}
}

// #endregion
