package refstore

// #region memory-reader

// MemoryReader serves reference data from maps built once at construction.
// It backs both in-process seeding and the SQLite store's load-at-open path.
type MemoryReader struct {
	ingredients map[string]IngredientRecord
	suppliers   map[string][]SupplierRecord // ingredient id -> suppliers
}

// NewMemoryReader indexes the given records for lookup.
func NewMemoryReader(ingredients []IngredientRecord, suppliers []SupplierRecord) *MemoryReader {
	r := &MemoryReader{
		ingredients: make(map[string]IngredientRecord, len(ingredients)),
		suppliers:   make(map[string][]SupplierRecord),
	}
	for _, ing := range ingredients {
		r.ingredients[ing.ID] = ing
	}
	for _, sup := range suppliers {
		for _, id := range sup.IngredientIDs {
			r.suppliers[id] = append(r.suppliers[id], sup)
		}
	}
	return r
}

// Ingredient looks up one ingredient profile.
func (r *MemoryReader) Ingredient(id string) (IngredientRecord, bool) {
	rec, ok := r.ingredients[id]
	return rec, ok
}

// Relations returns the declared relations of an ingredient, or nil.
func (r *MemoryReader) Relations(id string) []Relation {
	rec, ok := r.ingredients[id]
	if !ok || len(rec.Relations) == 0 {
		return nil
	}
	out := make([]Relation, len(rec.Relations))
	copy(out, rec.Relations)
	return out
}

// Suppliers returns the known sources for an ingredient, or nil.
func (r *MemoryReader) Suppliers(ingredientID string) []SupplierRecord {
	recs := r.suppliers[ingredientID]
	if len(recs) == 0 {
		return nil
	}
	out := make([]SupplierRecord, len(recs))
	copy(out, recs)
	return out
}

// #endregion memory-reader
