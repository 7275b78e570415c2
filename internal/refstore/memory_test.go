package refstore

import "testing"

func TestMemoryReaderLookups(t *testing.T) {
	reader := NewMemoryReader(
		[]IngredientRecord{
			{ID: "niacinamide", Label: "niacinamide", SafetyRating: 0.9,
				Relations: []Relation{{TargetID: "retinol", Kind: "synergistic", Strength: 0.7}}},
			{ID: "retinol", Label: "retinol", SafetyRating: 0.7},
		},
		[]SupplierRecord{
			{ID: "sup-1", Name: "acme actives", IngredientIDs: []string{"niacinamide", "retinol"}, ReliabilityScore: 0.9},
		},
	)

	if _, ok := reader.Ingredient("niacinamide"); !ok {
		t.Fatal("expected hit for niacinamide")
	}
	if _, ok := reader.Ingredient("unknown"); ok {
		t.Fatal("expected miss for unknown ingredient")
	}

	rels := reader.Relations("niacinamide")
	if len(rels) != 1 || rels[0].Kind != "synergistic" {
		t.Errorf("unexpected relations: %+v", rels)
	}
	if reader.Relations("retinol") != nil {
		t.Error("ingredient without relations should return nil")
	}

	if got := reader.Suppliers("retinol"); len(got) != 1 || got[0].ID != "sup-1" {
		t.Errorf("unexpected suppliers: %+v", got)
	}
}

func TestMemoryReaderCopies(t *testing.T) {
	reader := NewMemoryReader(
		[]IngredientRecord{{ID: "a", Label: "a",
			Relations: []Relation{{TargetID: "b", Kind: "neutral", Strength: 0.5}}}},
		nil,
	)

	rels := reader.Relations("a")
	rels[0].Kind = "mutated"

	again := reader.Relations("a")
	if again[0].Kind != "neutral" {
		t.Errorf("caller mutation leaked into the reader: %+v", again)
	}
}
