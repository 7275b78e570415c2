package refstore

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "ref.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndLoadIngredient(t *testing.T) {
	s := tempStore(t)

	rec := IngredientRecord{
		ID:               "niacinamide",
		Label:            "niacinamide",
		MolecularWeight:  122.12,
		LogP:             -0.37,
		MaxConcentration: 10,
		SafetyRating:     0.9,
		Relations: []Relation{
			{TargetID: "retinol", Kind: "synergistic", Strength: 0.7},
		},
	}
	if err := s.UpsertIngredient(rec); err != nil {
		t.Fatalf("UpsertIngredient: %v", err)
	}

	reader, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := reader.Ingredient("niacinamide")
	if !ok {
		t.Fatal("expected ingredient to be present")
	}
	if got.Label != "niacinamide" || math.Abs(got.MolecularWeight-122.12) > 0.001 {
		t.Errorf("unexpected record: %+v", got)
	}
	if math.Abs(got.SafetyRating-0.9) > 0.001 {
		t.Errorf("expected safety rating 0.9, got %.4f", got.SafetyRating)
	}

	rels := reader.Relations("niacinamide")
	if len(rels) != 1 || rels[0].TargetID != "retinol" || rels[0].Kind != "synergistic" {
		t.Errorf("unexpected relations: %+v", rels)
	}
}

func TestUpsertIngredientReplaces(t *testing.T) {
	s := tempStore(t)

	first := IngredientRecord{
		ID: "retinol", Label: "retinol", MolecularWeight: 286.45,
		Relations: []Relation{
			{TargetID: "glycolic-acid", Kind: "avoid", Strength: 0.9},
			{TargetID: "niacinamide", Kind: "synergistic", Strength: 0.7},
		},
	}
	if err := s.UpsertIngredient(first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// second write shrinks the relation set and changes the label
	second := IngredientRecord{
		ID: "retinol", Label: "retinol (stabilized)", MolecularWeight: 286.45,
		Relations: []Relation{
			{TargetID: "glycolic-acid", Kind: "avoid", Strength: 0.9},
		},
	}
	if err := s.UpsertIngredient(second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	reader, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, _ := reader.Ingredient("retinol")
	if got.Label != "retinol (stabilized)" {
		t.Errorf("expected updated label, got %q", got.Label)
	}
	if rels := reader.Relations("retinol"); len(rels) != 1 {
		t.Errorf("expected relations replaced, got %+v", rels)
	}
}

func TestUpsertIngredientNeedsID(t *testing.T) {
	s := tempStore(t)
	if err := s.UpsertIngredient(IngredientRecord{Label: "anonymous"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestUpsertAndLoadSupplier(t *testing.T) {
	s := tempStore(t)

	sup := SupplierRecord{
		ID:               "sup-1",
		Name:             "acme actives",
		IngredientIDs:    []string{"niacinamide", "panthenol"},
		ReliabilityScore: 0.9,
		Region:           "eu",
	}
	if err := s.UpsertSupplier(sup); err != nil {
		t.Fatalf("UpsertSupplier: %v", err)
	}

	reader, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := reader.Suppliers("niacinamide")
	if len(got) != 1 || got[0].Name != "acme actives" || got[0].Region != "eu" {
		t.Errorf("unexpected suppliers: %+v", got)
	}
	if got := reader.Suppliers("panthenol"); len(got) != 1 {
		t.Errorf("supplier should be indexed under every ingredient, got %+v", got)
	}
	if got := reader.Suppliers("unlisted"); got != nil {
		t.Errorf("expected nil for unlisted ingredient, got %+v", got)
	}
}

func TestSupplierRegionOptional(t *testing.T) {
	s := tempStore(t)

	sup := SupplierRecord{ID: "sup-2", Name: "budget chem", ReliabilityScore: 0.4,
		IngredientIDs: []string{"retinol"}}
	if err := s.UpsertSupplier(sup); err != nil {
		t.Fatalf("UpsertSupplier: %v", err)
	}

	reader, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := reader.Suppliers("retinol")
	if len(got) != 1 || got[0].Region != "" {
		t.Errorf("expected empty region, got %+v", got)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := tempStore(t)
	reader, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := reader.Ingredient("anything"); ok {
		t.Error("empty store should miss every lookup")
	}
}

func TestNewStoreInvalidPath(t *testing.T) {
	_, err := NewStore(filepath.Join(string(os.PathSeparator), "nonexistent", "deep", "path", "ref.db"))
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestNewStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "corrupt.db")
	os.WriteFile(dbPath, []byte("not a sqlite database"), 0644)

	_, err := NewStore(dbPath)
	if err == nil {
		t.Fatal("expected error for corrupted file")
	}
}

func TestUpsertOnClosedDB(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "ref.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.Close()

	if err := s.UpsertIngredient(IngredientRecord{ID: "x", Label: "x"}); err == nil {
		t.Fatal("expected error on closed DB")
	}
	if _, err := s.Load(); err == nil {
		t.Fatal("expected load error on closed DB")
	}
}

func TestDBAccessor(t *testing.T) {
	s := tempStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil *sql.DB")
	}
}
