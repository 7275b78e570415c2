package refstore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS ingredients (
	ingredient_id     TEXT PRIMARY KEY,
	label             TEXT NOT NULL,
	molecular_weight  REAL NOT NULL DEFAULT 0,
	log_p             REAL NOT NULL DEFAULT 0,
	max_concentration REAL NOT NULL DEFAULT 0,
	safety_rating     REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ingredient_relations (
	source_id  TEXT NOT NULL,
	target_id  TEXT NOT NULL,
	kind       TEXT NOT NULL,
	strength   REAL NOT NULL DEFAULT 0.5,
	PRIMARY KEY (source_id, target_id, kind),
	FOREIGN KEY (source_id) REFERENCES ingredients(ingredient_id)
);

CREATE TABLE IF NOT EXISTS suppliers (
	supplier_id  TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	reliability  REAL NOT NULL DEFAULT 0.5,
	region       TEXT
);

CREATE TABLE IF NOT EXISTS supplier_ingredients (
	supplier_id   TEXT NOT NULL,
	ingredient_id TEXT NOT NULL,
	PRIMARY KEY (supplier_id, ingredient_id),
	FOREIGN KEY (supplier_id) REFERENCES suppliers(supplier_id)
);
`
// #endregion schema

// #region store-struct
// Store manages reference data in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-open database. The caller keeps ownership
// of the connection.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region upsert-ingredient
// UpsertIngredient writes one ingredient profile, replacing its relations.
func (s *Store) UpsertIngredient(rec IngredientRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("ingredient needs an id")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO ingredients (ingredient_id, label, molecular_weight, log_p, max_concentration, safety_rating)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(ingredient_id) DO UPDATE SET
			label = excluded.label,
			molecular_weight = excluded.molecular_weight,
			log_p = excluded.log_p,
			max_concentration = excluded.max_concentration,
			safety_rating = excluded.safety_rating`,
		rec.ID, rec.Label, rec.MolecularWeight, rec.LogP, rec.MaxConcentration, rec.SafetyRating,
	)
	if err != nil {
		return fmt.Errorf("upsert ingredient: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM ingredient_relations WHERE source_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("clear relations: %w", err)
	}
	for _, rel := range rec.Relations {
		_, err = tx.Exec(
			`INSERT INTO ingredient_relations (source_id, target_id, kind, strength)
			 VALUES (?, ?, ?, ?)`,
			rec.ID, rel.TargetID, rel.Kind, rel.Strength,
		)
		if err != nil {
			return fmt.Errorf("insert relation %s->%s: %w", rec.ID, rel.TargetID, err)
		}
	}

	return tx.Commit()
}
// #endregion upsert-ingredient

// #region upsert-supplier
// UpsertSupplier writes one supplier, replacing its ingredient links.
func (s *Store) UpsertSupplier(rec SupplierRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("supplier needs an id")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var regionPtr interface{}
	if rec.Region != "" {
		regionPtr = rec.Region
	}

	_, err = tx.Exec(
		`INSERT INTO suppliers (supplier_id, name, reliability, region)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(supplier_id) DO UPDATE SET
			name = excluded.name,
			reliability = excluded.reliability,
			region = excluded.region`,
		rec.ID, rec.Name, rec.ReliabilityScore, regionPtr,
	)
	if err != nil {
		return fmt.Errorf("upsert supplier: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM supplier_ingredients WHERE supplier_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("clear supplier links: %w", err)
	}
	for _, ingID := range rec.IngredientIDs {
		_, err = tx.Exec(
			`INSERT INTO supplier_ingredients (supplier_id, ingredient_id) VALUES (?, ?)`,
			rec.ID, ingID,
		)
		if err != nil {
			return fmt.Errorf("link supplier %s to %s: %w", rec.ID, ingID, err)
		}
	}

	return tx.Commit()
}
// #endregion upsert-supplier

// #region load
// Load reads the full store into a MemoryReader. Verification holds the
// result for its lifetime, so the database sees no per-request queries.
func (s *Store) Load() (*MemoryReader, error) {
	ingredients, err := s.ListIngredients()
	if err != nil {
		return nil, err
	}
	suppliers, err := s.ListSuppliers()
	if err != nil {
		return nil, err
	}
	return NewMemoryReader(ingredients, suppliers), nil
}

// ListIngredients returns every ingredient with its relations, ordered by ID.
func (s *Store) ListIngredients() ([]IngredientRecord, error) {
	rows, err := s.db.Query(
		`SELECT ingredient_id, label, molecular_weight, log_p, max_concentration, safety_rating
		 FROM ingredients ORDER BY ingredient_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var records []IngredientRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec IngredientRecord
		err := rows.Scan(&rec.ID, &rec.Label, &rec.MolecularWeight, &rec.LogP,
			&rec.MaxConcentration, &rec.SafetyRating)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	relRows, err := s.db.Query(
		`SELECT source_id, target_id, kind, strength
		 FROM ingredient_relations ORDER BY source_id, target_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	defer relRows.Close()

	for relRows.Next() {
		var sourceID string
		var rel Relation
		if err := relRows.Scan(&sourceID, &rel.TargetID, &rel.Kind, &rel.Strength); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		i, ok := index[sourceID]
		if !ok {
			continue
		}
		records[i].Relations = append(records[i].Relations, rel)
	}
	return records, relRows.Err()
}

// ListSuppliers returns every supplier with its ingredient links, ordered by ID.
func (s *Store) ListSuppliers() ([]SupplierRecord, error) {
	rows, err := s.db.Query(
		`SELECT supplier_id, name, reliability, region FROM suppliers ORDER BY supplier_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var records []SupplierRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec SupplierRecord
		var region sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.ReliabilityScore, &region); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		if region.Valid {
			rec.Region = region.String
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := s.db.Query(
		`SELECT supplier_id, ingredient_id FROM supplier_ingredients ORDER BY supplier_id, ingredient_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list supplier links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var supplierID, ingredientID string
		if err := linkRows.Scan(&supplierID, &ingredientID); err != nil {
			return nil, fmt.Errorf("scan supplier link: %w", err)
		}
		i, ok := index[supplierID]
		if !ok {
			continue
		}
		records[i].IngredientIDs = append(records[i].IngredientIDs, ingredientID)
	}
	return records, linkRows.Err()
}
// #endregion load
