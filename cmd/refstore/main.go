package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/formulation-prover/internal/refstore"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to reference store SQLite database")
	seedPath := flag.String("seed", "", "seed the store from a JSON file")
	list := flag.Bool("list", false, "list stored ingredients and suppliers")
	jsonOut := flag.Bool("json", false, "output as JSON instead of tables")
	flag.Parse()

	if *dbPath == "" || (*seedPath == "" && !*list) {
		fmt.Fprintln(os.Stderr, "usage: refstore --db path/to/reference.db --seed seed.json")
		fmt.Fprintln(os.Stderr, "       refstore --db path/to/reference.db --list [--json]")
		os.Exit(2)
	}

	store, err := refstore.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *seedPath != "" {
		if err := runSeed(store, *seedPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if *list {
		if err := runList(store, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region seed

// storeDump is the JSON shape accepted by --seed and emitted by --list --json.
type storeDump struct {
	Ingredients []refstore.IngredientRecord `json:"ingredients"`
	Suppliers   []refstore.SupplierRecord   `json:"suppliers"`
}

func runSeed(store *refstore.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed storeDump
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, ing := range seed.Ingredients {
		if err := store.UpsertIngredient(ing); err != nil {
			return err
		}
	}
	for _, sup := range seed.Suppliers {
		if err := store.UpsertSupplier(sup); err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d ingredients, %d suppliers\n", len(seed.Ingredients), len(seed.Suppliers))
	return nil
}

// #endregion seed

// #region list

func runList(store *refstore.Store, jsonOut bool) error {
	ingredients, err := store.ListIngredients()
	if err != nil {
		return err
	}
	suppliers, err := store.ListSuppliers()
	if err != nil {
		return err
	}

	if len(ingredients) == 0 && len(suppliers) == 0 {
		fmt.Fprintln(os.Stderr, "store is empty")
		return nil
	}

	if jsonOut {
		return printJSON(storeDump{Ingredients: ingredients, Suppliers: suppliers})
	}

	if len(ingredients) > 0 {
		fmt.Printf("%-20s  %-24s  %8s  %6s  %8s  %6s  %s\n",
			"Ingredient", "Label", "MW", "LogP", "MaxConc", "Safety", "Relations")
		fmt.Printf("%-20s  %-24s  %8s  %6s  %8s  %6s  %s\n",
			"--------------------", "------------------------", "--------", "------",
			"--------", "------", "---------")
		for _, ing := range ingredients {
			fmt.Printf("%-20s  %-24s  %8.1f  %6.2f  %8.1f  %6.2f  %d\n",
				ing.ID, ing.Label, ing.MolecularWeight, ing.LogP,
				ing.MaxConcentration, ing.SafetyRating, len(ing.Relations))
		}
	}

	if len(suppliers) > 0 {
		fmt.Printf("\n%-20s  %-24s  %11s  %-10s  %s\n",
			"Supplier", "Name", "Reliability", "Region", "Ingredients")
		fmt.Printf("%-20s  %-24s  %11s  %-10s  %s\n",
			"--------------------", "------------------------", "-----------",
			"----------", "-----------")
		for _, sup := range suppliers {
			region := sup.Region
			if region == "" {
				region = "-"
			}
			fmt.Printf("%-20s  %-24s  %11.2f  %-10s  %d\n",
				sup.ID, sup.Name, sup.ReliabilityScore, region, len(sup.IngredientIDs))
		}
	}

	return nil
}

// #endregion list

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
