package menu

import (
	"sort"
	"testing"

	"dining-assistant/internal/pkg/common"
)

func TestCheckItemDerivedIngredient(t *testing.T) {
	item := common.MenuItem{
		ID:          "p1",
		Name:        "Croissant",
		Ingredients: []string{"Butter", "flour"},
	}

	report := CheckItem(item, []string{"Milk"})
	if report.Safe {
		t.Fatal("Safe = true, want unsafe for dairy-derived ingredient")
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(report.Warnings))
	}
	if w := report.Warnings[0]; w.Allergen != "milk" || w.MatchedTerm != "butter" || w.FoundIn != "ingredients" {
		t.Errorf("warning = %+v, want milk matched via butter in ingredients", w)
	}
}

func TestCheckItemSingleWarningPerAllergen(t *testing.T) {
	item := common.MenuItem{
		ID:          "s1",
		Name:        "Satay",
		Allergens:   []string{"Peanuts"},
		Ingredients: []string{"peanut sauce"},
	}

	report := CheckItem(item, []string{"peanuts"})
	if report.Safe {
		t.Fatal("Safe = true, want unsafe")
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1 (allergen list hit short-circuits)", len(report.Warnings))
	}

	w := report.Warnings[0]
	if w.Allergen != "peanuts" {
		t.Errorf("Allergen = %q, want peanuts", w.Allergen)
	}
	if w.Severity != SeverityHigh {
		t.Errorf("Severity = %q, want high", w.Severity)
	}
	if w.FoundIn != "allergens" {
		t.Errorf("FoundIn = %q, want allergens", w.FoundIn)
	}
}

func TestCheckItemIngredientOnlyHit(t *testing.T) {
	item := common.MenuItem{
		ID:          "c1",
		Name:        "Alfredo",
		Ingredients: []string{"Cream", "pasta"},
	}

	report := CheckItem(item, []string{"milk"})
	if report.Safe || len(report.Warnings) != 1 {
		t.Fatalf("report = %+v, want single ingredient warning", report)
	}

	w := report.Warnings[0]
	if w.FoundIn != "ingredients" {
		t.Errorf("FoundIn = %q, want ingredients", w.FoundIn)
	}
	if w.MatchedTerm != "cream" {
		t.Errorf("MatchedTerm = %q, want cream", w.MatchedTerm)
	}
	if w.Severity != SeverityMedium {
		t.Errorf("Severity = %q, want medium", w.Severity)
	}
}

func TestCheckItemUnknownAllergenDefaultsToMedium(t *testing.T) {
	item := common.MenuItem{
		ID:          "d1",
		Name:        "Smoothie",
		Ingredients: []string{"dragonfruit puree"},
	}

	report := CheckItem(item, []string{"Dragonfruit"})
	if report.Safe || len(report.Warnings) != 1 {
		t.Fatalf("report = %+v, want single warning", report)
	}
	if report.Warnings[0].Severity != SeverityMedium {
		t.Errorf("Severity = %q, want medium for unknown allergen", report.Warnings[0].Severity)
	}
	if report.Warnings[0].MatchedTerm != "dragonfruit" {
		t.Errorf("MatchedTerm = %q, want dragonfruit", report.Warnings[0].MatchedTerm)
	}
}

func TestCheckItemSafe(t *testing.T) {
	item := common.MenuItem{
		ID:          "g1",
		Name:        "Garden Salad",
		Ingredients: []string{"lettuce", "tomato"},
	}

	report := CheckItem(item, []string{"peanuts", " ", ""})
	if !report.Safe {
		t.Errorf("Safe = false, want safe")
	}
	if report.Warnings == nil || len(report.Warnings) != 0 {
		t.Errorf("Warnings = %v, want empty non-nil slice", report.Warnings)
	}
	if report.ItemID != "g1" || report.ItemName != "Garden Salad" {
		t.Errorf("report identity = %q/%q", report.ItemID, report.ItemName)
	}
}

func TestCheckItemMultipleAllergies(t *testing.T) {
	item := common.MenuItem{
		ID:          "m1",
		Name:        "Pad Thai",
		Ingredients: []string{"shrimp", "rice noodles"},
	}

	report := CheckItem(item, []string{"milk", "shellfish"})
	if report.Safe || len(report.Warnings) != 1 {
		t.Fatalf("report = %+v, want single shellfish warning", report)
	}
	if report.Warnings[0].Allergen != "shellfish" || report.Warnings[0].Severity != SeverityHigh {
		t.Errorf("warning = %+v", report.Warnings[0])
	}
}

func TestCanonicalAllergens(t *testing.T) {
	names := CanonicalAllergens()
	if len(names) != 12 {
		t.Errorf("len(CanonicalAllergens()) = %d, want 12", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("CanonicalAllergens() = %v, want sorted", names)
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	for _, required := range []string{"peanuts", "milk", "shellfish", "wheat"} {
		if !seen[required] {
			t.Errorf("CanonicalAllergens() missing %q", required)
		}
	}
}
