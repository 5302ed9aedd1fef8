package menu

import (
	"testing"

	"dining-assistant/internal/pkg/common"
)

func TestFilterScenario(t *testing.T) {
	catalog := []common.MenuItem{
		{ID: "a", Name: "Garden Salad", Price: 10, SpiceLevel: 1},
		{ID: "b", Name: "Wagyu Steak", Price: 25, SpiceLevel: 0},
		{ID: "c", Name: "Satay Skewers", Price: 8, SpiceLevel: 2, Allergens: []string{"Peanuts"}},
		{ID: "d", Name: "Vindaloo", Price: 14, SpiceLevel: 4},
	}
	profile := common.PreferenceProfile{
		Allergies:       []string{"peanuts"},
		PriceRange:      [2]float64{0, 20},
		SpicePreference: 3,
	}

	survivors := Filter(catalog, profile)
	if len(survivors) != 1 || survivors[0].ID != "a" {
		t.Errorf("Filter() = %v, want only item a", ids(survivors))
	}
}

func TestExcludedRules(t *testing.T) {
	tests := []struct {
		name    string
		item    common.MenuItem
		profile common.PreferenceProfile
		want    bool
	}{
		{
			"price above maximum",
			common.MenuItem{Price: 21},
			common.PreferenceProfile{PriceRange: [2]float64{0, 20}, SpicePreference: 5},
			true,
		},
		{
			"price equal to maximum survives",
			common.MenuItem{Price: 20},
			common.PreferenceProfile{PriceRange: [2]float64{0, 20}, SpicePreference: 5},
			false,
		},
		{
			"price below minimum survives",
			common.MenuItem{Price: 2},
			common.PreferenceProfile{PriceRange: [2]float64{10, 20}, SpicePreference: 5},
			false,
		},
		{
			"allergen match ignores case",
			common.MenuItem{Allergens: []string{"Peanuts"}},
			common.PreferenceProfile{Allergies: []string{"peanuts"}, PriceRange: [2]float64{0, 20}, SpicePreference: 5},
			true,
		},
		{
			"allergen comparison is whole-value, not substring",
			common.MenuItem{Allergens: []string{"Peanut Oil"}},
			common.PreferenceProfile{Allergies: []string{"peanuts"}, PriceRange: [2]float64{0, 20}, SpicePreference: 5},
			false,
		},
		{
			"allergen in ingredients is not a hard exclusion",
			common.MenuItem{Ingredients: []string{"peanut sauce"}},
			common.PreferenceProfile{Allergies: []string{"peanuts"}, PriceRange: [2]float64{0, 20}, SpicePreference: 5},
			false,
		},
		{
			"no declared allergies",
			common.MenuItem{Allergens: []string{"Peanuts", "Wheat"}},
			common.PreferenceProfile{PriceRange: [2]float64{0, 20}, SpicePreference: 5},
			false,
		},
		{
			"disliked ingredient substring match",
			common.MenuItem{Ingredients: []string{"Red Onions"}},
			common.PreferenceProfile{DislikedIngredients: []string{"onion"}, PriceRange: [2]float64{0, 20}, SpicePreference: 5},
			true,
		},
		{
			"disliked term longer than ingredient",
			common.MenuItem{Ingredients: []string{"Onion"}},
			common.PreferenceProfile{DislikedIngredients: []string{"red onions and peppers"}, PriceRange: [2]float64{0, 20}, SpicePreference: 5},
			false,
		},
		{
			"spice above ceiling",
			common.MenuItem{SpiceLevel: 4},
			common.PreferenceProfile{PriceRange: [2]float64{0, 20}, SpicePreference: 3},
			true,
		},
		{
			"spice equal to ceiling survives",
			common.MenuItem{SpiceLevel: 3},
			common.PreferenceProfile{PriceRange: [2]float64{0, 20}, SpicePreference: 3},
			false,
		},
		{
			"excessive preference clamps to maximum",
			common.MenuItem{SpiceLevel: 5},
			common.PreferenceProfile{PriceRange: [2]float64{0, 20}, SpicePreference: 99},
			false,
		},
		{
			"negative preference clamps to zero",
			common.MenuItem{SpiceLevel: 1},
			common.PreferenceProfile{PriceRange: [2]float64{0, 20}, SpicePreference: -1},
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Excluded(tc.item, tc.profile); got != tc.want {
				t.Errorf("Excluded() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterPreservesCatalogOrder(t *testing.T) {
	catalog := []common.MenuItem{
		{ID: "1", Price: 5},
		{ID: "2", Price: 50},
		{ID: "3", Price: 8},
		{ID: "4", Price: 50},
		{ID: "5", Price: 3},
	}
	profile := common.DefaultProfile()
	profile.PriceRange = [2]float64{0, 10}

	survivors := Filter(catalog, profile)
	got := ids(survivors)
	want := []string{"1", "3", "5"}
	if len(got) != len(want) {
		t.Fatalf("Filter() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Filter()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFilterDefaultProfileKeepsNormalizedItems(t *testing.T) {
	catalog := []common.MenuItem{
		{ID: "1", Price: 99.99, SpiceLevel: 5, Allergens: []string{"Peanuts"}, Ingredients: []string{"peanut"}},
		{ID: "2", Price: 0},
	}

	survivors := Filter(catalog, common.DefaultProfile())
	if len(survivors) != 2 {
		t.Errorf("Filter() = %v, want all items to survive the default profile", ids(survivors))
	}
}

func ids(items []common.MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
