package preference

import (
	"strings"
	"testing"

	"dining-assistant/internal/pkg/common"
)

func TestSummarizeDefaultProfile(t *testing.T) {
	got := Summarize(common.DefaultProfile())
	want := "Here's a summary of your preferences. Price range: $0 - $100. Spice level: up to 5/5."
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeFullProfile(t *testing.T) {
	profile := common.PreferenceProfile{
		DietaryRestrictions: []string{"vegetarian"},
		Allergies:           []string{"peanuts", "shellfish"},
		FavoriteCuisines:    []string{"thai", "italian"},
		PriceRange:          [2]float64{10, 45.5},
		SpicePreference:     3,
		DislikedIngredients: []string{"cilantro", "olives"},
	}

	got := Summarize(profile)
	want := "Here's a summary of your preferences." +
		" Dietary restrictions: vegetarian." +
		" Allergies: peanuts, shellfish." +
		" Favorite cuisines: thai, italian." +
		" Price range: $10 - $45.5." +
		" Spice level: up to 3/5." +
		" Avoiding: cilantro, olives."
	if got != want {
		t.Errorf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeTruncatesDislikedIngredients(t *testing.T) {
	profile := common.DefaultProfile()
	profile.DislikedIngredients = []string{"onions", "olives", "capers", "anchovies"}

	got := Summarize(profile)
	if !strings.Contains(got, " Avoiding: onions, olives, capers, ....") {
		t.Errorf("Summarize() = %q, want truncated avoid list with ellipsis", got)
	}
	if strings.Contains(got, "anchovies") {
		t.Errorf("Summarize() = %q, fourth ingredient should be elided", got)
	}
}

func TestSummarizeClampsSpiceDisplay(t *testing.T) {
	tests := []struct {
		spice int
		want  string
	}{
		{9, "Spice level: up to 5/5."},
		{-2, "Spice level: up to 0/5."},
		{3, "Spice level: up to 3/5."},
	}

	for _, tc := range tests {
		profile := common.DefaultProfile()
		profile.SpicePreference = tc.spice
		got := Summarize(profile)
		if !strings.Contains(got, tc.want) {
			t.Errorf("Summarize(spice=%d) = %q, want substring %q", tc.spice, got, tc.want)
		}
	}
}

func TestSummarizeOmitsEmptySections(t *testing.T) {
	profile := common.DefaultProfile()
	profile.Allergies = []string{"peanuts"}

	got := Summarize(profile)
	if !strings.Contains(got, "Allergies: peanuts.") {
		t.Errorf("Summarize() = %q, want allergies section", got)
	}
	for _, absent := range []string{"Dietary restrictions:", "Favorite cuisines:", "Avoiding:"} {
		if strings.Contains(got, absent) {
			t.Errorf("Summarize() = %q, unexpected section %q", got, absent)
		}
	}
}
