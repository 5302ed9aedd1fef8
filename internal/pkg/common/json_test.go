package common

import (
	"encoding/json"
	"testing"
)

func TestQuoteJSONKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object key", `{menu: []}`, `{"menu": []}`},
		{"key after comma", `{"a": 1, b: 2}`, `{"a": 1, "b": 2}`},
		{"nested keys", `{menu: [{id: "x", spice_level: 2}]}`, `{"menu": [{"id": "x", "spice_level": 2}]}`},
		{"quoted keys untouched", `{"menu": [{"id": "x"}]}`, `{"menu": [{"id": "x"}]}`},
		{"colon inside string value untouched", `{"note": "time: 10"}`, `{"note": "time: 10"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := QuoteJSONKeys(tc.in); got != tc.want {
				t.Errorf("QuoteJSONKeys(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	if err := ParseJSON(`{"a": 1} {"b": 2}`, &v); err == nil {
		t.Error("ParseJSON() error = nil, want trailing data error")
	}
}

func TestParseJSONKeepsNumbersVerbatim(t *testing.T) {
	var v map[string]interface{}
	if err := ParseJSON(`{"price": 12.50}`, &v); err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	num, ok := v["price"].(json.Number)
	if !ok {
		t.Fatalf("price decoded as %T, want json.Number", v["price"])
	}
	if num.String() != "12.50" {
		t.Errorf("price = %q, want 12.50", num.String())
	}
}

func TestJoinList(t *testing.T) {
	if got := JoinList(nil); got != "" {
		t.Errorf("JoinList(nil) = %q, want empty", got)
	}
	if got := JoinList([]string{"a"}); got != "a" {
		t.Errorf("JoinList([a]) = %q", got)
	}
	if got := JoinList([]string{"a", "b", "c"}); got != "a, b, c" {
		t.Errorf("JoinList() = %q, want %q", got, "a, b, c")
	}
}

func TestFormatPriceRange(t *testing.T) {
	tests := []struct {
		in   [2]float64
		want string
	}{
		{[2]float64{0, 100}, "$0 - $100"},
		{[2]float64{10.5, 20.25}, "$10.5 - $20.25"},
		{[2]float64{7, 7}, "$7 - $7"},
	}
	for _, tc := range tests {
		if got := FormatPriceRange(tc.in); got != tc.want {
			t.Errorf("FormatPriceRange(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatItemLine(t *testing.T) {
	withCuisine := MenuItem{Name: "Pad Thai", Price: 12.5, Cuisine: "Thai"}
	if got := FormatItemLine(withCuisine); got != "Pad Thai ($12.5, Thai)" {
		t.Errorf("FormatItemLine() = %q", got)
	}

	plain := MenuItem{Name: "Miso Soup", Price: 4}
	if got := FormatItemLine(plain); got != "Miso Soup ($4)" {
		t.Errorf("FormatItemLine() = %q", got)
	}
}
