package menu

import (
	"sort"
	"strings"

	"dining-assistant/internal/pkg/common"
)

// Severity 過敏原風險等級
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SafetyWarning 單筆過敏警示
type SafetyWarning struct {
	Allergen    string   `json:"allergen"`
	Severity    Severity `json:"severity"`
	MatchedTerm string   `json:"matched_term"`
	FoundIn     string   `json:"found_in"`
}

// SafetyReport 項目的過敏檢查結果
type SafetyReport struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Safe     bool            `json:"safe"`
	Warnings []SafetyWarning `json:"warnings"`
}

// 常見過敏原的同義詞與衍生食材
var allergenSynonyms = map[string][]string{
	"peanuts":   {"peanut", "groundnut", "arachis"},
	"tree nuts": {"almond", "cashew", "walnut", "pecan", "pistachio", "hazelnut", "macadamia", "brazil nut"},
	"shellfish": {"shrimp", "prawn", "crab", "lobster", "crayfish"},
	"fish":      {"salmon", "tuna", "cod", "anchovy", "sardine"},
	"milk":      {"dairy", "cheese", "butter", "cream", "yogurt", "whey", "casein", "lactose"},
	"eggs":      {"egg", "albumin", "mayonnaise"},
	"soy":       {"soya", "soybean", "tofu", "edamame"},
	"wheat":     {"gluten", "flour", "bread", "pasta", "semolina"},
	"sesame":    {"tahini", "sesame oil", "sesame seed"},
	"sulfites":  {"sulfite", "sulphite", "sulfur dioxide"},
	"celery":    {"celeriac", "celery salt"},
	"mustard":   {"dijon", "mustard seed"},
}

var allergenSeverity = map[string]Severity{
	"peanuts":   SeverityHigh,
	"tree nuts": SeverityHigh,
	"shellfish": SeverityHigh,
	"fish":      SeverityHigh,
	"milk":      SeverityMedium,
	"eggs":      SeverityMedium,
	"soy":       SeverityMedium,
	"wheat":     SeverityMedium,
	"sesame":    SeverityLow,
	"sulfites":  SeverityLow,
	"celery":    SeverityLow,
	"mustard":   SeverityLow,
}

// CheckItem 以同義詞表檢查項目是否可能含有申報過敏原
// 諮詢性質：命中衍生食材（如 milk -> butter）也會產生警示，
// 但不改變 Filter 的硬性排除語義（硬性過濾只比對申報過敏原清單）
func CheckItem(item common.MenuItem, allergies []string) SafetyReport {
	report := SafetyReport{
		ItemID:   item.ID,
		ItemName: item.Name,
		Safe:     true,
		Warnings: []SafetyWarning{},
	}

	for _, declared := range allergies {
		key := strings.ToLower(strings.TrimSpace(declared))
		if key == "" {
			continue
		}
		terms := append([]string{key}, allergenSynonyms[key]...)

		if term, ok := matchAny(item.Allergens, terms); ok {
			report.Safe = false
			report.Warnings = append(report.Warnings, SafetyWarning{
				Allergen:    key,
				Severity:    severityFor(key),
				MatchedTerm: term,
				FoundIn:     "allergens",
			})
			continue
		}
		if term, ok := matchAny(item.Ingredients, terms); ok {
			report.Safe = false
			report.Warnings = append(report.Warnings, SafetyWarning{
				Allergen:    key,
				Severity:    severityFor(key),
				MatchedTerm: term,
				FoundIn:     "ingredients",
			})
		}
	}

	return report
}

// CanonicalAllergens 同義詞表涵蓋的標準過敏原名稱（排序後）
func CanonicalAllergens() []string {
	out := make([]string, 0, len(allergenSeverity))
	for name := range allergenSeverity {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func matchAny(values, terms []string) (string, bool) {
	for _, value := range values {
		lowered := strings.ToLower(value)
		for _, term := range terms {
			if strings.Contains(lowered, term) {
				return term, true
			}
		}
	}
	return "", false
}

func severityFor(allergen string) Severity {
	if severity, ok := allergenSeverity[allergen]; ok {
		return severity
	}
	// 未知過敏原保守視為中風險
	return SeverityMedium
}
