package menu

import (
	"strings"

	"dining-assistant/internal/pkg/common"
)

// Filter 對目錄快照施加硬性排除規則
// 純謂詞走訪，不重新排序；存活子集保持輸入順序
func Filter(catalog []common.MenuItem, profile common.PreferenceProfile) []common.MenuItem {
	out := make([]common.MenuItem, 0, len(catalog))
	for _, item := range catalog {
		if !Excluded(item, profile) {
			out = append(out, item)
		}
	}
	return out
}

// Excluded 單一項目的排除判定，任一規則命中即排除：
//   1. 價格高於偏好上限（僅上限；下限為建議性質不過濾）
//   2. 項目過敏原與申報過敏原有交集（完整比對，不分大小寫）
//   3. 任一不喜歡的食材是項目食材名稱的子字串（不分大小寫）
//   4. 辣度高於偏好上限（上限而非精確值）
func Excluded(item common.MenuItem, profile common.PreferenceProfile) bool {
	if item.Price > profile.PriceRange[1] {
		return true
	}
	if hasAllergenConflict(item.Allergens, profile.Allergies) {
		return true
	}
	if hasDislikedIngredient(item.Ingredients, profile.DislikedIngredients) {
		return true
	}
	// 偏好值可能超出範圍，先夾取再比較
	ceiling := common.ClampInt(profile.SpicePreference, common.SpiceLevelMin, common.SpiceLevelMax)
	if item.SpiceLevel > ceiling {
		return true
	}
	return false
}

func hasAllergenConflict(allergens, declared []string) bool {
	if len(declared) == 0 {
		return false
	}
	for _, allergen := range allergens {
		allergen = strings.TrimSpace(allergen)
		for _, d := range declared {
			if strings.EqualFold(allergen, strings.TrimSpace(d)) {
				return true
			}
		}
	}
	return false
}

func hasDislikedIngredient(ingredients, disliked []string) bool {
	if len(disliked) == 0 {
		return false
	}
	for _, ingredient := range ingredients {
		lowered := strings.ToLower(ingredient)
		for _, d := range disliked {
			d = strings.ToLower(strings.TrimSpace(d))
			if d != "" && strings.Contains(lowered, d) {
				return true
			}
		}
	}
	return false
}
