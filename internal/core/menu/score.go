package menu

import (
	"math"
	"strings"

	"dining-assistant/internal/pkg/common"
)

const (
	// HighCompatibilityThreshold 高相容性的固定門檻（絕對值，不做全目錄常態化）
	HighCompatibilityThreshold = 75

	// 沒有任何軟性偏好可評估時的中性分數
	neutralScore = 50
)

// Score 計算單一項目對軟性偏好的相容性百分比 [0,100]
// 三個獨立準則，對應偏好集合非空時各貢獻一分母：
//   1. 飲食標籤交集非空
//   2. 喜愛料理包含項目的料理
//   3. 偏好餐別包含項目的餐別
// 無任何準則適用時回傳中性 50（「未知」高於「已知不合」、低於「已知相合」）
func Score(item common.MenuItem, profile common.PreferenceProfile) int {
	matched, possible := 0, 0

	if len(profile.DietaryRestrictions) > 0 {
		possible++
		if intersectsFold(item.DietaryTags, profile.DietaryRestrictions) {
			matched++
		}
	}
	if len(profile.FavoriteCuisines) > 0 {
		possible++
		if containsFold(profile.FavoriteCuisines, item.Cuisine) {
			matched++
		}
	}
	if len(profile.PreferredMealTypes) > 0 {
		possible++
		if containsFold(profile.PreferredMealTypes, item.MealType) {
			matched++
		}
	}

	if possible == 0 {
		return neutralScore
	}
	return int(math.Round(float64(matched) / float64(possible) * 100))
}

// HighCompatibility 分數是否達到高相容門檻
func HighCompatibility(score int) bool {
	return score >= HighCompatibilityThreshold
}

// 交集非空即成立，不計匹配數量
func intersectsFold(values, set []string) bool {
	for _, v := range values {
		if containsFold(set, v) {
			return true
		}
	}
	return false
}

func containsFold(set []string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, entry := range set {
		if strings.EqualFold(strings.TrimSpace(entry), value) {
			return true
		}
	}
	return false
}
