package preference

import (
	"strings"

	"dining-assistant/internal/pkg/common"
)

// Update 套用部分更新並回傳新的偏好值
// 未指定（nil）的欄位保留原值；絕不就地修改傳入的 profile
func Update(profile common.PreferenceProfile, changes common.ProfileUpdate) common.PreferenceProfile {
	next := profile

	if changes.DietaryRestrictions != nil {
		next.DietaryRestrictions = normalizeSet(*changes.DietaryRestrictions)
	}
	if changes.Allergies != nil {
		next.Allergies = normalizeSet(*changes.Allergies)
	}
	if changes.PriceRange != nil {
		next.PriceRange = normalizePriceRange(*changes.PriceRange)
	}
	if changes.FavoriteCuisines != nil {
		next.FavoriteCuisines = normalizeSet(*changes.FavoriteCuisines)
	}
	if changes.DislikedIngredients != nil {
		next.DislikedIngredients = normalizeSet(*changes.DislikedIngredients)
	}
	if changes.SpicePreference != nil {
		// 接受任何整數，夾取由下游消費端負責
		next.SpicePreference = *changes.SpicePreference
	}
	if changes.PreferredMealTypes != nil {
		next.PreferredMealTypes = normalizeSet(*changes.PreferredMealTypes)
	}
	if changes.GeneralDislikes != nil {
		next.GeneralDislikes = strings.TrimSpace(*changes.GeneralDislikes)
	}

	return next
}

// ToWireFormat 將偏好投影為遠端助理服務的傳輸格式
// 限制標籤小寫並以底線取代空白與連字號；料理名稱小寫；
// 自由文字的一般排斥項轉為至多一個元素的列表
func ToWireFormat(profile common.PreferenceProfile) common.WireProfile {
	wire := common.WireProfile{
		DietaryRestrictions: make([]string, 0, len(profile.DietaryRestrictions)),
		Allergies:           make([]string, 0, len(profile.Allergies)),
		PriceRange:          profile.PriceRange,
		FavoriteCuisines:    make([]string, 0, len(profile.FavoriteCuisines)),
		DislikedIngredients: make([]string, 0, len(profile.DislikedIngredients)),
		SpicePreference:     profile.SpicePreference,
		PreferredMealTypes:  make([]string, 0, len(profile.PreferredMealTypes)),
		Dislikes:            []string{},
	}

	for _, tag := range profile.DietaryRestrictions {
		wire.DietaryRestrictions = append(wire.DietaryRestrictions, underscoreTag(tag))
	}
	wire.Allergies = append(wire.Allergies, profile.Allergies...)
	for _, cuisine := range profile.FavoriteCuisines {
		wire.FavoriteCuisines = append(wire.FavoriteCuisines, strings.ToLower(cuisine))
	}
	wire.DislikedIngredients = append(wire.DislikedIngredients, profile.DislikedIngredients...)
	wire.PreferredMealTypes = append(wire.PreferredMealTypes, profile.PreferredMealTypes...)

	if general := strings.TrimSpace(profile.GeneralDislikes); general != "" {
		wire.Dislikes = []string{general}
	}

	return wire
}

// 去空白、轉小寫、去重，保留首次出現的順序
func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// 價格區間不變量：兩端非負且 min ≤ max
func normalizePriceRange(pr [2]float64) [2]float64 {
	pr[0] = common.ClampNonNegative(pr[0])
	pr[1] = common.ClampNonNegative(pr[1])
	if pr[0] > pr[1] {
		pr[0], pr[1] = pr[1], pr[0]
	}
	return pr
}

// 限制標籤的線上格式："Gluten-Free" -> "gluten_free"
func underscoreTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.ReplaceAll(tag, " ", "_")
	tag = strings.ReplaceAll(tag, "-", "_")
	return tag
}
