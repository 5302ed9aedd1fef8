package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"dining-assistant/internal/pkg/common"
)

// 正規化層：所有鍵名容錯只發生在這裡，下游一律讀取正規結構

// DecodePayload 解析目錄酬載
// 接受裸陣列或以慣用鍵（menu、舊版 items）包裹的信封；
// 其他形狀一律視為空目錄。無法解析的 JSON 會先嘗試補上鍵名引號再重試
func DecodePayload(payload []byte) ([]map[string]interface{}, error) {
	var root interface{}
	if err := common.ParseJSONBytes(payload, &root); err != nil {
		repaired := common.QuoteJSONKeys(string(payload))
		if err2 := common.ParseJSON(repaired, &root); err2 != nil {
			return nil, fmt.Errorf("failed to parse catalog payload: %w", err)
		}
	}

	var rawList []interface{}
	switch v := root.(type) {
	case []interface{}:
		rawList = v
	case map[string]interface{}:
		for _, key := range []string{"menu", "items"} {
			if list, ok := v[key].([]interface{}); ok {
				rawList = list
				break
			}
		}
	}

	records := make([]map[string]interface{}, 0, len(rawList))
	for _, entry := range rawList {
		if record, ok := entry.(map[string]interface{}); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// Normalize 將單筆原始紀錄轉為正規菜單項目
// 每個可選欄位容忍 camelCase 與 snake_case 兩種鍵名；
// 缺少 id、name、price 任一必要欄位即為正規化錯誤，由呼叫端捨棄該筆
func Normalize(raw map[string]interface{}) (common.MenuItem, error) {
	var item common.MenuItem

	id, ok := pickString(raw, "id")
	if !ok || id == "" {
		return item, fmt.Errorf("menu record missing required field: id")
	}
	name, ok := pickString(raw, "name")
	if !ok || strings.TrimSpace(name) == "" {
		return item, fmt.Errorf("menu record %q missing required field: name", id)
	}
	price, ok := pickFloat(raw, "price")
	if !ok {
		return item, fmt.Errorf("menu record %q missing required field: price", id)
	}

	item.ID = id
	item.Name = strings.TrimSpace(name)
	item.Price = common.ClampNonNegative(price)

	item.Description, _ = pickString(raw, "description")
	item.ImageURL, _ = pickString(raw, "image", "image_url", "imageUrl")
	item.Ingredients = pickStringSlice(raw, "ingredients")
	item.Allergens = pickStringSlice(raw, "allergens")
	item.DietaryTags = pickStringSlice(raw, "dietaryTags", "dietary_tags")
	item.Cuisine, _ = pickString(raw, "cuisine", "cuisine_type", "cuisineType")
	item.MealType, _ = pickString(raw, "mealType", "meal_type", "category")

	if spice, ok := pickInt(raw, "spiceLevel", "spice_level"); ok {
		item.SpiceLevel = common.ClampInt(spice, common.SpiceLevelMin, common.SpiceLevelMax)
	}
	if popularity, ok := pickFloat(raw, "popularityScore", "popularity_score"); ok {
		item.PopularityScore = common.ClampNonNegative(popularity)
	}

	if nutrition, ok := pickMap(raw, "nutritionalInfo", "nutritional_info", "nutrition"); ok {
		item.Nutrition = normalizeNutrition(nutrition)
	}
	item.Reviews = normalizeReviews(raw)

	return item, nil
}

func normalizeNutrition(raw map[string]interface{}) common.NutritionInfo {
	var info common.NutritionInfo
	if v, ok := pickFloat(raw, "calories"); ok {
		info.Calories = common.ClampNonNegative(v)
	}
	if v, ok := pickFloat(raw, "protein"); ok {
		info.Protein = common.ClampNonNegative(v)
	}
	if v, ok := pickFloat(raw, "carbs", "carbohydrates"); ok {
		info.Carbs = common.ClampNonNegative(v)
	}
	if v, ok := pickFloat(raw, "fat"); ok {
		info.Fat = common.ClampNonNegative(v)
	}
	return info
}

// 評論彙總為可選欄位；三個來源鍵任一存在才建立
func normalizeReviews(raw map[string]interface{}) *common.ReviewSummary {
	average, hasAverage := pickFloat(raw, "averageRating", "average_rating", "rating")
	count, hasCount := pickInt(raw, "reviewCount", "review_count")
	rawReviews, hasList := pickSlice(raw, "reviews")
	if !hasAverage && !hasCount && !hasList {
		return nil
	}

	summary := &common.ReviewSummary{}
	if hasAverage {
		summary.AverageRating = clampRating(average)
	}
	if hasCount && count > 0 {
		summary.ReviewCount = count
	}
	for _, entry := range rawReviews {
		record, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		review := common.Review{}
		review.UserID, _ = pickString(record, "userId", "user_id")
		if rating, ok := pickFloat(record, "rating"); ok {
			review.Rating = clampRating(rating)
		}
		review.Comment, _ = pickString(record, "comment")
		review.CreatedAt, _ = pickString(record, "timestamp", "created_at", "createdAt")
		summary.Reviews = append(summary.Reviews, review)
	}
	if !hasCount {
		summary.ReviewCount = len(summary.Reviews)
	}
	return summary
}

func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// --- 容錯取值 ---

func pickValue(raw map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pickString(raw map[string]interface{}, keys ...string) (string, bool) {
	v, ok := pickValue(raw, keys...)
	if !ok {
		return "", false
	}
	return toString(v)
}

func pickFloat(raw map[string]interface{}, keys ...string) (float64, bool) {
	v, ok := pickValue(raw, keys...)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func pickInt(raw map[string]interface{}, keys ...string) (int, bool) {
	f, ok := pickFloat(raw, keys...)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func pickStringSlice(raw map[string]interface{}, keys ...string) []string {
	out := []string{}
	v, ok := pickValue(raw, keys...)
	if !ok {
		return out
	}
	list, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, entry := range list {
		if s, ok := toString(entry); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func pickMap(raw map[string]interface{}, keys ...string) (map[string]interface{}, bool) {
	v, ok := pickValue(raw, keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	return m, ok
}

func pickSlice(raw map[string]interface{}, keys ...string) ([]interface{}, bool) {
	v, ok := pickValue(raw, keys...)
	if !ok {
		return nil, false
	}
	list, ok := v.([]interface{})
	return list, ok
}

// 數值 id 一律轉為字串
func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	default:
		return "", false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
