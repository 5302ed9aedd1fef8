package common

// NutritionInfo 營養成分（均為非負值）
type NutritionInfo struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Review 單筆顧客評論
type Review struct {
	UserID    string  `json:"user_id"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// ReviewSummary 評論彙總
type ReviewSummary struct {
	AverageRating float64  `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	Reviews       []Review `json:"reviews,omitempty"`
}

// MenuItem 正規化後的菜單項目
// 每次目錄載入時由 normalizer 建構一次，之後不再修改
type MenuItem struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Price           float64        `json:"price"`
	ImageURL        string         `json:"image_url,omitempty"`
	Ingredients     []string       `json:"ingredients"`
	Allergens       []string       `json:"allergens"`
	DietaryTags     []string       `json:"dietary_tags"`
	Cuisine         string         `json:"cuisine,omitempty"`
	MealType        string         `json:"meal_type,omitempty"`
	SpiceLevel      int            `json:"spice_level"`
	PopularityScore float64        `json:"popularity_score,omitempty"`
	Nutrition       NutritionInfo  `json:"nutrition"`
	Reviews         *ReviewSummary `json:"reviews,omitempty"`
}

// 辣度取值範圍
const (
	SpiceLevelMin = 0
	SpiceLevelMax = 5
)

// PreferenceProfile 用餐者偏好
// 集合欄位在 Update 正規化後不含重複項（去空白、轉小寫）
type PreferenceProfile struct {
	DietaryRestrictions []string   `json:"dietary_restrictions"`
	Allergies           []string   `json:"allergies"`
	PriceRange          [2]float64 `json:"price_range"`
	FavoriteCuisines    []string   `json:"favorite_cuisines"`
	DislikedIngredients []string   `json:"disliked_ingredients"`
	SpicePreference     int        `json:"spice_preference"`
	PreferredMealTypes  []string   `json:"preferred_meal_types"`
	GeneralDislikes     string     `json:"general_dislikes,omitempty"`
}

// ProfileUpdate 偏好的部分更新，nil 欄位表示保留原值
type ProfileUpdate struct {
	DietaryRestrictions *[]string   `json:"dietary_restrictions,omitempty"`
	Allergies           *[]string   `json:"allergies,omitempty"`
	PriceRange          *[2]float64 `json:"price_range,omitempty"`
	FavoriteCuisines    *[]string   `json:"favorite_cuisines,omitempty"`
	DislikedIngredients *[]string   `json:"disliked_ingredients,omitempty"`
	SpicePreference     *int        `json:"spice_preference,omitempty"`
	PreferredMealTypes  *[]string   `json:"preferred_meal_types,omitempty"`
	GeneralDislikes     *string     `json:"general_dislikes,omitempty"`
}

// WireProfile 傳送給遠端助理服務的偏好格式
// 限制標籤一律小寫並以底線連接，自由文字轉為至多一個元素的列表
type WireProfile struct {
	DietaryRestrictions []string   `json:"dietary_restrictions"`
	Allergies           []string   `json:"allergies"`
	PriceRange          [2]float64 `json:"price_range"`
	FavoriteCuisines    []string   `json:"favorite_cuisines"`
	DislikedIngredients []string   `json:"disliked_ingredients"`
	SpicePreference     int        `json:"spice_preference"`
	PreferredMealTypes  []string   `json:"preferred_meal_types"`
	Dislikes            []string   `json:"dislikes"`
}

// DefaultProfile 回傳基準偏好
// 預設價格上限與最大辣度讓空偏好除價格上限外不排除任何項目
func DefaultProfile() PreferenceProfile {
	return PreferenceProfile{
		PriceRange:      [2]float64{0, 100},
		SpicePreference: SpiceLevelMax,
	}
}

// RankedItem 附帶相容性分數的菜單項目
type RankedItem struct {
	Item              MenuItem `json:"item"`
	Score             int      `json:"score"`
	HighCompatibility bool     `json:"high_compatibility"`
}
