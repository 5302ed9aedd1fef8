package menu

import (
	"net/http"
	"sort"
	"strings"

	menuService "dining-assistant/internal/core/menu"

	"github.com/gin-gonic/gin"
)

// HandleCuisines 處理 GET /menu/cuisines
func (h *Handler) HandleCuisines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cuisines": h.catalogService.Cuisines()})
}

// HandleMealTypes 處理 GET /menu/meal-types
func (h *Handler) HandleMealTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"meal_types": h.catalogService.MealTypes()})
}

// HandleDietaryTags 處理 GET /menu/dietary-tags
func (h *Handler) HandleDietaryTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dietary_tags": h.catalogService.DietaryTags()})
}

// HandleAllergens 處理 GET /menu/allergens
// 合併目錄快照中宣告的過敏原與標準過敏原詞彙
func (h *Handler) HandleAllergens(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"allergens": mergeVocab(h.catalogService.Allergens(), menuService.CanonicalAllergens()),
	})
}

// mergeVocab 合併兩份詞彙表，不分大小寫去重後排序
func mergeVocab(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)
	for _, list := range lists {
		for _, entry := range list {
			key := strings.ToLower(entry)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, entry)
		}
	}
	sort.Slice(merged, func(i, j int) bool {
		return strings.ToLower(merged[i]) < strings.ToLower(merged[j])
	})
	return merged
}
