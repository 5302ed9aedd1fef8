package menu

import (
	"sort"
	"strings"

	"dining-assistant/internal/core/catalog"
	menucache "dining-assistant/internal/core/menu/cache"
	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// 查詢未指定數量時的預設回傳上限
const defaultQueryLimit = 5

// Service 菜單查詢服務
// 所有查詢都建立在目前的目錄快照上，對快照而言是純函數
type Service struct {
	config  *config.Config
	catalog *catalog.Service
	cache   *menucache.Manager
}

// NewService 創建菜單查詢服務
// resultCache 允許為 nil（停用排序結果緩存）
func NewService(cfg *config.Config, catalogSvc *catalog.Service, resultCache *menucache.Manager) *Service {
	return &Service{
		config:  cfg,
		catalog: catalogSvc,
		cache:   resultCache,
	}
}

// Browse 過濾並排序整份目錄
// 先施加硬性排除，再為存活項目計分；
// 呈現順序為分數由高至低，同分維持目錄順序
func (s *Service) Browse(profile common.PreferenceProfile) []common.RankedItem {
	generation := s.catalog.Generation()
	profileKey, keyErr := common.ToJSON(profile)

	if keyErr == nil && s.cache != nil {
		if ranked, ok := s.cache.Get(generation, profileKey); ok {
			common.LogCacheHit("menu", profileKey)
			return ranked
		}
		common.LogCacheMiss("menu", profileKey)
	}

	survivors := Filter(s.catalog.Items(), profile)
	ranked := make([]common.RankedItem, 0, len(survivors))
	for _, item := range survivors {
		score := Score(item, profile)
		ranked = append(ranked, common.RankedItem{
			Item:              item,
			Score:             score,
			HighCompatibility: HighCompatibility(score),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if keyErr == nil && s.cache != nil {
		if err := s.cache.Set(generation, profileKey, ranked); err != nil {
			common.LogWarn("寫入排序結果緩存失敗", zap.Error(err))
		}
	}

	return ranked
}

// Recommend 回傳排序後的前 limit 筆
func (s *Service) Recommend(profile common.PreferenceProfile, limit int) []common.RankedItem {
	ranked := s.Browse(profile)
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// ListItems 目錄瀏覽，可依餐別與料理做等值縮小
func (s *Service) ListItems(mealType, cuisine string) []common.MenuItem {
	items := s.catalog.Items()
	if mealType == "" && cuisine == "" {
		return items
	}
	out := make([]common.MenuItem, 0, len(items))
	for _, item := range items {
		if mealType != "" && !strings.EqualFold(item.MealType, mealType) {
			continue
		}
		if cuisine != "" && !strings.EqualFold(item.Cuisine, cuisine) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Search 對名稱、描述與食材做不分大小寫的子字串搜尋
// profile 非 nil 時先套用硬性過濾
func (s *Service) Search(query string, profile *common.PreferenceProfile) []common.MenuItem {
	items := s.catalog.Items()
	if profile != nil {
		items = Filter(items, *profile)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	out := make([]common.MenuItem, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Description), query) ||
			ingredientContains(item.Ingredients, query) {
			out = append(out, item)
		}
	}
	return out
}

// Popular 依人氣分數由高至低回傳前 limit 筆
func (s *Service) Popular(limit int) []common.MenuItem {
	items := s.catalog.Items()
	out := make([]common.MenuItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PopularityScore > out[j].PopularityScore
	})

	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > len(out) {
		limit = len(out)
	}
	return out[:limit]
}

// Similar 回傳與指定項目同料理或共享飲食標籤的項目（目錄順序）
func (s *Service) Similar(id string, limit int) ([]common.MenuItem, error) {
	anchor, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	out := make([]common.MenuItem, 0, limit)
	for _, item := range s.catalog.Items() {
		if item.ID == anchor.ID {
			continue
		}
		sameCuisine := anchor.Cuisine != "" && strings.EqualFold(item.Cuisine, anchor.Cuisine)
		if sameCuisine || intersectsFold(item.DietaryTags, anchor.DietaryTags) {
			out = append(out, item)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// SafetyCheck 對單一項目執行過敏諮詢檢查
func (s *Service) SafetyCheck(id string, allergies []string) (SafetyReport, error) {
	item, err := s.catalog.Get(id)
	if err != nil {
		return SafetyReport{}, err
	}
	return CheckItem(item, allergies), nil
}

// Get 單一項目查詢
func (s *Service) Get(id string) (common.MenuItem, error) {
	return s.catalog.Get(id)
}

// CacheStats 排序結果緩存統計
func (s *Service) CacheStats() map[string]interface{} {
	if s.cache == nil {
		return map[string]interface{}{"enabled": false}
	}
	return s.cache.GetStats()
}

func ingredientContains(ingredients []string, query string) bool {
	for _, ingredient := range ingredients {
		if strings.Contains(strings.ToLower(ingredient), query) {
			return true
		}
	}
	return false
}
