package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"dining-assistant/internal/core/catalog/cache"
	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 菜單目錄服務
// 持有目前的目錄快照；載入成功時整批替換，項目本身不可變
type Service struct {
	config *config.Config
	source Source
	cache  *cache.Service

	mu         sync.RWMutex
	items      []common.MenuItem
	generation uint64
	dropped    int
	loadedAt   time.Time
}

// NewService 創建目錄服務
// source 與 payloadCache 允許為 nil（目錄為空、緩存停用）
func NewService(cfg *config.Config, source Source, payloadCache *cache.Service) *Service {
	return &Service{
		config: cfg,
		source: source,
		cache:  payloadCache,
		items:  []common.MenuItem{},
	}
}

// Load 載入目錄（酬載緩存可用時優先讀取緩存）
func (s *Service) Load(ctx context.Context) error {
	return s.load(ctx, false)
}

// Reload 強制重新抓取目錄並更新酬載緩存
func (s *Service) Reload(ctx context.Context) error {
	return s.load(ctx, true)
}

func (s *Service) load(ctx context.Context, bypassCache bool) error {
	if s.source == nil {
		common.LogWarn("未設定目錄來源，目錄維持為空")
		return nil
	}

	start := time.Now()
	payload, fromCache, err := s.fetchPayload(ctx, bypassCache)
	if err != nil {
		common.LogCatalogLoad(s.source.Name(), 0, 0, time.Since(start), err)
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	records, err := DecodePayload(payload)
	if err != nil {
		// 無法解析的酬載視為空目錄，不中斷服務
		common.LogCatalogLoad(s.source.Name(), 0, 0, time.Since(start), err)
		s.replace([]common.MenuItem{}, 0)
		return nil
	}

	items := make([]common.MenuItem, 0, len(records))
	dropped := 0
	for i, record := range records {
		item, err := Normalize(record)
		if err != nil {
			dropped++
			common.LogWarn("捨棄無效的菜單紀錄",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}

	s.replace(items, dropped)
	common.LogCatalogLoad(s.source.Name(), len(items), dropped, time.Since(start), nil)

	if !fromCache && s.cache != nil && s.cache.Enabled() {
		if err := s.cache.Set(ctx, s.source.Name(), payload); err != nil {
			common.LogWarn("寫入目錄酬載緩存失敗", zap.Error(err))
		}
	}

	return nil
}

func (s *Service) fetchPayload(ctx context.Context, bypassCache bool) ([]byte, bool, error) {
	if !bypassCache && s.cache != nil && s.cache.Enabled() {
		payload, err := s.cache.Get(ctx, s.source.Name())
		if err == nil {
			common.LogCacheHit("catalog", s.source.Name())
			return payload, true, nil
		}
		common.LogCacheMiss("catalog", s.source.Name())
	}

	payload, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, false, err
	}
	return payload, false, nil
}

func (s *Service) replace(items []common.MenuItem, dropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.dropped = dropped
	s.generation++
	s.loadedAt = time.Now()
}

// Items 目前的目錄快照
// 項目不可變，呼叫端僅得讀取
func (s *Service) Items() []common.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Get 依識別碼取得單一項目
func (s *Service) Get(id string) (common.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return common.MenuItem{}, common.ErrItemNotFound
}

// Generation 目錄世代，每次成功載入遞增
func (s *Service) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Stats 目錄統計資訊
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"items":      len(s.items),
		"dropped":    s.dropped,
		"generation": s.generation,
		"loaded_at":  s.loadedAt,
	}
}

// Cuisines 目前目錄中的料理種類（不分大小寫去重、排序）
func (s *Service) Cuisines() []string {
	return s.distinct(func(item common.MenuItem) []string {
		if item.Cuisine == "" {
			return nil
		}
		return []string{item.Cuisine}
	})
}

// MealTypes 目前目錄中的餐別
func (s *Service) MealTypes() []string {
	return s.distinct(func(item common.MenuItem) []string {
		if item.MealType == "" {
			return nil
		}
		return []string{item.MealType}
	})
}

// DietaryTags 目前目錄中的飲食標籤
func (s *Service) DietaryTags() []string {
	return s.distinct(func(item common.MenuItem) []string {
		return item.DietaryTags
	})
}

// Allergens 目前目錄中出現過的過敏原
func (s *Service) Allergens() []string {
	return s.distinct(func(item common.MenuItem) []string {
		return item.Allergens
	})
}

func (s *Service) distinct(extract func(common.MenuItem) []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]string)
	for _, item := range s.items {
		for _, value := range extract(item) {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			key := strings.ToLower(value)
			if _, ok := seen[key]; !ok {
				seen[key] = value
			}
		}
	}

	out := make([]string, 0, len(seen))
	for _, value := range seen {
		out = append(out, value)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
