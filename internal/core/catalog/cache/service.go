package cache

import (
	"context"
	"crypto/sha256"
	"fmt"

	"dining-assistant/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// Service 目錄酬載的 Redis 緩存
// 停用或連線失敗時目錄服務會退回直接抓取
type Service struct {
	client *redis.Client
	config *config.RedisConfig
}

// NewService 創建酬載緩存服務
func NewService(cfg *config.RedisConfig) (*Service, error) {
	if !cfg.Enabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get 取得緩存的目錄酬載
func (s *Service) Get(ctx context.Context, source string) ([]byte, error) {
	if !s.config.Enabled || s.client == nil {
		return nil, fmt.Errorf("cache is disabled")
	}

	key := s.generateKey(source)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	return data, nil
}

// Set 寫入目錄酬載緩存
func (s *Service) Set(ctx context.Context, source string, payload []byte) error {
	if !s.config.Enabled || s.client == nil {
		return nil
	}

	key := s.generateKey(source)

	if err := s.client.Set(ctx, key, payload, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Enabled 緩存是否啟用且可用
func (s *Service) Enabled() bool {
	return s.config.Enabled && s.client != nil
}

// Close 關閉 Redis 連線
func (s *Service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// generateKey 以來源識別生成緩存鍵
func (s *Service) generateKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return fmt.Sprintf("catalog:payload:%x", sum[:8])
}
