package catalog

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"dining-assistant/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// Source 目錄酬載來源
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// NewSource 依設定選擇來源：遠端 URL 優先，其次本地檔案
// 兩者皆未設定時回傳 nil，目錄維持為空
func NewSource(cfg *config.Config) Source {
	if cfg.Catalog.SourceURL != "" {
		return NewHTTPSource(cfg)
	}
	if cfg.Catalog.SourcePath != "" {
		return NewFileSource(cfg.Catalog.SourcePath)
	}
	return nil
}

// HTTPSource 透過 HTTP 取得目錄酬載
type HTTPSource struct {
	client *resty.Client
	url    string
}

// NewHTTPSource 創建 HTTP 目錄來源
func NewHTTPSource(cfg *config.Config) *HTTPSource {
	client := resty.New().
		SetTimeout(cfg.Catalog.Timeout).
		SetHeader("Accept", "application/json")

	return &HTTPSource{
		client: client,
		url:    cfg.Catalog.SourceURL,
	}
}

// Fetch 取得原始目錄酬載
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.url)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// Name 來源識別，用於日誌與緩存鍵
func (s *HTTPSource) Name() string {
	return s.url
}

// FileSource 從本地 JSON 檔讀取目錄酬載
type FileSource struct {
	path string
}

// NewFileSource 創建本地檔案目錄來源
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch 讀取本地目錄檔案
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return data, nil
}

// Name 來源識別，用於日誌與緩存鍵
func (s *FileSource) Name() string {
	return s.path
}
