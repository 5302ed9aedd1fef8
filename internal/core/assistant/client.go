package assistant

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client 遠端助理服務的 HTTP 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建遠端助理客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Assistant.BaseURL).
		SetTimeout(cfg.Assistant.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.Assistant.APIKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Assistant.APIKey))
	}

	return &Client{
		config: cfg,
		client: client,
	}
}

// StartSession 呼叫遠端服務開啟會話
func (c *Client) StartSession(ctx context.Context, req *StartRequest) (*StartResponse, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/start")
	if err != nil {
		common.LogAssistantCall("start_session", time.Since(start), err, "")
		return nil, fmt.Errorf("failed to start assistant session: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("assistant service returned status %d", resp.StatusCode())
		common.LogAssistantCall("start_session", time.Since(start), err, "")
		return nil, err
	}

	var result StartResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogAssistantCall("start_session", time.Since(start), err, "")
		return nil, fmt.Errorf("failed to parse assistant response: %w", err)
	}

	if result.SessionID == "" {
		err := fmt.Errorf("assistant response missing session id")
		common.LogAssistantCall("start_session", time.Since(start), err, "")
		return nil, err
	}

	common.LogAssistantCall("start_session", time.Since(start), nil, "")
	return &result, nil
}

// SendMessage 呼叫遠端服務送出訊息
func (c *Client) SendMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/message")
	if err != nil {
		common.LogAssistantCall("send_message", time.Since(start), err, "")
		return nil, fmt.Errorf("failed to send assistant message: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("assistant service returned status %d", resp.StatusCode())
		common.LogAssistantCall("send_message", time.Since(start), err, "")
		return nil, err
	}

	var result MessageResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogAssistantCall("send_message", time.Since(start), err, "")
		return nil, fmt.Errorf("failed to parse assistant response: %w", err)
	}

	if result.Message == "" {
		err := fmt.Errorf("assistant response missing message")
		common.LogAssistantCall("send_message", time.Since(start), err, "")
		return nil, err
	}

	common.LogAssistantCall("send_message", time.Since(start), nil, "")
	return &result, nil
}

// Name 取得提供者名稱
func (c *Client) Name() string {
	return "remote"
}

// GetTimeout 取得超時設置
func (c *Client) GetTimeout() time.Duration {
	return c.config.Assistant.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	return nil
}
