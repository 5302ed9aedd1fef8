package assistant

import (
	"context"
	"time"
)

// Provider 遠端助理服務介面
type Provider interface {
	// StartSession 開啟新的助理會話
	StartSession(ctx context.Context, req *StartRequest) (*StartResponse, error)
	// SendMessage 在既有會話中送出訊息
	SendMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error)
	// Name 取得提供者名稱
	Name() string
	// GetTimeout 取得超時設置
	GetTimeout() time.Duration
	// Close 關閉提供者
	Close() error
}
