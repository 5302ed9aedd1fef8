package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"dining-assistant/internal/core/assistant"
	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Exchange 隊列中的一次訊息交換
type Exchange struct {
	Context context.Context
	Request *assistant.MessageRequest
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *assistant.MessageResponse
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	FailedCount    int `json:"failed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 出站訊息隊列管理器
type Manager struct {
	config    *config.Config
	provider  assistant.Provider
	queue     chan *Exchange
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	processed int64
	failed    int64
}

// NewManager 創建新的隊列管理器並啟動工作者
func NewManager(cfg *config.Config, provider assistant.Provider) *Manager {
	m := &Manager{
		config:   cfg,
		provider: provider,
		queue:    make(chan *Exchange, cfg.Queue.MaxSize),
		done:     make(chan struct{}),
	}

	for i := 0; i < cfg.Queue.Workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}

	return m
}

// Enqueue 將訊息交換加入隊列
func (m *Manager) Enqueue(ctx context.Context, req *assistant.MessageRequest) (chan Result, error) {
	select {
	case <-m.done:
		return nil, common.NewError(common.ErrCodeInternalError, "queue manager is closed", 503, nil)
	default:
	}

	// 檢查隊列容量
	if len(m.queue) >= m.config.Queue.MaxSize {
		return nil, common.ErrQueueFull
	}

	exchange := &Exchange{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- exchange:
		common.LogDebug("Exchange enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.Queue.MaxSize),
		)
		return exchange.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, common.NewError(common.ErrCodeInternalError, "queue manager is closed", 503, nil)
	}
}

// worker 由隊列取出交換並呼叫提供者
func (m *Manager) worker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.done:
			return
		case exchange := <-m.queue:
			if exchange == nil {
				return
			}
			m.process(exchange)
		}
	}
}

func (m *Manager) process(exchange *Exchange) {
	resp, err := m.provider.SendMessage(exchange.Context, exchange.Request)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
		common.LogWarn("Exchange failed",
			zap.String("session_id", exchange.Request.SessionID),
			zap.Error(err),
		)
	} else {
		atomic.AddInt64(&m.processed, 1)
	}

	// Result 帶緩衝，送出不會阻塞工作者
	exchange.Result <- Result{Response: resp, Error: err}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		FailedCount:    int(atomic.LoadInt64(&m.failed)),
		MaxQueueSize:   m.config.Queue.MaxSize,
		Workers:        m.config.Queue.Workers,
	}
}

// Close 關閉隊列管理器並等待工作者結束
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
