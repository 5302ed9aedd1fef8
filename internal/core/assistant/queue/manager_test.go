package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dining-assistant/internal/core/assistant"
	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"
)

type stubProvider struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []assistant.MessageRequest
}

func (p *stubProvider) StartSession(ctx context.Context, req *assistant.StartRequest) (*assistant.StartResponse, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProvider) SendMessage(ctx context.Context, req *assistant.MessageRequest) (*assistant.MessageResponse, error) {
	p.mu.Lock()
	p.calls = append(p.calls, *req)
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return &assistant.MessageResponse{SessionID: req.SessionID, Message: p.reply}, nil
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GetTimeout() time.Duration { return time.Second }

func (p *stubProvider) Close() error { return nil }

func (p *stubProvider) recorded() []assistant.MessageRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]assistant.MessageRequest, len(p.calls))
	copy(out, p.calls)
	return out
}

// blockingProvider 讓測試能把工作者卡在處理中
type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingProvider) StartSession(ctx context.Context, req *assistant.StartRequest) (*assistant.StartResponse, error) {
	return nil, errors.New("not implemented")
}

func (p *blockingProvider) SendMessage(ctx context.Context, req *assistant.MessageRequest) (*assistant.MessageResponse, error) {
	p.entered <- struct{}{}
	<-p.release
	return &assistant.MessageResponse{Message: "ok"}, nil
}

func (p *blockingProvider) Name() string { return "blocking" }

func (p *blockingProvider) GetTimeout() time.Duration { return time.Second }

func (p *blockingProvider) Close() error { return nil }

func queueConfig(workers, maxSize int) *config.Config {
	return &config.Config{Queue: config.QueueConfig{Workers: workers, MaxSize: maxSize}}
}

func awaitResult(t *testing.T, ch chan Result) Result {
	t.Helper()
	select {
	case result := <-ch:
		return result
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queue result")
		return Result{}
	}
}

func TestEnqueueDeliversResult(t *testing.T) {
	provider := &stubProvider{reply: "hello there"}
	m := NewManager(queueConfig(1, 4), provider)
	t.Cleanup(m.Close)

	ch, err := m.Enqueue(context.Background(), &assistant.MessageRequest{SessionID: "s1", Message: "hi"})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	result := awaitResult(t, ch)
	if result.Error != nil {
		t.Fatalf("result error = %v", result.Error)
	}
	if result.Response.Message != "hello there" {
		t.Errorf("result message = %q, want %q", result.Response.Message, "hello there")
	}

	status := m.GetQueueStatus()
	if status.ProcessedCount != 1 || status.FailedCount != 0 {
		t.Errorf("status = %+v, want 1 processed", status)
	}
}

func TestEnqueueProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream down")}
	m := NewManager(queueConfig(1, 4), provider)
	t.Cleanup(m.Close)

	ch, err := m.Enqueue(context.Background(), &assistant.MessageRequest{SessionID: "s1", Message: "hi"})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	result := awaitResult(t, ch)
	if result.Error == nil {
		t.Fatal("result error = nil, want provider failure")
	}

	status := m.GetQueueStatus()
	if status.FailedCount != 1 || status.ProcessedCount != 0 {
		t.Errorf("status = %+v, want 1 failed", status)
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	provider := &blockingProvider{
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	m := NewManager(queueConfig(1, 1), provider)

	var releaseOnce sync.Once
	releaseAll := func() { releaseOnce.Do(func() { close(provider.release) }) }
	t.Cleanup(m.Close)
	t.Cleanup(releaseAll)

	ctx := context.Background()
	req := &assistant.MessageRequest{SessionID: "s1", Message: "hi"}

	// 第一筆被工作者取走並卡住
	first, err := m.Enqueue(ctx, req)
	if err != nil {
		t.Fatalf("Enqueue(first) error = %v", err)
	}
	select {
	case <-provider.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the first exchange")
	}

	// 第二筆佔滿隊列緩衝
	second, err := m.Enqueue(ctx, req)
	if err != nil {
		t.Fatalf("Enqueue(second) error = %v", err)
	}

	if _, err := m.Enqueue(ctx, req); !errors.Is(err, common.ErrQueueFull) {
		t.Errorf("Enqueue(third) error = %v, want ErrQueueFull", err)
	}

	releaseAll()
	awaitResult(t, first)
	awaitResult(t, second)
}

func TestEnqueueAfterClose(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	m := NewManager(queueConfig(1, 4), provider)
	m.Close()

	_, err := m.Enqueue(context.Background(), &assistant.MessageRequest{SessionID: "s1", Message: "hi"})
	if err == nil {
		t.Fatal("Enqueue() after Close error = nil, want error")
	}

	var custom *common.CustomError
	if !errors.As(err, &custom) {
		t.Fatalf("Enqueue() error = %T, want *common.CustomError", err)
	}
	if custom.Message != "queue manager is closed" {
		t.Errorf("error message = %q", custom.Message)
	}
}

// deadlineProvider 等待請求情境到期，驗證取消會傳遞到提供者
type deadlineProvider struct{}

func (deadlineProvider) StartSession(ctx context.Context, req *assistant.StartRequest) (*assistant.StartResponse, error) {
	return nil, errors.New("not implemented")
}

func (deadlineProvider) SendMessage(ctx context.Context, req *assistant.MessageRequest) (*assistant.MessageResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (deadlineProvider) Name() string { return "deadline" }

func (deadlineProvider) GetTimeout() time.Duration { return time.Second }

func (deadlineProvider) Close() error { return nil }

func TestExchangeContextPropagates(t *testing.T) {
	m := NewManager(queueConfig(1, 4), deadlineProvider{})
	t.Cleanup(m.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ch, err := m.Enqueue(ctx, &assistant.MessageRequest{SessionID: "s1", Message: "hi"})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	result := awaitResult(t, ch)
	if !errors.Is(result.Error, context.DeadlineExceeded) {
		t.Errorf("result error = %v, want deadline exceeded", result.Error)
	}

	status := m.GetQueueStatus()
	if status.FailedCount != 1 {
		t.Errorf("FailedCount = %d, want 1", status.FailedCount)
	}
}

func TestSingleWorkerPreservesOrder(t *testing.T) {
	provider := &stubProvider{reply: "ack"}
	m := NewManager(queueConfig(1, 8), provider)
	t.Cleanup(m.Close)

	messages := []string{"first", "second", "third"}
	channels := make([]chan Result, 0, len(messages))
	for _, msg := range messages {
		ch, err := m.Enqueue(context.Background(), &assistant.MessageRequest{SessionID: "s1", Message: msg})
		if err != nil {
			t.Fatalf("Enqueue(%s) error = %v", msg, err)
		}
		channels = append(channels, ch)
	}
	for _, ch := range channels {
		awaitResult(t, ch)
	}

	calls := provider.recorded()
	if len(calls) != len(messages) {
		t.Fatalf("provider saw %d calls, want %d", len(calls), len(messages))
	}
	for i, msg := range messages {
		if calls[i].Message != msg {
			t.Errorf("calls[%d].Message = %q, want %q", i, calls[i].Message, msg)
		}
	}
}
