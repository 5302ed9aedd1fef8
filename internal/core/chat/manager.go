package chat

import (
	"context"
	"sync"
	"time"

	"dining-assistant/internal/core/assistant"
	"dining-assistant/internal/core/assistant/queue"
	"dining-assistant/internal/core/menu"
	"dining-assistant/internal/core/preference"
	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Manager 會話管理器，以會話識別碼索引存活中的會話並負責逾時清理
type Manager struct {
	config   *config.Config
	provider assistant.Provider
	queue    *queue.Manager
	demoResp *DemoResponder

	mu            sync.RWMutex
	conversations map[string]*Conversation
	done          chan struct{}
	closeOnce     sync.Once
}

// NewManager 創建會話管理器並啟動逾時清理
func NewManager(cfg *config.Config, provider assistant.Provider, q *queue.Manager, menuService *menu.Service) *Manager {
	m := &Manager{
		config:        cfg,
		provider:      provider,
		queue:         q,
		demoResp:      NewDemoResponder(menuService),
		conversations: make(map[string]*Conversation),
		done:          make(chan struct{}),
	}

	go m.startSweep()

	return m
}

// Start 建立新會話並執行開啟流程，回傳會話快照
func (m *Manager) Start(ctx context.Context, changes *common.ProfileUpdate) (Snapshot, error) {
	m.mu.RLock()
	count := len(m.conversations)
	m.mu.RUnlock()

	if count >= m.config.Session.MaxSessions {
		return Snapshot{}, common.ErrSessionLimitReached
	}

	profile := common.DefaultProfile()
	if changes != nil {
		profile = preference.Update(profile, *changes)
	}

	conv := newConversation(m.config, profile, m.provider, m.queue, m.demoResp)
	snap := conv.Start(ctx)

	m.mu.Lock()
	m.conversations[snap.SessionID] = conv
	m.mu.Unlock()

	common.LogInfo("Chat session started",
		zap.String("session_id", snap.SessionID),
		zap.Bool("demo", snap.Demo),
	)
	return snap, nil
}

// Send 轉送訊息到指定會話，回傳助理回覆與最新快照
func (m *Manager) Send(ctx context.Context, sessionID, text string, changes *common.ProfileUpdate) (Message, Snapshot, error) {
	conv := m.get(sessionID)
	if conv == nil {
		return Message{}, Snapshot{}, common.ErrSessionNotFound
	}

	msg, err := conv.Send(ctx, text, changes)
	if err != nil {
		return Message{}, Snapshot{}, err
	}
	return msg, conv.Snapshot(), nil
}

// History 取得指定會話的快照
func (m *Manager) History(sessionID string) (Snapshot, error) {
	conv := m.get(sessionID)
	if conv == nil {
		return Snapshot{}, common.ErrSessionNotFound
	}
	return conv.Snapshot(), nil
}

// End 結束並移除指定會話
func (m *Manager) End(sessionID string) error {
	m.mu.Lock()
	conv, ok := m.conversations[sessionID]
	if ok {
		delete(m.conversations, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return common.ErrSessionNotFound
	}

	snap := conv.Snapshot()
	common.LogInfo("Chat session ended",
		zap.String("session_id", sessionID),
		zap.Int("message_count", len(snap.Messages)),
		zap.Duration("duration", time.Since(snap.CreatedAt)),
	)
	return nil
}

// Count 取得存活中的會話數
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conversations)
}

// Close 停止逾時清理
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

func (m *Manager) get(sessionID string) *Conversation {
	if sessionID == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conversations[sessionID]
}

func (m *Manager) startSweep() {
	ticker := time.NewTicker(m.config.Session.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep 移除閒置超過 TTL 的會話
func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.config.Session.TTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, conv := range m.conversations {
		if conv.LastActivity().Before(cutoff) {
			delete(m.conversations, id)
			removed++
		}
	}

	if removed > 0 {
		common.LogInfo("Expired chat sessions removed",
			zap.Int("removed", removed),
			zap.Int("remaining", len(m.conversations)),
		)
	}
}
