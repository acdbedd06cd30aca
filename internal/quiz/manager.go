package quiz

import "sync"

// Manager 活跃会话表，每个用户同一时刻至多一个进行中的会话。
// 替换旧会话时先 Dispose，避免被替换会话的计时器继续走。
type Manager struct {
	mu       sync.RWMutex
	sessions map[uint]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uint]*Session)}
}

// Put 登记用户的新会话，已有会话被废弃
func (m *Manager) Put(userID uint, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.sessions[userID]; ok {
		old.Dispose()
	}
	m.sessions[userID] = s
}

// Get 取用户当前会话
func (m *Manager) Get(userID uint) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Remove 废弃并移除用户会话，不存在时是空操作
func (m *Manager) Remove(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		s.Dispose()
		delete(m.sessions, userID)
	}
}

// Count 活跃会话数，暴露给监控
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
