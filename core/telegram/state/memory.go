package state

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryManager constructs the in-memory Manager implementation. Sessions
// live for the duration of the process only.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
	}
}

func (m *memoryManager) session(chatID int64) *Session {
	sess, ok := m.sessions[chatID]
	if !ok {
		sess = &Session{State: StateIdle}
		m.sessions[chatID] = sess
	}
	return sess
}

// GetState returns the current FSM state of a chat, or StateIdle if none exists.
func (m *memoryManager) GetState(chatID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[chatID]; ok {
		return sess.State
	}
	return StateIdle
}

// SetState sets the FSM state for the given chat, creating the session if needed.
func (m *memoryManager) SetState(chatID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).State = st
}

// SetService records the selected service category for the chat.
func (m *memoryManager) SetService(chatID int64, service string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).Service = service
}

// Service returns the selected service category for the chat, if any.
func (m *memoryManager) Service(chatID int64) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[chatID]
	if !ok || sess.Service == "" {
		return "", false
	}
	return sess.Service, true
}

// Clear removes the entire session for a chat.
func (m *memoryManager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// InProgress reports whether the chat currently has an active FSM state.
func (m *memoryManager) InProgress(chatID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[chatID]
	return ok && sess.State != StateIdle
}

// ActiveCount returns the number of chats with a flow in progress.
func (m *memoryManager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, sess := range m.sessions {
		if sess.State != StateIdle {
			n++
		}
	}
	return n
}

// ManagerHandler executes the handler registered for the chat's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	return dispatch(m, c)
}
