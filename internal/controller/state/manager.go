package state

import "sync"

// Manager управляет состояниями диалогов пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// Get возвращает данные диалога пользователя (пустые, если диалога нет)
func (sm *Manager) Get(telegramID int64) UserData {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if data, exists := sm.states[telegramID]; exists {
		return *data
	}
	return UserData{}
}

// Set сохраняет данные диалога пользователя
func (sm *Manager) Set(telegramID int64, data UserData) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if data.State == StateNone {
		delete(sm.states, telegramID)
		return
	}

	copied := data
	sm.states[telegramID] = &copied
}

// Clear завершает диалог пользователя
func (sm *Manager) Clear(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}
