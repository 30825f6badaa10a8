package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CronusSR/Autosort-tovar/internal/calculator"
	"github.com/CronusSR/Autosort-tovar/internal/model"
)

// ErrSessionNotFound сессия не найдена либо истекла
var ErrSessionNotFound = errors.New("сессия не найдена")

// Session состояние одной рабочей сессии: загруженные данные,
// параметры расчета и последний результат
type Session struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"createdAt"`
	Params    calculator.Params   `json:"params"`
	Dataset   *model.Dataset      `json:"-"`
	Report    *model.ImportReport `json:"report,omitempty"`
	Bundle    *model.Bundle       `json:"-"`
}

// MemoryStore потокобезопасное хранилище сессий в памяти
type MemoryStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewMemoryStore создает хранилище сессий
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// CreateSession создает сессию с указанными параметрами расчета
func (s *MemoryStore) CreateSession(params calculator.Params) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Params:    params,
	}
	s.sessions[session.ID] = session
	return session
}

// GetSession возвращает сессию по id
func (s *MemoryStore) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// UpdateSession применяет изменение к сессии под блокировкой записи
func (s *MemoryStore) UpdateSession(id string, apply func(*Session)) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	apply(session)
	return session, nil
}

// DeleteSession удаляет сессию; отсутствие не считается ошибкой
func (s *MemoryStore) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// ListSessions все сессии без определенного порядка
func (s *MemoryStore) ListSessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}
