package storage

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository in-memory sessiya ombori (bitta instansiya uchun)
func NewMemorySessionRepository() repository.SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

func (m *memorySessionRepository) Get(_ context.Context, userID int64) (*entity.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Save stores a copy; later edits by the caller do not leak into the map.
func (m *memorySessionRepository) Save(_ context.Context, session *entity.Session) error {
	cp := session.Clone()
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[cp.UserID] = cp
	return nil
}

func (m *memorySessionRepository) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

func (m *memorySessionRepository) DeleteIdle(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}
