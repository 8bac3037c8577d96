package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
)

type formToken struct {
	form    string
	expires time.Time
}

type memoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]formToken
	now    func() time.Time
}

// NewMemoryTokenRepository bir martalik forma tokenlari (xotirada)
func NewMemoryTokenRepository() repository.TokenRepository {
	return &memoryTokenRepository{
		tokens: make(map[string]formToken),
		now:    time.Now,
	}
}

func (m *memoryTokenRepository) Issue(_ context.Context, form string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	// eskirganlarini shu yerda tozalaymiz
	for k, t := range m.tokens {
		if now.After(t.expires) {
			delete(m.tokens, k)
		}
	}
	m.tokens[token] = formToken{form: form, expires: now.Add(ttl)}
	return token, nil
}

func (m *memoryTokenRepository) Consume(_ context.Context, form, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[token]
	if !ok || t.form != form {
		return repository.ErrInvalidToken
	}
	delete(m.tokens, token)
	if m.now().After(t.expires) {
		return repository.ErrInvalidToken
	}
	return nil
}
