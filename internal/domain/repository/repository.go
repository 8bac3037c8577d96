package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

var (
	// ErrSessionNotFound foydalanuvchida faol sessiya yo'q
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidToken form token is unknown, expired or already used.
	ErrInvalidToken = errors.New("invalid or used form token")
)

// SessionRepository per-user estimate sessions. Implementations return
// copies, so callers may mutate what Get returns.
type SessionRepository interface {
	Get(ctx context.Context, userID int64) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, userID int64) error
	// DeleteIdle removes sessions not updated since the cutoff and returns
	// how many were removed.
	DeleteIdle(ctx context.Context, cutoff time.Time) (int, error)
}

// TokenRepository single-use form tokens.
type TokenRepository interface {
	Issue(ctx context.Context, form string, ttl time.Duration) (string, error)
	// Consume marks the token used. A second call with the same token
	// returns ErrInvalidToken.
	Consume(ctx context.Context, form, token string) error
}

// Messenger pushes a reply to a user outside the request/response cycle.
type Messenger interface {
	Send(ctx context.Context, userID int64, reply entity.Reply) error
}
