package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
)

type postgresTokenRepository struct {
	db *sql.DB
}

// NewPostgresTokenRepository tokenlar bir nechta instansiya orasida bo'lishiladi.
func NewPostgresTokenRepository(db *sql.DB) (repository.TokenRepository, error) {
	schema := `
CREATE TABLE IF NOT EXISTS form_tokens (
	token UUID PRIMARY KEY,
	form TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create form_tokens table: %w", err)
	}
	return &postgresTokenRepository{db: db}, nil
}

func (p *postgresTokenRepository) Issue(ctx context.Context, form string, ttl time.Duration) (string, error) {
	token := uuid.New()
	if _, err := p.db.ExecContext(ctx, `DELETE FROM form_tokens WHERE expires_at < NOW()`); err != nil {
		return "", fmt.Errorf("purge form tokens: %w", err)
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO form_tokens (token, form, expires_at) VALUES ($1,$2,$3)`,
		token.String(), form, time.Now().Add(ttl))
	if err != nil {
		return "", fmt.Errorf("issue form token: %w", err)
	}
	return token.String(), nil
}

// Consume deletes the row in the same statement that checks it, so two
// concurrent submissions cannot both succeed.
func (p *postgresTokenRepository) Consume(ctx context.Context, form, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return repository.ErrInvalidToken
	}
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM form_tokens WHERE token=$1 AND form=$2 AND expires_at >= NOW()`,
		id.String(), form)
	if err != nil {
		return fmt.Errorf("consume form token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume form token: %w", err)
	}
	if n == 0 {
		return repository.ErrInvalidToken
	}
	return nil
}
