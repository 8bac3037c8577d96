package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
)

// postgresSessionRepository sessiyalarni jarayon qayta ishga tushganda ham saqlaydi
type postgresSessionRepository struct {
	db *sql.DB
}

// NewPostgresSessionRepository creates the table when missing.
func NewPostgresSessionRepository(db *sql.DB) (repository.SessionRepository, error) {
	schema := `
CREATE TABLE IF NOT EXISTS estimate_sessions (
	user_id BIGINT PRIMARY KEY,
	variant TEXT NOT NULL,
	step INTEGER NOT NULL,
	answers JSONB NOT NULL DEFAULT '[]',
	single_sided BOOLEAN NOT NULL DEFAULT FALSE,
	started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create estimate_sessions table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS estimate_sessions_updated_at_idx ON estimate_sessions (updated_at)`); err != nil {
		return nil, fmt.Errorf("create estimate_sessions index: %w", err)
	}
	return &postgresSessionRepository{db: db}, nil
}

func (p *postgresSessionRepository) Get(ctx context.Context, userID int64) (*entity.Session, error) {
	row := p.db.QueryRowContext(ctx, `
	SELECT user_id, variant, step, answers, single_sided, started_at, updated_at
	FROM estimate_sessions WHERE user_id=$1`, userID)

	var (
		s       entity.Session
		variant string
		answers []byte
	)
	err := row.Scan(&s.UserID, &variant, &s.Step, &answers, &s.SingleSided, &s.StartedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", userID, err)
	}
	s.Variant = entity.FlowVariant(variant)
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return nil, fmt.Errorf("decode session %d answers: %w", userID, err)
	}
	return &s, nil
}

func (p *postgresSessionRepository) Save(ctx context.Context, s *entity.Session) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("encode session answers: %w", err)
	}
	if s.Answers == nil {
		answers = []byte("[]")
	}
	started := s.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = p.db.ExecContext(ctx, `
	INSERT INTO estimate_sessions (user_id, variant, step, answers, single_sided, started_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)
	ON CONFLICT (user_id) DO UPDATE SET
		variant=EXCLUDED.variant,
		step=EXCLUDED.step,
		answers=EXCLUDED.answers,
		single_sided=EXCLUDED.single_sided,
		started_at=EXCLUDED.started_at,
		updated_at=EXCLUDED.updated_at
	`, s.UserID, string(s.Variant), int(s.Step), answers, s.SingleSided, started, updated)
	if err != nil {
		return fmt.Errorf("save session %d: %w", s.UserID, err)
	}
	return nil
}

func (p *postgresSessionRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM estimate_sessions WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("delete session %d: %w", userID, err)
	}
	return nil
}

func (p *postgresSessionRepository) DeleteIdle(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM estimate_sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}
