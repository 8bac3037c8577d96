package storage

import (
	"log"

	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
)

// Stores sessiya va token omborlari juftligi
type Stores struct {
	Sessions repository.SessionRepository
	Tokens   repository.TokenRepository
	Backend  string
	close    func() error
}

// Close releases the database pool, if any.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewStores DSN berilsa Postgres, aks holda memory. A Postgres failure falls
// back to memory so the bot still answers.
func NewStores(opts PostgresOptions) *Stores {
	memory := &Stores{
		Sessions: NewMemorySessionRepository(),
		Tokens:   NewMemoryTokenRepository(),
		Backend:  "memory",
	}
	if opts.DSN == "" {
		return memory
	}
	db, err := OpenPostgres(opts)
	if err != nil {
		log.Printf("[storage] Postgres ulanmadi, memory ga qaytdi: %v", err)
		return memory
	}
	sessions, err := NewPostgresSessionRepository(db)
	if err != nil {
		log.Printf("[storage] session jadvali yaratilmadi, memory ga qaytdi: %v", err)
		_ = db.Close()
		return memory
	}
	tokens, err := NewPostgresTokenRepository(db)
	if err != nil {
		log.Printf("[storage] token jadvali yaratilmadi, memory ga qaytdi: %v", err)
		_ = db.Close()
		return memory
	}
	return &Stores{Sessions: sessions, Tokens: tokens, Backend: "postgres", close: db.Close}
}
