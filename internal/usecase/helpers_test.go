package usecase

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/sheets"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/storage"
	"github.com/yourusername/print-estimate-bot/internal/presenter"
	"github.com/yourusername/print-estimate-bot/internal/pricing"
	"github.com/yourusername/print-estimate-bot/pkg/logger"
)

func init() {
	logger.SetOutput(io.Discard, io.Discard)
}

type stubMessenger struct {
	mu   sync.Mutex
	sent map[int64][]entity.Reply
	err  error
}

func (s *stubMessenger) Send(_ context.Context, userID int64, r entity.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.sent == nil {
		s.sent = make(map[int64][]entity.Reply)
	}
	s.sent[userID] = append(s.sent[userID], r)
	return nil
}

type stubAssistant struct {
	resp   string
	err    error
	called int
}

func (s *stubAssistant) Answer(_ context.Context, _ int64, _ string) (string, error) {
	s.called++
	return s.resp, s.err
}

type testEnv struct {
	sheet     *sheets.Memory
	store     *sheets.Store
	sessions  repository.SessionRepository
	tokens    repository.TokenRepository
	engine    *pricing.Engine
	view      *presenter.Builder
	quotes    *QuoteUseCase
	messenger *stubMessenger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	engine, err := pricing.NewDefaultEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	env := &testEnv{
		sheet:     sheets.NewMemory(),
		sessions:  storage.NewMemorySessionRepository(),
		tokens:    storage.NewMemoryTokenRepository(),
		engine:    engine,
		view:      presenter.New("https://assets.example.com", "https://bot.example.com"),
		messenger: &stubMessenger{},
	}
	env.store = sheets.NewStore(env.sheet, nil)
	env.quotes = NewQuoteUseCase(env.store, env.tokens, engine, env.view, env.messenger, nil, 0)
	return env
}

func (e *testEnv) flow(variant entity.FlowVariant) *EstimateFlow {
	return NewEstimateFlow(variant, e.sessions, e.engine, e.quotes, e.view, nil)
}

func (e *testEnv) rows(t *testing.T, title string) [][]string {
	t.Helper()
	rows, err := e.sheet.ReadRows(context.Background(), title)
	if err != nil {
		t.Fatalf("read %s: %v", title, err)
	}
	return rows
}

// column returns the 0-based index of key in schema.
func column(t *testing.T, schema sheets.Schema, key string) int {
	t.Helper()
	for i, c := range schema.Columns {
		if c.Key == key {
			return i
		}
	}
	t.Fatalf("no column %s in %s", key, schema.Title)
	return -1
}
