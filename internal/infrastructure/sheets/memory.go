package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

// Memory in-process spreadsheet for tests and local runs without credentials.
type Memory struct {
	mu     sync.Mutex
	sheets map[string][][]string
	colors map[string]map[int]entity.RGB
	// FailWith, if set, is returned by every write.
	FailWith error
}

func NewMemory() *Memory {
	return &Memory{
		sheets: make(map[string][][]string),
		colors: make(map[string]map[int]entity.RGB),
	}
}

func (m *Memory) SheetExists(_ context.Context, title string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sheets[title]
	return ok, nil
}

func (m *Memory) AddSheet(_ context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.sheets[title]; ok {
		return fmt.Errorf("sheet %q already exists", title)
	}
	m.sheets[title] = [][]string{}
	m.colors[title] = make(map[int]entity.RGB)
	return nil
}

func (m *Memory) ReadRows(_ context.Context, title string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[title]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, title)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *Memory) AppendRow(_ context.Context, title string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	rows, ok := m.sheets[title]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, title)
	}
	m.sheets[title] = append(rows, append([]string(nil), row...))
	return nil
}

func (m *Memory) UpdateRow(_ context.Context, title string, rowIndex int, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	rows, ok := m.sheets[title]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, title)
	}
	if rowIndex < 1 {
		return fmt.Errorf("row index %d out of range", rowIndex)
	}
	for len(rows) < rowIndex {
		rows = append(rows, []string{})
	}
	rows[rowIndex-1] = append([]string(nil), row...)
	m.sheets[title] = rows
	return nil
}

func (m *Memory) SetRowColor(_ context.Context, title string, rowIndex, _ int, color entity.RGB) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	colors, ok := m.colors[title]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, title)
	}
	colors[rowIndex] = color
	return nil
}

// RowColor returns the background set on a row, if any.
func (m *Memory) RowColor(title string, rowIndex int) (entity.RGB, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.colors[title][rowIndex]
	return c, ok
}
