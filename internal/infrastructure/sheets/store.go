package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/pkg/metrics"
)

// Store keyed records over a Spreadsheet. Writes are serialized per process
// so two upserts of the same key cannot both append.
type Store struct {
	client  Spreadsheet
	metrics *metrics.Recorder

	mu sync.Mutex
}

// NewStore rec may be nil.
func NewStore(client Spreadsheet, rec *metrics.Recorder) *Store {
	return &Store{client: client, metrics: rec}
}

// UpsertResult where the record landed.
type UpsertResult struct {
	Row     int
	Created bool
}

// EnsureSheet creates the sheet with its header, or writes the header into
// an existing sheet whose first row is empty.
func (s *Store) EnsureSheet(ctx context.Context, schema Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.ensure(ctx, schema)
	return err
}

func (s *Store) ensure(ctx context.Context, schema Schema) ([][]string, error) {
	header := schema.Headers()
	exists, err := s.client.SheetExists(ctx, schema.Title)
	if err != nil {
		return nil, fmt.Errorf("check sheet %s: %w", schema.Title, err)
	}
	if !exists {
		if err := s.client.AddSheet(ctx, schema.Title); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", schema.Title, err)
		}
		if err := s.client.UpdateRow(ctx, schema.Title, 1, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", schema.Title, err)
		}
		log.Printf("[sheets] %s varag'i yaratildi", schema.Title)
		return [][]string{header}, nil
	}

	rows, err := s.client.ReadRows(ctx, schema.Title)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", schema.Title, err)
	}
	if len(rows) == 0 || isBlank(rows[0]) {
		if err := s.client.UpdateRow(ctx, schema.Title, 1, header); err != nil {
			return nil, fmt.Errorf("repair header %s: %w", schema.Title, err)
		}
		log.Printf("[sheets] %s sarlavhasi tiklandi", schema.Title)
		if len(rows) == 0 {
			rows = [][]string{header}
		} else {
			rows[0] = header
		}
	} else if isHeaderPrefix(rows[0], header) {
		// eski varaqda yangi ustunlar sarlavhasiz qolmasin
		if err := s.client.UpdateRow(ctx, schema.Title, 1, header); err != nil {
			return nil, fmt.Errorf("extend header %s: %w", schema.Title, err)
		}
		log.Printf("[sheets] %s sarlavhasi %d -> %d ustunga kengaytirildi", schema.Title, len(trimRight(rows[0])), len(header))
		rows[0] = header
	}
	return rows, nil
}

// isHeaderPrefix row is a strictly shorter leading part of header.
func isHeaderPrefix(row, header []string) bool {
	row = trimRight(row)
	if len(row) == 0 || len(row) >= len(header) {
		return false
	}
	for i, v := range row {
		if strings.TrimSpace(v) != header[i] {
			return false
		}
	}
	return true
}

func trimRight(row []string) []string {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return row[:n]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// findRow scans the key column below the header; returns the 1-based row.
func findRow(rows [][]string, keyColumn int, key string) int {
	key = strings.TrimSpace(key)
	if key == "" || keyColumn < 0 {
		return 0
	}
	for i := 1; i < len(rows); i++ {
		if keyColumn < len(rows[i]) && strings.TrimSpace(rows[i][keyColumn]) == key {
			return i + 1
		}
	}
	return 0
}

// Upsert overwrites the row whose key column equals rec.Key, or appends one.
func (s *Store) Upsert(ctx context.Context, schema Schema, rec entity.Record) (UpsertResult, error) {
	if schema.KeyColumn < 0 {
		return UpsertResult{}, fmt.Errorf("sheet %s has no key column", schema.Title)
	}
	if strings.TrimSpace(rec.Key) == "" {
		return UpsertResult{}, fmt.Errorf("upsert %s: empty key", schema.Title)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.upsert(ctx, schema, rec)
	s.metrics.SheetWrite(schema.Title, "upsert", err)
	if err != nil {
		log.Printf("[sheets] upsert %s %s xato: %v", schema.Title, rec.Key, err)
	}
	return res, err
}

func (s *Store) upsert(ctx context.Context, schema Schema, rec entity.Record) (UpsertResult, error) {
	rows, err := s.ensure(ctx, schema)
	if err != nil {
		return UpsertResult{}, err
	}
	values := make(map[string]string, len(rec.Values)+1)
	for k, v := range rec.Values {
		values[k] = v
	}
	values[schema.KeyName()] = rec.Key
	row := schema.Row(values)

	if idx := findRow(rows, schema.KeyColumn, rec.Key); idx > 0 {
		if err := s.client.UpdateRow(ctx, schema.Title, idx, row); err != nil {
			return UpsertResult{}, fmt.Errorf("update %s row %d: %w", schema.Title, idx, err)
		}
		return UpsertResult{Row: idx}, nil
	}
	if err := s.client.AppendRow(ctx, schema.Title, row); err != nil {
		return UpsertResult{}, fmt.Errorf("append %s: %w", schema.Title, err)
	}
	return UpsertResult{Row: len(rows) + 1, Created: true}, nil
}

// Append adds a row unconditionally (append-only sheets).
func (s *Store) Append(ctx context.Context, schema Schema, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.ensure(ctx, schema)
	if err == nil {
		err = s.client.AppendRow(ctx, schema.Title, schema.Row(values))
		if err != nil {
			err = fmt.Errorf("append %s: %w", schema.Title, err)
		}
	}
	s.metrics.SheetWrite(schema.Title, "append", err)
	return err
}

// MarkStatus colors the row of key. Data cells are never touched. found is
// false when the sheet or the key does not exist.
func (s *Store) MarkStatus(ctx context.Context, schema Schema, key string, status entity.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.client.ReadRows(ctx, schema.Title)
	if errors.Is(err, ErrSheetNotFound) {
		return false, nil
	}
	if err != nil {
		s.metrics.SheetWrite(schema.Title, "mark_status", err)
		return false, fmt.Errorf("read %s: %w", schema.Title, err)
	}
	idx := findRow(rows, schema.KeyColumn, key)
	if idx == 0 {
		return false, nil
	}
	err = s.client.SetRowColor(ctx, schema.Title, idx, len(schema.Columns), status.Color())
	s.metrics.SheetWrite(schema.Title, "mark_status", err)
	if err != nil {
		return true, fmt.Errorf("color %s row %d: %w", schema.Title, idx, err)
	}
	return true, nil
}

// Find maps the row of key back to English keys using the sheet's own
// header row, so reordered or legacy columns still resolve.
func (s *Store) Find(ctx context.Context, schema Schema, key string) (entity.Record, bool, error) {
	rows, err := s.client.ReadRows(ctx, schema.Title)
	if errors.Is(err, ErrSheetNotFound) {
		return entity.Record{}, false, nil
	}
	if err != nil {
		return entity.Record{}, false, fmt.Errorf("read %s: %w", schema.Title, err)
	}
	if len(rows) == 0 {
		return entity.Record{}, false, nil
	}

	headerIdx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if _, dup := headerIdx[h]; !dup && h != "" {
			headerIdx[h] = i
		}
	}
	keyCol := schema.KeyColumn
	if keyCol >= 0 && keyCol < len(schema.Columns) {
		if i, ok := headerIdx[schema.Columns[keyCol].Header]; ok {
			keyCol = i
		}
	}
	idx := findRow(rows, keyCol, key)
	if idx == 0 {
		return entity.Record{}, false, nil
	}
	row := rows[idx-1]

	values := make(map[string]string, len(schema.Columns))
	for _, c := range schema.Columns {
		for _, h := range append([]string{c.Header}, c.Aliases...) {
			i, ok := headerIdx[h]
			if !ok || i >= len(row) {
				continue
			}
			if v := row[i]; v != "" {
				values[c.Key] = v
				break
			}
		}
		if _, ok := values[c.Key]; !ok {
			values[c.Key] = ""
		}
	}
	return entity.Record{Key: strings.TrimSpace(key), Values: values}, true, nil
}
