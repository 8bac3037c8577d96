package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

// XLSX jadvalni lokal .xlsx faylda saqlaydi (Google kalitlarisiz ishlash uchun).
// Every write is flushed to disk before returning.
type XLSX struct {
	mu     sync.Mutex
	path   string
	file   *excelize.File
	styles map[int]entity.RGB // style id -> fill color
	fills  map[entity.RGB]int
}

// OpenXLSX opens path, or starts a new workbook when the file does not exist.
func OpenXLSX(path string) (*XLSX, error) {
	var f *excelize.File
	if _, err := os.Stat(path); err == nil {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open xlsx %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
	} else {
		return nil, fmt.Errorf("stat xlsx %s: %w", path, err)
	}
	return &XLSX{
		path:   path,
		file:   f,
		styles: make(map[int]entity.RGB),
		fills:  make(map[entity.RGB]int),
	}, nil
}

// Close faylni yopadi
func (x *XLSX) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.file.Close()
}

func (x *XLSX) exists(title string) bool {
	idx, err := x.file.GetSheetIndex(title)
	return err == nil && idx != -1
}

func (x *XLSX) SheetExists(_ context.Context, title string) (bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.exists(title), nil
}

func (x *XLSX) AddSheet(_ context.Context, title string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, err := x.file.NewSheet(title); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	return x.save()
}

func (x *XLSX) ReadRows(_ context.Context, title string) ([][]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.exists(title) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, title)
	}
	rows, err := x.file.GetRows(title)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", title, err)
	}
	return rows, nil
}

func (x *XLSX) AppendRow(_ context.Context, title string, row []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.exists(title) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, title)
	}
	rows, err := x.file.GetRows(title)
	if err != nil {
		return fmt.Errorf("read %s: %w", title, err)
	}
	if err := x.writeRow(title, len(rows)+1, row); err != nil {
		return err
	}
	return x.save()
}

func (x *XLSX) UpdateRow(_ context.Context, title string, rowIndex int, row []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.exists(title) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, title)
	}
	if err := x.writeRow(title, rowIndex, row); err != nil {
		return err
	}
	return x.save()
}

func (x *XLSX) writeRow(title string, rowIndex int, row []string) error {
	for c, v := range row {
		cell, err := excelize.CoordinatesToCellName(c+1, rowIndex)
		if err != nil {
			return err
		}
		if err := x.file.SetCellStr(title, cell, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", title, cell, err)
		}
	}
	return nil
}

func (x *XLSX) SetRowColor(_ context.Context, title string, rowIndex, width int, color entity.RGB) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.exists(title) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, title)
	}
	style, ok := x.fills[color]
	if !ok {
		var err error
		style, err = x.file.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color.Hex()}},
		})
		if err != nil {
			return fmt.Errorf("new fill style: %w", err)
		}
		x.fills[color] = style
		x.styles[style] = color
	}
	start, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(max(width, 1), rowIndex)
	if err != nil {
		return err
	}
	if err := x.file.SetCellStyle(title, start, end, style); err != nil {
		return fmt.Errorf("color %s!%s:%s: %w", title, start, end, err)
	}
	return x.save()
}

// RowColor reads back a fill set by this process.
func (x *XLSX) RowColor(title string, rowIndex int) (entity.RGB, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return entity.RGB{}, false
	}
	id, err := x.file.GetCellStyle(title, cell)
	if err != nil {
		return entity.RGB{}, false
	}
	c, ok := x.styles[id]
	return c, ok
}

func (x *XLSX) save() error {
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("save xlsx %s: %w", x.path, err)
	}
	return nil
}
