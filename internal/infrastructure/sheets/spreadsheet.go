// Package sheets keeps quotes, web orders and catalog requests in a
// spreadsheet. Store implements the keyed upsert and status marker on top of
// a small Spreadsheet client with Google Sheets, XLSX and in-memory backends.
package sheets

import (
	"context"
	"errors"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

// ErrSheetNotFound varaq mavjud emas
var ErrSheetNotFound = errors.New("sheet not found")

// Spreadsheet minimal jadval mijozi. Qator indekslari 1 dan boshlanadi
// (1 = sarlavha qatori).
type Spreadsheet interface {
	SheetExists(ctx context.Context, title string) (bool, error)
	AddSheet(ctx context.Context, title string) error
	// ReadRows returns every row including the header. Trailing empty cells
	// may be trimmed.
	ReadRows(ctx context.Context, title string) ([][]string, error)
	AppendRow(ctx context.Context, title string, row []string) error
	UpdateRow(ctx context.Context, title string, rowIndex int, row []string) error
	SetRowColor(ctx context.Context, title string, rowIndex, width int, color entity.RGB) error
}

// rowRange "A5:BN5" ko'rinishidagi diapazon
func rowRange(rowIndex, width int) (string, error) {
	if width < 1 {
		width = 1
	}
	start, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(width, rowIndex)
	if err != nil {
		return "", err
	}
	return start + ":" + end, nil
}
