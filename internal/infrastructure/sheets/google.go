package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Google Sheets API v4 orqali ishlaydigan jadval
type Google struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewGoogle connects with a service account. credentials is either the JSON
// document itself or a path to it.
func NewGoogle(ctx context.Context, spreadsheetID, credentials string) (*Google, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("SPREADSHEET_KEY bo'sh")
	}
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return nil, fmt.Errorf("GCP_SERVICE_ACCOUNT_JSON bo'sh")
	}
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if strings.HasPrefix(credentials, "{") {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
	} else {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Google{svc: svc, spreadsheetID: spreadsheetID, sheetIDs: make(map[string]int64)}, nil
}

// a1Title quotes a sheet title for A1 notation.
func a1Title(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func (g *Google) refreshSheetIDs(ctx context.Context) error {
	resp, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	ids := make(map[string]int64, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			ids[s.Properties.Title] = s.Properties.SheetId
		}
	}
	g.mu.Lock()
	g.sheetIDs = ids
	g.mu.Unlock()
	return nil
}

func (g *Google) sheetID(ctx context.Context, title string) (int64, error) {
	g.mu.Lock()
	id, ok := g.sheetIDs[title]
	g.mu.Unlock()
	if ok {
		return id, nil
	}
	if err := g.refreshSheetIDs(ctx); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if id, ok := g.sheetIDs[title]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrSheetNotFound, title)
}

func (g *Google) SheetExists(ctx context.Context, title string) (bool, error) {
	if err := g.refreshSheetIDs(ctx); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.sheetIDs[title]
	return ok, nil
}

func (g *Google) AddSheet(ctx context.Context, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title:          title,
					GridProperties: &sheets.GridProperties{RowCount: 2000, ColumnCount: 100},
				},
			},
		}},
	}
	resp, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		g.mu.Lock()
		g.sheetIDs[title] = resp.Replies[0].AddSheet.Properties.SheetId
		g.mu.Unlock()
	}
	return nil
}

func (g *Google) ReadRows(ctx context.Context, title string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, a1Title(title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", title, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		row := make([]string, len(r))
		for j, v := range r {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func toValues(row []string) [][]interface{} {
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	return [][]interface{}{vals}
}

func (g *Google) AppendRow(ctx context.Context, title string, row []string) error {
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, a1Title(title), &sheets.ValueRange{Values: toValues(row)}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", title, err)
	}
	return nil
}

func (g *Google) UpdateRow(ctx context.Context, title string, rowIndex int, row []string) error {
	rng, err := rowRange(rowIndex, len(row))
	if err != nil {
		return err
	}
	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, a1Title(title)+"!"+rng, &sheets.ValueRange{Values: toValues(row)}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s!%s: %w", title, rng, err)
	}
	return nil
}

func (g *Google) SetRowColor(ctx context.Context, title string, rowIndex, width int, color entity.RGB) error {
	id, err := g.sheetID(ctx, title)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          id,
					StartRowIndex:    int64(rowIndex - 1),
					EndRowIndex:      int64(rowIndex),
					StartColumnIndex: 0,
					EndColumnIndex:   int64(max(width, 1)),
					// zero values are dropped from the JSON otherwise
					ForceSendFields: []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{
							Red:             float64(color.R) / 255,
							Green:           float64(color.G) / 255,
							Blue:            float64(color.B) / 255,
							ForceSendFields: []string{"Red", "Green", "Blue"},
						},
					},
				},
				Fields: "userEnteredFormat.backgroundColor",
			},
		}},
	}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("color %s row %d: %w", title, rowIndex, err)
	}
	return nil
}
