package gcal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/ulugbekk/beautybot/internal/timeutil"
)

// Таблица ведётся на первом листе с колонками Name | Service | Date.
// Строки сопоставляются по кортежу (имя, услуга, дата) без учёта
// регистра и крайних пробелов - точно так же, как их видит администратор.

const sheetRange = "A:C"

var sheetHeader = []string{"Name", "Service", "Date"}

func (g *Gateway) formatDate(date time.Time) string {
	return timeutil.FormatLocal(date, g.loc)
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return fmt.Sprint(row[idx])
}

func rowMatches(row []interface{}, name, service, dateStr string) bool {
	return len(row) >= 3 &&
		strings.EqualFold(strings.TrimSpace(cellString(row, 0)), strings.TrimSpace(name)) &&
		strings.EqualFold(strings.TrimSpace(cellString(row, 1)), strings.TrimSpace(service)) &&
		strings.TrimSpace(cellString(row, 2)) == dateStr
}

func (g *Gateway) readRows(ctx context.Context) ([][]interface{}, error) {
	var resp *sheets.ValueRange
	err := g.withRetry(ctx, "sheet read", func() error {
		var err error
		resp, err = g.sheets.Spreadsheets.Values.Get(g.spreadsheetID, sheetRange).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return resp.Values, nil
}

// ensureHeader добавляет строку заголовков, если её ещё нет
func (g *Gateway) ensureHeader(ctx context.Context, rows [][]interface{}) error {
	if len(rows) > 0 {
		ok := true
		for i, want := range sheetHeader {
			if cellString(rows[0], i) != want {
				ok = false
				break
			}
		}
		if ok {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					Dimension:  "ROWS",
					StartIndex: 0,
					EndIndex:   1,
				},
			},
		}},
	}

	err := g.withRetry(ctx, "sheet insert header", func() error {
		_, err := g.sheets.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("insert header row: %w", err)
	}

	values := &sheets.ValueRange{Values: [][]interface{}{{"Name", "Service", "Date"}}}
	err = g.withRetry(ctx, "sheet write header", func() error {
		_, err := g.sheets.Spreadsheets.Values.Update(g.spreadsheetID, "A1:C1", values).
			ValueInputOption("RAW").Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	return nil
}

// AddRow добавляет строку, если такой ещё нет
func (g *Gateway) AddRow(ctx context.Context, name, service string, date time.Time) error {
	rows, err := g.readRows(ctx)
	if err != nil {
		return err
	}
	if err := g.ensureHeader(ctx, rows); err != nil {
		return err
	}

	dateStr := g.formatDate(date)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if rowMatches(row, name, service, dateStr) {
			return nil // уже есть
		}
	}

	values := &sheets.ValueRange{
		Values: [][]interface{}{{strings.TrimSpace(name), strings.TrimSpace(service), dateStr}},
	}
	err = g.withRetry(ctx, "sheet append", func() error {
		_, err := g.sheets.Spreadsheets.Values.Append(g.spreadsheetID, sheetRange, values).
			ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("append sheet row: %w", err)
	}

	return nil
}

// UpdateRow находит строку по (имя, услуга, старая дата) и заменяет дату.
// false - строка не найдена.
func (g *Gateway) UpdateRow(ctx context.Context, name, service string, oldDate, newDate time.Time) (bool, error) {
	rows, err := g.readRows(ctx)
	if err != nil {
		return false, err
	}

	oldStr := g.formatDate(oldDate)
	newStr := g.formatDate(newDate)

	for i, row := range rows {
		if !rowMatches(row, name, service, oldStr) {
			continue
		}

		values := &sheets.ValueRange{Values: [][]interface{}{{newStr}}}
		cell := fmt.Sprintf("C%d", i+1)
		err = g.withRetry(ctx, "sheet update", func() error {
			_, err := g.sheets.Spreadsheets.Values.Update(g.spreadsheetID, cell, values).
				ValueInputOption("RAW").Context(ctx).Do()
			return err
		})
		if err != nil {
			return false, fmt.Errorf("update sheet row: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// DeleteRow удаляет строку по (имя, услуга, дата). false - строки нет.
func (g *Gateway) DeleteRow(ctx context.Context, name, service string, date time.Time) (bool, error) {
	rows, err := g.readRows(ctx)
	if err != nil {
		return false, err
	}

	dateStr := g.formatDate(date)

	for i, row := range rows {
		if !rowMatches(row, name, service, dateStr) {
			continue
		}

		sheetID, err := g.firstSheetID(ctx)
		if err != nil {
			return false, err
		}

		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(i),
						EndIndex:   int64(i + 1),
					},
				},
			}},
		}

		err = g.withRetry(ctx, "sheet delete", func() error {
			_, err := g.sheets.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
			return err
		})
		if err != nil {
			return false, fmt.Errorf("delete sheet row: %w", err)
		}
		return true, nil
	}

	return false, nil
}

func (g *Gateway) firstSheetID(ctx context.Context) (int64, error) {
	var meta *sheets.Spreadsheet
	err := g.withRetry(ctx, "sheet metadata", func() error {
		var err error
		meta, err = g.sheets.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return 0, fmt.Errorf("spreadsheet has no sheets")
	}
	return meta.Sheets[0].Properties.SheetId, nil
}
