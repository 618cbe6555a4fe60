// Package gsheets publishes masterfiles to a Google Sheets spreadsheet. Each masterfile is
// assigned a worksheet 'slot' (the worksheet position in the spreadsheet) and the worksheet is
// cleared and rewritten in full on every update.
package gsheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/healthsheets/health-sheets/masterfile"
)

// Worksheet slots
const (
	Nutrition  = 0
	Activities = 1
	Servings   = 2 // reserved
)

const SHEETS = sheets.SpreadsheetsScope

type Sink interface {
	Publish(ctx context.Context, slot int, table *masterfile.Table) error
}

type Google struct {
	service     *sheets.Service
	spreadsheet string
}

// Connect creates a Google Sheets sink from a service account (or authorised user) credentials file.
func Connect(ctx context.Context, credentials string, spreadsheet string) (*Google, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, b, SHEETS)
	if err != nil {
		return nil, fmt.Errorf("invalid Google credentials (%w)", err)
	}

	service, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return New(service, spreadsheet), nil
}

func New(service *sheets.Service, spreadsheet string) *Google {
	return &Google{
		service:     service,
		spreadsheet: spreadsheet,
	}
}

// Publish replaces the contents of the worksheet with the table header and records.
func (g *Google) Publish(ctx context.Context, slot int, table *masterfile.Table) error {
	spreadsheet, err := g.getSpreadsheet(ctx)
	if err != nil {
		return err
	}

	sheet, err := getSheet(spreadsheet, slot)
	if err != nil {
		return err
	}

	area := quote(sheet.Properties.Title)

	if err := clear(ctx, g.service, spreadsheet, []string{area}); err != nil {
		return fmt.Errorf("error clearing worksheet '%v' (%w)", sheet.Properties.Title, err)
	}

	values := toValues(table)
	if err := g.resize(ctx, spreadsheet, sheet, values); err != nil {
		return err
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data: []*sheets.ValueRange{
			&sheets.ValueRange{
				Range:  area + "!A1",
				Values: values,
			},
		},
	}

	if _, err := g.service.Spreadsheets.Values.BatchUpdate(spreadsheet.SpreadsheetId, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error updating worksheet '%v' (%w)", sheet.Properties.Title, err)
	}

	return nil
}

// Fetch retrieves the contents of a worksheet as a table.
func (g *Google) Fetch(ctx context.Context, slot int) (*masterfile.Table, error) {
	spreadsheet, err := g.getSpreadsheet(ctx)
	if err != nil {
		return nil, err
	}

	sheet, err := getSheet(spreadsheet, slot)
	if err != nil {
		return nil, err
	}

	response, err := g.service.Spreadsheets.Values.Get(spreadsheet.SpreadsheetId, quote(sheet.Properties.Title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	return MakeTable(response.Values)
}

// resize grows the worksheet grid if the values do not fit. Worksheets are never shrunk.
func (g *Google) resize(ctx context.Context, spreadsheet *sheets.Spreadsheet, sheet *sheets.Sheet, values [][]interface{}) error {
	rows := int64(len(values))
	cols := int64(0)
	for _, row := range values {
		if n := int64(len(row)); n > cols {
			cols = n
		}
	}

	grid := sheet.Properties.GridProperties
	if grid == nil || (grid.RowCount >= rows && grid.ColumnCount >= cols) {
		return nil
	}

	resize := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: sheet.Properties.SheetId,
						GridProperties: &sheets.GridProperties{
							RowCount:    max(rows, grid.RowCount),
							ColumnCount: max(cols, grid.ColumnCount),
						},
					},
					Fields: "gridProperties(rowCount,columnCount)",
				},
			},
		},
	}

	if _, err := g.service.Spreadsheets.BatchUpdate(spreadsheet.SpreadsheetId, &resize).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error resizing worksheet '%v' (%w)", sheet.Properties.Title, err)
	}

	return nil
}

func (g *Google) getSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	spreadsheet, err := g.service.Spreadsheets.Get(g.spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	return spreadsheet, nil
}

func getSheet(spreadsheet *sheets.Spreadsheet, slot int) (*sheets.Sheet, error) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Index == int64(slot) {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("spreadsheet has no worksheet %v", slot)
}

func clear(ctx context.Context, google *sheets.Service, spreadsheet *sheets.Spreadsheet, ranges []string) error {
	rq := sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}

	if _, err := google.Spreadsheets.Values.BatchClear(spreadsheet.SpreadsheetId, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

// SpreadsheetID accepts either a spreadsheet ID or a spreadsheet URL.
func SpreadsheetID(v string) (string, error) {
	v = strings.TrimSpace(v)

	if strings.HasPrefix(v, "https://") {
		match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(v)
		if len(match) < 2 || match[1] == "" {
			return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
		}

		return match[1], nil
	}

	if v == "" {
		return "", fmt.Errorf("missing spreadsheet ID")
	}

	return v, nil
}

func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
