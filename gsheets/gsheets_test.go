package gsheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/healthsheets/health-sheets/masterfile"
)

const spreadsheetJSON = `{
  "spreadsheetId": "abc123",
  "sheets": [
    {"properties": {"sheetId": 101, "title": "Nutrition", "index": 0, "gridProperties": {"rowCount": 2, "columnCount": 26}}},
    {"properties": {"sheetId": 202, "title": "Bob's Activities", "index": 1, "gridProperties": {"rowCount": 1000, "columnCount": 26}}},
    {"properties": {"sheetId": 303, "title": "Servings", "index": 2, "gridProperties": {"rowCount": 1000, "columnCount": 26}}}
  ]
}`

type fakeSheets struct {
	sync.Mutex
	calls   []string
	cleared []string
	updates []*sheets.BatchUpdateValuesRequest
	resized []*sheets.BatchUpdateSpreadsheetRequest
	values  string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && path == "/v4/spreadsheets/abc123":
		f.calls = append(f.calls, "get")
		fmt.Fprint(w, spreadsheetJSON)

	case r.Method == http.MethodPost && path == "/v4/spreadsheets/abc123/values:batchClear":
		var rq sheets.BatchClearValuesRequest
		json.NewDecoder(r.Body).Decode(&rq)
		f.calls = append(f.calls, "clear")
		f.cleared = append(f.cleared, rq.Ranges...)
		fmt.Fprint(w, `{"spreadsheetId":"abc123"}`)

	case r.Method == http.MethodPost && path == "/v4/spreadsheets/abc123/values:batchUpdate":
		var rq sheets.BatchUpdateValuesRequest
		json.NewDecoder(r.Body).Decode(&rq)
		f.calls = append(f.calls, "update")
		f.updates = append(f.updates, &rq)
		fmt.Fprint(w, `{"spreadsheetId":"abc123"}`)

	case r.Method == http.MethodPost && path == "/v4/spreadsheets/abc123:batchUpdate":
		var rq sheets.BatchUpdateSpreadsheetRequest
		json.NewDecoder(r.Body).Decode(&rq)
		f.calls = append(f.calls, "resize")
		f.resized = append(f.resized, &rq)
		fmt.Fprint(w, `{"spreadsheetId":"abc123"}`)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v4/spreadsheets/abc123/values/"):
		f.calls = append(f.calls, "values")
		fmt.Fprint(w, f.values)

	default:
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	}
}

func setup(t *testing.T, fake *fakeSheets) *Google {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	service, err := sheets.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	return New(service, "abc123")
}

func TestPublish(t *testing.T) {
	fake := fakeSheets{}
	google := setup(t, &fake)

	table := masterfile.Table{
		Header: []string{"activity", "date", "calories"},
		Records: [][]string{
			{"Morning Run", "2024-01-12", "512"},
			{"Lunch Walk", "2024-01-11", ""},
		},
	}

	err := google.Publish(context.Background(), Activities, &table)
	require.NoError(t, err)

	require.Equal(t, []string{"get", "clear", "update"}, fake.calls)
	require.Equal(t, []string{"'Bob''s Activities'"}, fake.cleared)
	require.Len(t, fake.updates, 1)

	rq := fake.updates[0]
	require.Equal(t, "USER_ENTERED", rq.ValueInputOption)
	require.Len(t, rq.Data, 1)
	require.Equal(t, "'Bob''s Activities'!A1", rq.Data[0].Range)

	expected := [][]interface{}{
		{"activity", "date", "calories"},
		{"Morning Run", "2024-01-12", "512"},
		{"Lunch Walk", "2024-01-11", ""},
	}

	assert.Equal(t, expected, rq.Data[0].Values)
}

func TestPublishResizesWorksheet(t *testing.T) {
	fake := fakeSheets{}
	google := setup(t, &fake)

	table := masterfile.Table{
		Header:  []string{"Date", "Energy (kcal)"},
		Records: [][]string{{"2024-01-10", "2100"}, {"2024-01-11", "1980"}},
	}

	require.NoError(t, google.Publish(context.Background(), Nutrition, &table))
	require.Equal(t, []string{"get", "clear", "resize", "update"}, fake.calls)

	rq := fake.resized[0].Requests[0].UpdateSheetProperties
	require.Equal(t, int64(101), rq.Properties.SheetId)
	require.Equal(t, int64(3), rq.Properties.GridProperties.RowCount)
	require.Equal(t, int64(26), rq.Properties.GridProperties.ColumnCount)
}

func TestPublishWithMissingWorksheet(t *testing.T) {
	fake := fakeSheets{}
	google := setup(t, &fake)

	err := google.Publish(context.Background(), 7, &masterfile.Table{Header: []string{"date"}})

	require.Error(t, err)
	require.Equal(t, []string{"get"}, fake.calls)
}

func TestFetch(t *testing.T) {
	fake := fakeSheets{
		values: `{"range":"Nutrition!A1:C4","majorDimension":"ROWS","values":[["Date","Energy (kcal)","Burned (kcal)"],["2024-01-10","2100","1850"],[],["2024-01-11","1980"]]}`,
	}

	google := setup(t, &fake)

	table, err := google.Fetch(context.Background(), Nutrition)
	require.NoError(t, err)

	expected := masterfile.Table{
		Header: []string{"Date", "Energy (kcal)", "Burned (kcal)"},
		Records: [][]string{
			{"2024-01-10", "2100", "1850"},
			{"2024-01-11", "1980", ""},
		},
	}

	require.Equal(t, expected, *table)
}

func TestSpreadsheetID(t *testing.T) {
	tests := map[string]string{
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms":            "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0": "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		" 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms ":                                                 "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
	}

	for v, expected := range tests {
		id, err := SpreadsheetID(v)
		require.NoError(t, err)
		require.Equal(t, expected, id)
	}

	for _, v := range []string{"", "https://example.com/spreadsheets/d/abc"} {
		_, err := SpreadsheetID(v)
		require.Error(t, err, "expected error for %q", v)
	}
}
