package masterfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadCSVWithIndexColumn(t *testing.T) {
	f := strings.NewReader(`,Date,Energy (kcal),Burned (kcal)
0,2024-01-09,2100.5,1850
1,2024-01-10, 1980 ,
`)

	table, err := ReadCSV(f)
	require.NoError(t, err)

	expected := Table{
		Header: []string{"Date", "Energy (kcal)", "Burned (kcal)"},
		Records: [][]string{
			{"2024-01-09", "2100.5", "1850"},
			{"2024-01-10", "1980", ""},
		},
	}

	require.Equal(t, expected, *table)
}

func TestReadCSVWithoutIndexColumn(t *testing.T) {
	f := strings.NewReader("activity,date\nMorning Run,2024-01-10\n")

	table, err := ReadCSV(f)
	require.NoError(t, err)
	require.Equal(t, []string{"activity", "date"}, table.Header)
	require.Equal(t, [][]string{{"Morning Run", "2024-01-10"}}, table.Records)
}

func TestWriteCSV(t *testing.T) {
	expected := `,Date,Energy (kcal)
0,2024-01-09,2100.5
1,2024-01-10,
`

	var b strings.Builder
	table := Table{
		Header:  []string{"Date", "Energy (kcal)"},
		Records: [][]string{{"2024-01-09", "2100.5"}, {"2024-01-10", ""}},
	}

	require.NoError(t, WriteCSV(&b, &table))
	require.Equal(t, expected, b.String())
}

func TestCSVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "data", "cronometer_nutrition.csv")
	store := NewCSVStore(file)

	table, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, table.IsEmpty())

	saved := Table{
		Header:  []string{"activity", "date", "calories"},
		Records: [][]string{{"Lunch Ride", "2024-01-11", "612"}, {"Morning Run", "2024-01-10", ""}},
	}

	require.NoError(t, store.Save(ctx, &saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, *loaded)

	entries, err := os.ReadDir(filepath.Dir(file))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file not cleaned up")
}

func TestTableColumn(t *testing.T) {
	table := Table{
		Header:  []string{"Date", "Energy (kcal)"},
		Records: [][]string{{"2024-01-09", "2100"}, {"2024-01-10"}},
	}

	column, err := table.Column("energy(kcal)")
	require.NoError(t, err)
	require.Equal(t, []string{"2100", ""}, column)

	_, err = table.Column("Sodium (mg)")
	require.Error(t, err)
}

func TestTableIndexWithDuplicateColumns(t *testing.T) {
	table := Table{
		Header: []string{"Date", "Energy (kcal)", "energy (kcal)"},
	}

	_, err := table.Index()
	require.Error(t, err)
}

func TestMemoryStoreCopiesTables(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(&Table{Header: []string{"date"}, Records: [][]string{{"2024-01-10"}}})

	table, err := store.Load(ctx)
	require.NoError(t, err)

	table.Records[0][0] = "2099-01-01"

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "2024-01-10", reloaded.Records[0][0])
}

func TestCells(t *testing.T) {
	v, err := ParseFloat(" 1,234.5 ")
	require.NoError(t, err)
	require.Equal(t, 1234.5, *v)

	v, err = ParseFloat("")
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = ParseFloat("NaN")
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = ParseFloat("lots")
	require.Error(t, err)

	require.Equal(t, "", FormatFloat(nil))
	require.Equal(t, "1850", FormatFloat(Float(1850)))
	require.Equal(t, "2.75", FormatFloat(Float(2.75)))
}
