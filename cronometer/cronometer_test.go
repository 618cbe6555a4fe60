package cronometer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	start, end time.Time
	err        error
}

func (f *fakeExporter) Login(ctx context.Context, username, password string) error {
	return nil
}

func (f *fakeExporter) DailyNutrition(ctx context.Context, start, end time.Time) ([]byte, error) {
	f.start, f.end = start, end

	return []byte("Date,Energy (kcal),Completed\n"), f.err
}

func (f *fakeExporter) Servings(ctx context.Context, start, end time.Time) ([]byte, error) {
	return []byte("Day,Food Name\n"), nil
}

func (f *fakeExporter) Exercises(ctx context.Context, start, end time.Time) ([]byte, error) {
	return []byte("Day,Exercise,Calories Burned\n"), nil
}

func date(s string) time.Time {
	t, _ := time.ParseInLocation(time.DateOnly, s, time.UTC)

	return t
}

func TestToday(t *testing.T) {
	chicago := time.FixedZone("CST", -6*60*60)
	now := time.Date(2024, time.January, 12, 3, 30, 0, 0, time.UTC)

	require.Equal(t, time.Date(2024, time.January, 11, 0, 0, 0, 0, chicago), Today(now, chicago))
}

func TestWindow(t *testing.T) {
	tests := []struct {
		watermark string
		since     string
		start     string
		ok        bool
	}{
		{"2024-01-09", "", "2024-01-10", true},
		{"2024-01-10", "", "2024-01-11", true},
		{"2024-01-11", "", "2024-01-12", false},
		{"2024-01-12", "", "2024-01-13", false},
		{"2024-01-09", "2023-12-01", "2024-01-10", true},
		{"", "2024-01-01", "2024-01-01", true},
	}

	today := date("2024-01-12")

	for _, test := range tests {
		start, end, ok, err := Window(test.watermark, test.since, today)
		require.NoError(t, err)
		require.Equal(t, date(test.start), start, "watermark %v", test.watermark)
		require.Equal(t, today, end)
		require.Equal(t, test.ok, ok, "watermark %v", test.watermark)
	}
}

func TestWindowWithoutHistory(t *testing.T) {
	_, _, _, err := Window("", "", date("2024-01-12"))
	require.ErrorIs(t, err, ErrNoHistory)

	_, _, _, err = Window("12/01/2024", "", date("2024-01-12"))
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	exporter := fakeExporter{}

	files, err := Export(context.Background(), &exporter, dir, date("2024-01-10"), date("2024-01-12"))
	require.NoError(t, err)

	require.Equal(t, []string{
		filepath.Join(dir, "dailysummary_20240112.csv"),
		filepath.Join(dir, "servings_20240112.csv"),
		filepath.Join(dir, "exercises_20240112.csv"),
	}, files)

	require.Equal(t, date("2024-01-10"), exporter.start)
	require.Equal(t, date("2024-01-12"), exporter.end)

	bytes, err := os.ReadFile(files[0])
	require.NoError(t, err)
	require.Equal(t, "Date,Energy (kcal),Completed\n", string(bytes))
}

func TestExportWithError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	exporter := fakeExporter{err: errors.New("session expired")}

	_, err := Export(context.Background(), &exporter, dir, date("2024-01-10"), date("2024-01-12"))
	require.Error(t, err)

	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}
