package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/healthsheets/health-sheets/cronometer"
	"github.com/healthsheets/health-sheets/delta"
	"github.com/healthsheets/health-sheets/masterfile"
)

type fakeCronometer struct {
	logins     int
	start, end time.Time
}

func (c *fakeCronometer) Login(ctx context.Context, username, password string) error {
	c.logins++
	return nil
}

func (c *fakeCronometer) DailyNutrition(ctx context.Context, start, end time.Time) ([]byte, error) {
	c.start, c.end = start, end

	return []byte(`Date,Energy (kcal),Protein (g),Carbs (g),Fat (g),Added Sugars (g),Sodium (mg),Completed
2024-01-11,2100,150,200,72,18,2200,true
2024-01-12,900,40,90,30,5,800,false
`), nil
}

func (c *fakeCronometer) Servings(ctx context.Context, start, end time.Time) ([]byte, error) {
	return []byte("Day,Time,Group,Food Name,Amount,Energy (kcal)\n"), nil
}

func (c *fakeCronometer) Exercises(ctx context.Context, start, end time.Time) ([]byte, error) {
	return []byte(`Day,Group,Exercise,Minutes,Calories Burned
2024-01-11,Uncategorized,Running,45,-500
`), nil
}

var noon = time.Date(2024, time.January, 12, 12, 0, 0, 0, time.UTC)

func TestDownloadRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	store := masterfile.NewMemoryStore(nutritionHistory())
	client := fakeCronometer{}

	p := Download{
		Cronometer: &client,
		Email:      "someone@example.org",
		Password:   "secret",
		Downloads:  dir,
		Store:      store,
		Location:   time.UTC,
		Log:        testLogger(t),
		Debug:      true,
	}

	status, err := p.Run(context.Background(), noon)
	require.NoError(t, err)
	require.Equal(t, delta.Updated, status)
	require.Equal(t, 1, client.logins)
	require.Equal(t, time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC), client.start)
	require.Equal(t, time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC), client.end)

	// ... and the nutrition pipeline picks up the downloaded exports
	sink := fakeSink{}
	n := Nutrition{
		Downloads: dir,
		Store:     store,
		Sink:      &sink,
		Log:       testLogger(t),
	}

	status, err = n.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, delta.Updated, status)
	require.Len(t, store.Table.Records, 3)
	require.Equal(t, []string{"2024-01-11", "2100", "2350", "150", "200", "72", "18", "2200"}, store.Table.Records[2])
}

func TestDownloadRunWhenUpToDate(t *testing.T) {
	history := nutritionHistory()
	history.Records = append(history.Records, []string{"2024-01-11", "2000", "1850", "", "", "", "", ""})

	client := fakeCronometer{}
	p := Download{
		Cronometer: &client,
		Email:      "someone@example.org",
		Password:   "secret",
		Downloads:  filepath.Join(t.TempDir(), "downloads"),
		Store:      masterfile.NewMemoryStore(history),
		Location:   time.UTC,
		Log:        testLogger(t),
	}

	status, err := p.Run(context.Background(), noon)
	require.NoError(t, err)
	require.Equal(t, delta.NoNewData, status)
	require.Equal(t, 0, client.logins)
}

func TestDownloadRunWithEmptyMasterfile(t *testing.T) {
	p := Download{
		Cronometer: &fakeCronometer{},
		Email:      "someone@example.org",
		Password:   "secret",
		Downloads:  filepath.Join(t.TempDir(), "downloads"),
		Store:      masterfile.NewMemoryStore(nil),
		Log:        testLogger(t),
	}

	_, err := p.Run(context.Background(), noon)
	require.ErrorIs(t, err, cronometer.ErrNoHistory)

	client := fakeCronometer{}
	p.Cronometer = &client
	p.Since = "2024-01-01"

	status, err := p.Run(context.Background(), noon)
	require.NoError(t, err)
	require.Equal(t, delta.Updated, status)
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), client.start)
}

func TestDownloadRunWithoutCredentials(t *testing.T) {
	client := fakeCronometer{}
	p := Download{
		Cronometer: &client,
		Store:      masterfile.NewMemoryStore(nutritionHistory()),
		Log:        testLogger(t),
	}

	_, err := p.Run(context.Background(), noon)
	require.Error(t, err)
	require.Equal(t, 0, client.logins)
}
