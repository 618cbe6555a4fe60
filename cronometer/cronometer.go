// Package cronometer downloads the Cronometer daily summary, servings and exercises exports for the
// days that are not yet in the nutrition masterfile.
package cronometer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrmycanady/gocronometer"
)

const (
	DailySummary = "dailysummary"
	Servings     = "servings"
	Exercises    = "exercises"

	// TimeZone is the zone used to decide what 'today' is.
	TimeZone = "America/Chicago"
)

var ErrNoHistory = errors.New("no dates in nutrition masterfile")

// Exporter is the subset of the Cronometer web export used by health-sheets. Exports are the
// raw CSV files, exactly as downloaded from Cronometer.
type Exporter interface {
	Login(ctx context.Context, username, password string) error
	DailyNutrition(ctx context.Context, start, end time.Time) ([]byte, error)
	Servings(ctx context.Context, start, end time.Time) ([]byte, error)
	Exercises(ctx context.Context, start, end time.Time) ([]byte, error)
}

// Client is an Exporter backed by the Cronometer web client.
type Client struct {
	client *gocronometer.Client
}

func NewClient() *Client {
	return &Client{
		client: gocronometer.NewClient(nil),
	}
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.client.Login(ctx, username, password)
}

func (c *Client) DailyNutrition(ctx context.Context, start, end time.Time) ([]byte, error) {
	v, err := c.client.ExportDailyNutrition(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return []byte(v), nil
}

func (c *Client) Servings(ctx context.Context, start, end time.Time) ([]byte, error) {
	v, err := c.client.ExportServings(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return []byte(v), nil
}

func (c *Client) Exercises(ctx context.Context, start, end time.Time) ([]byte, error) {
	v, err := c.client.ExportExercises(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return []byte(v), nil
}

// Today returns midnight of the current day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Window returns the export range for a nutrition masterfile with the given watermark: from the day
// after the watermark up to today. An empty masterfile starts from 'since' instead. ok is false if
// the start is not before today, i.e. the masterfile is already up to date.
func Window(watermark, since string, today time.Time) (start, end time.Time, ok bool, err error) {
	loc := today.Location()

	switch {
	case watermark != "":
		if start, err = time.ParseInLocation(time.DateOnly, watermark, loc); err != nil {
			return
		}
		start = start.AddDate(0, 0, 1)

	case since != "":
		if start, err = time.ParseInLocation(time.DateOnly, since, loc); err != nil {
			return
		}

	default:
		err = ErrNoHistory
		return
	}

	return start, today, start.Before(today), nil
}

// Export downloads the daily summary, servings and exercises for start..end and writes them to
// dir as '<prefix>_<yyyymmdd>.csv', timestamped with the end date. Returns the files written.
func Export(ctx context.Context, exporter Exporter, dir string, start, end time.Time) ([]string, error) {
	exports := []struct {
		prefix string
		f      func(context.Context, time.Time, time.Time) ([]byte, error)
	}{
		{DailySummary, exporter.DailyNutrition},
		{Servings, exporter.Servings},
		{Exercises, exporter.Exercises},
	}

	data := make([][]byte, len(exports))
	for i, e := range exports {
		b, err := e.f(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve %v (%w)", e.prefix, err)
		}

		data[i] = b
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	files := []string{}
	for i, e := range exports {
		file := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", e.prefix, end.Format("20060102")))
		if err := os.WriteFile(file, data[i], 0644); err != nil {
			return files, fmt.Errorf("failed to write %v data to %v (%w)", e.prefix, file, err)
		}

		files = append(files, file)
	}

	return files, nil
}
