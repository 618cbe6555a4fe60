// Package activities merges the Strava athlete activity list into the activities masterfile.
package activities

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/healthsheets/health-sheets/delta"
	"github.com/healthsheets/health-sheets/masterfile"
	"github.com/healthsheets/health-sheets/strava"
)

// Summary is a normalised entry from the Strava activity list.
type Summary struct {
	ID               int64
	Name             string
	Distance         float64
	MovingTime       int64
	ElapsedTime      int64
	Date             string
	AverageSpeed     float64
	MaxSpeed         float64
	HasHeartrate     bool
	AverageHeartrate *float64
	MaxHeartrate     *float64
}

// Record is a row in the activities masterfile. The Strava activity ID is not part of the
// masterfile.
type Record struct {
	Activity         string
	Date             string
	Calories         *float64
	Distance         *float64
	MovingTime       *float64
	ElapsedTime      *float64
	AverageSpeed     *float64
	MaxSpeed         *float64
	AverageHeartrate *float64
	MaxHeartrate     *float64
	SufferScore      *float64
}

// DetailSource retrieves the activity detail for the fields that are not included in the
// activity list.
type DetailSource interface {
	Activity(ctx context.Context, id int64) (*strava.DetailedActivity, error)
}

// Normalise converts a Strava activity list entry to a Summary, with the date taken from the
// activity local start time.
func Normalise(a strava.Activity) (Summary, error) {
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(a.StartDateLocal))
	if err != nil {
		return Summary{}, fmt.Errorf("activity %v: invalid start date '%v'", a.ID, a.StartDateLocal)
	}

	return Summary{
		ID:               a.ID,
		Name:             a.Name,
		Distance:         a.Distance,
		MovingTime:       a.MovingTime,
		ElapsedTime:      a.ElapsedTime,
		Date:             start.Format("2006-01-02"),
		AverageSpeed:     a.AverageSpeed,
		MaxSpeed:         a.MaxSpeed,
		HasHeartrate:     a.HasHeartrate,
		AverageHeartrate: a.AverageHeartrate,
		MaxHeartrate:     a.MaxHeartrate,
	}, nil
}

// Merge adds the activities dated after the most recent activity in the history to the history,
// retrieving the calories and suffer score for each new activity from the activity detail. The
// merged list is sorted by date, most recent first.
//
// The history is returned unchanged (with NoNewData) if there are no new activities. Errors
// retrieving an activity detail (including 404 and 429 responses) abort the merge, so that a
// rate limited run is retried in full on the next run rather than storing activities with no
// calories or suffer score.
func Merge(ctx context.Context, history []Record, fetched []strava.Activity, details DetailSource) ([]Record, delta.Status, error) {
	dates := make([]string, 0, len(history))
	for _, r := range history {
		dates = append(dates, r.Date)
	}

	watermark := delta.Watermark(dates)
	list := []Summary{}

	for _, a := range fetched {
		summary, err := Normalise(a)
		if err != nil {
			return history, delta.NoNewData, err
		}

		if delta.IsNew(summary.Date, watermark) {
			list = append(list, summary)
		}
	}

	if len(list) == 0 {
		return history, delta.NoNewData, nil
	}

	info := map[int64]*strava.DetailedActivity{}
	for _, s := range list {
		if _, ok := info[s.ID]; ok {
			continue
		}

		detail, err := details.Activity(ctx, s.ID)
		if err != nil {
			return history, delta.NoNewData, fmt.Errorf("error retrieving activity %v (%w)", s.ID, err)
		}

		info[s.ID] = detail
	}

	merged := make([]Record, 0, len(history)+len(list))
	merged = append(merged, history...)

	for _, s := range list {
		record := Record{
			Activity:         s.Name,
			Date:             s.Date,
			Distance:         masterfile.Float(s.Distance),
			MovingTime:       masterfile.Float(float64(s.MovingTime)),
			ElapsedTime:      masterfile.Float(float64(s.ElapsedTime)),
			AverageSpeed:     masterfile.Float(s.AverageSpeed),
			MaxSpeed:         masterfile.Float(s.MaxSpeed),
			AverageHeartrate: s.AverageHeartrate,
			MaxHeartrate:     s.MaxHeartrate,
		}

		if detail := info[s.ID]; detail != nil {
			record.Calories = detail.Calories
			record.SufferScore = detail.SufferScore
		}

		merged = append(merged, record)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date > merged[j].Date
	})

	return merged, delta.Updated, nil
}
