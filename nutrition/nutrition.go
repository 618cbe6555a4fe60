// Package nutrition merges Cronometer daily summary and exercise exports into the nutrition masterfile.
package nutrition

import (
	"math"
	"strings"

	"github.com/healthsheets/health-sheets/delta"
	"github.com/healthsheets/health-sheets/masterfile"
)

// Baseline is the resting energy expenditure (kcal) added to the exercise calories for a day. Days
// without any exercise entries are assigned the baseline.
const Baseline = 1850.0

// Record is a single day in the nutrition masterfile. Numeric fields are nil when the value is
// missing.
type Record struct {
	Date        string
	Energy      *float64
	Burned      *float64
	Protein     *float64
	Carbs       *float64
	Fat         *float64
	AddedSugars *float64
	Sodium      *float64
}

// Summary is a row from the Cronometer 'dailysummary' export. Only days flagged as completed in
// Cronometer are merged.
type Summary struct {
	Record
	Completed bool
}

// Exercise is a row from the Cronometer 'exercises' export. Cronometer reports calories burned as
// negative energy.
type Exercise struct {
	Date   string
	Burned *float64
}

// Merge appends the completed daily summaries dated after the last day in the history to the
// history, with the calories burned for each day set from the exercise entries. The history is
// returned unchanged (with NoNewData) if there are no new days.
func Merge(history []Record, summaries []Summary, exercises []Exercise) ([]Record, delta.Status) {
	dates := make([]string, 0, len(history))
	for _, r := range history {
		dates = append(dates, r.Date)
	}

	watermark := delta.Watermark(dates)
	burned := Burned(exercises)
	merged := make([]Record, 0, len(history)+len(summaries))
	merged = append(merged, history...)
	seen := map[string]bool{}

	for _, s := range summaries {
		date := strings.TrimSpace(s.Date)
		if !s.Completed || !delta.IsNew(date, watermark) || seen[date] {
			continue
		}

		record := s.Record
		record.Date = date
		record.Burned = masterfile.Float(Baseline)
		if v, ok := burned[date]; ok {
			record.Burned = masterfile.Float(v)
		}

		merged = append(merged, record)
		seen[date] = true
	}

	if len(merged) == len(history) {
		return history, delta.NoNewData
	}

	return merged, delta.Updated
}

// Burned returns the total energy expenditure for each day with exercise entries, i.e. the sum of
// the absolute calories burned plus the baseline.
func Burned(exercises []Exercise) map[string]float64 {
	totals := map[string]float64{}
	for _, e := range exercises {
		date := strings.TrimSpace(e.Date)
		if date == "" {
			continue
		}

		v := 0.0
		if e.Burned != nil {
			v = math.Abs(*e.Burned)
		}

		totals[date] += v
	}

	for date := range totals {
		totals[date] += Baseline
	}

	return totals
}
