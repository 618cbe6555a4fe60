package activities

import (
	"fmt"

	"github.com/healthsheets/health-sheets/masterfile"
)

// Columns is the activities masterfile column set.
var Columns = []string{
	"activity",
	"date",
	"calories",
	"distance",
	"moving_time",
	"elapsed_time",
	"average_speed",
	"max_speed",
	"average_heartrate",
	"max_heartrate",
	"suffer_score",
}

// fields lists the numeric fields in Columns order, i.e. after 'activity' and 'date'.
func (r *Record) fields() []**float64 {
	return []**float64{
		&r.Calories,
		&r.Distance,
		&r.MovingTime,
		&r.ElapsedTime,
		&r.AverageSpeed,
		&r.MaxSpeed,
		&r.AverageHeartrate,
		&r.MaxHeartrate,
		&r.SufferScore,
	}
}

func ToTable(records []Record) *masterfile.Table {
	table := masterfile.Table{
		Header:  append([]string{}, Columns...),
		Records: make([][]string, 0, len(records)),
	}

	for _, r := range records {
		row := []string{r.Activity, r.Date}
		for _, f := range r.fields() {
			row = append(row, masterfile.FormatFloat(*f))
		}

		table.Records = append(table.Records, row)
	}

	return &table
}

func FromTable(table *masterfile.Table) ([]Record, error) {
	if table.IsEmpty() {
		return []Record{}, nil
	}

	index, err := table.Index()
	if err != nil {
		return nil, err
	}

	if _, ok := index["date"]; !ok {
		return nil, fmt.Errorf("Missing 'date' column")
	}

	get := func(row []string, column string) string {
		if ix, ok := index[masterfile.Normalise(column)]; ok && ix < len(row) {
			return row[ix]
		}
		return ""
	}

	records := []Record{}
	for line, row := range table.Records {
		record := Record{
			Activity: get(row, "activity"),
			Date:     get(row, "date"),
		}

		for i, f := range record.fields() {
			v, err := masterfile.ParseFloat(get(row, Columns[i+2]))
			if err != nil {
				return nil, fmt.Errorf("row %v: %s: %w", line, Columns[i+2], err)
			}

			*f = v
		}

		records = append(records, record)
	}

	return records, nil
}
