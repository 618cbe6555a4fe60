package nutrition

import (
	"fmt"
	"io"
	"strconv"

	"github.com/healthsheets/health-sheets/masterfile"
)

// Columns is the nutrition masterfile column set.
var Columns = []string{
	"Date",
	"Energy (kcal)",
	"Burned (kcal)",
	"Protein (g)",
	"Carbs (g)",
	"Fat (g)",
	"Added Sugars (g)",
	"Sodium (mg)",
}

func (r *Record) fields() []**float64 {
	return []**float64{&r.Energy, &r.Burned, &r.Protein, &r.Carbs, &r.Fat, &r.AddedSugars, &r.Sodium}
}

func ToTable(records []Record) *masterfile.Table {
	table := masterfile.Table{
		Header:  append([]string{}, Columns...),
		Records: make([][]string, 0, len(records)),
	}

	for _, r := range records {
		row := []string{r.Date}
		for _, f := range r.fields() {
			row = append(row, masterfile.FormatFloat(*f))
		}

		table.Records = append(table.Records, row)
	}

	return &table
}

// FromTable unpacks the nutrition masterfile. Only the 'Date' column is required - missing
// numeric columns are unpacked as absent values.
func FromTable(table *masterfile.Table) ([]Record, error) {
	if table.IsEmpty() {
		return []Record{}, nil
	}

	index, err := table.Index()
	if err != nil {
		return nil, err
	}

	if _, ok := index[masterfile.Normalise("Date")]; !ok {
		return nil, fmt.Errorf("Missing 'Date' column")
	}

	records := []Record{}
	for line, row := range table.Records {
		record, err := unpack(index, row, Columns)
		if err != nil {
			return nil, fmt.Errorf("row %v: %w", line, err)
		}

		records = append(records, record)
	}

	return records, nil
}

// ParseSummaries reads a Cronometer 'dailysummary' export. Columns other than the nutrition
// masterfile columns and 'Completed' are ignored.
func ParseSummaries(r io.Reader) ([]Summary, error) {
	table, err := masterfile.ReadCSV(r)
	if err != nil {
		return nil, err
	}

	index, err := table.Index()
	if err != nil {
		return nil, err
	}

	if _, ok := index["date"]; !ok {
		return nil, fmt.Errorf("Missing 'Date' column")
	}

	if _, ok := index["completed"]; !ok {
		return nil, fmt.Errorf("Missing 'Completed' column")
	}

	summaries := []Summary{}
	for line, row := range table.Records {
		record, err := unpack(index, row, Columns)
		if err != nil {
			return nil, fmt.Errorf("row %v: %w", line+1, err)
		}

		// anything other than a boolean 'true' (blank, 'no', ...) is an incomplete day
		completed, _ := strconv.ParseBool(cell(index, row, "Completed"))

		summaries = append(summaries, Summary{
			Record:    record,
			Completed: completed,
		})
	}

	return summaries, nil
}

// ParseExercises reads a Cronometer 'exercises' export. The date column is 'Day' in the
// Cronometer export but 'Date' is accepted too.
func ParseExercises(r io.Reader) ([]Exercise, error) {
	table, err := masterfile.ReadCSV(r)
	if err != nil {
		return nil, err
	}

	index, err := table.Index()
	if err != nil {
		return nil, err
	}

	date := "Day"
	if _, ok := index["day"]; !ok {
		date = "Date"
	}

	if _, ok := index[masterfile.Normalise(date)]; !ok {
		return nil, fmt.Errorf("Missing 'Day' column")
	}

	if _, ok := index["caloriesburned"]; !ok {
		return nil, fmt.Errorf("Missing 'Calories Burned' column")
	}

	exercises := []Exercise{}
	for line, row := range table.Records {
		burned, err := masterfile.ParseFloat(cell(index, row, "Calories Burned"))
		if err != nil {
			return nil, fmt.Errorf("row %v: %w", line+1, err)
		}

		exercises = append(exercises, Exercise{
			Date:   cell(index, row, date),
			Burned: burned,
		})
	}

	return exercises, nil
}

func unpack(index map[string]int, row []string, columns []string) (Record, error) {
	record := Record{
		Date: cell(index, row, columns[0]),
	}

	for i, f := range record.fields() {
		v, err := masterfile.ParseFloat(cell(index, row, columns[i+1]))
		if err != nil {
			return record, fmt.Errorf("%s: %w", columns[i+1], err)
		}

		*f = v
	}

	return record, nil
}

func cell(index map[string]int, row []string, column string) string {
	if ix, ok := index[masterfile.Normalise(column)]; ok && ix < len(row) {
		return row[ix]
	}

	return ""
}
