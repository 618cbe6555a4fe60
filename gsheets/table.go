package gsheets

import (
	"fmt"
	"strings"

	"github.com/healthsheets/health-sheets/masterfile"
)

// MakeTable converts worksheet values to a table. The first row is the header and blank rows
// are discarded.
func MakeTable(rows [][]interface{}) (*masterfile.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("Empty sheet")
	}

	header := []string{}
	for _, v := range rows[0] {
		header = append(header, clean(v))
	}

	if len(header) == 0 {
		return nil, fmt.Errorf("Missing/invalid header row")
	}

	table := masterfile.Table{
		Header:  header,
		Records: [][]string{},
	}

	if _, err := table.Index(); err != nil {
		return nil, err
	}

	for _, row := range rows[1:] {
		record := make([]string, len(header))
		blank := true

		for i := range record {
			if i < len(row) {
				record[i] = clean(row[i])
			}

			if record[i] != "" {
				blank = false
			}
		}

		if !blank {
			table.Records = append(table.Records, record)
		}
	}

	return &table, nil
}

func toValues(table *masterfile.Table) [][]interface{} {
	values := [][]interface{}{}

	h := make([]interface{}, len(table.Header))
	for i, v := range table.Header {
		h[i] = v
	}

	values = append(values, h)

	for _, record := range table.Records {
		row := make([]interface{}, len(record))
		for i, v := range record {
			row[i] = v
		}

		values = append(values, row)
	}

	return values
}

func clean(v interface{}) string {
	if v == nil {
		return ""
	}

	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
