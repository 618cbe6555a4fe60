// Package masterfile persists the historical datasets ('masterfiles') that each run extends.
//
// A masterfile is a flat table with a header row. Stores are always rewritten in full - there
// are no incremental updates.
package masterfile

import (
	"context"
	"fmt"
	"strings"
)

type Table struct {
	Header  []string
	Records [][]string
}

type Store interface {
	Load(ctx context.Context) (*Table, error)
	Save(ctx context.Context, table *Table) error
}

// Index returns a map of normalised column name to column position. Duplicate column
// names are an error.
func (t *Table) Index() (map[string]int, error) {
	index := map[string]int{}
	for i, h := range t.Header {
		k := Normalise(h)
		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("Duplicate column name '%s'", h)
		}

		index[k] = i
	}

	return index, nil
}

// Column returns a table column by name, padding short records with "".
func (t *Table) Column(name string) ([]string, error) {
	index, err := t.Index()
	if err != nil {
		return nil, err
	}

	ix, ok := index[Normalise(name)]
	if !ok {
		return nil, fmt.Errorf("Missing '%s' column", name)
	}

	column := make([]string, 0, len(t.Records))
	for _, record := range t.Records {
		if ix < len(record) {
			column = append(column, record[ix])
		} else {
			column = append(column, "")
		}
	}

	return column, nil
}

func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Header) == 0
}

// Normalise lower-cases a column name and strips the whitespace, so that 'Energy (kcal)'
// and 'energy(kcal)' refer to the same column.
func Normalise(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), ""))
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
