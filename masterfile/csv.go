package masterfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// CSVStore is a masterfile stored as a CSV file with a leading unnamed index column, i.e.
//
//	,Date,Energy (kcal),...
//	0,2024-01-01,2150.5,...
//
// The index is dropped on load and regenerated on save.
type CSVStore struct {
	File string
}

func NewCSVStore(file string) *CSVStore {
	return &CSVStore{
		File: file,
	}
}

// Load reads the masterfile. A masterfile that does not exist yet is returned as an empty table.
func (s *CSVStore) Load(ctx context.Context) (*Table, error) {
	f, err := os.Open(s.File)
	if os.IsNotExist(err) {
		return &Table{}, nil
	} else if err != nil {
		return nil, err
	}

	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("invalid masterfile %v (%w)", s.File, err)
	}

	return table, nil
}

// Save rewrites the masterfile via a temporary file in the same directory.
func (s *CSVStore) Save(ctx context.Context, table *Table) error {
	dir := filepath.Dir(s.File)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.File)+".*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := WriteCSV(tmp, table); err != nil {
		return fmt.Errorf("error writing masterfile (%w)", err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.File)
}

// ReadCSV reads a table from CSV, discarding the index column if the first header cell is blank.
func ReadCSV(r io.Reader) (*Table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return &Table{}, nil
	}

	indexed := len(rows[0]) > 0 && clean(rows[0][0]) == ""
	strip := func(row []string) []string {
		if indexed && len(row) > 0 {
			return row[1:]
		}
		return row
	}

	table := Table{
		Header:  []string{},
		Records: [][]string{},
	}

	for _, h := range strip(rows[0]) {
		table.Header = append(table.Header, clean(h))
	}

	for _, row := range rows[1:] {
		record := []string{}
		for _, v := range strip(row) {
			record = append(record, clean(v))
		}

		table.Records = append(table.Records, record)
	}

	return &table, nil
}

// WriteCSV writes a table as CSV with a dense 0-based index column.
func WriteCSV(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)

	header := append([]string{""}, table.Header...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, record := range table.Records {
		row := append([]string{strconv.Itoa(i)}, record...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
