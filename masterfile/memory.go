package masterfile

import (
	"context"
)

// MemoryStore keeps a masterfile in memory. Load and Save copy the table so that callers
// cannot modify the stored version.
type MemoryStore struct {
	Table *Table
	Saves int
}

func NewMemoryStore(table *Table) *MemoryStore {
	return &MemoryStore{
		Table: table,
	}
}

func (s *MemoryStore) Load(ctx context.Context) (*Table, error) {
	if s.Table == nil {
		return &Table{}, nil
	}

	return s.Table.clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, table *Table) error {
	s.Table = table.clone()
	s.Saves++

	return nil
}

func (t *Table) clone() *Table {
	c := Table{
		Header:  append([]string{}, t.Header...),
		Records: make([][]string, 0, len(t.Records)),
	}

	for _, record := range t.Records {
		c.Records = append(c.Records, append([]string{}, record...))
	}

	return &c
}
