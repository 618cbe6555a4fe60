package masterfile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const (
	createMasterfilesTableSQL = `
  CREATE TABLE IF NOT EXISTS masterfiles (
  name TEXT PRIMARY KEY,
  header TEXT NOT NULL,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
  )`

	createRecordsTableSQL = `
  CREATE TABLE IF NOT EXISTS records (
  name TEXT NOT NULL,
  idx INTEGER NOT NULL,
  record TEXT NOT NULL,
  PRIMARY KEY (name, idx),
  FOREIGN KEY (name) REFERENCES masterfiles(name)
  )`

	getHeaderSQL     = `SELECT header FROM masterfiles WHERE name = ?`
	getRecordsSQL    = `SELECT record FROM records WHERE name = ? ORDER BY idx`
	deleteRecordsSQL = `DELETE FROM records WHERE name = ?`
	upsertHeaderSQL  = `INSERT INTO masterfiles (name, header, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
  ON CONFLICT(name) DO UPDATE SET header = excluded.header, updated_at = excluded.updated_at`
	insertRecordSQL = `INSERT INTO records (name, idx, record) VALUES (?, ?, ?)`
)

// SQLiteStore keeps one or more named masterfiles in a SQLite database. Each Save replaces
// the named masterfile in a single transaction.
type SQLiteStore struct {
	db   *sql.DB
	name string
}

func OpenSQLite(file string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0770); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, q := range []string{createMasterfilesTableSQL, createRecordsTableSQL} {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

func NewSQLiteStore(db *sql.DB, name string) *SQLiteStore {
	return &SQLiteStore{
		db:   db,
		name: name,
	}
}

func (s *SQLiteStore) Load(ctx context.Context) (*Table, error) {
	var header string

	if err := s.db.QueryRowContext(ctx, getHeaderSQL, s.name).Scan(&header); err == sql.ErrNoRows {
		return &Table{}, nil
	} else if err != nil {
		return nil, err
	}

	table := Table{
		Records: [][]string{},
	}

	if err := json.Unmarshal([]byte(header), &table.Header); err != nil {
		return nil, fmt.Errorf("invalid header for masterfile '%s' (%w)", s.name, err)
	}

	rows, err := s.db.QueryContext(ctx, getRecordsSQL, s.name)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var v string
		var record []string

		if err := rows.Scan(&v); err != nil {
			return nil, err
		} else if err := json.Unmarshal([]byte(v), &record); err != nil {
			return nil, fmt.Errorf("invalid record for masterfile '%s' (%w)", s.name, err)
		}

		table.Records = append(table.Records, record)
	}

	return &table, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, table *Table) error {
	header, err := json.Marshal(table.Header)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertHeaderSQL, s.name, string(header)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deleteRecordsSQL, s.name); err != nil {
		return err
	}

	for i, record := range table.Records {
		if v, err := json.Marshal(record); err != nil {
			return err
		} else if _, err := tx.ExecContext(ctx, insertRecordSQL, s.name, i, string(v)); err != nil {
			return err
		}
	}

	return tx.Commit()
}
