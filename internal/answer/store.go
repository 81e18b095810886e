// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer turns natural-language questions into SQL over the graph
// flattened into a relational table, and asks an LLM to explain the rows.
package answer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/semagraph/pkg/types"
)

// TableName is the relational view of the graph: one row per triple.
const TableName = "rdf_data"

// tableColumns are the flattened triple columns.
var tableColumns = []string{"subject", "predicate", "object"}

// Store manages the SQLite database the answering machine queries.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the SQLite database at dbFile and ensures the
// triple table exists.
func NewStore(dbFile string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (subject VARCHAR, predicate VARCHAR, object VARCHAR)`,
		TableName,
	))
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Populated reports whether the triple table already holds rows. The table
// is filled once per dump and reused across questions.
func (s *Store) Populated(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, TableName)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("counting rows: %w", err)
	}
	return n > 0, nil
}

// Populate replaces the table contents with the given triples.
func (s *Store) Populate(ctx context.Context, triples []types.Triple) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, TableName)); err != nil {
		return fmt.Errorf("clearing table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (subject, predicate, object) VALUES (?, ?, ?)`, TableName,
	))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range triples {
		_, err := stmt.ExecContext(ctx, t.Subject.Value, t.Predicate.Value, t.Object.Value)
		if err != nil {
			return fmt.Errorf("inserting triple: %w", err)
		}
	}

	return tx.Commit()
}

// Columns returns the triple table's column names.
func (s *Store) Columns() []string {
	cols := make([]string, len(tableColumns))
	copy(cols, tableColumns)
	return cols
}

// Execute runs a SELECT statement and returns the column names and rows as
// strings. Statements that are not reads are rejected before execution.
func (s *Store) Execute(ctx context.Context, query string) ([]string, [][]string, error) {
	trimmed := strings.TrimSpace(query)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return nil, nil, fmt.Errorf("refusing to execute non-SELECT statement: %.40q", trimmed)
	}

	rows, err := s.db.QueryContext(ctx, trimmed)
	if err != nil {
		return nil, nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("reading columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scan := make([]any, len(cols))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		out = append(out, row)
	}

	return cols, out, rows.Err()
}
