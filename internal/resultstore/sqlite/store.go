// Package sqlite implements resultstore.Store on SQLite via modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"csvrecon/internal/resultstore"
)

type store struct {
	db *sql.DB
}

func init() {
	resultstore.Register("sqlite", New)
}

// New opens (or creates) the SQLite database named by cfg.DSN.
func New(ctx context.Context, cfg resultstore.Config) (resultstore.Store, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &store{db: db}, nil
}

func (s *store) Close() { _ = s.db.Close() }

func (s *store) EnsureTable(ctx context.Context, table string, columns []string) error {
	q, err := buildCreateSQL(table, columns)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q)
	return err
}

func (s *store) Reset(ctx context.Context, table string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM "+sqlIdent(table))
	return err
}

func (s *store) InsertRows(ctx context.Context, table string, columns []string, rows [][]string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	q, args := buildInsertSQL(table, columns, rows)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// buildCreateSQL generates CREATE TABLE IF NOT EXISTS DDL with TEXT affinity
// for every column. Pure so the DDL can be unit tested without a database.
func buildCreateSQL(table string, columns []string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("table name is empty")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("table %s: no columns", table)
	}

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, sqlIdent(c)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", sqlIdent(table), strings.Join(parts, ",\n  ")), nil
}

// buildInsertSQL constructs one multi-row INSERT and its args.
func buildInsertSQL(table string, columns []string, rows [][]string) (string, []any) {
	colList := make([]string, 0, len(columns))
	for _, c := range columns {
		colList = append(colList, sqlIdent(c))
	}
	placeholders := "(" + strings.TrimRight(strings.Repeat("?,", len(columns)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(colList, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		for _, v := range row {
			args = append(args, v)
		}
	}
	return b.String(), args
}

func sqlIdent(id string) string {
	// SQLite supports "quoted identifiers"
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
