// Package mssql implements resultstore.Store on Microsoft SQL Server.
//
// This package does not blank-import a driver; the application must register
// a "sqlserver" driver with database/sql (cmd/csvrecon imports
// github.com/microsoft/go-mssqldb for that).
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"csvrecon/internal/resultstore"
)

type store struct {
	db *sql.DB
}

func init() {
	resultstore.Register("mssql", New)
}

// New opens a SQL Server connection via the registered "sqlserver" driver and
// validates connectivity with PingContext.
func New(ctx context.Context, cfg resultstore.Config) (resultstore.Store, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
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
	_, err := s.db.ExecContext(ctx, "DELETE FROM "+msIdent(table))
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

// buildCreateSQL generates create-if-missing DDL. SQL Server has no
// CREATE TABLE IF NOT EXISTS, so existence is checked through sys.objects.
func buildCreateSQL(table string, columns []string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("table name is empty")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("table %s: no columns", table)
	}

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, msIdent(c)+" NVARCHAR(MAX)")
	}
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (\n  %s\n);",
		strings.ReplaceAll(table, "'", "''"),
		msIdent(table),
		strings.Join(parts, ",\n  "),
	), nil
}

// buildInsertSQL constructs one multi-row INSERT with @pN placeholders.
func buildInsertSQL(table string, columns []string, rows [][]string) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(msIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(msIdent(c))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	n := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, v := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "@p%d", n)
			args = append(args, sql.Named(fmt.Sprintf("p%d", n), v))
			n++
		}
		b.WriteString(")")
	}
	return b.String(), args
}

func msIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
