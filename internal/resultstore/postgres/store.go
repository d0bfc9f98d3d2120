// Package postgres implements resultstore.Store on Postgres via pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"csvrecon/internal/resultstore"
)

type store struct {
	pool *pgxpool.Pool
}

func init() {
	resultstore.Register("postgres", New)
}

// New opens a connection pool for cfg.DSN.
func New(ctx context.Context, cfg resultstore.Config) (resultstore.Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return &store{pool: pool}, nil
}

func (s *store) Close() { s.pool.Close() }

func (s *store) EnsureTable(ctx context.Context, table string, columns []string) error {
	q, err := buildCreateSQL(table, columns)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, q)
	return err
}

func (s *store) Reset(ctx context.Context, table string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM "+pgIdent(table))
	return err
}

func (s *store) InsertRows(ctx context.Context, table string, columns []string, rows [][]string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	q, args := buildInsertSQL(table, columns, rows)
	cmd, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// buildCreateSQL generates CREATE TABLE IF NOT EXISTS DDL with TEXT columns.
// Pure so it can be unit tested without a server.
func buildCreateSQL(table string, columns []string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("table name is empty")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("table %s: no columns", table)
	}

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, pgIdent(c)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", pgIdent(table), strings.Join(parts, ",\n  ")), nil
}

// buildInsertSQL constructs one multi-row INSERT with $n placeholders.
//
// Placeholder numbering must stay exactly aligned with args; that is the
// whole reason this is a pure function with its own tests.
func buildInsertSQL(table string, columns []string, rows [][]string) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(pgIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgIdent(c))
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
			fmt.Fprintf(&b, "$%d", n)
			n++
			args = append(args, v)
		}
		b.WriteString(")")
	}
	return b.String(), args
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
