package postgres

import (
	"reflect"
	"testing"
)

func TestBuildCreateSQL(t *testing.T) {
	t.Parallel()

	q, err := buildCreateSQL("recon_only_in_1", []string{"id", "price"})
	if err != nil {
		t.Fatalf("buildCreateSQL: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS \"recon_only_in_1\" (\n  \"id\" TEXT,\n  \"price\" TEXT\n);"
	if q != want {
		t.Fatalf("sql=%q\nwant %q", q, want)
	}
}

func TestBuildCreateSQL_Errors(t *testing.T) {
	t.Parallel()

	if _, err := buildCreateSQL("", []string{"a"}); err == nil {
		t.Fatalf("expected error for empty table name")
	}
	if _, err := buildCreateSQL("t", nil); err == nil {
		t.Fatalf("expected error for no columns")
	}
}

func TestBuildInsertSQL_PlaceholderNumbering(t *testing.T) {
	t.Parallel()

	q, args := buildInsertSQL("t", []string{"a", "b", "c"}, [][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
	})
	want := `INSERT INTO "t" ("a", "b", "c") VALUES ($1, $2, $3), ($4, $5, $6)`
	if q != want {
		t.Fatalf("sql=%q\nwant %q", q, want)
	}
	if !reflect.DeepEqual(args, []any{"1", "2", "3", "4", "5", "6"}) {
		t.Fatalf("args=%v", args)
	}
}

func TestPGIdentQuoting(t *testing.T) {
	t.Parallel()

	if got := pgIdent("Attribute 2 value(s)"); got != `"Attribute 2 value(s)"` {
		t.Fatalf("ident=%q", got)
	}
	if got := pgIdent(`a"b`); got != `"a""b"` {
		t.Fatalf("ident=%q", got)
	}
}
