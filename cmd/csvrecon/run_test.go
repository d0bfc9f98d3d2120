package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"csvrecon/internal/config"
	"csvrecon/internal/source"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunJob_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	file1 := writeInput(t, dir, "old.csv", "id,price,stock\n1,10,5\n2,20,6\n3,30,7\n")
	file2 := writeInput(t, dir, "new.csv", "id,price,stock\n1,15,5\n3,30,7\n4,40,8\n")

	job := config.Job{
		Job:            "price_check",
		File1:          config.Input{Path: file1},
		File2:          config.Input{Path: file2},
		KeyColumns:     []string{"id"},
		CompareColumns: []string{"price"},
		Outputs: config.Outputs{
			Diff:    filepath.Join(dir, "diff.csv"),
			OnlyIn1: filepath.Join(dir, "only1.csv"),
			OnlyIn2: filepath.Join(dir, "only2.csv"),
		},
		Store: config.Store{
			Kind: "sqlite",
			DSN:  filepath.Join(dir, "results.db"),
		},
	}

	if err := runJob(context.Background(), job, true); err != nil {
		t.Fatalf("runJob: %v", err)
	}

	diff, err := source.ReadFile(job.Outputs.Diff, nil)
	if err != nil {
		t.Fatalf("read diff: %v", err)
	}
	if !reflect.DeepEqual(diff.Fields, []string{"id", "column", "value_file1", "value_file2"}) {
		t.Fatalf("diff header=%v", diff.Fields)
	}
	if len(diff.Records) != 1 {
		t.Fatalf("diff rows=%d want 1", len(diff.Records))
	}
	r := diff.Records[0]
	if r.Value("id") != "1" || r.Value("value_file1") != "10" || r.Value("value_file2") != "15" {
		t.Fatalf("diff row=%v", r)
	}

	only1, err := source.ReadFile(job.Outputs.OnlyIn1, nil)
	if err != nil {
		t.Fatalf("read only1: %v", err)
	}
	if len(only1.Records) != 1 || only1.Records[0].Value("id") != "2" {
		t.Fatalf("only1=%+v", only1.Records)
	}

	only2, err := source.ReadFile(job.Outputs.OnlyIn2, nil)
	if err != nil {
		t.Fatalf("read only2: %v", err)
	}
	if len(only2.Records) != 1 || only2.Records[0].Value("id") != "4" {
		t.Fatalf("only2=%+v", only2.Records)
	}

	db, err := sql.Open("sqlite", job.Store.DSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "price_check_differences"`).Scan(&n); err != nil {
		t.Fatalf("count differences: %v", err)
	}
	if n != 1 {
		t.Fatalf("stored differences=%d want 1", n)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM "price_check_only_in_2"`).Scan(&n); err != nil {
		t.Fatalf("count only_in_2: %v", err)
	}
	if n != 1 {
		t.Fatalf("stored only_in_2=%d want 1", n)
	}
}

func TestRunJob_HTMLInput(t *testing.T) {
	dir := t.TempDir()

	file1 := writeInput(t, dir, "export.html", `<table>
<tr><th>id</th><th>price</th></tr>
<tr><td>1</td><td>10</td></tr>
<tr><td>2</td><td>20</td></tr>
</table>`)
	file2 := writeInput(t, dir, "new.csv", "id,price\n1,15\n2,20\n")

	job := config.Job{
		File1:          config.Input{Path: file1, Options: config.Options{"format": "html"}},
		File2:          config.Input{Path: file2},
		KeyColumns:     []string{"id"},
		CompareColumns: []string{"price"},
		Outputs:        config.Outputs{Diff: filepath.Join(dir, "diff.csv")},
	}

	if err := runJob(context.Background(), job, false); err != nil {
		t.Fatalf("runJob: %v", err)
	}

	diff, err := source.ReadFile(job.Outputs.Diff, nil)
	if err != nil {
		t.Fatalf("read diff: %v", err)
	}
	if len(diff.Records) != 1 {
		t.Fatalf("diff rows=%d want 1", len(diff.Records))
	}
	r := diff.Records[0]
	if r.Value("id") != "1" || r.Value("value_file1") != "10" || r.Value("value_file2") != "15" {
		t.Fatalf("diff row=%v", r)
	}
}

func TestRunJob_NoDiffsSuppressesDiffFile(t *testing.T) {
	dir := t.TempDir()

	content := "id,price\n1,10\n2,20\n"
	job := config.Job{
		File1:          config.Input{Path: writeInput(t, dir, "a.csv", content)},
		File2:          config.Input{Path: writeInput(t, dir, "b.csv", content)},
		KeyColumns:     []string{"id"},
		CompareColumns: []string{"price"},
		Outputs:        config.Outputs{Diff: filepath.Join(dir, "diff.csv")},
	}

	if err := runJob(context.Background(), job, false); err != nil {
		t.Fatalf("runJob: %v", err)
	}
	if _, err := os.Stat(job.Outputs.Diff); !os.IsNotExist(err) {
		t.Fatalf("diff file should not exist, stat err=%v", err)
	}

	job.Outputs.WriteEmptyDiff = true
	if err := runJob(context.Background(), job, false); err != nil {
		t.Fatalf("runJob: %v", err)
	}
	if _, err := os.Stat(job.Outputs.Diff); err != nil {
		t.Fatalf("forced diff file missing: %v", err)
	}
}

func TestRunJob_EmptyInputIsNotAnError(t *testing.T) {
	dir := t.TempDir()

	job := config.Job{
		File1:          config.Input{Path: writeInput(t, dir, "empty.csv", "")},
		File2:          config.Input{Path: writeInput(t, dir, "b.csv", "id,price\n1,10\n")},
		KeyColumns:     []string{"id"},
		CompareColumns: []string{"price"},
		Outputs:        config.Outputs{OnlyIn1: filepath.Join(dir, "only1.csv")},
	}

	if err := runJob(context.Background(), job, false); err != nil {
		t.Fatalf("runJob: %v", err)
	}
	if _, err := os.Stat(job.Outputs.OnlyIn1); !os.IsNotExist(err) {
		t.Fatalf("empty input should write no outputs, stat err=%v", err)
	}
}

func TestRunJob_MissingColumnFails(t *testing.T) {
	dir := t.TempDir()

	job := config.Job{
		File1:          config.Input{Path: writeInput(t, dir, "a.csv", "id,price\n1,10\n")},
		File2:          config.Input{Path: writeInput(t, dir, "b.csv", "id,price\n1,10\n")},
		KeyColumns:     []string{"sku"},
		CompareColumns: []string{"price"},
	}

	if err := runJob(context.Background(), job, false); err == nil {
		t.Fatalf("expected schema error for missing key column")
	}
}

func TestSplitColumns(t *testing.T) {
	got := splitColumns(" id , name ,, price ")
	if !reflect.DeepEqual(got, []string{"id", "name", "price"}) {
		t.Fatalf("splitColumns=%v", got)
	}
	if splitColumns("") != nil {
		t.Fatalf("empty input should give nil")
	}
}
