package config

import (
	"strings"
	"testing"
)

const validJob = `{
  "job": "price_check",
  "file1": {"path": "old.csv"},
  "file2": {"path": "new.csv", "options": {"comma": ";"}},
  "key_columns": ["id"],
  "compare_columns": ["price"],
  "outputs": {"diff": "differences.csv"}
}`

func TestDecodeJob(t *testing.T) {
	t.Parallel()

	j, err := DecodeJob(strings.NewReader(validJob))
	if err != nil {
		t.Fatalf("DecodeJob: %v", err)
	}
	if j.Job != "price_check" || j.File1.Path != "old.csv" {
		t.Fatalf("job=%+v", j)
	}
	if got := j.File2.Options.Rune("comma", ','); got != ';' {
		t.Fatalf("file2 comma=%q", got)
	}
	if len(j.KeyColumns) != 1 || j.KeyColumns[0] != "id" {
		t.Fatalf("key_columns=%v", j.KeyColumns)
	}
	if j.Outputs.Diff != "differences.csv" {
		t.Fatalf("outputs=%+v", j.Outputs)
	}
}

func TestDecodeJob_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := DecodeJob(strings.NewReader(`{"jbo": "typo"}`))
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestValidateJob_Valid(t *testing.T) {
	t.Parallel()

	j, err := DecodeJob(strings.NewReader(validJob))
	if err != nil {
		t.Fatalf("DecodeJob: %v", err)
	}
	if issues := ValidateJob(j); len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestValidateJob_Errors(t *testing.T) {
	t.Parallel()

	j := Job{
		File2:          Input{Path: "new.csv"},
		KeyColumns:     []string{"id", " "},
		CompareColumns: nil,
		Store:          Store{Kind: "oracle"},
	}

	issues := ValidateJob(j)

	want := map[string]Severity{
		"file1.path":      SeverityError,
		"key_columns[1]":  SeverityError,
		"compare_columns": SeverityError,
		"store.kind":      SeverityError,
	}
	got := make(map[string]Severity, len(issues))
	for _, is := range issues {
		got[is.Path] = is.Severity
	}
	for path, sev := range want {
		if got[path] != sev {
			t.Errorf("missing %s %s issue; issues=%+v", sev, path, issues)
		}
	}
}

func TestValidateJob_StoreDSNRequired(t *testing.T) {
	t.Parallel()

	j, err := DecodeJob(strings.NewReader(validJob))
	if err != nil {
		t.Fatalf("DecodeJob: %v", err)
	}
	j.Store = Store{Kind: "sqlite"}

	for _, is := range ValidateJob(j) {
		if is.Path == "store.dsn" && is.Severity == SeverityError {
			return
		}
	}
	t.Fatalf("expected store.dsn error")
}

func TestValidateJob_NoOutputsWarns(t *testing.T) {
	t.Parallel()

	j, err := DecodeJob(strings.NewReader(validJob))
	if err != nil {
		t.Fatalf("DecodeJob: %v", err)
	}
	j.Outputs = Outputs{}

	for _, is := range ValidateJob(j) {
		if is.Path == "outputs" && is.Severity == SeverityWarning {
			return
		}
	}
	t.Fatalf("expected outputs warning")
}

func TestValidateJob_UnknownMetricsBackendWarns(t *testing.T) {
	t.Parallel()

	j, err := DecodeJob(strings.NewReader(validJob))
	if err != nil {
		t.Fatalf("DecodeJob: %v", err)
	}
	j.Metrics.Backend = "statsd"

	for _, is := range ValidateJob(j) {
		if is.Path == "metrics.backend" && is.Severity == SeverityWarning {
			return
		}
	}
	t.Fatalf("expected metrics.backend warning")
}
