package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Job is a declarative reconcile job, decoded from JSON by cmd/csvrecon.
//
// Example:
//
//	{
//	  "job": "price_check",
//	  "file1": {"path": "old.csv"},
//	  "file2": {"path": "new.csv", "options": {"comma": ";"}},
//	  "key_columns": ["id"],
//	  "compare_columns": ["price"],
//	  "outputs": {
//	    "diff": "differences.csv",
//	    "only_in_1": "only_in_file1.csv",
//	    "only_in_2": "only_in_file2.csv"
//	  },
//	  "store": {"kind": "sqlite", "dsn": "recon.db", "table_prefix": "price_check"}
//	}
type Job struct {
	Job   string `json:"job"`
	File1 Input  `json:"file1"`
	File2 Input  `json:"file2"`

	KeyColumns     []string `json:"key_columns"`
	CompareColumns []string `json:"compare_columns"`

	// StrictKeys fails the run on duplicate composite keys instead of the
	// default last-write-wins resolution.
	StrictKeys bool `json:"strict_keys"`

	Outputs Outputs `json:"outputs"`
	Store   Store   `json:"store"`
	Metrics Metrics `json:"metrics"`
}

// Input names one source file plus reader options: format ("csv" or "html"),
// comma, trim_space, lazy_quotes, encoding, selector, ...
type Input struct {
	Path    string  `json:"path"`
	Options Options `json:"options"`
}

// Outputs holds the optional CSV destinations. Empty path = compute only.
type Outputs struct {
	Diff    string `json:"diff"`
	OnlyIn1 string `json:"only_in_1"`
	OnlyIn2 string `json:"only_in_2"`

	// WriteEmptyDiff forces creation of the diff file even with zero diffs.
	WriteEmptyDiff bool `json:"write_empty_diff"`
}

// Store selects an optional relational result store backend.
type Store struct {
	Kind        string `json:"kind"` // "" | "sqlite" | "postgres" | "mssql"
	DSN         string `json:"dsn"`
	TablePrefix string `json:"table_prefix"`
}

// Metrics selects the metrics backend for the run.
type Metrics struct {
	Backend string `json:"backend"` // "" | "none" | "datadog"
	Tags    string `json:"tags"`    // comma-separated extra tags
}

// LoadJob reads and decodes a job config file.
func LoadJob(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return DecodeJob(f)
}

// DecodeJob decodes a job config from r. Unknown fields are rejected so typos
// in option names surface at load time instead of being silently ignored.
func DecodeJob(r io.Reader) (Job, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var j Job
	if err := dec.Decode(&j); err != nil {
		return Job{}, fmt.Errorf("decode config: %w", err)
	}
	return j, nil
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding with a JSON-ish path to the offending field.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

// ValidateJob checks a job config for structural problems. Schema problems
// (key/compare columns missing from the actual files) are detected later by
// the core against real headers; this only validates the config itself.
func ValidateJob(j Job) []Issue {
	var issues []Issue

	req := func(path, v, msg string) {
		if strings.TrimSpace(v) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: msg})
		}
	}

	req("file1.path", j.File1.Path, "missing input path")
	req("file2.path", j.File2.Path, "missing input path")

	if len(j.KeyColumns) == 0 {
		issues = append(issues, Issue{Severity: SeverityError, Path: "key_columns", Message: "at least one key column is required"})
	}
	if len(j.CompareColumns) == 0 {
		issues = append(issues, Issue{Severity: SeverityError, Path: "compare_columns", Message: "at least one compare column is required"})
	}
	for i, c := range j.KeyColumns {
		req(fmt.Sprintf("key_columns[%d]", i), c, "empty column name")
	}
	for i, c := range j.CompareColumns {
		req(fmt.Sprintf("compare_columns[%d]", i), c, "empty column name")
	}

	switch j.Store.Kind {
	case "", "sqlite", "postgres", "mssql":
	default:
		issues = append(issues, Issue{Severity: SeverityError, Path: "store.kind", Message: fmt.Sprintf("unsupported kind %q", j.Store.Kind)})
	}
	if j.Store.Kind != "" && strings.TrimSpace(j.Store.DSN) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "store.dsn", Message: "dsn required when store.kind is set"})
	}

	switch j.Metrics.Backend {
	case "", "none", "datadog":
	default:
		issues = append(issues, Issue{Severity: SeverityWarning, Path: "metrics.backend", Message: fmt.Sprintf("unknown backend %q; metrics will be disabled", j.Metrics.Backend)})
	}

	if j.Outputs.Diff == "" && j.Outputs.OnlyIn1 == "" && j.Outputs.OnlyIn2 == "" && j.Store.Kind == "" {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: "outputs", Message: "no outputs configured; results will only be logged"})
	}

	return issues
}
