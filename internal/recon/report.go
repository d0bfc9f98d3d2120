package recon

import (
	"csvrecon/internal/records"
	"csvrecon/internal/sink"
)

// Diff report columns appended after the key columns.
const (
	DiffColumn     = "column"
	DiffValueFile1 = "value_file1"
	DiffValueFile2 = "value_file2"
)

// Outputs names the optional destinations for the three result sets. An empty
// path means "compute only, do not persist" for that set.
type Outputs struct {
	OnlyAPath string
	OnlyBPath string
	DiffPath  string

	// WriteEmptyDiff controls whether a diff file is created when there are
	// zero diffs. The historical behavior suppresses file creation in that
	// case even though a path was given; leaving this false preserves it.
	WriteEmptyDiff bool
}

// Written reports which destinations were actually written, so callers can
// tell "no diff file because none was requested" from "no diff file because
// there was nothing to write".
type Written struct {
	OnlyA bool
	OnlyB bool
	Diff  bool
}

// DiffHeader returns the header of the difference report: the key columns in
// given order followed by column, value_file1, value_file2.
func DiffHeader(keyColumns []string) []string {
	out := make([]string, 0, len(keyColumns)+3)
	out = append(out, keyColumns...)
	return append(out, DiffColumn, DiffValueFile1, DiffValueFile2)
}

// DiffRecords renders the diffs as records under DiffHeader(keyColumns).
func DiffRecords(diffs []Diff, keyColumns []string) []records.Record {
	out := make([]records.Record, 0, len(diffs))
	for _, d := range diffs {
		r := make(records.Record, len(keyColumns)+3)
		for i, kc := range keyColumns {
			if i < len(d.Key) {
				r[kc] = d.Key[i]
			}
		}
		r[DiffColumn] = d.Column
		r[DiffValueFile1] = d.ValueA
		r[DiffValueFile2] = d.ValueB
		out = append(out, r)
	}
	return out
}

// WriteResults persists the result sets named by out via the CSV sink.
//
// An empty result set creates no file, even when its path is set: only-in
// files appear only when records landed on one side, and the diff file only
// when columns disagreed (Outputs.WriteEmptyDiff overrides the latter). The
// Written report tells suppressed apart from unrequested. A write error
// aborts immediately; earlier files may already exist on disk, matching the
// single-attempt, no-recovery policy for sink I/O.
func WriteResults(res Result, keyColumns []string, out Outputs) (Written, error) {
	var w Written
	if res.Status != StatusCompared {
		return w, nil
	}

	if out.OnlyAPath != "" && len(res.OnlyA.Records) > 0 {
		if err := sink.WriteFile(out.OnlyAPath, res.OnlyA.Fields, res.OnlyA.Records); err != nil {
			return w, err
		}
		w.OnlyA = true
	}
	if out.OnlyBPath != "" && len(res.OnlyB.Records) > 0 {
		if err := sink.WriteFile(out.OnlyBPath, res.OnlyB.Fields, res.OnlyB.Records); err != nil {
			return w, err
		}
		w.OnlyB = true
	}
	if out.DiffPath != "" && (len(res.Diffs) > 0 || out.WriteEmptyDiff) {
		recs := DiffRecords(res.Diffs, keyColumns)
		if err := sink.WriteFile(out.DiffPath, DiffHeader(keyColumns), recs); err != nil {
			return w, err
		}
		w.Diff = true
	}
	return w, nil
}
