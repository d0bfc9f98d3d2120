// Package recon implements key-based reconciliation of two datasets: the
// partition into only-in-A, only-in-B and field-level differences on shared
// keys.
package recon

import (
	"csvrecon/internal/index"
	"csvrecon/internal/records"
)

// Status describes the reconciliation outcome. An empty input is not an error
// and not the same thing as "no differences"; callers must be able to tell
// the three apart.
type Status int

const (
	// StatusCompared means both inputs had data and the comparison ran.
	StatusCompared Status = iota

	// StatusEmptyA means the first dataset had no records; nothing was compared.
	StatusEmptyA

	// StatusEmptyB means the second dataset had no records; nothing was compared.
	StatusEmptyB
)

func (s Status) String() string {
	switch s {
	case StatusCompared:
		return "compared"
	case StatusEmptyA:
		return "empty_a"
	case StatusEmptyB:
		return "empty_b"
	default:
		return "unknown"
	}
}

// Diff is one mismatch fact: on the record pair identified by Key, Column
// holds ValueA in the first dataset and ValueB in the second, and the two
// differ as text.
type Diff struct {
	Key    records.Key
	Column string
	ValueA string
	ValueB string
}

// Result holds the three result sets of one reconciliation.
//
// OnlyA and OnlyB carry full records in ascending key order, with the header
// of their originating dataset. Diffs are ordered by key, then by
// compare-column order within a key.
type Result struct {
	Status Status
	OnlyA  records.Dataset
	OnlyB  records.Dataset
	Diffs  []Diff
}

// Options controls reconciliation behavior beyond the column sets.
type Options struct {
	// StrictKeys forwards strict duplicate-key handling to the index builder.
	StrictKeys bool

	// DatasetA and DatasetB label the inputs in error messages, typically the
	// two file paths.
	DatasetA string
	DatasetB string
}

// Reconcile partitions two datasets by composite key and compares the tracked
// columns on shared keys.
//
// If either dataset is empty the comparison is meaningless: Reconcile
// short-circuits with StatusEmptyA/StatusEmptyB and no error, before any
// column validation (matching the emptiness-first behavior of the filters).
// Every key column and compare column must exist in both datasets' headers;
// a missing one fails with SchemaError before any comparison work.
//
// The core computes only. Persisting result sets is WriteResults' job and
// console reporting belongs to the caller.
func Reconcile(a, b records.Dataset, keyColumns, compareColumns []string, opts Options) (Result, error) {
	if a.Empty() {
		return Result{Status: StatusEmptyA}, nil
	}
	if b.Empty() {
		return Result{Status: StatusEmptyB}, nil
	}

	if err := a.RequireFields(opts.DatasetA, compareColumns); err != nil {
		return Result{}, err
	}
	if err := b.RequireFields(opts.DatasetB, compareColumns); err != nil {
		return Result{}, err
	}

	ixA, err := index.Build(a, keyColumns, index.Options{Strict: opts.StrictKeys, Dataset: opts.DatasetA})
	if err != nil {
		return Result{}, err
	}
	ixB, err := index.Build(b, keyColumns, index.Options{Strict: opts.StrictKeys, Dataset: opts.DatasetB})
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Status: StatusCompared,
		OnlyA:  records.Dataset{Fields: a.Fields},
		OnlyB:  records.Dataset{Fields: b.Fields},
	}

	// SortedKeys fixes the iteration order, so all three result sets come out
	// in ascending key order without further sorting.
	for _, k := range ixA.SortedKeys() {
		rec, _ := ixA.Get(k)
		if !ixB.Has(k) {
			res.OnlyA.Records = append(res.OnlyA.Records, rec)
			continue
		}
		other, _ := ixB.Get(k)
		for _, col := range compareColumns {
			va := rec.Value(col)
			vb := other.Value(col)
			if va != vb {
				res.Diffs = append(res.Diffs, Diff{Key: k, Column: col, ValueA: va, ValueB: vb})
			}
		}
	}
	for _, k := range ixB.SortedKeys() {
		if !ixA.Has(k) {
			rec, _ := ixB.Get(k)
			res.OnlyB.Records = append(res.OnlyB.Records, rec)
		}
	}

	return res, nil
}
