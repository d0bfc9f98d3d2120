// Package index builds keyed indexes: lookup structures from composite key to
// record for one dataset, used by the reconciler's set algebra.
package index

import (
	"sort"

	"csvrecon/internal/records"
)

// Options controls index construction.
type Options struct {
	// Strict makes Build fail with a DuplicateKeyError when two records share
	// a composite key. The default resolves duplicates last-write-wins: the
	// later record in sequence order silently supersedes the earlier one.
	Strict bool

	// Dataset labels the dataset in SchemaError messages, typically the
	// source file path.
	Dataset string
}

type entry struct {
	key records.Key
	rec records.Record
}

// Index maps composite keys to records. At most one record per key; with
// duplicate keys in the source the later record wins unless Strict was set.
type Index struct {
	entries map[string]entry
}

// Build converts a dataset into an Index over keyColumns.
//
// An empty dataset yields an empty index with no error; this is checked
// before key-column validation, so filtering an empty file never reports a
// schema problem. A key column absent from the dataset's header is a
// configuration error and fails with SchemaError.
func Build(ds records.Dataset, keyColumns []string, opts Options) (*Index, error) {
	ix := &Index{entries: make(map[string]entry, len(ds.Records))}
	if ds.Empty() {
		return ix, nil
	}
	if err := ds.RequireFields(opts.Dataset, keyColumns); err != nil {
		return nil, err
	}

	for _, r := range ds.Records {
		k := records.KeyOf(r, keyColumns)
		enc := k.Encode()
		if opts.Strict {
			if _, exists := ix.entries[enc]; exists {
				return nil, &records.DuplicateKeyError{Key: k}
			}
		}
		ix.entries[enc] = entry{key: k, rec: r}
	}
	return ix, nil
}

// Len returns the number of distinct composite keys in the index.
func (ix *Index) Len() int { return len(ix.entries) }

// Get returns the record stored under k.
func (ix *Index) Get(k records.Key) (records.Record, bool) {
	e, ok := ix.entries[k.Encode()]
	return e.rec, ok
}

// Has reports whether k is present.
func (ix *Index) Has(k records.Key) bool {
	_, ok := ix.entries[k.Encode()]
	return ok
}

// SortedKeys returns all keys in ascending tuple order. The ordering is part
// of the contract: every downstream key iteration must be reproducible.
func (ix *Index) SortedKeys() []records.Key {
	out := make([]records.Key, 0, len(ix.entries))
	for _, e := range ix.entries {
		out = append(out, e.key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}
