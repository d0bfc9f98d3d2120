// Package records defines the tabular data model shared by sources, filters,
// the keyed index and the reconciler.
//
// A Record is a field-name -> value mapping for one row. All values are text;
// there is no type coercion anywhere in this module. Field order is not a
// property of the Record itself (Go maps are unordered) but of the Dataset
// header, which mirrors the CSV header row.
package records

// Record is one row of a dataset. A field that is absent from the map reads
// as empty text via Value.
type Record map[string]string

// Value returns the record's value for field, or "" when the field is absent.
func (r Record) Value(field string) string {
	if r == nil {
		return ""
	}
	return r[field]
}

// Dataset is an ordered sequence of records plus the header that fixes the
// field-name set and order for every record in it.
type Dataset struct {
	Fields  []string
	Records []Record
}

// Empty reports whether the dataset has no records. An empty dataset is a
// "nothing to do" outcome for every operation in this module, never an error.
func (d Dataset) Empty() bool { return len(d.Records) == 0 }

// HasField reports whether name is part of the dataset's header.
func (d Dataset) HasField(name string) bool {
	for _, f := range d.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// RequireFields validates that every name is present in the dataset's header.
// The first missing name produces a SchemaError. dataset is the label used in
// the error message (typically the source file path).
func (d Dataset) RequireFields(dataset string, names []string) error {
	for _, n := range names {
		if !d.HasField(n) {
			return &SchemaError{Column: n, Dataset: dataset}
		}
	}
	return nil
}
