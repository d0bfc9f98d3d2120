package records

import "strings"

// keySep is the canonical separator for encoded composite keys. ASCII unit
// separator is vanishingly rare in real data and keeps encoded keys stable.
const keySep = "\x1f"

// Key is a composite key: the ordered tuple of key-column values identifying
// one record. Two records are the same entity iff their Keys are equal as
// text, element by element. No normalization is applied.
type Key []string

// KeyOf extracts the composite key for the given key columns. A missing
// per-record value contributes an empty element, it is not an error.
func KeyOf(r Record, keyColumns []string) Key {
	k := make(Key, len(keyColumns))
	for i, c := range keyColumns {
		k[i] = r.Value(c)
	}
	return k
}

// Encode returns the canonical string form of the key, suitable as a map key.
func (k Key) Encode() string { return strings.Join(k, keySep) }

// String renders the key for logs and error messages.
func (k Key) String() string { return "(" + strings.Join(k, ", ") + ")" }

// Compare orders keys lexicographically over their elements. All keys built
// from one key-column set have equal arity; shorter prefixes sort first as a
// tie-break for safety.
func (k Key) Compare(other Key) int {
	n := len(k)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if k[i] != other[i] {
			if k[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	default:
		return 0
	}
}
