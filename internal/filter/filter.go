// Package filter selects subsets of a dataset by per-record predicates on one
// column: exact match, prefix match and token-prefix match.
//
// All filters share the same contract: an empty dataset returns an empty
// result before any validation, a column missing from the header fails with
// SchemaError, and a missing per-record value reads as empty text.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"csvrecon/internal/records"
)

// Exact returns the records whose column value equals value as text.
func Exact(ds records.Dataset, column, value string) (records.Dataset, error) {
	return selectRows(ds, column, func(v string) bool { return v == value })
}

// Partition splits the dataset into records matching value exactly and the
// complement, in a single pass. The two outputs partition the input: every
// record lands in exactly one of them, in input order.
func Partition(ds records.Dataset, column, value string) (matched, rest records.Dataset, err error) {
	matched = records.Dataset{Fields: ds.Fields}
	rest = records.Dataset{Fields: ds.Fields}
	if ds.Empty() {
		return matched, rest, nil
	}
	if err := ds.RequireFields("", []string{column}); err != nil {
		return matched, rest, err
	}
	for _, r := range ds.Records {
		if r.Value(column) == value {
			matched.Records = append(matched.Records, r)
		} else {
			rest.Records = append(rest.Records, r)
		}
	}
	return matched, rest, nil
}

// PrefixOptions tunes the prefix filter. Both toggles are independent; the
// historical defaults are case-sensitive comparison with trimming enabled.
// Defaults belong to the calling layer, so callers set both fields
// explicitly.
type PrefixOptions struct {
	// CaseSensitive compares bytes as-is. When false, both the value and the
	// prefix are lowercased before comparison.
	CaseSensitive bool

	// TrimSpace strips leading/trailing whitespace from the value before
	// comparison. Trimming happens before case folding.
	TrimSpace bool
}

// Prefix returns the records whose column value starts with prefix.
func Prefix(ds records.Dataset, column, prefix string, opts PrefixOptions) (records.Dataset, error) {
	cmp := prefix
	if !opts.CaseSensitive {
		cmp = strings.ToLower(cmp)
	}
	return selectRows(ds, column, func(v string) bool {
		if opts.TrimSpace {
			v = strings.TrimSpace(v)
		}
		if !opts.CaseSensitive {
			v = strings.ToLower(v)
		}
		return strings.HasPrefix(v, cmp)
	})
}

// TokenPrefix returns the records whose column value contains a whole word
// beginning with target, case-insensitively. A word boundary is required on
// the left of target; trailing word characters are allowed, so for target
// "cuba" the values "Cuba", "Cuban Sandwich" and "Cubalibre!" all match while
// an embedded occurrence like "Aruba" does not.
//
// Word characters and boundaries are ASCII: a non-ASCII letter adjacent to
// the target counts as a separator, so "åcuba" matches target "cuba".
func TokenPrefix(ds records.Dataset, column, target string) (records.Dataset, error) {
	re, err := tokenPattern(target)
	if err != nil {
		return records.Dataset{Fields: ds.Fields}, err
	}
	return selectRows(ds, column, func(v string) bool {
		if v == "" {
			return false
		}
		return re.MatchString(v)
	})
}

// tokenPattern compiles the boundary-anchored pattern for target. The target
// is matched literally; regexp metacharacters in it carry no meaning.
func tokenPattern(target string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(target) + `\w*\b`)
	if err != nil {
		return nil, fmt.Errorf("token pattern for %q: %w", target, err)
	}
	return re, nil
}

func selectRows(ds records.Dataset, column string, keep func(string) bool) (records.Dataset, error) {
	out := records.Dataset{Fields: ds.Fields}
	if ds.Empty() {
		return out, nil
	}
	if err := ds.RequireFields("", []string{column}); err != nil {
		return out, err
	}
	for _, r := range ds.Records {
		if keep(r.Value(column)) {
			out.Records = append(out.Records, r)
		}
	}
	return out, nil
}
