// Package config holds job configuration for the csvrecon tools.
//
// Core packages never read configuration or apply defaults themselves; they
// take explicit parameters. Defaults live here and in the cmd layer.
package config

// Options is a loosely-typed option bag decoded straight from JSON. Accessors
// return the caller-provided default when the key is absent or has the wrong
// type, so option handling never needs error plumbing.
type Options map[string]any

// Bool reads a boolean option.
func (o Options) Bool(name string, def bool) bool {
	if v, ok := o[name].(bool); ok {
		return v
	}
	return def
}

// Int reads an integer option. JSON numbers decode as float64.
func (o Options) Int(name string, def int) int {
	switch v := o[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// String reads a string option.
func (o Options) String(name string, def string) string {
	if v, ok := o[name].(string); ok {
		return v
	}
	return def
}

// Rune reads a single-character option (e.g. a CSV delimiter). Strings with
// more than one rune fall back to the default.
func (o Options) Rune(name string, def rune) rune {
	s, ok := o[name].(string)
	if !ok {
		return def
	}
	rs := []rune(s)
	if len(rs) != 1 {
		return def
	}
	return rs[0]
}

// Strings reads a list-of-strings option. Non-string elements are skipped.
func (o Options) Strings(name string) []string {
	raw, ok := o[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringMap reads a string-to-string map option. Non-string values are skipped.
func (o Options) StringMap(name string) map[string]string {
	raw, ok := o[name].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
