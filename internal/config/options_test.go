package config

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOptionsAccessors(t *testing.T) {
	t.Parallel()

	// Decode through JSON so the dynamic types match what LoadJob produces.
	var o Options
	if err := json.Unmarshal([]byte(`{
		"flag": true,
		"count": 3,
		"name": "x",
		"comma": ";",
		"wide": "ab",
		"list": ["a", "b", 7],
		"tags": {"env": "dev", "n": 1}
	}`), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !o.Bool("flag", false) {
		t.Errorf("Bool(flag)=false")
	}
	if o.Bool("absent", true) != true {
		t.Errorf("Bool default not honored")
	}
	if got := o.Int("count", 0); got != 3 {
		t.Errorf("Int(count)=%d", got)
	}
	if got := o.Int("name", 9); got != 9 {
		t.Errorf("Int with wrong type should default, got %d", got)
	}
	if got := o.String("name", ""); got != "x" {
		t.Errorf("String(name)=%q", got)
	}
	if got := o.Rune("comma", ','); got != ';' {
		t.Errorf("Rune(comma)=%q", got)
	}
	if got := o.Rune("wide", ','); got != ',' {
		t.Errorf("multi-rune string should default, got %q", got)
	}
	if got := o.Strings("list"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Strings(list)=%v", got)
	}
	if got := o.StringMap("tags"); !reflect.DeepEqual(got, map[string]string{"env": "dev"}) {
		t.Errorf("StringMap(tags)=%v", got)
	}
}

func TestOptionsNilReceiver(t *testing.T) {
	t.Parallel()

	var o Options
	if got := o.String("k", "def"); got != "def" {
		t.Fatalf("String on nil Options=%q", got)
	}
	if got := o.Rune("k", ','); got != ',' {
		t.Fatalf("Rune on nil Options=%q", got)
	}
	if o.Strings("k") != nil {
		t.Fatalf("Strings on nil Options should be nil")
	}
}
