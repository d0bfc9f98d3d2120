package source

import (
	"reflect"
	"strings"
	"testing"

	"csvrecon/internal/config"
)

const sampleTable = `<html><body>
<table>
  <tr><th>id</th><th>name</th><th>price</th></tr>
  <tr><td>1</td><td> Zyn </td><td>10</td></tr>
  <tr><td>2</td><td>Velo</td></tr>
</table>
</body></html>`

func TestReadHTMLTable_HeaderFromTH(t *testing.T) {
	t.Parallel()

	ds, err := ReadHTMLTable(strings.NewReader(sampleTable), nil)
	if err != nil {
		t.Fatalf("ReadHTMLTable: %v", err)
	}
	if !reflect.DeepEqual(ds.Fields, []string{"id", "name", "price"}) {
		t.Fatalf("Fields=%v", ds.Fields)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("records=%d want 2", len(ds.Records))
	}
	if got := ds.Records[0].Value("name"); got != "Zyn" {
		t.Fatalf("name=%q want %q", got, "Zyn")
	}
	// Missing trailing cell reads as empty text.
	if got := ds.Records[1].Value("price"); got != "" {
		t.Fatalf("price=%q want empty", got)
	}
}

func TestReadHTMLTable_HeaderFromFirstRow(t *testing.T) {
	t.Parallel()

	in := `<table><tr><td>a</td><td>b</td></tr><tr><td>1</td><td>2</td></tr></table>`
	ds, err := ReadHTMLTable(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("ReadHTMLTable: %v", err)
	}
	if !reflect.DeepEqual(ds.Fields, []string{"a", "b"}) {
		t.Fatalf("Fields=%v", ds.Fields)
	}
	if len(ds.Records) != 1 || ds.Records[0].Value("b") != "2" {
		t.Fatalf("records=%+v", ds.Records)
	}
}

func TestReadHTMLTable_Selector(t *testing.T) {
	t.Parallel()

	in := `<table id="x"><tr><td>skip</td></tr></table>
<table id="y"><tr><th>k</th></tr><tr><td>v</td></tr></table>`

	ds, err := ReadHTMLTable(strings.NewReader(in), config.Options{"selector": "#y"})
	if err != nil {
		t.Fatalf("ReadHTMLTable: %v", err)
	}
	if len(ds.Fields) != 1 || ds.Fields[0] != "k" {
		t.Fatalf("Fields=%v", ds.Fields)
	}
	if len(ds.Records) != 1 || ds.Records[0].Value("k") != "v" {
		t.Fatalf("records=%+v", ds.Records)
	}
}

func TestReadHTMLTable_NoMatch(t *testing.T) {
	t.Parallel()

	_, err := ReadHTMLTable(strings.NewReader("<p>no tables here</p>"), nil)
	if err == nil {
		t.Fatalf("expected error when no table matches")
	}
}
