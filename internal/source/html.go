package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"csvrecon/internal/config"
	"csvrecon/internal/records"
)

// ReadHTMLTable extracts a single HTML table into a Dataset. Analyst exports
// are often HTML rather than CSV; this keeps them usable without a separate
// conversion step.
//
// Recognized options:
//
//	selector   CSS selector for the table element (default "table", first match)
//	trim_space trim cell text (default true)
//
// The header comes from the table's <th> cells when present, otherwise from
// the first row. Rows shorter than the header read as empty text for the
// missing trailing fields; extra cells are dropped.
func ReadHTMLTable(r io.Reader, opt config.Options) (records.Dataset, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return records.Dataset{}, fmt.Errorf("parse html: %w", err)
	}

	sel := opt.String("selector", "table")
	trim := opt.Bool("trim_space", true)

	table := doc.Find(sel).First()
	if table.Length() == 0 {
		return records.Dataset{}, fmt.Errorf("no table matched selector %q", sel)
	}

	cell := func(s *goquery.Selection) string {
		v := s.Text()
		if trim {
			v = strings.TrimSpace(v)
		}
		return v
	}

	var ds records.Dataset
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		if cells.Length() == 0 {
			return
		}

		if ds.Fields == nil {
			cells.Each(func(_ int, c *goquery.Selection) {
				ds.Fields = append(ds.Fields, cell(c))
			})
			return
		}

		row := make(records.Record, len(ds.Fields))
		cells.Each(func(i int, c *goquery.Selection) {
			if i < len(ds.Fields) {
				row[ds.Fields[i]] = cell(c)
			}
		})
		for _, f := range ds.Fields {
			if _, ok := row[f]; !ok {
				row[f] = ""
			}
		}
		ds.Records = append(ds.Records, row)
	})

	return ds, nil
}

// ReadHTMLTableFile reads an HTML file from disk and extracts one table.
func ReadHTMLTableFile(path string, opt config.Options) (records.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return records.Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadHTMLTable(f, opt)
	if err != nil {
		return records.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
