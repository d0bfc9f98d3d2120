// Package source loads delimited files (and HTML tables) into datasets.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"csvrecon/internal/config"
	"csvrecon/internal/records"
)

// Read parses delimited text from r into a Dataset. The first row is the
// header and fixes the field-name set and order; header cells are taken
// verbatim apart from edge-whitespace trimming and a BOM strip on the first
// cell, so names like "Attribute 2 value(s)" round-trip unchanged.
//
// Recognized options:
//
//	comma             delimiter rune (default ',')
//	trim_space        trim cell values (default true)
//	lazy_quotes       tolerate bare quotes inside fields (default false)
//	fields_per_record fixed field count; 0 = variable (default 0)
//	encoding          IANA charset name for legacy files (default UTF-8)
//	header            explicit field names for files without a header row;
//	                  when set, every row is data
//	header_map        original -> replacement field name overrides, applied
//	                  after the header is read
//
// Rows shorter than the header read as empty text for the missing trailing
// fields; extra cells beyond the header are dropped.
func Read(r io.Reader, opt config.Options) (records.Dataset, error) {
	if name := opt.String("encoding", ""); name != "" {
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return records.Dataset{}, fmt.Errorf("unsupported encoding %q", name)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	trim := opt.Bool("trim_space", true)

	cr := csv.NewReader(r)
	cr.Comma = opt.Rune("comma", ',')
	cr.ReuseRecord = true
	cr.LazyQuotes = opt.Bool("lazy_quotes", false)
	if n := opt.Int("fields_per_record", 0); n != 0 {
		cr.FieldsPerRecord = n
	} else {
		cr.FieldsPerRecord = -1
	}

	fields := opt.Strings("header")
	if len(fields) == 0 {
		hdr, err := cr.Read()
		if err == io.EOF {
			return records.Dataset{}, nil
		}
		if err != nil {
			return records.Dataset{}, fmt.Errorf("read header: %w", err)
		}

		fields = make([]string, len(hdr))
		for i, h := range hdr {
			if i == 0 {
				h = strings.TrimPrefix(h, "\uFEFF")
			}
			fields[i] = strings.TrimSpace(h)
		}
	}
	if m := opt.StringMap("header_map"); len(m) > 0 {
		for i, f := range fields {
			if repl, ok := m[f]; ok {
				fields[i] = repl
			}
		}
	}

	ds := records.Dataset{Fields: fields}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return records.Dataset{}, fmt.Errorf("csv read: %w", err)
		}

		row := make(records.Record, len(fields))
		for i, f := range fields {
			if i >= len(rec) {
				row[f] = ""
				continue
			}
			v := rec[i]
			if trim {
				v = strings.TrimSpace(v)
			}
			row[f] = v
		}
		ds.Records = append(ds.Records, row)
	}
}

// ReadFile reads a delimited file from disk. Open and decode errors propagate
// unrecovered with the path in the message.
func ReadFile(path string, opt config.Options) (records.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return records.Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Read(f, opt)
	if err != nil {
		return records.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
