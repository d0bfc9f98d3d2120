// Package sink writes datasets back to delimited files.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"csvrecon/internal/records"
)

// Write emits the header and records to w in the given field order. Missing
// values write as empty text.
func Write(w io.Writer, fields []string, recs []records.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(fields))
	for _, r := range recs {
		for i, f := range fields {
			row[i] = r.Value(f)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to path, truncating any existing file. Write
// failures propagate unrecovered with the path in the message.
func WriteFile(path string, fields []string, recs []records.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := Write(f, fields, recs); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
