package source

import (
	"fmt"

	"csvrecon/internal/config"
	"csvrecon/internal/records"
)

// Load reads one input file as a Dataset, dispatching on the "format" option.
//
//	format   "csv" (default) or "html"
//
// The remaining options go to the selected reader: delimiter and header
// handling for CSV, selector for HTML tables.
func Load(path string, opt config.Options) (records.Dataset, error) {
	switch f := opt.String("format", "csv"); f {
	case "", "csv":
		return ReadFile(path, opt)
	case "html":
		return ReadHTMLTableFile(path, opt)
	default:
		return records.Dataset{}, fmt.Errorf("%s: unsupported format %q", path, f)
	}
}
