package main

import (
	"fmt"
	"log"

	"csvrecon/internal/config"
	"csvrecon/internal/filter"
	"csvrecon/internal/metrics"
	"csvrecon/internal/records"
	"csvrecon/internal/sink"
	"csvrecon/internal/source"
)

// filterJob is one filter invocation, assembled from flags by main.
type filterJob struct {
	In        string
	Format    string
	Delimiter string
	Selector  string

	Op     string
	Column string
	Value  string

	Out           string
	ComplementOut string

	CaseSensitive bool
	Trim          bool
}

// runFilter loads the input, applies the selected predicate and writes the
// requested outputs. Empty input is a logged outcome, not an error.
func runFilter(job filterJob, verbose bool) error {
	opt := config.Options{"comma": job.Delimiter, "format": job.Format}
	if job.Selector != "" {
		opt["selector"] = job.Selector
	}

	ds, err := source.Load(job.In, opt)
	if err != nil {
		return err
	}
	if ds.Empty() {
		log.Printf("%s has no rows", job.In)
		return nil
	}

	var matched, rest records.Dataset
	switch job.Op {
	case "exact":
		matched, err = filter.Exact(ds, job.Column, job.Value)
	case "partition":
		matched, rest, err = filter.Partition(ds, job.Column, job.Value)
	case "prefix":
		matched, err = filter.Prefix(ds, job.Column, job.Value, filter.PrefixOptions{
			CaseSensitive: job.CaseSensitive,
			TrimSpace:     job.Trim,
		})
	case "token":
		matched, err = filter.TokenPrefix(ds, job.Column, job.Value)
	default:
		return fmt.Errorf("unknown op %q", job.Op)
	}
	if err != nil {
		return err
	}

	metrics.IncCounter(metrics.FilterRowsTotal, float64(len(matched.Records)), metrics.Labels{"op": job.Op, "result": "matched"})

	log.Printf("%d of %d rows matched %s on column %q", len(matched.Records), len(ds.Records), job.Op, job.Column)

	if job.Out != "" {
		if err := sink.WriteFile(job.Out, matched.Fields, matched.Records); err != nil {
			return err
		}
		log.Printf("wrote %d rows to %s", len(matched.Records), job.Out)
	}

	if job.Op == "partition" {
		metrics.IncCounter(metrics.FilterRowsTotal, float64(len(rest.Records)), metrics.Labels{"op": job.Op, "result": "rest"})
		if job.ComplementOut != "" {
			if err := sink.WriteFile(job.ComplementOut, rest.Fields, rest.Records); err != nil {
				return err
			}
			log.Printf("wrote %d rows to %s", len(rest.Records), job.ComplementOut)
		}
	} else if job.ComplementOut != "" {
		log.Printf("-complement-out is only used with -op partition; ignored")
	}

	if verbose && len(matched.Records) > 0 {
		for _, r := range matched.Records {
			log.Printf("  %s=%q", job.Column, r.Value(job.Column))
		}
	}
	return nil
}
