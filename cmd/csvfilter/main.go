// Command csvfilter extracts subsets of a delimited file by a column
// predicate: exact value, exact value with complement, prefix, or
// token-prefix pattern.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"csvrecon/internal/metrics"
	"csvrecon/internal/metrics/datadog"
)

func main() {
	var job filterJob

	flag.StringVar(&job.In, "in", "", "input path")
	flag.StringVar(&job.Format, "format", "csv", "input format: csv or html")
	flag.StringVar(&job.Op, "op", "exact", "filter operation: exact, partition, prefix, token")
	flag.StringVar(&job.Column, "column", "", "column to filter on")
	flag.StringVar(&job.Value, "value", "", "value, prefix or token target to match")
	flag.StringVar(&job.Delimiter, "delimiter", ",", "field delimiter (csv)")
	flag.StringVar(&job.Selector, "selector", "", "CSS selector for the table element (html)")
	flag.StringVar(&job.Out, "out", "", "CSV path for matched records (empty = don't write)")
	flag.StringVar(&job.ComplementOut, "complement-out", "", "CSV path for non-matched records (partition only)")
	flag.BoolVar(&job.CaseSensitive, "case-sensitive", true, "prefix: compare case-sensitively")
	flag.BoolVar(&job.Trim, "trim", true, "prefix: trim whitespace from values before comparison")

	metricsBackendFlg := flag.String("metrics-backend", "none", "metrics backend to use (datadog, none)")
	metricsTagsFlg := flag.String("metrics-tags", "", "extra metrics tags, comma-separated")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if job.In == "" || job.Column == "" {
		fatalf("-in and -column are required")
	}

	backendName := *metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		extraTags := datadog.ParseTagsCSV(*metricsTagsFlg)
		if env := datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")); len(env) > 0 {
			extraTags = append(extraTags, env...)
		}

		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName:    "csvfilter",
			Tags:       extraTags,
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}

	case "", "none":
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	if err := runFilter(job, *verbose); err != nil {
		log.Fatalf("%v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
