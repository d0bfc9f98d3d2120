// Command csvrecon reconciles two delimited files by key columns: it reports
// which records exist only in one file and which shared records disagree on
// the compared columns.
//
// The job can be given entirely in flags or as a JSON config via -config.
// Results go to CSV files, optionally to a relational result store, and are
// always summarized on the log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	// register the "sqlserver" driver for the mssql result store.
	_ "github.com/microsoft/go-mssqldb"

	"csvrecon/internal/config"
	"csvrecon/internal/metrics"
	"csvrecon/internal/metrics/datadog"

	// register all result store backends with the factory.
	_ "csvrecon/internal/resultstore/all"
)

func main() {
	var (
		cfgPath  string
		validate bool

		file1, file2   string
		keys, compare  string
		delimiter      string
		diffOut        string
		only1Out       string
		only2Out       string
		writeEmptyDiff bool
		strictKeys     bool

		storeKind   string
		storeDSN    string
		storePrefix string

		metricsBackendFlg string
		metricsTagsFlg    string
	)

	flag.StringVar(&cfgPath, "config", "", "job config JSON path (overrides the per-field flags)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")

	flag.StringVar(&file1, "file1", "", "first input CSV")
	flag.StringVar(&file2, "file2", "", "second input CSV")
	flag.StringVar(&keys, "keys", "", "comma-separated key columns")
	flag.StringVar(&compare, "compare", "", "comma-separated compare columns")
	flag.StringVar(&delimiter, "delimiter", ",", "field delimiter for both inputs")
	flag.StringVar(&diffOut, "diff-out", "", "CSV path for value differences (empty = don't write)")
	flag.StringVar(&only1Out, "only1-out", "", "CSV path for records only in file1")
	flag.StringVar(&only2Out, "only2-out", "", "CSV path for records only in file2")
	flag.BoolVar(&writeEmptyDiff, "write-empty-diff", false, "create the diff file even when there are no differences")
	flag.BoolVar(&strictKeys, "strict-keys", false, "fail on duplicate composite keys instead of last-write-wins")

	flag.StringVar(&storeKind, "store-kind", "", "result store backend (sqlite, postgres, mssql; empty = none)")
	flag.StringVar(&storeDSN, "store-dsn", "", "result store DSN")
	flag.StringVar(&storePrefix, "store-prefix", "", "result store table prefix (default: job name)")

	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (datadog, none)")
	flag.StringVar(&metricsTagsFlg, "metrics-tags", "", "extra metrics tags, comma-separated")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	var job config.Job
	if cfgPath != "" {
		var err error
		job, err = config.LoadJob(cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
	} else {
		job = config.Job{
			Job:            "csvrecon",
			File1:          config.Input{Path: file1, Options: config.Options{"comma": delimiter}},
			File2:          config.Input{Path: file2, Options: config.Options{"comma": delimiter}},
			KeyColumns:     splitColumns(keys),
			CompareColumns: splitColumns(compare),
			StrictKeys:     strictKeys,
			Outputs: config.Outputs{
				Diff:           diffOut,
				OnlyIn1:        only1Out,
				OnlyIn2:        only2Out,
				WriteEmptyDiff: writeEmptyDiff,
			},
			Store:   config.Store{Kind: storeKind, DSN: storeDSN, TablePrefix: storePrefix},
			Metrics: config.Metrics{Backend: metricsBackendFlg, Tags: metricsTagsFlg},
		}
	}

	issues := config.ValidateJob(job)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("configuration is invalid")
		os.Exit(1)
	}
	if validate {
		log.Printf("configuration is valid")
		os.Exit(0)
	}

	// Decide metrics backend: flag/config → env → none.
	backendName := job.Metrics.Backend
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		extraTags := datadog.ParseTagsCSV(job.Metrics.Tags)
		if env := datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")); len(env) > 0 {
			extraTags = append(extraTags, env...)
		}

		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName:    job.Job,
			Tags:       extraTags,
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			if *verbose {
				log.Printf("metrics: backend=%v job=%v tags=%v", backendName, job.Job, extraTags)
			}
			metrics.SetBackend(b)
			// Close stops the flush loop and performs the final flush.
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

	ctx := context.Background()
	start := time.Now()

	if err := runJob(ctx, job, *verbose); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func splitColumns(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(s, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
