package main

import (
	"context"
	"log"
	"time"

	"csvrecon/internal/config"
	"csvrecon/internal/metrics"
	"csvrecon/internal/recon"
	"csvrecon/internal/records"
	"csvrecon/internal/resultstore"
	"csvrecon/internal/source"
)

// runJob executes one reconcile job end to end: load both inputs, reconcile,
// report on the log, write CSV outputs and optionally persist to the result
// store. Any schema or I/O error aborts the whole run before partial output.
func runJob(ctx context.Context, job config.Job, verbose bool) error {
	start := time.Now()

	ds1, err := source.Load(job.File1.Path, job.File1.Options)
	if err != nil {
		return err
	}
	ds2, err := source.Load(job.File2.Path, job.File2.Options)
	if err != nil {
		return err
	}

	metrics.IncCounter(metrics.RecordsTotal, float64(len(ds1.Records)), metrics.Labels{"kind": "file1"})
	metrics.IncCounter(metrics.RecordsTotal, float64(len(ds2.Records)), metrics.Labels{"kind": "file2"})

	res, err := recon.Reconcile(ds1, ds2, job.KeyColumns, job.CompareColumns, recon.Options{
		StrictKeys: job.StrictKeys,
		DatasetA:   job.File1.Path,
		DatasetB:   job.File2.Path,
	})
	if err != nil {
		return err
	}

	metrics.IncCounter(metrics.RunsTotal, 1, metrics.Labels{"status": res.Status.String()})
	metrics.ObserveHistogram(metrics.RunDurationSeconds, time.Since(start).Seconds(), metrics.Labels{"status": res.Status.String()})

	switch res.Status {
	case recon.StatusEmptyA:
		log.Printf("%s has no data; nothing to compare", job.File1.Path)
		return nil
	case recon.StatusEmptyB:
		log.Printf("%s has no data; nothing to compare", job.File2.Path)
		return nil
	}

	metrics.IncCounter(metrics.KeysTotal, float64(len(res.OnlyA.Records)), metrics.Labels{"set": "only_in_1"})
	metrics.IncCounter(metrics.KeysTotal, float64(len(res.OnlyB.Records)), metrics.Labels{"set": "only_in_2"})
	metrics.IncCounter(metrics.DiffsTotal, float64(len(res.Diffs)), nil)

	reportResult(job, res, verbose)

	written, err := recon.WriteResults(res, job.KeyColumns, recon.Outputs{
		OnlyAPath:      job.Outputs.OnlyIn1,
		OnlyBPath:      job.Outputs.OnlyIn2,
		DiffPath:       job.Outputs.Diff,
		WriteEmptyDiff: job.Outputs.WriteEmptyDiff,
	})
	if err != nil {
		return err
	}
	if written.Diff {
		log.Printf("wrote %d differences to %s", len(res.Diffs), job.Outputs.Diff)
	} else if job.Outputs.Diff != "" {
		log.Printf("no column differences found; diff CSV not created")
	}

	if job.Store.Kind != "" {
		prefix := job.Store.TablePrefix
		if prefix == "" {
			prefix = job.Job
		}
		st, err := resultstore.New(ctx, resultstore.Config{Kind: job.Store.Kind, DSN: job.Store.DSN})
		if err != nil {
			return err
		}
		defer st.Close()
		if err := resultstore.SaveResult(ctx, st, res, job.KeyColumns, prefix); err != nil {
			return err
		}
		if verbose {
			log.Printf("saved results to %s store (prefix=%s)", job.Store.Kind, prefix)
		}
	}

	return nil
}

// reportResult logs the human-readable summary. Logging is presentation only;
// the structured result is what downstream consumers get.
func reportResult(job config.Job, res recon.Result, verbose bool) {
	if len(res.OnlyA.Records) > 0 {
		log.Printf("%d records only in %s", len(res.OnlyA.Records), job.File1.Path)
		if verbose {
			for _, r := range res.OnlyA.Records {
				log.Printf("  key=%s -> %v", records.KeyOf(r, job.KeyColumns), r)
			}
		}
	}
	if len(res.OnlyB.Records) > 0 {
		log.Printf("%d records only in %s", len(res.OnlyB.Records), job.File2.Path)
		if verbose {
			for _, r := range res.OnlyB.Records {
				log.Printf("  key=%s -> %v", records.KeyOf(r, job.KeyColumns), r)
			}
		}
	}
	for _, d := range res.Diffs {
		log.Printf("diff key=%s column=%s: %q vs %q", d.Key, d.Column, d.ValueA, d.ValueB)
	}
	if len(res.OnlyA.Records) == 0 && len(res.OnlyB.Records) == 0 && len(res.Diffs) == 0 {
		log.Printf("no differences found for the given key/compare columns")
	}
}
