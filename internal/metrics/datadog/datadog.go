// Package datadog implements a Datadog backend for the internal/metrics
// package.
//
// Metrics are buffered in-memory under a mutex, submitted periodically from a
// flush loop (default once per minute) and one final time at Close. Short
// reconcile runs therefore still get their tail flush, while long batch runs
// produce an actual time series instead of a single spike at exit.
//
// Concurrency model:
//   - operation goroutines call IncCounter/ObserveHistogram at any time
//   - Flush snapshots+resets buffers under the mutex, then submits out-of-lock
//   - the flush loop calls Flush() periodically; Close() stops the loop
package datadog

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"csvrecon/internal/metrics"
)

// Options controls Datadog backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric. Defaults to "csvrecon".
	JobName string

	// Tags are extra Datadog tags (e.g. []string{"env:prod"}).
	Tags []string

	// FlushEvery controls submission frequency. If <= 0, defaults to 60s.
	FlushEvery time.Duration

	// Unexported test seams. Production code never sets these; unit tests use
	// them to avoid real network submission and nondeterministic clocks.
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

// metricsSubmitter is the minimal interface needed to submit metrics. The
// Datadog SDK exposes a concrete *datadogV2.MetricsApi; depending on this
// interface instead allows deterministic tests with a fake submitter.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string

	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker

	mu      sync.Mutex
	counts  map[string]float64   // seriesKey -> sum
	samples map[string][]float64 // seriesKey -> raw samples
}

// NewBackend constructs a Datadog backend using the official client and
// starts its periodic flush goroutine. Credentials come from the standard
// DD_API_KEY/DD_APP_KEY environment, as dd.NewDefaultContext arranges.
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	job := opts.JobName
	if job == "" {
		job = "csvrecon"
	}

	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 2+len(opts.Tags))
	baseTags = append(baseTags, resolveEnvTag(), "job:"+job)
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}
	newTicker := opts.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}

	submitter := opts.submitter
	if submitter == nil {
		cfg := dd.NewConfiguration()
		client := dd.NewAPIClient(cfg)
		submitter = datadogV2.NewMetricsApi(client)
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		baseTags:   baseTags,
		now:        nowFn,
		newTicker:  newTicker,
		counts:     make(map[string]float64),
		samples:    make(map[string][]float64),
	}

	go b.loop()
	return b, nil
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	if v := strings.TrimSpace(os.Getenv("DD_ENV")); v != "" {
		return "env:" + v
	}
	return "env:unknown"
}

func (b *Backend) loop() {
	defer close(b.doneCh)

	t := b.newTicker(b.flushEvery)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the background flush loop and performs one final Flush().
// Call once at process shutdown.
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta <= 0 {
		return
	}
	k := seriesKey(name, labels)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts[k] += delta
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if value < 0 {
		return
	}
	k := seriesKey(name, labels)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples[k] = append(b.samples[k], value)
}

// seriesKey encodes a metric name plus its labels as "name|k:v|k:v" with
// sorted label order, so equal series always buffer together.
func seriesKey(name string, labels metrics.Labels) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(name)
	for _, k := range keys {
		sb.WriteString("|")
		sb.WriteString(k)
		sb.WriteString(":")
		sb.WriteString(labels[k])
	}
	return sb.String()
}

// splitSeriesKey reverses seriesKey into the metric name and tag list.
func splitSeriesKey(k string) (name string, tags []string) {
	parts := strings.Split(k, "|")
	return parts[0], parts[1:]
}

// snapshotAndReset grabs buffered metrics and resets the buffers. Flush must
// reset under the lock but submit out-of-lock; this is the seam between the
// two.
func (b *Backend) snapshotAndReset() (counts map[string]float64, samples map[string][]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts, samples = b.counts, b.samples
	b.counts = make(map[string]float64)
	b.samples = make(map[string][]float64)
	return counts, samples
}

// Flush submits buffered metrics to Datadog and resets local buffers.
// Buffers reset even if submission fails, so a Datadog outage never blocks or
// bloats the reconcile run. Returns nil when there was nothing to submit.
func (b *Backend) Flush() error {
	counts, samples := b.snapshotAndReset()
	if len(counts) == 0 && len(samples) == 0 {
		return nil
	}

	series := b.buildSeries(counts, samples, b.now().Unix())

	_, _, err := b.api.SubmitMetrics(b.ctx, datadogV2.MetricPayload{Series: series}, *datadogV2.NewSubmitMetricsOptionalParameters())
	return err
}

// buildSeries constructs Datadog series for a snapshot at a fixed timestamp.
// Pure (no locks, no network, no clocks), so naming/tagging behavior is unit
// testable.
func (b *Backend) buildSeries(counts map[string]float64, samples map[string][]float64, nowUnix int64) []datadogV2.MetricSeries {
	series := make([]datadogV2.MetricSeries, 0, len(counts)+3*len(samples))

	for k, v := range counts {
		if v == 0 {
			continue
		}
		name, tags := splitSeriesKey(k)
		series = append(series, datadogV2.MetricSeries{
			Metric: ddName(name),
			Type:   datadogV2.METRICINTAKETYPE_COUNT.Ptr(),
			Points: []datadogV2.MetricPoint{
				{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(v)},
			},
			Tags: append(append([]string{}, b.baseTags...), tags...),
		})
	}

	for k, vals := range samples {
		if len(vals) == 0 {
			continue
		}
		name, tags := splitSeriesKey(k)
		for _, agg := range summarize(vals) {
			series = append(series, datadogV2.MetricSeries{
				Metric: ddName(name) + "." + agg.suffix,
				Type:   datadogV2.METRICINTAKETYPE_GAUGE.Ptr(),
				Points: []datadogV2.MetricPoint{
					{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(agg.value)},
				},
				Tags: append(append([]string{}, b.baseTags...), tags...),
			})
		}
	}

	return series
}

type aggregate struct {
	suffix string
	value  float64
}

// summarize reduces raw samples to the gauges we ship: avg, max and p95.
func summarize(vals []float64) []aggregate {
	sorted := append([]float64{}, vals...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	p95Idx := (len(sorted)*95 + 99) / 100
	if p95Idx > 0 {
		p95Idx--
	}

	return []aggregate{
		{"avg", sum / float64(len(sorted))},
		{"max", sorted[len(sorted)-1]},
		{"p95", sorted[p95Idx]},
	}
}

// ddName converts an internal snake_case metric name into Datadog dotted form
// (recon_records_total -> csvrecon.records.total).
func ddName(name string) string {
	name = strings.TrimPrefix(name, "recon_")
	return "csvrecon." + strings.ReplaceAll(name, "_", ".")
}

// ParseTagsCSV splits a comma-separated tag list, trimming blanks.
func ParseTagsCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
