// Package metrics is a small facade over pluggable metrics backends.
//
// Core packages stay backend-agnostic: they call the package-level helpers
// and whatever backend the main package installed receives the values. The
// default backend is a no-op, so library use without metrics costs nothing.
package metrics

import "sync"

// Labels attach dimensions to a metric (e.g. {"kind": "file1"}).
type Labels map[string]string

// Backend receives metric updates. Implementations must be safe for
// concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs the process-wide backend. Call once from main before
// any operations run.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		backend = nopBackend{}
		return
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// IncCounter adds delta to a counter.
func IncCounter(name string, delta float64, labels Labels) {
	current().IncCounter(name, delta, labels)
}

// ObserveHistogram records one sample of a distribution.
func ObserveHistogram(name string, value float64, labels Labels) {
	current().ObserveHistogram(name, value, labels)
}

// Flush forwards buffered metrics to their destination.
func Flush() error { return current().Flush() }

// Metric names used across the module.
const (
	RecordsTotal       = "recon_records_total"        // labels: kind=file1|file2
	KeysTotal          = "recon_keys_total"           // labels: set=only_in_1|only_in_2|shared
	DiffsTotal         = "recon_diffs_total"          // no labels
	RunsTotal          = "recon_runs_total"           // labels: status
	RunDurationSeconds = "recon_run_duration_seconds" // labels: status
	FilterRowsTotal    = "filter_rows_total"          // labels: op, result=matched|rest
)
