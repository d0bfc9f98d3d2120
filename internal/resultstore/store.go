// Package resultstore persists reconciliation result sets to a relational
// database, so analysts can query them with SQL instead of (or as well as)
// the CSV reports.
//
// Backend selection mirrors the rest of the module's configuration style:
// a kind string resolved through a factory registry, with each backend
// registering itself from an init() function.
package resultstore

import (
	"context"
	"fmt"
	"sync"
)

// Config is the minimal configuration needed to open a result store.
//
// Kind must match a registered backend kind ("sqlite", "postgres", "mssql").
// DSN is passed through to the backend factory; validation is backend-specific.
type Config struct {
	Kind string
	DSN  string
}

// Store is the backend-agnostic interface the reconciler output needs. All
// result columns are text; this module never coerces types.
type Store interface {
	// Close releases backend resources. Treat as "call once".
	Close()

	// EnsureTable creates the table with TEXT columns if it does not exist.
	EnsureTable(ctx context.Context, table string, columns []string) error

	// Reset deletes all rows so reruns of the same job replace, not append.
	Reset(ctx context.Context, table string) error

	// InsertRows appends rows aligned to columns and reports rows affected.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]string) (int64, error)
}

type factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind. Call from an init() function in
// the backend package. Registering the same kind twice panics; failing fast
// beats ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("resultstore: Register called with empty kind")
	}
	if f == nil {
		panic("resultstore: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("resultstore: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Store using the registered backend factory for cfg.Kind.
func New(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("resultstore: missing Kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported resultstore kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
