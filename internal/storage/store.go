// Package storage persists the mutable per-workspace state: mining-unit
// allocations keyed by composite deposit key, and resource prices. The
// catalog itself is read-only and never passes through here.
package storage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config selects and locates the storage backend. It is passed into
// constructors explicitly; there is no process-wide settings object.
type Config struct {
	Backend string
	DataDir string
}

// AllocationStore holds the mining-unit snapshot. A load never fails:
// missing or corrupt state is an empty map, logged and carried on.
type AllocationStore interface {
	LoadAllocations() map[string]int
	SaveAllocations(units map[string]int) error
}

// PriceStore holds the resource price snapshot with the same recovery
// contract as AllocationStore.
type PriceStore interface {
	LoadPrices() map[string]float64
	SavePrices(prices map[string]float64) error
}

// Store is one workspace's persistence handle.
type Store interface {
	AllocationStore
	PriceStore
	Close() error
}

// Open builds the configured backend rooted at cfg.DataDir.
func Open(cfg Config, log zerolog.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return NewFileStore(cfg.DataDir, log), nil
	case BackendSQLite:
		return OpenSQLiteStore(cfg.DataDir, log)
	}
	return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
}
