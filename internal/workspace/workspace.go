// Package workspace owns one user's session state: the loaded catalog,
// the mining-unit allocations merged into it, and the price table. One
// workspace maps to one data directory and one active session; nothing
// here is safe for concurrent mutation.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/echomine/planetctl/internal/catalog"
	"github.com/echomine/planetctl/internal/prices"
	"github.com/echomine/planetctl/internal/storage"
)

var (
	ErrUnknownDeposit = errors.New("workspace: unknown deposit")
	ErrNegativeUnits  = errors.New("workspace: mining units must not be negative")
)

// Config assembles a workspace. Backend selection travels here
// explicitly; there is no ambient settings object to consult.
type Config struct {
	DatasetPath  string
	FallbackPath string
	DataRoot     string
	User         string
	Backend      string
}

// DataDir is the workspace's private directory under the data root.
func (c Config) DataDir() string {
	if strings.TrimSpace(c.User) == "" {
		return c.DataRoot
	}
	return filepath.Join(c.DataRoot, "user_data", c.User)
}

// ImportsDir holds previously imported price files for history scans.
func (c Config) ImportsDir() string {
	return filepath.Join(c.DataDir(), "price_imports")
}

// Workspace is the canonical session state. All mutation of mining
// units goes through SetMiningUnits; derived views recompute from here.
type Workspace struct {
	cfg    Config
	log    zerolog.Logger
	store  storage.Store
	loader *catalog.Loader
	cat    *catalog.Catalog
	table  *prices.Table
}

// Open builds the stores, loads the price snapshot, and loads the
// catalog merged with the persisted allocations.
func Open(cfg Config, log zerolog.Logger) (*Workspace, error) {
	store, err := storage.Open(storage.Config{Backend: cfg.Backend, DataDir: cfg.DataDir()}, log)
	if err != nil {
		return nil, fmt.Errorf("open workspace store: %w", err)
	}

	ws := &Workspace{
		cfg:    cfg,
		log:    log,
		store:  store,
		loader: catalog.NewLoader(catalog.LoaderConfig{DatasetPath: cfg.DatasetPath, FallbackPath: cfg.FallbackPath}, log),
		table:  prices.NewTable(store),
	}
	ws.table.Load()

	if err := ws.Reload(); err != nil {
		store.Close()
		return nil, err
	}
	return ws, nil
}

// Reload rebuilds the catalog against the currently persisted
// allocation snapshot. Reloading right after SaveAllocations
// reproduces the in-memory state exactly.
func (w *Workspace) Reload() error {
	cat, err := w.loader.Load(w.store.LoadAllocations())
	if err != nil {
		return err
	}
	w.cat = cat
	return nil
}

// Catalog exposes the current session catalog.
func (w *Workspace) Catalog() *catalog.Catalog {
	return w.cat
}

// PriceTable exposes the workspace price table.
func (w *Workspace) PriceTable() *prices.Table {
	return w.table
}

// Planets returns the planets in catalog order.
func (w *Workspace) Planets() []*catalog.Planet {
	return w.cat.AllPlanets()
}

// Prices returns the current price snapshot.
func (w *Workspace) Prices() map[string]float64 {
	return w.table.All()
}

// ImportsDir is where imported price files are kept for history scans.
func (w *Workspace) ImportsDir() string {
	return w.cfg.ImportsDir()
}

// SetMiningUnits assigns capacity to one deposit, addressed by its
// composite identity. It is the only allocation mutator; every derived
// view recomputes from the canonical deposit it updates.
func (w *Workspace) SetMiningUnits(planetID int, resource string, units int) error {
	if units < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeUnits, units)
	}
	planet, ok := w.cat.Planets[planetID]
	if !ok {
		return fmt.Errorf("%w: planet %d", ErrUnknownDeposit, planetID)
	}
	deposit := planet.Deposit(resource)
	if deposit == nil {
		return fmt.Errorf("%w: %s", ErrUnknownDeposit, catalog.DepositKey(planetID, resource))
	}
	deposit.MiningUnits = units
	return nil
}

// SaveAllocations persists the full allocation snapshot rebuilt from
// the live planet graph. Zero-unit deposits are pruned, so zeroing and
// saving removes the key from the store.
func (w *Workspace) SaveAllocations() error {
	units := make(map[string]int)
	for _, planet := range w.cat.AllPlanets() {
		for _, deposit := range planet.Deposits {
			if deposit.MiningUnits > 0 {
				units[deposit.Key()] = deposit.MiningUnits
			}
		}
	}
	return w.store.SaveAllocations(units)
}

// Close releases the storage backend.
func (w *Workspace) Close() error {
	return w.store.Close()
}
