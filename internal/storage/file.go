package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	allocationsFile = "allocations.json"
	pricesFile      = "prices.json"
)

// FileStore keeps each snapshot as one JSON object file under the
// workspace data dir. Saves go through a temp file plus rename so a
// crash mid-write can never leave an unparseable store behind.
type FileStore struct {
	dir string
	log zerolog.Logger
}

func NewFileStore(dir string, log zerolog.Logger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

func (s *FileStore) LoadAllocations() map[string]int {
	units := make(map[string]int)
	s.loadJSON(allocationsFile, &units)
	return units
}

func (s *FileStore) SaveAllocations(units map[string]int) error {
	return s.saveJSON(allocationsFile, units)
}

func (s *FileStore) LoadPrices() map[string]float64 {
	prices := make(map[string]float64)
	s.loadJSON(pricesFile, &prices)
	return prices
}

func (s *FileStore) SavePrices(prices map[string]float64) error {
	return s.saveJSON(pricesFile, prices)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) loadJSON(name string, out any) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("store unreadable, starting empty")
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("store corrupt, starting empty")
	}
}

func (s *FileStore) saveJSON(name string, value any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
