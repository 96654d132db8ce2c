package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// LoaderConfig locates the bulk dataset. The fallback path is tried when
// the primary is missing; both missing is fatal for the session.
type LoaderConfig struct {
	DatasetPath  string
	FallbackPath string
}

// Loader reads the bulk dataset and merges it with a persisted
// allocation snapshot into an immutable-per-session catalog.
type Loader struct {
	cfg LoaderConfig
	log zerolog.Logger
}

func NewLoader(cfg LoaderConfig, log zerolog.Logger) *Loader {
	return &Loader{cfg: cfg, log: log}
}

// Catalog is the merged working set for one session. Order preserves the
// first-sight sequence of planet ids so every derived view that needs a
// deterministic tie-break can rely on it.
type Catalog struct {
	Planets       map[int]*Planet
	Order         []int
	ResourceNames []string
}

// Row is one dataset record, one (planet, resource) tuple.
type Row struct {
	PlanetID      int     `yaml:"planet_id"`
	Region        string  `yaml:"region"`
	Constellation string  `yaml:"constellation"`
	System        string  `yaml:"system"`
	PlanetName    string  `yaml:"planet_name"`
	PlanetType    string  `yaml:"planet_type"`
	Resource      string  `yaml:"resource"`
	Richness      string  `yaml:"richness"`
	Output        float64 `yaml:"output"`
}

// Load reads the dataset and builds the planet graph, attaching the
// allocation count persisted under each deposit's composite key. Given
// the same dataset and allocation snapshot the result is identical, so
// the merge is safe to repeat after every save.
func (l *Loader) Load(allocations map[string]int) (*Catalog, error) {
	path, err := l.resolvePath()
	if err != nil {
		return nil, err
	}

	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{Planets: make(map[int]*Planet)}
	resourceSet := make(map[string]struct{})

	for i, row := range rows {
		planetType, err := ParsePlanetType(row.PlanetType)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		richness, err := ParseRichness(row.Richness)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if row.Output < 0 {
			return nil, fmt.Errorf("row %d: %w: negative output %v", i+1, ErrInvalidRow, row.Output)
		}

		resourceSet[row.Resource] = struct{}{}

		deposit := &Deposit{
			PlanetID:      row.PlanetID,
			Region:        row.Region,
			Constellation: row.Constellation,
			System:        row.System,
			PlanetName:    row.PlanetName,
			PlanetType:    planetType,
			Resource:      row.Resource,
			Richness:      richness,
			Output:        row.Output,
			MiningUnits:   allocations[DepositKey(row.PlanetID, row.Resource)],
		}

		planet, ok := cat.Planets[row.PlanetID]
		if !ok {
			planet = &Planet{
				PlanetID:      row.PlanetID,
				Region:        row.Region,
				Constellation: row.Constellation,
				System:        row.System,
				Name:          row.PlanetName,
				PlanetType:    planetType,
			}
			cat.Planets[row.PlanetID] = planet
			cat.Order = append(cat.Order, row.PlanetID)
		}

		// Duplicate (planet, resource) rows keep the last one seen.
		if prev := planet.Deposit(row.Resource); prev != nil {
			l.log.Warn().
				Int("planet_id", row.PlanetID).
				Str("resource", row.Resource).
				Msg("duplicate dataset row, keeping last")
			*prev = *deposit
			continue
		}
		planet.Deposits = append(planet.Deposits, deposit)
	}

	cat.ResourceNames = make([]string, 0, len(resourceSet))
	for name := range resourceSet {
		cat.ResourceNames = append(cat.ResourceNames, name)
	}
	sort.Strings(cat.ResourceNames)

	l.log.Info().
		Str("path", path).
		Int("rows", len(rows)).
		Int("planets", len(cat.Planets)).
		Int("resources", len(cat.ResourceNames)).
		Msg("catalog loaded")

	return cat, nil
}

func (l *Loader) resolvePath() (string, error) {
	for _, p := range []string{l.cfg.DatasetPath, l.cfg.FallbackPath} {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s (fallback %s)", ErrDatasetNotFound, l.cfg.DatasetPath, l.cfg.FallbackPath)
}

func readRows(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVRows(path)
	case ".yaml", ".yml":
		return readYAMLRows(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
}

// Dataset CSV header names, matched case-insensitively.
var csvColumns = []string{
	"planet id", "region", "constellation", "system",
	"planet name", "planet type", "resource", "richness", "output",
}

func readCSVRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRow, col)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row %d: %w", line, err)
		}

		planetID, err := strconv.Atoi(strings.TrimSpace(record[index["planet id"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: planet id %q", line, ErrInvalidRow, record[index["planet id"]])
		}
		output, err := strconv.ParseFloat(strings.TrimSpace(record[index["output"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: output %q", line, ErrInvalidRow, record[index["output"]])
		}

		rows = append(rows, Row{
			PlanetID:      planetID,
			Region:        record[index["region"]],
			Constellation: record[index["constellation"]],
			System:        record[index["system"]],
			PlanetName:    record[index["planet name"]],
			PlanetType:    record[index["planet type"]],
			Resource:      record[index["resource"]],
			Richness:      record[index["richness"]],
			Output:        output,
		})
	}
	return rows, nil
}

func readYAMLRows(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	var doc struct {
		Deposits []Row `yaml:"deposits"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return doc.Deposits, nil
}
