package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/echomine/planetctl/internal/testutil/testlog"
)

const datasetCSV = `Planet ID,Region,Constellation,System,Planet Name,Planet Type,Resource,Richness,Output
1,RegionOfA,C1,Alpha,Alpha I,Temperate,Veldspar,Rich,100
1,RegionOfA,C1,Alpha,Alpha I,Temperate,Ice,Poor,25
2,RegionOfB,C1,Beta,Beta I,Ice,Ice,Medium,50
3,RegionOfC,C2,Gamma,Gamma I,Lava,Veldspar,Perfect,80
`

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestLoadCSVMergesAllocations(t *testing.T) {
	log := testlog.Start(t)
	path := writeDataset(t, "deposits.csv", datasetCSV)
	loader := NewLoader(LoaderConfig{DatasetPath: path}, log)

	cat, err := loader.Load(map[string]int{"1_Veldspar": 5, "2_Ice": 10, "999_Gone": 7})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cat.Planets) != 3 {
		t.Fatalf("planets: got %d want 3", len(cat.Planets))
	}
	if got := cat.Planets[1].Deposit("Veldspar").MiningUnits; got != 5 {
		t.Fatalf("merged units: got %d want 5", got)
	}
	if got := cat.Planets[1].Deposit("Ice").MiningUnits; got != 0 {
		t.Fatalf("unallocated deposit should default 0, got %d", got)
	}
	if got := cat.Planets[2].Deposit("Ice").MiningUnits; got != 10 {
		t.Fatalf("merged units: got %d want 10", got)
	}
	if !reflect.DeepEqual(cat.Order, []int{1, 2, 3}) {
		t.Fatalf("unexpected order: %v", cat.Order)
	}
	if !reflect.DeepEqual(cat.ResourceNames, []string{"Ice", "Veldspar"}) {
		t.Fatalf("unexpected resources: %v", cat.ResourceNames)
	}
}

func TestLoadIsDeterministic(t *testing.T) {
	log := testlog.Start(t)
	path := writeDataset(t, "deposits.csv", datasetCSV)
	loader := NewLoader(LoaderConfig{DatasetPath: path}, log)
	allocations := map[string]int{"1_Veldspar": 5}

	first, err := loader.Load(allocations)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := loader.Load(allocations)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated loads differ")
	}
}

func TestLoadFallbackPath(t *testing.T) {
	log := testlog.Start(t)
	path := writeDataset(t, "deposits.csv", datasetCSV)
	loader := NewLoader(LoaderConfig{
		DatasetPath:  filepath.Join(t.TempDir(), "missing.csv"),
		FallbackPath: path,
	}, log)

	cat, err := loader.Load(nil)
	if err != nil {
		t.Fatalf("load via fallback: %v", err)
	}
	if len(cat.Planets) != 3 {
		t.Fatalf("planets via fallback: got %d", len(cat.Planets))
	}
}

func TestLoadDatasetNotFound(t *testing.T) {
	log := testlog.Start(t)
	dir := t.TempDir()
	loader := NewLoader(LoaderConfig{
		DatasetPath:  filepath.Join(dir, "missing.csv"),
		FallbackPath: filepath.Join(dir, "also-missing.csv"),
	}, log)

	if _, err := loader.Load(nil); !errors.Is(err, ErrDatasetNotFound) {
		t.Fatalf("expected ErrDatasetNotFound, got %v", err)
	}
}

func TestLoadRejectsUnknownEnum(t *testing.T) {
	log := testlog.Start(t)
	bad := `Planet ID,Region,Constellation,System,Planet Name,Planet Type,Resource,Richness,Output
1,R,C,S,P,Volcanic,Veldspar,Rich,100
`
	loader := NewLoader(LoaderConfig{DatasetPath: writeDataset(t, "bad.csv", bad)}, log)
	if _, err := loader.Load(nil); !errors.Is(err, ErrInvalidPlanetType) {
		t.Fatalf("expected ErrInvalidPlanetType, got %v", err)
	}

	bad = `Planet ID,Region,Constellation,System,Planet Name,Planet Type,Resource,Richness,Output
1,R,C,S,P,Temperate,Veldspar,Abundant,100
`
	loader = NewLoader(LoaderConfig{DatasetPath: writeDataset(t, "bad2.csv", bad)}, log)
	if _, err := loader.Load(nil); !errors.Is(err, ErrInvalidRichness) {
		t.Fatalf("expected ErrInvalidRichness, got %v", err)
	}
}

func TestLoadDuplicateRowKeepsLast(t *testing.T) {
	log := testlog.Start(t)
	dup := `Planet ID,Region,Constellation,System,Planet Name,Planet Type,Resource,Richness,Output
1,R,C,S,P,Temperate,Veldspar,Poor,100
1,R,C,S,P,Temperate,Veldspar,Rich,250
`
	loader := NewLoader(LoaderConfig{DatasetPath: writeDataset(t, "dup.csv", dup)}, log)
	cat, err := loader.Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	planet := cat.Planets[1]
	if len(planet.Deposits) != 1 {
		t.Fatalf("duplicate row should not append, got %d deposits", len(planet.Deposits))
	}
	if planet.Deposits[0].Output != 250 || planet.Deposits[0].Richness != Rich {
		t.Fatalf("expected last row to win, got %+v", planet.Deposits[0])
	}
}

func TestLoadYAMLDataset(t *testing.T) {
	log := testlog.Start(t)
	doc := `deposits:
  - planet_id: 7
    region: RegionOfY
    constellation: CY
    system: Ypsilon
    planet_name: Ypsilon II
    planet_type: Gas
    resource: Reactive Gas
    richness: Medium
    output: 88.5
`
	loader := NewLoader(LoaderConfig{DatasetPath: writeDataset(t, "deposits.yaml", doc)}, log)
	cat, err := loader.Load(map[string]int{"7_Reactive Gas": 3})
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	deposit := cat.Planets[7].Deposit("Reactive Gas")
	if deposit == nil || deposit.MiningUnits != 3 || deposit.Output != 88.5 {
		t.Fatalf("unexpected yaml deposit: %+v", deposit)
	}
}

func TestEnumerations(t *testing.T) {
	log := testlog.Start(t)
	loader := NewLoader(LoaderConfig{DatasetPath: writeDataset(t, "deposits.csv", datasetCSV)}, log)
	cat, err := loader.Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := cat.Regions(); !reflect.DeepEqual(got, []string{"RegionOfA", "RegionOfB", "RegionOfC"}) {
		t.Fatalf("regions: %v", got)
	}
	if got := cat.Constellations(); !reflect.DeepEqual(got, []string{"C1", "C2"}) {
		t.Fatalf("constellations: %v", got)
	}
	if got := cat.Constellations("RegionOfC"); !reflect.DeepEqual(got, []string{"C2"}) {
		t.Fatalf("filtered constellations: %v", got)
	}
	if got := cat.Systems("C1"); !reflect.DeepEqual(got, []string{"Alpha", "Beta"}) {
		t.Fatalf("filtered systems: %v", got)
	}
	if got := cat.Systems(); !reflect.DeepEqual(got, []string{"Alpha", "Beta", "Gamma"}) {
		t.Fatalf("systems: %v", got)
	}
}
