package catalog

import (
	"fmt"
	"strconv"
)

// PlanetType is the closed set of planet classes present in the dataset.
type PlanetType string

const (
	Temperate PlanetType = "Temperate"
	Barren    PlanetType = "Barren"
	Oceanic   PlanetType = "Oceanic"
	Gas       PlanetType = "Gas"
	Ice       PlanetType = "Ice"
	Lava      PlanetType = "Lava"
	Storm     PlanetType = "Storm"
	Plasma    PlanetType = "Plasma"
)

// ParsePlanetType maps a dataset string onto a PlanetType. Unknown
// strings fail; the catalog never carries an unrecognized variant.
func ParsePlanetType(raw string) (PlanetType, error) {
	switch PlanetType(raw) {
	case Temperate, Barren, Oceanic, Gas, Ice, Lava, Storm, Plasma:
		return PlanetType(raw), nil
	}
	return "", fmt.Errorf("%w: planet type %q", ErrInvalidPlanetType, raw)
}

// Richness is the ordinal quality tier of a deposit.
type Richness int

const (
	Poor Richness = iota
	Medium
	Rich
	Perfect
)

var richnessNames = map[Richness]string{
	Poor:    "Poor",
	Medium:  "Medium",
	Rich:    "Rich",
	Perfect: "Perfect",
}

func (r Richness) String() string {
	if name, ok := richnessNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Richness(%d)", int(r))
}

// ParseRichness maps a dataset string onto a Richness tier.
func ParseRichness(raw string) (Richness, error) {
	for tier, name := range richnessNames {
		if name == raw {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("%w: richness %q", ErrInvalidRichness, raw)
}

// Deposit is one resource's yield record on one planet. MiningUnits is
// the only field a session may mutate; everything else is catalog data.
type Deposit struct {
	PlanetID      int        `json:"planet_id"`
	Region        string     `json:"region"`
	Constellation string     `json:"constellation"`
	System        string     `json:"system"`
	PlanetName    string     `json:"planet_name"`
	PlanetType    PlanetType `json:"planet_type"`
	Resource      string     `json:"resource"`
	Richness      Richness   `json:"richness"`
	Output        float64    `json:"output"`
	MiningUnits   int        `json:"mining_units"`
}

// Key returns the composite identity that keeps a persisted allocation
// attached to the same deposit across catalog reloads.
func (d *Deposit) Key() string {
	return DepositKey(d.PlanetID, d.Resource)
}

// DepositKey builds the "{planet_id}_{resource}" composite key.
func DepositKey(planetID int, resource string) string {
	return strconv.Itoa(planetID) + "_" + resource
}

// UnitValue is the hourly value of one mining unit on this deposit.
// A resource missing from the price table contributes zero.
func (d *Deposit) UnitValue(prices map[string]float64) float64 {
	return d.Output * prices[d.Resource]
}

// TotalValue is the hourly value of the deposit at its current allocation.
func (d *Deposit) TotalValue(prices map[string]float64) float64 {
	return d.UnitValue(prices) * float64(d.MiningUnits)
}

// Planet groups the deposits sharing one planet id. Deposits keep
// catalog scan order so derived rankings tie-break deterministically.
type Planet struct {
	PlanetID      int        `json:"planet_id"`
	Region        string     `json:"region"`
	Constellation string     `json:"constellation"`
	System        string     `json:"system"`
	Name          string     `json:"name"`
	PlanetType    PlanetType `json:"planet_type"`
	Deposits      []*Deposit `json:"deposits"`
}

// Deposit returns the planet's deposit for a resource, or nil.
func (p *Planet) Deposit(resource string) *Deposit {
	for _, d := range p.Deposits {
		if d.Resource == resource {
			return d
		}
	}
	return nil
}

// TotalValue is the summed hourly value of every deposit on the planet
// at the current allocation and the supplied prices.
func (p *Planet) TotalValue(prices map[string]float64) float64 {
	total := 0.0
	for _, d := range p.Deposits {
		total += d.TotalValue(prices)
	}
	return total
}
