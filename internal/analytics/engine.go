// Package analytics ranks and aggregates the valued catalog. Every
// query recomputes from the live planet graph and the current price
// snapshot, so no result can lag an allocation or price edit.
package analytics

import (
	"sort"
	"time"

	"github.com/echomine/planetctl/internal/catalog"
)

// Source is the session state the engine reads: planets in catalog
// order and the current price snapshot.
type Source interface {
	Planets() []*catalog.Planet
	Prices() map[string]float64
}

// Engine answers read-only ranking and distribution queries.
type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// PlanetValue pairs a planet with its hourly value at query time.
type PlanetValue struct {
	Planet *catalog.Planet `json:"planet"`
	Value  float64         `json:"value"`
}

// SystemValue is the summed hourly value of a system's planets.
type SystemValue struct {
	System string  `json:"system"`
	Value  float64 `json:"value"`
}

// TopPlanets values every planet and returns the n most profitable,
// descending. Equal values keep catalog order.
func (e *Engine) TopPlanets(n int) []PlanetValue {
	ranked := valueAll(e.src.Planets(), e.src.Prices())
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// TopSystems groups planets by system, sums their value, and returns
// the n most profitable systems descending. Ties keep the order the
// systems first appear in the catalog.
func (e *Engine) TopSystems(n int) []SystemValue {
	prices := e.src.Prices()
	totals := make(map[string]float64)
	var order []string
	for _, p := range e.src.Planets() {
		if _, ok := totals[p.System]; !ok {
			order = append(order, p.System)
		}
		totals[p.System] += p.TotalValue(prices)
	}

	ranked := make([]SystemValue, 0, len(order))
	for _, system := range order {
		ranked = append(ranked, SystemValue{System: system, Value: totals[system]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// ResourceDistribution counts how often a resource occurs per region.
func (e *Engine) ResourceDistribution(resource string) map[string]int {
	distribution := make(map[string]int)
	for _, p := range e.src.Planets() {
		for _, d := range p.Deposits {
			if d.Resource == resource {
				distribution[p.Region]++
			}
		}
	}
	return distribution
}

// RouteCandidates returns the valued planets sharing a constellation
// with the starting system, descending by value. The constellation is
// taken from the first planet whose system matches; an unknown system
// yields an empty slice. maxJumps is accepted for interface parity but
// does not filter: the catalog carries no jump adjacency, and the
// same-constellation cut is the only proximity proxy available.
func (e *Engine) RouteCandidates(startingSystem string, maxJumps int) []PlanetValue {
	_ = maxJumps

	planets := e.src.Planets()
	constellation := ""
	for _, p := range planets {
		if p.System == startingSystem {
			constellation = p.Constellation
			break
		}
	}
	if constellation == "" {
		return nil
	}

	var nearby []*catalog.Planet
	for _, p := range planets {
		if p.Constellation == constellation {
			nearby = append(nearby, p)
		}
	}
	return valueAll(nearby, e.src.Prices())
}

// ActiveMiningSystems lists systems holding at least one deposit with
// assigned mining units, in catalog order.
func (e *Engine) ActiveMiningSystems() []string {
	seen := make(map[string]struct{})
	var systems []string
	for _, p := range e.src.Planets() {
		for _, d := range p.Deposits {
			if d.MiningUnits > 0 {
				if _, ok := seen[p.System]; !ok {
					seen[p.System] = struct{}{}
					systems = append(systems, p.System)
				}
				break
			}
		}
	}
	return systems
}

// Projection extrapolates an hourly value linearly over a horizon.
func Projection(hourlyValue float64, horizon time.Duration) float64 {
	return hourlyValue * horizon.Hours()
}

func valueAll(planets []*catalog.Planet, prices map[string]float64) []PlanetValue {
	valued := make([]PlanetValue, 0, len(planets))
	for _, p := range planets {
		valued = append(valued, PlanetValue{Planet: p, Value: p.TotalValue(prices)})
	}
	sort.SliceStable(valued, func(i, j int) bool {
		return valued[i].Value > valued[j].Value
	})
	return valued
}
