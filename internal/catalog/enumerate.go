package catalog

import "sort"

// Regions returns every distinct region, sorted.
func (c *Catalog) Regions() []string {
	seen := make(map[string]struct{})
	for _, id := range c.Order {
		seen[c.Planets[id].Region] = struct{}{}
	}
	return sortedKeys(seen)
}

// Constellations returns distinct constellations, optionally limited to
// the given regions. An empty filter means no filter.
func (c *Catalog) Constellations(regions ...string) []string {
	filter := toSet(regions)
	seen := make(map[string]struct{})
	for _, id := range c.Order {
		p := c.Planets[id]
		if len(filter) > 0 {
			if _, ok := filter[p.Region]; !ok {
				continue
			}
		}
		seen[p.Constellation] = struct{}{}
	}
	return sortedKeys(seen)
}

// Systems returns distinct systems, optionally limited to the given
// constellations.
func (c *Catalog) Systems(constellations ...string) []string {
	filter := toSet(constellations)
	seen := make(map[string]struct{})
	for _, id := range c.Order {
		p := c.Planets[id]
		if len(filter) > 0 {
			if _, ok := filter[p.Constellation]; !ok {
				continue
			}
		}
		seen[p.System] = struct{}{}
	}
	return sortedKeys(seen)
}

// AllPlanets returns the planets in catalog order.
func (c *Catalog) AllPlanets() []*Planet {
	planets := make([]*Planet, 0, len(c.Order))
	for _, id := range c.Order {
		planets = append(planets, c.Planets[id])
	}
	return planets
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
