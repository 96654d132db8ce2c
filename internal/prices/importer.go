package prices

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
)

// Header names accepted for the resource-name column.
var nameColumns = []string{"resource", "name", "item"}

// Value columns in preference order; the first one present in the
// header supplies every row's price.
var valueColumns = []string{"average", "buy", "price"}

// ImportStats summarizes one tabular import.
type ImportStats struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
	Coerced int `json:"coerced"`
	Matched int `json:"matched"`
}

// ParseCSV reads a tabular price source. One bad row never aborts the
// batch: malformed numeric text coerces to 0.0, rows without a
// resolvable name are skipped, and a source that cannot be parsed at
// all yields an empty map.
func ParseCSV(r io.Reader, log zerolog.Logger) (map[string]float64, ImportStats) {
	out := make(map[string]float64)
	var stats ImportStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil || len(records) == 0 {
		log.Warn().Err(err).Msg("price import source unparseable, importing nothing")
		return out, stats
	}

	header := records[0]
	nameIdx := resolveColumn(header, nameColumns)
	valueIdx := resolveColumn(header, valueColumns)
	if nameIdx < 0 || valueIdx < 0 {
		log.Warn().Msg("price import missing name or value column, importing nothing")
		return out, stats
	}

	for _, record := range records[1:] {
		if nameIdx >= len(record) {
			stats.Skipped++
			continue
		}
		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			stats.Skipped++
			continue
		}

		price := 0.0
		if valueIdx < len(record) {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(record[valueIdx]), 64)
			if err != nil {
				stats.Coerced++
			} else {
				price = parsed
			}
		} else {
			stats.Coerced++
		}

		out[name] = price
		stats.Rows++
	}
	return out, stats
}

func resolveColumn(header []string, candidates []string) int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, want := range candidates {
		if i, ok := index[want]; ok {
			return i
		}
	}
	return -1
}

// MatchKnown maps imported names onto the catalog's resource names.
// Exact matches pass through; otherwise the closest known name within
// a length-scaled edit distance wins. Names with no acceptable match
// keep their imported spelling so nothing silently disappears.
func MatchKnown(imported map[string]float64, known []string) (map[string]float64, int) {
	knownSet := make(map[string]struct{}, len(known))
	for _, name := range known {
		knownSet[name] = struct{}{}
	}

	out := make(map[string]float64, len(imported))
	matched := 0
	for name, price := range imported {
		if _, ok := knownSet[name]; ok {
			out[name] = price
			continue
		}
		if best, ok := closestName(name, known); ok {
			out[best] = price
			matched++
			continue
		}
		out[name] = price
	}
	return out, matched
}

func closestName(name string, known []string) (string, bool) {
	best := ""
	bestDist := -1
	for _, cand := range known {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > editLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best = cand
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

func editLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
