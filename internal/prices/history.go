package prices

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var fileDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// PricePoint is one dated observation of a resource price, recovered
// from a previously imported tabular file.
type PricePoint struct {
	Resource string    `json:"resource"`
	Price    float64   `json:"price"`
	Date     time.Time `json:"date"`
}

// History scans an import directory for date-stamped CSV files and
// returns every price point sorted by date then resource. Files
// without a date in the name, or that fail to parse, are skipped.
func History(dir string, log zerolog.Logger) []PricePoint {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var points []PricePoint
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		match := fileDatePattern.FindString(entry.Name())
		if match == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", match)
		if err != nil {
			continue
		}

		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		parsed, _ := ParseCSV(f, log)
		f.Close()

		for resource, price := range parsed {
			points = append(points, PricePoint{Resource: resource, Price: price, Date: date})
		}
	}

	sort.Slice(points, func(i, j int) bool {
		if !points[i].Date.Equal(points[j].Date) {
			return points[i].Date.Before(points[j].Date)
		}
		return points[i].Resource < points[j].Resource
	})
	return points
}
