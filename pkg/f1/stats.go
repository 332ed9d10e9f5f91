package f1

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/statboard/pkg/dataset"
	"github.com/matzehuels/statboard/pkg/errors"
)

// SeasonRate is the share of results that ended in a DNF.
type SeasonRate struct {
	Season int     `json:"season"`
	Rate   float64 `json:"rate"`
}

// DNFRateBySeason averages is_dnf per season, ignoring missing flags.
// Seasons without a single known flag are left out, and a frame without
// the season or is_dnf column gives no rates.
func DNFRateBySeason(df dataframe.DataFrame) []SeasonRate {
	seasons := dataset.Floats(df, ColSeason)
	dnf := dataset.Flags(df, ColDNF)
	if len(dnf) != len(seasons) {
		return []SeasonRate{}
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i, s := range seasons {
		if math.IsNaN(s) || math.IsNaN(dnf[i]) {
			continue
		}
		sums[int(s)] += dnf[i]
		counts[int(s)]++
	}

	out := make([]SeasonRate, 0, len(counts))
	for s, n := range counts {
		out = append(out, SeasonRate{Season: s, Rate: sums[s] / float64(n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out
}

// Bucket counts results with the same grid minus finish delta. Positive
// deltas are places gained.
type Bucket struct {
	Delta int `json:"delta"`
	Count int `json:"count"`
}

// PositionsGained histograms grid - finish over the rows where both are
// known, sorted by delta. A frame without either column gives no buckets.
func PositionsGained(df dataframe.DataFrame) []Bucket {
	grid := dataset.Floats(df, ColGrid)
	finish := dataset.Floats(df, ColFinish)
	if len(finish) != len(grid) {
		return []Bucket{}
	}

	counts := make(map[int]int)
	for i := range grid {
		d := grid[i] - finish[i]
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		counts[int(math.Round(d))]++
	}

	out := make([]Bucket, 0, len(counts))
	for d, n := range counts {
		out = append(out, Bucket{Delta: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Delta < out[j].Delta })
	return out
}

// Total is the points sum of one driver or team.
type Total struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// TopBy sums points per key (ColDriver or ColTeam) and returns the n best,
// ties broken by name. n <= 0 returns every total.
func TopBy(df dataframe.DataFrame, key string, n int) ([]Total, error) {
	if key != ColDriver && key != ColTeam {
		return nil, errors.New(errors.ErrCodeInvalidInput, "totals group by %q or %q, got %q", ColDriver, ColTeam, key)
	}
	if err := dataset.RequireColumns(df, key, ColPoints); err != nil {
		return nil, err
	}

	names := dataset.Strings(df, key)
	points := dataset.Floats(df, ColPoints)

	byName := make(map[string][]float64)
	for i, name := range names {
		if name == "" {
			continue
		}
		if !math.IsNaN(points[i]) {
			byName[name] = append(byName[name], points[i])
		} else if _, ok := byName[name]; !ok {
			byName[name] = nil
		}
	}

	out := make([]Total, 0, len(byName))
	for name, pts := range byName {
		out = append(out, Total{Name: name, Points: floats.Sum(pts)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
