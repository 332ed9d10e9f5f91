// Package f1 computes the motorsport results dashboard: filters, headline
// KPIs, DNF rate per season, positions gained and points leaderboards.
//
// The input is the cleaned race results table, one row per driver per race.
package f1

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/statboard/pkg/dataset"
)

// Column names of the results table.
const (
	ColSeason    = "season"
	ColGrandPrix = "grand_prix"
	ColTeam      = "team"
	ColDriver    = "driver"
	ColPoints    = "points"
	ColDNF       = "is_dnf"
	ColGrid      = "grid"
	ColFinish    = "finish_position_num"
	ColRaceDate  = "race_date"
)

// RequiredColumns lists the columns every view needs.
var RequiredColumns = []string{
	ColSeason, ColGrandPrix, ColTeam, ColDriver, ColPoints, ColDNF, ColGrid, ColFinish,
}

// ColumnTypes pins the types gota would otherwise guess from partly empty
// columns.
var ColumnTypes = map[string]series.Type{
	ColSeason:    series.Int,
	ColGrandPrix: series.String,
	ColTeam:      series.String,
	ColDriver:    series.String,
	ColPoints:    series.Float,
	ColGrid:      series.Float,
	ColFinish:    series.Float,
	ColRaceDate:  series.String,
}

// DefaultTopN is the leaderboard length.
const DefaultTopN = 15

// earliestDefaultSeason starts the default season range.
const earliestDefaultSeason = 2000

// Validate checks that df carries the results columns.
func Validate(df dataframe.DataFrame) error {
	return dataset.RequireColumns(df, RequiredColumns...)
}

// KPI holds the headline numbers.
type KPI struct {
	Rows      int     `json:"rows"`
	Races     int     `json:"races"`
	Drivers   int     `json:"drivers"`
	AvgPoints float64 `json:"avg_points"`
}

// KPIs computes the row count, distinct grands prix, distinct drivers and
// mean points per result. AvgPoints is 0 when no row has points.
func KPIs(df dataframe.DataFrame) KPI {
	return KPI{
		Rows:      df.Nrow(),
		Races:     len(dataset.Unique(df, ColGrandPrix)),
		Drivers:   len(dataset.Unique(df, ColDriver)),
		AvgPoints: mean(dataset.Floats(df, ColPoints)),
	}
}

// Preview returns the header and the first n rows as strings.
func Preview(df dataframe.DataFrame, n int) [][]string {
	if n <= 0 || df.Nrow() == 0 {
		return [][]string{df.Names()}
	}
	if n > df.Nrow() {
		n = df.Nrow()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx).Records()
}

func mean(xs []float64) float64 {
	finite := dataset.DropNaN(xs)
	if len(finite) == 0 {
		return 0
	}
	return stat.Mean(finite, nil)
}
