// Package nfl computes the team analytics views: the offense/defense EPA
// landscape, pre-game home win probabilities and per-team momentum.
//
// Two tables feed it. The EPA table has one row per team and week with
// rolling four-game averages. The matchups table has one row per game; its
// column names vary between exports, so the win probability view looks for
// the first known name of each column.
package nfl

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/matzehuels/statboard/pkg/dataset"
	"github.com/matzehuels/statboard/pkg/errors"
)

// EPA table columns.
const (
	ColSeason = "season"
	ColWeek   = "week"
	ColTeam   = "team"
	ColOffEPA = "rolling_off_epa_4"
	ColDefEPA = "rolling_def_epa_4"
	ColNetEPA = "rolling_net_epa_4"
)

// EPAColumns lists the columns of the EPA table.
var EPAColumns = []string{ColSeason, ColWeek, ColTeam, ColOffEPA, ColDefEPA, ColNetEPA}

// EPATypes pins the EPA column types.
var EPATypes = map[string]series.Type{
	ColSeason: series.Int,
	ColWeek:   series.Int,
	ColTeam:   series.String,
	ColOffEPA: series.Float,
	ColDefEPA: series.Float,
	ColNetEPA: series.Float,
}

// Seasons returns the distinct seasons, ascending.
func Seasons(df dataframe.DataFrame) []int {
	return dataset.UniqueInts(df, ColSeason)
}

// Weeks returns the distinct weeks of season, ascending.
func Weeks(df dataframe.DataFrame, season int) []int {
	return dataset.UniqueInts(filterSeason(df, season), ColWeek)
}

// Teams returns the distinct teams, sorted.
func Teams(df dataframe.DataFrame) []string {
	return dataset.Unique(df, ColTeam)
}

// Latest returns the last season and its last week.
func Latest(df dataframe.DataFrame) (season, week int, err error) {
	seasons := Seasons(df)
	if len(seasons) == 0 {
		return 0, 0, errors.New(errors.ErrCodeEmptyDataset, "no seasons in EPA data")
	}
	season = seasons[len(seasons)-1]
	weeks := Weeks(df, season)
	if len(weeks) == 0 {
		return season, 0, errors.New(errors.ErrCodeEmptyDataset, "no weeks in season %d", season)
	}
	return season, weeks[len(weeks)-1], nil
}

// FilterWeeks keeps the rows of season up to and including upToWeek.
func FilterWeeks(df dataframe.DataFrame, season, upToWeek int) dataframe.DataFrame {
	return df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: ColSeason, Comparator: series.Eq, Comparando: season},
		dataframe.F{Colname: ColWeek, Comparator: series.LessEq, Comparando: upToWeek},
	)
}

func filterSeason(df dataframe.DataFrame, season int) dataframe.DataFrame {
	return df.Filter(dataframe.F{Colname: ColSeason, Comparator: series.Eq, Comparando: season})
}

// TeamWeek is one team's rolling EPA after a given week.
type TeamWeek struct {
	Team string  `json:"team"`
	Week int     `json:"week"`
	Off  float64 `json:"off_epa"`
	Def  float64 `json:"def_epa"`
	Net  float64 `json:"net_epa"`
}

func (w TeamWeek) complete() bool {
	return !math.IsNaN(w.Off) && !math.IsNaN(w.Def) && !math.IsNaN(w.Net)
}

func rows(df dataframe.DataFrame) []TeamWeek {
	teams := dataset.Strings(df, ColTeam)
	weeks := dataset.Floats(df, ColWeek)
	off := dataset.Floats(df, ColOffEPA)
	def := dataset.Floats(df, ColDefEPA)
	net := dataset.Floats(df, ColNetEPA)

	out := make([]TeamWeek, 0, len(teams))
	for i, team := range teams {
		if team == "" || math.IsNaN(weeks[i]) {
			continue
		}
		out = append(out, TeamWeek{Team: team, Week: int(weeks[i]), Off: off[i], Def: def[i], Net: net[i]})
	}
	return out
}

// LatestPerTeam returns each team's row with the highest week, sorted by
// team. When a team has two rows for that week the later one wins.
func LatestPerTeam(df dataframe.DataFrame) []TeamWeek {
	latest := make(map[string]TeamWeek)
	for _, r := range rows(df) {
		if cur, ok := latest[r.Team]; !ok || r.Week >= cur.Week {
			latest[r.Team] = r
		}
	}

	out := make([]TeamWeek, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

// Momentum returns the weekly rows of team sorted by week. Rows with a
// missing metric are skipped.
func Momentum(df dataframe.DataFrame, team string) ([]TeamWeek, error) {
	if err := dataset.RequireColumns(df, EPAColumns...); err != nil {
		return nil, err
	}

	var out []TeamWeek
	found := false
	for _, r := range rows(df) {
		if r.Team != team {
			continue
		}
		found = true
		if r.complete() {
			out = append(out, r)
		}
	}
	if !found {
		return nil, errors.New(errors.ErrCodeNotFound, "team %q not found", team)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}
