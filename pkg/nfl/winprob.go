package nfl

import (
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/matzehuels/statboard/pkg/dataset"
	"github.com/matzehuels/statboard/pkg/errors"
)

// Candidate names for the matchups columns, in order of preference.
var (
	ProbColumns     = []string{"pred_home_win_prob", "home_win_prob", "home_win_probability"}
	HomeTeamColumns = []string{"home_team", "home_home_team"}
	AwayTeamColumns = []string{"away_team", "home_away_team"}
	DateColumns     = []string{"home_gameday", "away_gameday"}
	ResultColumns   = []string{"home_home_score", "home_away_score", "home_home_win", "home_win"}
)

// Game is one matchup with its pre-game home win probability.
type Game struct {
	Date    string  `json:"date,omitempty"`
	Home    string  `json:"home"`
	Away    string  `json:"away"`
	Matchup string  `json:"matchup"`
	Prob    float64 `json:"prob"`
	// Pct is Prob in percent, rounded to one decimal.
	Pct     float64           `json:"pct"`
	Tier    Tier              `json:"tier"`
	Results map[string]string `json:"results,omitempty"`
}

// WinProb lists the games of one week, most likely home win first.
type WinProb struct {
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	ProbColumn string `json:"prob_column"`
	Games      []Game `json:"games"`
	Tiers      []Tier `json:"tiers"`
}

// WinProbability returns the games of season and week. A week past the
// season's last week is clamped to it, and one before the first week to
// the first. Missing probabilities count as 0.5, and all probabilities
// are clamped to [0, 1]. An unknown season is NOT_FOUND.
func WinProbability(df dataframe.DataFrame, season, week int) (WinProb, error) {
	if !dataset.HasColumn(df, ColSeason) || !dataset.HasColumn(df, ColWeek) {
		return WinProb{}, errors.New(errors.ErrCodeInvalidColumn,
			"matchups must contain %q and %q columns", ColSeason, ColWeek)
	}

	if df.Nrow() == 0 {
		return WinProb{}, errors.New(errors.ErrCodeEmptyDataset, "no matchups")
	}

	inSeason := filterSeason(df, season)
	weeks := dataset.UniqueInts(inSeason, ColWeek)
	if len(weeks) == 0 {
		return WinProb{}, errors.New(errors.ErrCodeNotFound, "season %d not found in matchups", season)
	}
	week = max(weeks[0], min(week, weeks[len(weeks)-1]))

	games := inSeason.Filter(dataframe.F{Colname: ColWeek, Comparator: series.Eq, Comparando: week})
	if games.Nrow() == 0 {
		return WinProb{}, errors.New(errors.ErrCodeEmptyDataset, "no games in season %d week %d", season, week)
	}

	probCol, ok := dataset.PickFirstCol(games, ProbColumns...)
	if !ok {
		found := dataset.MatchingColumns(games, "pred", "prob")
		return WinProb{}, errors.New(errors.ErrCodeInvalidColumn,
			"no win probability column (expected %s); prob/pred columns: [%s]",
			ProbColumns[0], strings.Join(found, ", "))
	}
	homeCol, okHome := dataset.PickFirstCol(games, HomeTeamColumns...)
	awayCol, okAway := dataset.PickFirstCol(games, AwayTeamColumns...)
	if !okHome || !okAway {
		return WinProb{}, errors.New(errors.ErrCodeInvalidColumn, "no home/away team columns in matchups")
	}

	probs := dataset.Floats(games, probCol)
	homes := dataset.Strings(games, homeCol)
	aways := dataset.Strings(games, awayCol)
	var dates []string
	if dateCol, ok := dataset.PickFirstCol(games, DateColumns...); ok {
		dates = dataset.Strings(games, dateCol)
	}
	extras := make(map[string][]string)
	for _, c := range ResultColumns {
		if dataset.HasColumn(games, c) {
			extras[c] = dataset.Strings(games, c)
		}
	}

	out := WinProb{Season: season, Week: week, ProbColumn: probCol, Tiers: ProbTiers}
	for i := range probs {
		p := dataset.Clamp01(dataset.FillNaN(probs[i], 0.5))
		g := Game{
			Home:    homes[i],
			Away:    aways[i],
			Matchup: homes[i] + " vs " + aways[i],
			Prob:    p,
			Pct:     math.Round(p*1000) / 10,
			Tier:    ProbTier(p),
		}
		if dates != nil {
			g.Date = dates[i]
		}
		if len(extras) > 0 {
			g.Results = make(map[string]string, len(extras))
			for c, vals := range extras {
				g.Results[c] = vals[i]
			}
		}
		out.Games = append(out.Games, g)
	}
	sort.SliceStable(out.Games, func(i, j int) bool { return out.Games[i].Prob > out.Games[j].Prob })
	return out, nil
}
