package nfl

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/labels"
)

const epaCSV = `season,week,team,rolling_off_epa_4,rolling_def_epa_4,rolling_net_epa_4
2022,1,BUF,0.20,-0.05,0.25
2022,2,BUF,0.22,-0.06,0.28
2023,1,BUF,0.10,0.02,0.08
2023,2,BUF,0.12,0.00,0.12
2023,3,BUF,0.18,-0.02,0.20
2023,1,KC,0.05,0.01,0.04
2023,2,KC,0.08,-0.01,0.09
2023,1,NYJ,-0.20,-0.05,-0.15
2023,2,NYJ,-0.22,-0.04,-0.18
2023,3,NYJ,-0.25,,
2023,1,DET,0.01,0.03,-0.02
`

func epa(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(epaCSV), dataframe.WithTypes(EPATypes))
	if df.Err != nil {
		t.Fatalf("ReadCSV: %v", df.Err)
	}
	return df
}

func TestSeasonsAndWeeks(t *testing.T) {
	df := epa(t)
	if got := Seasons(df); !reflect.DeepEqual(got, []int{2022, 2023}) {
		t.Errorf("Seasons() = %v", got)
	}
	if got := Weeks(df, 2023); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Weeks(2023) = %v", got)
	}
	if got := Weeks(df, 2019); len(got) != 0 {
		t.Errorf("Weeks(2019) = %v, want none", got)
	}

	season, week, err := Latest(df)
	if err != nil || season != 2023 || week != 3 {
		t.Errorf("Latest() = %d, %d, %v; want 2023, 3, nil", season, week, err)
	}
}

func TestFilterWeeks(t *testing.T) {
	df := epa(t)
	if got := FilterWeeks(df, 2023, 2).Nrow(); got != 7 {
		t.Errorf("FilterWeeks(2023, 2) = %d rows, want 7", got)
	}
	if got := FilterWeeks(df, 2022, 10).Nrow(); got != 2 {
		t.Errorf("FilterWeeks(2022, 10) = %d rows, want 2", got)
	}
}

func TestLatestPerTeam(t *testing.T) {
	got := LatestPerTeam(FilterWeeks(epa(t), 2023, 2))

	var teams []string
	weeks := make(map[string]int)
	for _, r := range got {
		teams = append(teams, r.Team)
		weeks[r.Team] = r.Week
	}
	if !reflect.DeepEqual(teams, []string{"BUF", "DET", "KC", "NYJ"}) {
		t.Errorf("teams = %v", teams)
	}
	want := map[string]int{"BUF": 2, "DET": 1, "KC": 2, "NYJ": 2}
	if !reflect.DeepEqual(weeks, want) {
		t.Errorf("weeks = %v, want %v", weeks, want)
	}
}

func TestNetTier(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.30, "Elite (>= +0.15)"},
		{0.15, "Elite (>= +0.15)"},
		{0.149, "Strong (+0.05–0.15)"},
		{0.05, "Strong (+0.05–0.15)"},
		{0.0, "Average (-0.05–0.05)"},
		{-0.05, "Poor (-0.15–-0.05)"},
		{-0.149, "Poor (-0.15–-0.05)"},
		{-0.15, "Weak (<= -0.15)"},
		{math.NaN(), "Weak (<= -0.15)"},
	}
	for _, tt := range tests {
		if got := NetTier(tt.v); got.Name != tt.want {
			t.Errorf("NetTier(%v) = %q, want %q", tt.v, got.Name, tt.want)
		}
	}
	if NetTier(0.2).Color != "#F2C14E" || NetTier(-0.3).Color != "#EB5757" {
		t.Error("tier colors do not match the palette")
	}
}

func TestProbTier(t *testing.T) {
	tests := []struct {
		p     float64
		want  string
		color string
	}{
		{0.95, "Very high (>=0.70)", "#27AE60"},
		{0.70, "Very high (>=0.70)", "#27AE60"},
		{0.65, "High (0.60–0.70)", "#2D9CDB"},
		{0.50, "Slight (0.50–0.60)", "#F2C14E"},
		{0.40, "Low (0.40–0.50)", "#F2994A"},
		{0.39, "Very low (<0.40)", "#EB5757"},
	}
	for _, tt := range tests {
		got := ProbTier(tt.p)
		if got.Name != tt.want || got.Color != tt.color {
			t.Errorf("ProbTier(%v) = %+v, want %q %s", tt.p, got, tt.want, tt.color)
		}
	}
}

func TestBuildLandscape(t *testing.T) {
	ls, err := BuildLandscape(epa(t), 2023, 3, labels.LandscapeConfig(), true)
	if err != nil {
		t.Fatalf("BuildLandscape() error: %v", err)
	}

	// NYJ week 3 lacks def/net and is dropped; earlier weeks are not used.
	var teams []string
	for _, m := range ls.Markers {
		teams = append(teams, m.Team)
	}
	if !reflect.DeepEqual(teams, []string{"BUF", "DET", "KC"}) {
		t.Errorf("teams = %v", teams)
	}

	buf := ls.Markers[0]
	if buf.Week != 3 || buf.Tier.Name != "Elite (>= +0.15)" {
		t.Errorf("BUF marker = %+v", buf)
	}
	if math.Abs(buf.Size-0.30) > 1e-12 {
		t.Errorf("BUF size = %v, want 0.30", buf.Size)
	}

	if ls.Labels == nil {
		t.Fatal("Labels should be placed")
	}
	if len(ls.Labels.Positions) != len(ls.Markers) {
		t.Fatalf("label count = %d, want %d", len(ls.Labels.Positions), len(ls.Markers))
	}
	for i, p := range ls.Labels.Positions {
		if p.Label != ls.Markers[i].Team {
			t.Errorf("label %d = %q, want %q", i, p.Label, ls.Markers[i].Team)
		}
		if p.Y < ls.Markers[i].Def {
			t.Errorf("label %s below its marker", p.Label)
		}
	}
}

func TestBuildLandscapeWithoutLabels(t *testing.T) {
	ls, err := BuildLandscape(epa(t), 2022, 2, labels.LandscapeConfig(), false)
	if err != nil {
		t.Fatalf("BuildLandscape() error: %v", err)
	}
	if ls.Labels != nil {
		t.Error("Labels should be nil when not shown")
	}
	if len(ls.Markers) != 1 {
		t.Errorf("markers = %d, want 1", len(ls.Markers))
	}
}

func TestBuildLandscapeErrors(t *testing.T) {
	df := epa(t)
	if _, err := BuildLandscape(df, 2019, 5, labels.LandscapeConfig(), true); !errors.Is(err, errors.ErrCodeEmptyDataset) {
		t.Errorf("unknown season: error = %v, want EMPTY_DATASET", err)
	}
	bad := labels.LandscapeConfig()
	bad.Step = 2
	if _, err := BuildLandscape(df, 2023, 3, bad, true); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad config: error = %v, want INVALID_INPUT", err)
	}
	if _, err := BuildLandscape(df.Select([]string{"season", "week"}), 2023, 3, bad, true); !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Errorf("missing columns: error = %v, want INVALID_COLUMN", err)
	}
}

func TestMomentum(t *testing.T) {
	df := FilterWeeks(epa(t), 2023, 3)

	got, err := Momentum(df, "NYJ")
	if err != nil {
		t.Fatalf("Momentum() error: %v", err)
	}
	if len(got) != 2 || got[0].Week != 1 || got[1].Week != 2 {
		t.Errorf("Momentum(NYJ) = %+v", got)
	}

	if _, err := Momentum(df, "SEA"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown team: error = %v, want NOT_FOUND", err)
	}
	if got := Teams(df); !reflect.DeepEqual(got, []string{"BUF", "DET", "KC", "NYJ"}) {
		t.Errorf("Teams() = %v", got)
	}
}

const matchupsCSV = `season,week,home_gameday,home_team,away_team,pred_home_win_prob,home_win
2023,1,2023-09-10,BUF,NYJ,0.64,0
2023,1,2023-09-10,KC,DET,,0
2023,1,2023-09-11,PHI,NE,1.3,1
2023,1,2023-09-11,SF,PIT,0.7249,1
2023,2,2023-09-17,BUF,LV,0.81,1
2024,1,2024-09-08,DET,LAR,0.58,1
`

func matchups(t *testing.T, csv string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv))
	if df.Err != nil {
		t.Fatalf("ReadCSV: %v", df.Err)
	}
	return df
}

func TestWinProbability(t *testing.T) {
	wp, err := WinProbability(matchups(t, matchupsCSV), 2023, 1)
	if err != nil {
		t.Fatalf("WinProbability() error: %v", err)
	}
	if wp.ProbColumn != "pred_home_win_prob" {
		t.Errorf("ProbColumn = %q", wp.ProbColumn)
	}

	var order []string
	for _, g := range wp.Games {
		order = append(order, g.Matchup)
	}
	want := []string{"PHI vs NE", "SF vs PIT", "BUF vs NYJ", "KC vs DET"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}

	phi, sf, kc := wp.Games[0], wp.Games[1], wp.Games[3]
	if phi.Prob != 1 || phi.Pct != 100 {
		t.Errorf("PHI clamped = %v / %v, want 1 / 100", phi.Prob, phi.Pct)
	}
	if sf.Pct != 72.5 || sf.Tier.Name != "Very high (>=0.70)" {
		t.Errorf("SF = %+v", sf)
	}
	if kc.Prob != 0.5 || kc.Tier.Name != "Slight (0.50–0.60)" {
		t.Errorf("KC missing prob = %+v, want 0.5", kc)
	}
	if phi.Date != "2023-09-11" || phi.Results["home_win"] != "1" {
		t.Errorf("PHI date/results = %q %v", phi.Date, phi.Results)
	}
}

func TestWinProbabilityWeekClamp(t *testing.T) {
	wp, err := WinProbability(matchups(t, matchupsCSV), 2023, 9)
	if err != nil {
		t.Fatalf("WinProbability() error: %v", err)
	}
	if wp.Week != 2 || len(wp.Games) != 1 || wp.Games[0].Matchup != "BUF vs LV" {
		t.Errorf("clamped week = %d, games %+v", wp.Week, wp.Games)
	}
}

func TestWinProbabilityFallbackColumns(t *testing.T) {
	csv := `season,week,home_home_team,home_away_team,home_win_probability
2023,4,MIA,DEN,0.77
`
	wp, err := WinProbability(matchups(t, csv), 2023, 4)
	if err != nil {
		t.Fatalf("WinProbability() error: %v", err)
	}
	if wp.ProbColumn != "home_win_probability" || wp.Games[0].Matchup != "MIA vs DEN" {
		t.Errorf("WinProbability() = %+v", wp)
	}
	if wp.Games[0].Date != "" || wp.Games[0].Results != nil {
		t.Errorf("optional fields should be empty: %+v", wp.Games[0])
	}
}

func TestWinProbabilityErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		code errors.Code
		msg  string
	}{
		{
			name: "no season",
			csv:  "week,home_team,away_team,pred_home_win_prob\n1,BUF,NYJ,0.6\n",
			code: errors.ErrCodeInvalidColumn,
		},
		{
			name: "unknown season",
			csv:  matchupsCSV,
			code: errors.ErrCodeNotFound,
		},

		{
			name: "no prob column",
			csv:  "season,week,home_team,away_team,pred_spread,model_prob_raw\n2019,1,BUF,NYJ,3,0.6\n",
			code: errors.ErrCodeInvalidColumn,
			msg:  "pred_spread, model_prob_raw",
		},
		{
			name: "no team columns",
			csv:  "season,week,home,away,home_win_prob\n2019,1,BUF,NYJ,0.6\n",
			code: errors.ErrCodeInvalidColumn,
			msg:  "home/away",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WinProbability(matchups(t, tt.csv), 2019, 1)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q should mention %q", err, tt.msg)
			}
		})
	}
}

func TestWinProbabilityNoRows(t *testing.T) {
	df := matchups(t, matchupsCSV)
	empty := df.Filter(dataframe.F{Colname: "home_team", Comparator: series.Eq, Comparando: "nobody"})
	if empty.Err != nil {
		t.Fatal(empty.Err)
	}
	if _, err := WinProbability(empty, 2023, 1); !errors.Is(err, errors.ErrCodeEmptyDataset) {
		t.Errorf("error = %v, want EMPTY_DATASET", err)
	}
}
