package nfl

import (
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/matzehuels/statboard/pkg/dataset"
	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/labels"
)

// Marker is one team on the landscape.
type Marker struct {
	TeamWeek
	Tier Tier `json:"tier"`
	// Size scales the marker: |net| + 0.1.
	Size float64 `json:"size"`
}

// Landscape is offense vs defense EPA for every team at a point in a season.
type Landscape struct {
	Season  int            `json:"season"`
	Week    int            `json:"week"`
	Markers []Marker       `json:"markers"`
	Labels  *labels.Result `json:"labels,omitempty"`
	Tiers   []Tier         `json:"tiers"`
}

// BuildLandscape takes each team's latest week of season up to week and
// classifies it by net EPA. With showLabels set, team labels are placed
// with cfg so they do not overlap. Teams missing a metric are left out.
func BuildLandscape(df dataframe.DataFrame, season, week int, cfg labels.Config, showLabels bool) (Landscape, error) {
	if err := dataset.RequireColumns(df, EPAColumns...); err != nil {
		return Landscape{}, err
	}
	filtered := FilterWeeks(df, season, week)
	if filtered.Nrow() == 0 {
		return Landscape{}, errors.New(errors.ErrCodeEmptyDataset,
			"no EPA rows for season %d up to week %d", season, week)
	}

	ls := Landscape{Season: season, Week: week, Tiers: NetTiers}
	for _, r := range LatestPerTeam(filtered) {
		if !r.complete() {
			continue
		}
		ls.Markers = append(ls.Markers, Marker{
			TeamWeek: r,
			Tier:     NetTier(r.Net),
			Size:     math.Abs(r.Net) + 0.1,
		})
	}
	if len(ls.Markers) == 0 {
		return Landscape{}, errors.New(errors.ErrCodeEmptyDataset,
			"no team has complete EPA for season %d up to week %d", season, week)
	}

	if showLabels {
		points := make([]labels.Point, len(ls.Markers))
		names := make([]string, len(ls.Markers))
		for i, m := range ls.Markers {
			points[i] = labels.Point{X: m.Off, Y: m.Def}
			names[i] = m.Team
		}
		res, err := labels.Place(points, names, cfg)
		if err != nil {
			return Landscape{}, err
		}
		ls.Labels = &res
	}
	return ls, nil
}
