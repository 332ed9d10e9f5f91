package f1

import (
	"github.com/go-gota/gota/dataframe"

	"github.com/matzehuels/statboard/pkg/dataset"
	"github.com/matzehuels/statboard/pkg/errors"
)

// Filter selects results. Empty slices select everything.
type Filter struct {
	SeasonFrom int      `json:"season_from" toml:"season_from" yaml:"season_from"`
	SeasonTo   int      `json:"season_to" toml:"season_to" yaml:"season_to"`
	GrandsPrix []string `json:"grands_prix,omitempty" toml:"grands_prix" yaml:"grands_prix"`
	Teams      []string `json:"teams,omitempty" toml:"teams" yaml:"teams"`
	Drivers    []string `json:"drivers,omitempty" toml:"drivers" yaml:"drivers"`
}

// DefaultFilter covers 2000 through the latest season, or the whole table
// when it ends before 2000.
func DefaultFilter(df dataframe.DataFrame) (Filter, error) {
	seasons := dataset.UniqueInts(df, ColSeason)
	if len(seasons) == 0 {
		return Filter{}, errors.New(errors.ErrCodeEmptyDataset, "results have no seasons")
	}
	lo, hi := seasons[0], seasons[len(seasons)-1]
	from := earliestDefaultSeason
	if from < lo || from > hi {
		from = lo
	}
	return Filter{SeasonFrom: from, SeasonTo: hi}, nil
}

// Validate reports an inverted season range.
func (f Filter) Validate() error {
	if f.SeasonFrom > f.SeasonTo {
		return errors.New(errors.ErrCodeInvalidFilter,
			"season range is inverted: %d > %d", f.SeasonFrom, f.SeasonTo)
	}
	return nil
}

// Apply keeps the rows inside the inclusive season range, then restricts
// by each non-empty selection.
func Apply(df dataframe.DataFrame, f Filter) (dataframe.DataFrame, error) {
	if err := Validate(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := f.Validate(); err != nil {
		return dataframe.DataFrame{}, err
	}

	out := dataset.FilterRange(df, ColSeason, float64(f.SeasonFrom), float64(f.SeasonTo))
	out = dataset.FilterIn(out, ColGrandPrix, f.GrandsPrix)
	out = dataset.FilterIn(out, ColTeam, f.Teams)
	out = dataset.FilterIn(out, ColDriver, f.Drivers)
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrCodeInvalidFilter, out.Err, "apply filter")
	}
	return out, nil
}

// Choices lists what the selections can pick from. Each list is narrowed by
// the selections before it, in the order season, grand prix, team, driver.
type Choices struct {
	MinSeason  int      `json:"min_season"`
	MaxSeason  int      `json:"max_season"`
	GrandsPrix []string `json:"grands_prix"`
	Teams      []string `json:"teams"`
	Drivers    []string `json:"drivers"`
}

// Options computes the [Choices] under f.
func Options(df dataframe.DataFrame, f Filter) (Choices, error) {
	if err := Validate(df); err != nil {
		return Choices{}, err
	}
	if err := f.Validate(); err != nil {
		return Choices{}, err
	}

	var c Choices
	if seasons := dataset.UniqueInts(df, ColSeason); len(seasons) > 0 {
		c.MinSeason, c.MaxSeason = seasons[0], seasons[len(seasons)-1]
	}

	cur := dataset.FilterRange(df, ColSeason, float64(f.SeasonFrom), float64(f.SeasonTo))
	c.GrandsPrix = dataset.Unique(cur, ColGrandPrix)
	cur = dataset.FilterIn(cur, ColGrandPrix, f.GrandsPrix)
	c.Teams = dataset.Unique(cur, ColTeam)
	cur = dataset.FilterIn(cur, ColTeam, f.Teams)
	c.Drivers = dataset.Unique(cur, ColDriver)
	return c, nil
}
