package dashboard

import (
	"github.com/go-gota/gota/dataframe"

	"github.com/matzehuels/statboard/pkg/dataset"
	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/f1"
	"github.com/matzehuels/statboard/pkg/nfl"
	"github.com/matzehuels/statboard/pkg/render"
)

// computed is a view's value together with its renderer.
type computed struct {
	value  any
	render func(format string, opts ...render.Option) ([]byte, error)
}

func compute(df dataframe.DataFrame, o *Options) (computed, error) {
	switch o.View {
	case ViewF1KPIs, ViewF1DNF, ViewF1Gain, ViewF1TopDrivers, ViewF1TopTeams:
		filtered, err := FilterF1(df, o.Filter)
		if err != nil {
			return computed{}, err
		}
		return computeF1(filtered, o)
	case ViewNFLLandscape:
		season, week, err := ResolveWeek(df, o.Season, o.Week)
		if err != nil {
			return computed{}, err
		}
		ls, err := nfl.BuildLandscape(df, season, week, *o.Labels, !o.HideLabels)
		if err != nil {
			return computed{}, err
		}
		return computed{ls, func(format string, opts ...render.Option) ([]byte, error) {
			return render.Landscape(ls, format, opts...)
		}}, nil
	case ViewNFLWinProb:
		season, week, err := ResolveWeek(df, o.Season, o.Week)
		if err != nil {
			return computed{}, err
		}
		wp, err := nfl.WinProbability(df, season, week)
		if err != nil {
			return computed{}, err
		}
		return computed{wp, func(format string, opts ...render.Option) ([]byte, error) {
			return render.WinProbability(wp, format, opts...)
		}}, nil
	case ViewNFLMomentum:
		season, week, err := ResolveWeek(df, o.Season, o.Week)
		if err != nil {
			return computed{}, err
		}
		weeks, err := nfl.Momentum(nfl.FilterWeeks(df, season, week), o.Team)
		if err != nil {
			return computed{}, err
		}
		return computed{weeks, func(format string, opts ...render.Option) ([]byte, error) {
			return render.Momentum(o.Team, season, weeks, format, opts...)
		}}, nil
	}
	return computed{}, errors.New(errors.ErrCodeInvalidView, "unknown view %q", o.View)
}

func computeF1(df dataframe.DataFrame, o *Options) (computed, error) {
	switch o.View {
	case ViewF1KPIs:
		k := f1.KPIs(df)
		return computed{k, func(format string, opts ...render.Option) ([]byte, error) {
			return render.KPIs(k, format, opts...)
		}}, nil
	case ViewF1DNF:
		rates := f1.DNFRateBySeason(df)
		return computed{rates, func(format string, opts ...render.Option) ([]byte, error) {
			return render.DNFRate(rates, format, opts...)
		}}, nil
	case ViewF1Gain:
		buckets := f1.PositionsGained(df)
		return computed{buckets, func(format string, opts ...render.Option) ([]byte, error) {
			return render.PositionsGained(buckets, format, opts...)
		}}, nil
	}

	key, title := f1.ColDriver, "Top drivers by points"
	if o.View == ViewF1TopTeams {
		key, title = f1.ColTeam, "Top teams by points"
	}
	totals, err := f1.TopBy(df, key, o.TopN)
	if err != nil {
		return computed{}, err
	}
	return computed{totals, func(format string, opts ...render.Option) ([]byte, error) {
		return render.Totals(title, totals, format, opts...)
	}}, nil
}

// ResolveF1Filter replaces a zero season bound of f with the matching
// bound of [f1.DefaultFilter].
func ResolveF1Filter(df dataframe.DataFrame, f f1.Filter) (f1.Filter, error) {
	if err := f1.Validate(df); err != nil {
		return f1.Filter{}, err
	}
	def, err := f1.DefaultFilter(df)
	if err != nil {
		return f1.Filter{}, err
	}
	if f.SeasonFrom == 0 {
		f.SeasonFrom = def.SeasonFrom
	}
	if f.SeasonTo == 0 {
		f.SeasonTo = def.SeasonTo
	}
	return f, nil
}

// FilterF1 applies f, with its defaults resolved, to the results table.
func FilterF1(df dataframe.DataFrame, f f1.Filter) (dataframe.DataFrame, error) {
	f, err := ResolveF1Filter(df, f)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return f1.Apply(df, f)
}

// ResolveWeek fills a zero season with the latest one and a zero week with
// the last week of the season.
func ResolveWeek(df dataframe.DataFrame, season, week int) (int, int, error) {
	if err := dataset.RequireColumns(df, nfl.ColSeason, nfl.ColWeek); err != nil {
		return 0, 0, err
	}
	if season == 0 {
		seasons := nfl.Seasons(df)
		if len(seasons) == 0 {
			return 0, 0, errors.New(errors.ErrCodeEmptyDataset, "dataset has no seasons")
		}
		season = seasons[len(seasons)-1]
	}
	if week == 0 {
		weeks := nfl.Weeks(df, season)
		if len(weeks) == 0 {
			return 0, 0, errors.New(errors.ErrCodeNotFound, "season %d not found", season)
		}
		week = weeks[len(weeks)-1]
	}
	return season, week, nil
}
