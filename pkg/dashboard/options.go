package dashboard

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/statboard/pkg/cache"
	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/f1"
	"github.com/matzehuels/statboard/pkg/labels"
	"github.com/matzehuels/statboard/pkg/render"
)

// =============================================================================
// Views
// =============================================================================

// View names.
const (
	ViewF1KPIs       = "f1-kpis"
	ViewF1DNF        = "f1-dnf"
	ViewF1Gain       = "f1-gain"
	ViewF1TopDrivers = "f1-top-drivers"
	ViewF1TopTeams   = "f1-top-teams"
	ViewNFLLandscape = "nfl-landscape"
	ViewNFLWinProb   = "nfl-winprob"
	ViewNFLMomentum  = "nfl-momentum"
)

// Dataset kinds a view reads.
const (
	DatasetF1       = "f1"
	DatasetEPA      = "epa"
	DatasetMatchups = "matchups"
)

// ViewInfo describes a view.
type ViewInfo struct {
	Name        string `json:"name"`
	Dataset     string `json:"dataset"`
	Description string `json:"description"`
}

// Views lists every view in display order.
var Views = []ViewInfo{
	{ViewF1KPIs, DatasetF1, "Rows, races, drivers and average points"},
	{ViewF1DNF, DatasetF1, "DNF rate per season"},
	{ViewF1Gain, DatasetF1, "Distribution of positions gained (grid - finish)"},
	{ViewF1TopDrivers, DatasetF1, "Drivers with the most points"},
	{ViewF1TopTeams, DatasetF1, "Teams with the most points"},
	{ViewNFLLandscape, DatasetEPA, "Offensive vs defensive EPA per team"},
	{ViewNFLWinProb, DatasetMatchups, "Pre-game home win probability per game"},
	{ViewNFLMomentum, DatasetEPA, "Rolling EPA of one team by week"},
}

// LookupView returns the view named name.
func LookupView(name string) (ViewInfo, bool) {
	for _, v := range Views {
		if v.Name == name {
			return v, true
		}
	}
	return ViewInfo{}, false
}

// ValidateView checks that a view exists.
func ValidateView(name string) error {
	if _, ok := LookupView(name); !ok {
		names := make([]string, len(Views))
		for i, v := range Views {
			names[i] = v.Name
		}
		return errors.New(errors.ErrCodeInvalidView, "unknown view %q (must be one of: %s)", name, strings.Join(names, ", "))
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = render.FormatSVG

// Options configures one view run. The zero value of every optional field
// picks the default: the latest season and week, the full f1 default
// filter, the landscape label config, labels shown and the defense axis
// inverted.
type Options struct {
	View    string   `json:"view"`
	Formats []string `json:"formats,omitempty"`

	// Dataset paths. Only the one the view reads is required.
	F1Path       string `json:"f1_path,omitempty"`
	EPAPath      string `json:"epa_path,omitempty"`
	MatchupsPath string `json:"matchups_path,omitempty"`
	// Table names the SQLite table for .db and .sqlite datasets.
	Table string `json:"table,omitempty"`

	// f1 options
	Filter f1.Filter `json:"filter"`
	TopN   int       `json:"top_n,omitempty"`

	// nfl options
	Season     int            `json:"season,omitempty"`
	Week       int            `json:"week,omitempty"`
	Team       string         `json:"team,omitempty"`
	Labels     *labels.Config `json:"labels,omitempty"`
	HideLabels bool           `json:"hide_labels,omitempty"`
	Upright    bool           `json:"upright,omitempty"` // don't invert the defense axis

	// Render options; zero keeps each chart's own size.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Path() == "" {
		v, _ := LookupView(o.View)
		return errors.New(errors.ErrCodeInvalidInput, "view %s needs a %s dataset path", o.View, v.Dataset)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Season < 0 || o.Week < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "season and week must be positive")
	}
	if o.View == ViewNFLMomentum && o.Team == "" {
		return errors.New(errors.ErrCodeInvalidInput, "view %s needs a team", o.View)
	}
	if o.TopN == 0 {
		o.TopN = f1.DefaultTopN
	}
	if o.Labels == nil {
		cfg := labels.LandscapeConfig()
		o.Labels = &cfg
	}
	if err := o.Labels.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Dataset returns the kind of dataset the view reads.
func (o *Options) Dataset() string {
	v, _ := LookupView(o.View)
	return v.Dataset
}

// Path returns the dataset path for the view.
func (o *Options) Path() string {
	switch o.Dataset() {
	case DatasetF1:
		return o.F1Path
	case DatasetEPA:
		return o.EPAPath
	case DatasetMatchups:
		return o.MatchupsPath
	}
	return ""
}

// RenderOptions returns the render options for the view.
func (o *Options) RenderOptions() []render.Option {
	var out []render.Option
	if o.Width > 0 || o.Height > 0 {
		out = append(out, render.WithSize(o.Width, o.Height))
	}
	if o.View == ViewNFLLandscape && !o.Upright {
		out = append(out, render.WithInvertY())
	}
	return out
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Only the options the view reads go into the key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	params := map[string]string{"table": o.Table}
	switch o.Dataset() {
	case DatasetF1:
		f := o.Filter
		params["seasons"] = fmt.Sprintf("%d-%d", f.SeasonFrom, f.SeasonTo)
		params["grands_prix"] = joinSorted(f.GrandsPrix)
		params["teams"] = joinSorted(f.Teams)
		params["drivers"] = joinSorted(f.Drivers)
		params["top_n"] = strconv.Itoa(o.TopN)
	default:
		params["season"] = strconv.Itoa(o.Season)
		params["week"] = strconv.Itoa(o.Week)
	}
	switch o.View {
	case ViewNFLMomentum:
		params["team"] = o.Team
	case ViewNFLLandscape:
		if o.Labels != nil {
			params["labels"] = fmt.Sprintf("%+v", *o.Labels)
		}
		params["hide_labels"] = strconv.FormatBool(o.HideLabels)
		params["upright"] = strconv.FormatBool(o.Upright)
	}
	return cache.ArtifactKeyOpts{
		View:   o.View,
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		Params: params,
	}
}

func joinSorted(xs []string) string {
	s := append([]string(nil), xs...)
	sort.Strings(s)
	return strings.Join(s, "\x1f")
}
