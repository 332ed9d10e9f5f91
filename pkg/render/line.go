package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/f1"
	"github.com/matzehuels/statboard/pkg/nfl"
)

// line is one named series of a line chart.
type line struct {
	name  string
	color string
	ys    []float64
}

// Momentum series colors.
const (
	colorOffense = "#2D9CDB"
	colorDefense = "#EB5757"
	colorNet     = "#27AE60"
)

// DNFRate renders the DNF rate per season.
func DNFRate(rates []f1.SeasonRate, format string, opts ...Option) ([]byte, error) {
	if format == FormatJSON {
		return marshal(rates)
	}
	if len(rates) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no seasons to chart")
	}

	o := newOptions("DNF rate by season", DefaultHeight, opts)
	xs := make([]float64, len(rates))
	ys := make([]float64, len(rates))
	for i, r := range rates {
		xs[i] = float64(r.Season)
		ys[i] = r.Rate
	}
	return lineChart(o, format, "Season", "DNF rate", xs, []line{{"DNF rate", "#EB5757", ys}})
}

// Momentum renders a team's offensive, defensive and net EPA by week.
func Momentum(team string, season int, weeks []nfl.TeamWeek, format string, opts ...Option) ([]byte, error) {
	if format == FormatJSON {
		return marshal(struct {
			Team   string         `json:"team"`
			Season int            `json:"season"`
			Weeks  []nfl.TeamWeek `json:"weeks"`
		}{team, season, weeks})
	}
	if len(weeks) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no weeks to chart for %s", team)
	}

	o := newOptions(fmt.Sprintf("%s: EPA momentum (%d)", team, season), 450, opts)
	xs := make([]float64, len(weeks))
	off := make([]float64, len(weeks))
	def := make([]float64, len(weeks))
	net := make([]float64, len(weeks))
	for i, w := range weeks {
		xs[i] = float64(w.Week)
		off[i], def[i], net[i] = w.Off, w.Def, w.Net
	}
	return lineChart(o, format, "Week", "EPA", xs, []line{
		{nfl.ColOffEPA, colorOffense, off},
		{nfl.ColDefEPA, colorDefense, def},
		{nfl.ColNetEPA, colorNet, net},
	})
}

// lineChart draws lines over integer x values (seasons or weeks) with one
// tick per value.
func lineChart(o options, format, xName, yName string, xs []float64, lines []line) ([]byte, error) {
	rp, err := provider(format)
	if err != nil {
		return nil, err
	}

	xlo, xhi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		xlo, xhi = math.Min(xlo, x), math.Max(xhi, x)
	}
	ylo, yhi := math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		for _, y := range l.ys {
			if !math.IsNaN(y) {
				ylo, yhi = math.Min(ylo, y), math.Max(yhi, y)
			}
		}
	}
	if math.IsInf(ylo, 0) {
		ylo, yhi = 0, 1
	}
	ylo, yhi = padRange(ylo, yhi, 0.1, 0.05)

	// go-chart takes the x range from the ticks when there are any, so the
	// padded ends get blank ticks. A single season or week still spans one
	// unit that way.
	var ticks []chart.Tick
	if len(xs) <= 30 {
		ticks = append(ticks, chart.Tick{Value: xlo - 0.5})
		for _, x := range xs {
			ticks = append(ticks, chart.Tick{Value: x, Label: strconv.Itoa(int(x))})
		}
		ticks = append(ticks, chart.Tick{Value: xhi + 0.5})
	}

	series := make([]chart.Series, len(lines))
	for i, l := range lines {
		c := color(l.color)
		series[i] = chart.ContinuousSeries{
			Name:    l.name,
			XValues: xs,
			YValues: l.ys,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 2,
				DotColor:    c,
				DotWidth:    3,
			},
		}
	}

	graph := chart.Chart{
		Title:      o.title,
		Width:      o.width,
		Height:     o.height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  xName,
			Range: &chart.ContinuousRange{Min: xlo - 0.5, Max: xhi + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           yName,
			Range:          &chart.ContinuousRange{Min: ylo, Max: yhi},
			ValueFormatter: func(v any) string { return formatFloat(v, 2) },
		},
		Series: series,
	}
	if len(lines) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	var buf bytes.Buffer
	if err := graph.Render(rp, &buf); err != nil {
		return nil, renderError(err, o.title)
	}
	return buf.Bytes(), nil
}

func formatFloat(v any, digits int) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', digits, 64)
	}
	return ""
}
