package render

import (
	"bytes"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/f1"
	"github.com/matzehuels/statboard/pkg/nfl"
)

const (
	colorBar    = "#2D9CDB"
	colorGained = "#27AE60"
	colorLost   = "#EB5757"
)

// PositionsGained renders the grid minus finish histogram. Gains are green,
// losses red.
func PositionsGained(buckets []f1.Bucket, format string, opts ...Option) ([]byte, error) {
	if format == FormatJSON {
		return marshal(buckets)
	}
	if len(buckets) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no finished results to chart")
	}

	o := newOptions("Positions gained (grid - finish)", DefaultHeight, opts)
	bars := make([]chart.Value, len(buckets))
	for i, b := range buckets {
		c := colorBar
		switch {
		case b.Delta > 0:
			c = colorGained
		case b.Delta < 0:
			c = colorLost
		}
		bars[i] = bar(float64(b.Count), strconv.Itoa(b.Delta), c)
	}
	return barChart(o, format, bars, 0, maxValue(bars), 0)
}

// Totals renders a points leaderboard.
func Totals(title string, totals []f1.Total, format string, opts ...Option) ([]byte, error) {
	if format == FormatJSON {
		return marshal(totals)
	}
	if len(totals) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no totals to chart")
	}

	o := newOptions(title, DefaultHeight, opts)
	bars := make([]chart.Value, len(totals))
	for i, t := range totals {
		bars[i] = bar(t.Points, t.Name, colorBar)
	}
	return barChart(o, format, bars, 0, maxValue(bars), 45)
}

// WinProbability renders one bar per game, colored by probability tier.
func WinProbability(wp nfl.WinProb, format string, opts ...Option) ([]byte, error) {
	if format == FormatJSON {
		return marshal(wp)
	}
	if len(wp.Games) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no games to chart")
	}

	o := newOptions("Home win probability (sorted)", 650, opts)
	bars := make([]chart.Value, len(wp.Games))
	for i, g := range wp.Games {
		bars[i] = bar(g.Prob, g.Matchup, g.Tier.Color)
	}
	return barChart(o, format, bars, 0, 1, 45)
}

func bar(v float64, label, hex string) chart.Value {
	c := color(hex)
	return chart.Value{
		Value: v,
		Label: label,
		Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
	}
}

func maxValue(bars []chart.Value) float64 {
	m := 0.0
	for _, b := range bars {
		m = max(m, b.Value)
	}
	return m
}

// barChart sizes the bars to fit the canvas and pins the y range, so a
// single bar or an all-zero chart still renders.
func barChart(o options, format string, bars []chart.Value, ylo, yhi float64, rotate float64) ([]byte, error) {
	rp, err := provider(format)
	if err != nil {
		return nil, err
	}
	if yhi <= ylo {
		yhi = ylo + 1
	} else {
		yhi += (yhi - ylo) * 0.05
	}

	slot := (o.width - 120) / len(bars)
	width := max(4, slot*2/3)
	spacing := max(2, slot-width)

	bottom := 20
	if rotate != 0 {
		bottom = 90
	}
	bc := chart.BarChart{
		Title:      o.title,
		Width:      o.width,
		Height:     o.height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Bottom: bottom}},
		BarWidth:   width,
		BarSpacing: spacing,
		XAxis:      chart.Style{TextRotationDegrees: rotate},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: ylo, Max: yhi},
			ValueFormatter: func(v any) string { return formatFloat(v, 2) },
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(rp, &buf); err != nil {
		return nil, renderError(err, o.title)
	}
	return buf.Bytes(), nil
}
