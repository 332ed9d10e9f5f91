package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/nfl"
)

// Landscape plot frame, in pixels.
const (
	landscapeHeight = 650
	marginLeft      = 80
	marginRight     = 220
	marginTop       = 60
	marginBottom    = 70

	// Smallest canvas that leaves a usable plot area next to the legend.
	minLandscapeWidth  = marginLeft + marginRight + 200
	minLandscapeHeight = marginTop + marginBottom + 160
)

// Landscape renders offensive vs defensive EPA with one marker per team.
func Landscape(ls nfl.Landscape, format string, opts ...Option) ([]byte, error) {
	if format == FormatJSON {
		return marshal(ls)
	}
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if len(ls.Markers) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no teams to chart")
	}

	title := fmt.Sprintf("EPA landscape: season %d, up to week %d", ls.Season, ls.Week)
	o := newOptions(title, landscapeHeight, opts)
	o.width = max(o.width, minLandscapeWidth)
	o.height = max(o.height, minLandscapeHeight)
	if format == FormatPNG {
		return landscapePNG(ls, o)
	}
	return landscapeSVG(ls, o), nil
}

// bounds returns the padded data extent of markers and labels.
func bounds(ls nfl.Landscape) (xlo, xhi, ylo, yhi float64) {
	xlo, ylo = math.Inf(1), math.Inf(1)
	xhi, yhi = math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		if math.IsNaN(x) || math.IsNaN(y) {
			return
		}
		xlo, xhi = math.Min(xlo, x), math.Max(xhi, x)
		ylo, yhi = math.Min(ylo, y), math.Max(yhi, y)
	}
	for _, m := range ls.Markers {
		grow(m.Off, m.Def)
	}
	if ls.Labels != nil {
		for _, p := range ls.Labels.Positions {
			grow(p.X, p.Y)
		}
	}
	xlo, xhi = padRange(xlo, xhi, 0.08, 0.1)
	ylo, yhi = padRange(ylo, yhi, 0.08, 0.1)
	return xlo, xhi, ylo, yhi
}

// frame maps data coordinates onto the plot area.
type frame struct {
	xlo, xhi, ylo, yhi float64
	left, top, w, h    int
	invertY            bool
}

func (f frame) px(x float64) int {
	return f.left + int(math.Round((x-f.xlo)/(f.xhi-f.xlo)*float64(f.w)))
}

func (f frame) py(y float64) int {
	t := (y - f.ylo) / (f.yhi - f.ylo)
	if !f.invertY {
		t = 1 - t
	}
	return f.top + int(math.Round(t*float64(f.h)))
}

func markerRadius(size float64) int {
	return 4 + int(math.Round(size*24))
}

func landscapeSVG(ls nfl.Landscape, o options) []byte {
	xlo, xhi, ylo, yhi := bounds(ls)
	f := frame{
		xlo: xlo, xhi: xhi, ylo: ylo, yhi: yhi,
		left: marginLeft, top: marginTop,
		w:       o.width - marginLeft - marginRight,
		h:       o.height - marginTop - marginBottom,
		invertY: o.invertY,
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(o.width, o.height)
	canvas.Rect(0, 0, o.width, o.height, "fill:#FFFFFF")
	canvas.Text(o.width/2, 32, o.title, "text-anchor:middle;font-family:sans-serif;font-size:18px;fill:#222")

	canvas.Rect(f.left, f.top, f.w, f.h, "fill:none;stroke:#999;stroke-width:1")
	for _, t := range niceTicks(xlo, xhi, 6) {
		x := f.px(t)
		canvas.Line(x, f.top+f.h, x, f.top+f.h+5, "stroke:#999")
		canvas.Text(x, f.top+f.h+20, fmt.Sprintf("%.2f", t), "text-anchor:middle;font-family:sans-serif;font-size:11px;fill:#555")
	}
	for _, t := range niceTicks(ylo, yhi, 6) {
		y := f.py(t)
		canvas.Line(f.left-5, y, f.left, y, "stroke:#999")
		canvas.Text(f.left-8, y+4, fmt.Sprintf("%.2f", t), "text-anchor:end;font-family:sans-serif;font-size:11px;fill:#555")
	}

	zero := "stroke:#333;stroke-opacity:0.35;stroke-dasharray:2,4"
	if xlo < 0 && xhi > 0 {
		canvas.Line(f.px(0), f.top, f.px(0), f.top+f.h, zero)
	}
	if ylo < 0 && yhi > 0 {
		canvas.Line(f.left, f.py(0), f.left+f.w, f.py(0), zero)
	}

	axis := "text-anchor:middle;font-family:sans-serif;font-size:13px;fill:#333"
	canvas.Text(f.left+f.w/2, o.height-20, "Offensive EPA (higher is better)", axis)
	canvas.TranslateRotate(22, f.top+f.h/2, -90)
	canvas.Text(0, 0, "Defensive EPA (lower is better)", axis)
	canvas.Gend()

	canvas.Gstyle("fill-opacity:0.85;stroke:#FFFFFF;stroke-width:1")
	for _, m := range ls.Markers {
		canvas.Circle(f.px(m.Off), f.py(m.Def), markerRadius(m.Size), "fill:"+m.Tier.Color)
	}
	canvas.Gend()

	if ls.Labels != nil {
		canvas.Gstyle("text-anchor:middle;dominant-baseline:middle;font-family:sans-serif;font-size:12px;fill:#222")
		for _, p := range ls.Labels.Positions {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				continue
			}
			canvas.Text(f.px(p.X), f.py(p.Y), p.Label)
		}
		canvas.Gend()
	}

	lx, ly := o.width-marginRight+20, marginTop+10
	canvas.Text(lx, ly, "Net EPA tier", "font-family:sans-serif;font-size:13px;font-weight:bold;fill:#333")
	for i, t := range ls.Tiers {
		y := ly + 22*(i+1)
		canvas.Circle(lx+6, y-4, 6, "fill:"+t.Color)
		canvas.Text(lx+18, y, t.Name, "font-family:sans-serif;font-size:12px;fill:#333")
	}

	canvas.End()
	return buf.Bytes()
}

func landscapePNG(ls nfl.Landscape, o options) ([]byte, error) {
	xlo, xhi, ylo, yhi := bounds(ls)

	var series []chart.Series
	if xlo < 0 && xhi > 0 {
		series = append(series, zeroLine([]float64{0, 0}, []float64{ylo, yhi}))
	}
	if ylo < 0 && yhi > 0 {
		series = append(series, zeroLine([]float64{xlo, xhi}, []float64{0, 0}))
	}
	for _, t := range ls.Tiers {
		var xs, ys []float64
		for _, m := range ls.Markers {
			if m.Tier.Name == t.Name {
				xs = append(xs, m.Off)
				ys = append(ys, m.Def)
			}
		}
		if len(xs) == 0 {
			continue
		}
		c := color(t.Color)
		series = append(series, chart.ContinuousSeries{
			Name:    t.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    7,
				DotColor:    c,
			},
		})
	}
	if ls.Labels != nil {
		var notes []chart.Value2
		for _, p := range ls.Labels.Positions {
			if !math.IsNaN(p.X) && !math.IsNaN(p.Y) {
				notes = append(notes, chart.Value2{XValue: p.X, YValue: p.Y, Label: p.Label})
			}
		}
		if len(notes) > 0 {
			series = append(series, chart.AnnotationSeries{
				Annotations: notes,
				Style:       chart.Style{FontSize: 8, StrokeWidth: chart.Disabled},
			})
		}
	}

	graph := chart.Chart{
		Title:      o.title,
		Width:      o.width,
		Height:     o.height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 200, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "Offensive EPA (higher is better)",
			Range:          &chart.ContinuousRange{Min: xlo, Max: xhi},
			ValueFormatter: func(v any) string { return formatFloat(v, 2) },
		},
		YAxis: chart.YAxis{
			Name:           "Defensive EPA (lower is better)",
			Range:          &chart.ContinuousRange{Min: ylo, Max: yhi, Descending: o.invertY},
			ValueFormatter: func(v any) string { return formatFloat(v, 2) },
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, renderError(err, "landscape")
	}
	return buf.Bytes(), nil
}

func zeroLine(xs, ys []float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    "zero",
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor:     chart.ColorAlternateGray,
			StrokeWidth:     1,
			StrokeDashArray: []float64{2, 4},
		},
	}
}

// niceTicks returns about n round values covering [lo, hi].
func niceTicks(lo, hi float64, n int) []float64 {
	if !(hi > lo) || n < 2 {
		return []float64{lo}
	}
	raw := (hi - lo) / float64(n-1)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	var out []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		out = append(out, math.Round(v/step)*step)
	}
	return out
}
