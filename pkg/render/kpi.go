package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/f1"
)

// KPIs renders the headline numbers as four cards. PNG is not supported.
func KPIs(k f1.KPI, format string, opts ...Option) ([]byte, error) {
	switch format {
	case FormatJSON:
		return marshal(k)
	case FormatSVG:
	default:
		if err := ValidateFormat(format); err != nil {
			return nil, err
		}
		return nil, errors.New(errors.ErrCodeUnsupported, "the KPI card renders as svg or json, not %s", format)
	}

	o := newOptions("", 160, opts)
	cards := []struct{ label, value string }{
		{"Filtered rows", humanize.Comma(int64(k.Rows))},
		{"Races (unique GP)", humanize.Comma(int64(k.Races))},
		{"Drivers", humanize.Comma(int64(k.Drivers))},
		{"Avg points", fmt.Sprintf("%.2f", k.AvgPoints)},
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(o.width, o.height)
	gap := 16
	w := (o.width - gap*(len(cards)+1)) / len(cards)
	h := o.height - 2*gap
	for i, c := range cards {
		x := gap + i*(w+gap)
		canvas.Roundrect(x, gap, w, h, 8, 8, "fill:#F7F7F7;stroke:#DDD")
		canvas.Text(x+16, gap+32, c.label, "font-family:sans-serif;font-size:14px;fill:#666")
		canvas.Text(x+16, gap+h-28, c.value, "font-family:sans-serif;font-size:36px;fill:#222")
	}
	canvas.End()
	return buf.Bytes(), nil
}
