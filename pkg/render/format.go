package render

import (
	"bytes"
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/statboard/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ValidateFormat returns INVALID_FORMAT for an unknown format.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (want %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// Default canvas size.
const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

// Option configures a renderer.
type Option func(*options)

type options struct {
	width, height int
	title         string
	invertY       bool
}

// WithSize sets the canvas size in pixels. Non-positive values keep the
// default.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// WithTitle overrides the chart title.
func WithTitle(title string) Option { return func(o *options) { o.title = title } }

// WithInvertY flips the y axis so lower values are drawn higher. The
// landscape uses it for defensive EPA, where lower is better.
func WithInvertY() Option { return func(o *options) { o.invertY = true } }

func newOptions(title string, height int, opts []Option) options {
	o := options{width: DefaultWidth, height: height, title: title}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MarshalView writes v as indented JSON.
func MarshalView(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode view")
	}
	return nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := MarshalView(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// provider maps a format to a go-chart renderer.
func provider(format string) (chart.RendererProvider, error) {
	switch format {
	case FormatSVG:
		return chart.SVG, nil
	case FormatPNG:
		return chart.PNG, nil
	}
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q is not drawn by go-chart", format)
}

// color parses "#RRGGBB".
func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// padRange widens [lo, hi] by frac of its span on both sides. A zero span
// is widened by pad instead.
func padRange(lo, hi, frac, pad float64) (float64, float64) {
	if span := hi - lo; span > 0 {
		return lo - span*frac, hi + span*frac
	}
	return lo - pad, hi + pad
}

func renderError(err error, what string) error {
	return errors.Wrap(errors.ErrCodeInternal, err, "render %s", what)
}
