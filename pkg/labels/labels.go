package labels

import (
	"encoding/json"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/statboard/pkg/errors"
)

// Jitter scales, as fractions of the data range.
const (
	jitterX = 0.007
	jitterY = 0.004
)

// Point is an anchor position in data space.
type Point struct {
	X, Y float64
}

// Position is where a label's text is drawn. NaN coordinates encode as
// JSON null.
type Position struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// positionJSON writes non-finite coordinates as null.
type positionJSON struct {
	Label string   `json:"label"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
}

// MarshalJSON encodes a NaN or infinite coordinate as null, so results
// with NaN anchors still encode.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{Label: p.Label, X: finite(p.X), Y: finite(p.Y)})
}

// UnmarshalJSON decodes a null coordinate as NaN.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Label, p.X, p.Y = raw.Label, orNaN(raw.X), orNaN(raw.Y)
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// Config controls the relaxation.
type Config struct {
	XPadFrac     float64 `json:"x_pad_frac" toml:"x_pad_frac" yaml:"x_pad_frac"`
	YPadFrac     float64 `json:"y_pad_frac" toml:"y_pad_frac" yaml:"y_pad_frac"`
	MinAboveFrac float64 `json:"min_above_frac" toml:"min_above_frac" yaml:"min_above_frac"`
	Iters        int     `json:"iters" toml:"iters" yaml:"iters"`
	Step         float64 `json:"step" toml:"step" yaml:"step"`
	Seed         uint64  `json:"seed" toml:"seed" yaml:"seed"`
}

// DefaultConfig returns the general-purpose settings.
func DefaultConfig() Config {
	return Config{
		XPadFrac:     0.032,
		YPadFrac:     0.045,
		MinAboveFrac: 0.040,
		Iters:        260,
		Step:         0.38,
		Seed:         7,
	}
}

// LandscapeConfig returns the settings tuned for the EPA landscape, where
// 32 team abbreviations share one chart.
func LandscapeConfig() Config {
	return Config{
		XPadFrac:     0.032,
		YPadFrac:     0.048,
		MinAboveFrac: 0.045,
		Iters:        280,
		Step:         0.40,
		Seed:         7,
	}
}

// Validate reports a config outside its domain.
func (c Config) Validate() error {
	if c.Iters < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "iters must be >= 0, got %d", c.Iters)
	}
	if !(c.Step > 0 && c.Step <= 1) {
		return errors.New(errors.ErrCodeInvalidInput, "step must be in (0, 1], got %v", c.Step)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"x_pad_frac", c.XPadFrac},
		{"y_pad_frac", c.YPadFrac},
		{"min_above_frac", c.MinAboveFrac},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a finite value >= 0, got %v", f.name, f.v)
		}
	}
	return nil
}

// Result is the outcome of [Place].
type Result struct {
	// Positions holds one entry per input point, in input order.
	Positions []Position `json:"positions"`
	// Passes is the number of relaxation passes that ran, including the
	// final pass that found no collision.
	Passes int `json:"passes"`
	// Converged is true when no pair of labels collides in the final layout.
	Converged bool `json:"converged"`
}

// Place computes label positions for the given anchors.
//
// labels must have the same length as points; it is carried through to the
// output only. Place returns an INVALID_INPUT error for mismatched lengths or
// an invalid config, and never fails otherwise. Anchors with a NaN coordinate
// keep NaN positions and never collide.
func Place(points []Point, labels []string, cfg Config) (Result, error) {
	if len(points) != len(labels) {
		return Result{}, errors.New(errors.ErrCodeInvalidInput,
			"points and labels differ in length: %d != %d", len(points), len(labels))
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	n := len(points)
	if n == 0 {
		return Result{Positions: []Position{}, Converged: true}, nil
	}

	xRange, yRange := ranges(points)
	xPad := cfg.XPadFrac * xRange
	yPad := cfg.YPadFrac * yRange
	offset := cfg.MinAboveFrac * yRange

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xdeadbeef))
	lx := make([]float64, n)
	ly := make([]float64, n)
	floor := make([]float64, n)
	for i, p := range points {
		lx[i] = p.X + float64(rng.NormFloat64()*jitterX*xRange)
	}
	for i, p := range points {
		ly[i] = p.Y + offset + float64(rng.NormFloat64()*jitterY*yRange)
		floor[i] = p.Y + offset
	}
	clampFloor(ly, floor)

	passes := 0
	for passes < cfg.Iters {
		passes++
		if !relax(lx, ly, xPad, yPad, cfg.Step) {
			break
		}
		clampFloor(ly, floor)
	}

	out := make([]Position, n)
	for i := range out {
		out[i] = Position{Label: labels[i], X: lx[i], Y: ly[i]}
	}
	return Result{
		Positions: out,
		Passes:    passes,
		Converged: Overlaps(out, xPad, yPad) == 0,
	}, nil
}

// relax runs one pass over all pairs and reports whether any pair collided.
func relax(lx, ly []float64, xPad, yPad, step float64) bool {
	moved := false
	for i := 0; i < len(lx); i++ {
		for j := i + 1; j < len(lx); j++ {
			dx := lx[i] - lx[j]
			dy := ly[i] - ly[j]
			if !(math.Abs(dx) < xPad && math.Abs(dy) < yPad) {
				continue
			}
			moved = true

			// float64 conversions forbid FMA fusion.
			pushX := float64((xPad - math.Abs(dx)) / xPad)
			pushY := float64((yPad - math.Abs(dy)) / yPad)
			mx := float64(sign(dx) * float64(float64(step*pushX)*xPad))
			my := float64(sign(dy) * float64(float64(step*pushY)*yPad))

			lx[i] += mx
			lx[j] -= mx
			ly[i] += my
			ly[j] -= my
		}
	}
	return moved
}

// sign returns -1 for negative values and 1 otherwise, so coincident labels
// are pushed in a fixed direction.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func clampFloor(ly, floor []float64) {
	for i := range ly {
		if ly[i] < floor[i] {
			ly[i] = floor[i]
		}
	}
}

// ranges returns the extent of the finite anchors on each axis, with 1.0
// substituted for an empty or zero extent.
func ranges(points []Point) (float64, float64) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if !math.IsNaN(p.X) && !math.IsInf(p.X, 0) {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
		}
		if !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) {
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}
	return span(minX, maxX), span(minY, maxY)
}

func span(lo, hi float64) float64 {
	if r := hi - lo; r > 0 && !math.IsInf(r, 0) {
		return r
	}
	return 1.0
}

// Pads returns the absolute x and y padding and the floor offset that
// [Place] derives from points and cfg.
func Pads(points []Point, cfg Config) (xPad, yPad, floorOffset float64) {
	xRange, yRange := ranges(points)
	return cfg.XPadFrac * xRange, cfg.YPadFrac * yRange, cfg.MinAboveFrac * yRange
}

// Overlaps counts the label pairs closer than xPad and yPad on both axes.
func Overlaps(positions []Position, xPad, yPad float64) int {
	n := 0
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			dx := math.Abs(positions[i].X - positions[j].X)
			dy := math.Abs(positions[i].Y - positions[j].Y)
			if dx < xPad && dy < yPad {
				n++
			}
		}
	}
	return n
}
