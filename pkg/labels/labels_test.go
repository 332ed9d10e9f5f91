package labels

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/matzehuels/statboard/pkg/errors"
)

func teamPoints(n int, seed uint64) ([]Point, []string) {
	rng := rand.New(rand.NewPCG(seed, seed))
	points := make([]Point, n)
	names := make([]string, n)
	for i := range points {
		points[i] = Point{X: rng.Float64()*0.6 - 0.3, Y: rng.Float64()*0.5 - 0.25}
		names[i] = string(rune('A'+i%26)) + string(rune('A'+i/26))
	}
	return points, names
}

func assertFloor(t *testing.T, points []Point, res Result, cfg Config) {
	t.Helper()
	_, _, offset := Pads(points, cfg)
	for i, p := range res.Positions {
		floor := points[i].Y + offset
		if p.Y < floor {
			t.Errorf("label %d (%s): y = %v below floor %v", i, p.Label, p.Y, floor)
		}
	}
}

func TestPlaceEmpty(t *testing.T) {
	res, err := Place(nil, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if len(res.Positions) != 0 {
		t.Errorf("Positions = %v, want empty", res.Positions)
	}
	if res.Passes != 0 {
		t.Errorf("Passes = %d, want 0", res.Passes)
	}
}

func TestPlaceLengthMismatch(t *testing.T) {
	_, err := Place([]Point{{0, 0}, {1, 1}}, []string{"A"}, DefaultConfig())
	if err == nil {
		t.Fatal("Place() should fail for mismatched lengths")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"zero iters", func(c *Config) { c.Iters = 0 }, false},
		{"step one", func(c *Config) { c.Step = 1 }, false},
		{"zero pads", func(c *Config) { c.XPadFrac, c.YPadFrac = 0, 0 }, false},
		{"negative iters", func(c *Config) { c.Iters = -1 }, true},
		{"zero step", func(c *Config) { c.Step = 0 }, true},
		{"negative step", func(c *Config) { c.Step = -0.2 }, true},
		{"step above one", func(c *Config) { c.Step = 1.5 }, true},
		{"nan step", func(c *Config) { c.Step = math.NaN() }, true},
		{"negative x pad", func(c *Config) { c.XPadFrac = -0.1 }, true},
		{"inf y pad", func(c *Config) { c.YPadFrac = math.Inf(1) }, true},
		{"nan floor", func(c *Config) { c.MinAboveFrac = math.NaN() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() code = %v, want INVALID_INPUT", errors.GetCode(err))
			}

			_, perr := Place([]Point{{0, 0}}, []string{"A"}, cfg)
			if (perr != nil) != tt.wantErr {
				t.Errorf("Place() error = %v, wantErr %v", perr, tt.wantErr)
			}
		})
	}
}

func TestPlacePreservesOrder(t *testing.T) {
	points, names := teamPoints(32, 1)
	res, err := Place(points, names, LandscapeConfig())
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if len(res.Positions) != len(points) {
		t.Fatalf("len(Positions) = %d, want %d", len(res.Positions), len(points))
	}
	for i, p := range res.Positions {
		if p.Label != names[i] {
			t.Errorf("Positions[%d].Label = %q, want %q", i, p.Label, names[i])
		}
	}
}

func TestPlaceFloorInvariant(t *testing.T) {
	configs := map[string]Config{
		"default":   DefaultConfig(),
		"landscape": LandscapeConfig(),
		"no passes": {XPadFrac: 0.05, YPadFrac: 0.05, MinAboveFrac: 0.02, Iters: 0, Step: 0.5, Seed: 3},
		"full step": {XPadFrac: 0.2, YPadFrac: 0.2, MinAboveFrac: 0.1, Iters: 10, Step: 1, Seed: 11},
		"no offset": {XPadFrac: 0.1, YPadFrac: 0.1, MinAboveFrac: 0, Iters: 40, Step: 0.3, Seed: 5},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			for seed := uint64(0); seed < 5; seed++ {
				points, names := teamPoints(24, seed)
				res, err := Place(points, names, cfg)
				if err != nil {
					t.Fatalf("Place() error: %v", err)
				}
				assertFloor(t, points, res, cfg)
			}
		})
	}
}

func TestPlaceDeterministic(t *testing.T) {
	points, names := teamPoints(32, 9)
	cfg := LandscapeConfig()

	a, err := Place(points, names, cfg)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	b, err := Place(points, names, cfg)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	if a.Passes != b.Passes {
		t.Errorf("Passes differ: %d vs %d", a.Passes, b.Passes)
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Errorf("Positions[%d] differ: %+v vs %+v", i, a.Positions[i], b.Positions[i])
		}
	}
}

func TestPlaceSeedChangesJitter(t *testing.T) {
	points := []Point{{0, 0}, {1, 1}}
	names := []string{"A", "B"}
	cfg := DefaultConfig()
	cfg.Iters = 0

	a, _ := Place(points, names, cfg)
	cfg.Seed++
	b, _ := Place(points, names, cfg)

	if a.Positions[0].X == b.Positions[0].X && a.Positions[1].X == b.Positions[1].X {
		t.Error("different seeds should produce different jitter")
	}
}

func TestPlaceFixedPointIsStable(t *testing.T) {
	// Far apart relative to the padding: nothing collides after jitter.
	points := []Point{{0, 0}, {10, 10}, {20, 0}, {30, 10}}
	names := []string{"BUF", "KC", "SF", "DET"}

	cfg := DefaultConfig()
	cfg.Iters = 0
	initial, err := Place(points, names, cfg)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	for _, iters := range []int{1, 5, 500} {
		cfg.Iters = iters
		res, err := Place(points, names, cfg)
		if err != nil {
			t.Fatalf("Place() error: %v", err)
		}
		if res.Passes != 1 {
			t.Errorf("iters=%d: Passes = %d, want 1 (early exit)", iters, res.Passes)
		}
		if !res.Converged {
			t.Errorf("iters=%d: Converged = false", iters)
		}
		for i := range res.Positions {
			if res.Positions[i] != initial.Positions[i] {
				t.Errorf("iters=%d: Positions[%d] = %+v, want %+v", iters, i, res.Positions[i], initial.Positions[i])
			}
		}
	}
}

func TestPlaceSinglePoint(t *testing.T) {
	points := []Point{{0.12, -0.08}}
	cfg := DefaultConfig()
	res, err := Place(points, []string{"PHI"}, cfg)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if len(res.Positions) != 1 {
		t.Fatalf("len(Positions) = %d, want 1", len(res.Positions))
	}
	if !res.Converged {
		t.Error("a single label cannot collide")
	}
	if res.Passes != 1 {
		t.Errorf("Passes = %d, want 1", res.Passes)
	}
	assertFloor(t, points, res, cfg)
}

func TestPlaceCoincidentPair(t *testing.T) {
	points := []Point{{0, 0}, {0, 0}}
	cfg := Config{XPadFrac: 0.1, YPadFrac: 0.1, MinAboveFrac: 0.1, Iters: 50, Step: 0.4, Seed: 7}

	res, err := Place(points, []string{"A", "B"}, cfg)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	a, b := res.Positions[0], res.Positions[1]
	xPad, yPad := 0.1, 0.1
	if !(math.Abs(a.X-b.X) >= xPad || math.Abs(a.Y-b.Y) >= yPad) {
		t.Errorf("labels still collide: A=%+v B=%+v", a, b)
	}
	if a.Y < 0.1 || b.Y < 0.1 {
		t.Errorf("labels below floor 0.1: A.y=%v B.y=%v", a.Y, b.Y)
	}
	if !res.Converged {
		t.Error("Converged = false, want true")
	}
	if res.Passes >= cfg.Iters {
		t.Errorf("Passes = %d, expected an early exit before %d", res.Passes, cfg.Iters)
	}
}

func TestPlaceZeroIters(t *testing.T) {
	points := []Point{{0, 0}, {0, 0}}
	cfg := Config{XPadFrac: 0.1, YPadFrac: 0.1, MinAboveFrac: 0.1, Iters: 0, Step: 0.4, Seed: 7}

	res, err := Place(points, []string{"A", "B"}, cfg)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if res.Passes != 0 {
		t.Errorf("Passes = %d, want 0", res.Passes)
	}
	if res.Converged {
		t.Error("coincident anchors should still collide without relaxation")
	}
	if got := Overlaps(res.Positions, 0.1, 0.1); got != 1 {
		t.Errorf("Overlaps = %d, want 1", got)
	}
	assertFloor(t, points, res, cfg)

	// Jitter only: labels stay within a few sigma of anchor + offset.
	for _, p := range res.Positions {
		if math.Abs(p.X) > 0.1 || p.Y > 0.2 {
			t.Errorf("position %+v moved further than the initial jitter allows", p)
		}
	}
}

func TestPlaceDegenerateAxis(t *testing.T) {
	points := []Point{{1, 0}, {1, 0.5}, {1, 1}}
	res, err := Place(points, []string{"A", "B", "C"}, DefaultConfig())
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	for i, p := range res.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Errorf("Positions[%d] = %+v, want finite", i, p)
		}
	}

	xPad, _, _ := Pads(points, DefaultConfig())
	if xPad != 0.032 {
		t.Errorf("xPad = %v, want 0.032 (range substituted with 1.0)", xPad)
	}
}

func TestPlaceNaNAnchor(t *testing.T) {
	points := []Point{{0, 0}, {math.NaN(), 0.5}, {1, 1}}
	res, err := Place(points, []string{"A", "B", "C"}, DefaultConfig())
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if !math.IsNaN(res.Positions[1].X) {
		t.Errorf("NaN anchor should keep a NaN x, got %v", res.Positions[1].X)
	}
	for _, i := range []int{0, 2} {
		p := res.Positions[i]
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("Positions[%d] = %+v, want finite", i, p)
		}
	}
}

func TestPlaceReducesOverlaps(t *testing.T) {
	points, names := teamPoints(32, 4)
	cfg := LandscapeConfig()
	xPad, yPad, _ := Pads(points, cfg)

	before := cfg
	before.Iters = 0
	start, _ := Place(points, names, before)
	end, err := Place(points, names, cfg)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	if got, was := Overlaps(end.Positions, xPad, yPad), Overlaps(start.Positions, xPad, yPad); got > was {
		t.Errorf("overlaps grew from %d to %d", was, got)
	}
	if end.Converged != (Overlaps(end.Positions, xPad, yPad) == 0) {
		t.Error("Converged disagrees with Overlaps")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		positions []Position
		want      int
	}{
		{"empty", nil, 0},
		{"single", []Position{{X: 0, Y: 0}}, 0},
		{"apart on x", []Position{{X: 0, Y: 0}, {X: 1, Y: 0}}, 0},
		{"apart on y", []Position{{X: 0, Y: 0}, {X: 0, Y: 1}}, 0},
		{"exactly at pad", []Position{{X: 0, Y: 0}, {X: 0.5, Y: 0}}, 0},
		{"colliding", []Position{{X: 0, Y: 0}, {X: 0.1, Y: 0.1}}, 1},
		{"three stacked", []Position{{X: 0, Y: 0}, {X: 0, Y: 0.1}, {X: 0, Y: 0.2}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.positions, 0.5, 0.5); got != tt.want {
				t.Errorf("Overlaps() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResultJSONWithNaNAnchor(t *testing.T) {
	points := []Point{{0, 0}, {math.NaN(), 0.5}, {1, 1}}
	res, err := Place(points, []string{"A", "B", "C"}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `{"label":"B","x":null,"y":`) {
		t.Errorf("NaN anchor should encode a null x: %s", data)
	}

	var back Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !math.IsNaN(back.Positions[1].X) {
		t.Errorf("null x should decode as NaN, got %+v", back.Positions[1])
	}
	if back.Positions[1].Y != res.Positions[1].Y {
		t.Errorf("Positions[1].Y = %v, want %v", back.Positions[1].Y, res.Positions[1].Y)
	}
	for _, i := range []int{0, 2} {
		if back.Positions[i] != res.Positions[i] {
			t.Errorf("Positions[%d] = %+v, want %+v", i, back.Positions[i], res.Positions[i])
		}
	}
}
