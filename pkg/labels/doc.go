// Package labels places text labels next to scatter points so they do not
// overlap.
//
// [Place] starts every label slightly above its anchor, with a small seeded
// jitter, and then runs relaxation passes: every pair of labels that is
// closer than the padding on both axes is pushed apart. A label never moves
// below its floor (the anchor's y plus a minimum offset), but it may drift
// freely along x.
//
// # Padding and Floor
//
// All distances are fractions of the data range of the anchors, so the same
// [Config] works for EPA values around ±0.3 and win probabilities in [0, 1]:
//
//	x_pad = XPadFrac * (max(x) - min(x))
//	y_pad = YPadFrac * (max(y) - min(y))
//	floor = y + MinAboveFrac * (max(y) - min(y))
//
// A zero range on an axis is replaced by 1.0.
//
// # Determinism
//
// The initial jitter comes from a PCG generator seeded with [Config.Seed],
// so equal inputs always produce bit-identical positions. The routine has no
// shared state and is safe to call concurrently.
//
// # Guarantees
//
// This is a heuristic. When the pass budget runs out, some pairs may still
// overlap; [Result.Converged] reports whether the final layout is clean.
// The pairwise loop is O(N²) per pass, which is fine for the few dozen teams
// or drivers a chart shows.
package labels
