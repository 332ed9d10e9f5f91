package nfl

// Tier is a named band of values with its chart color.
type Tier struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Net EPA tiers, best first.
var NetTiers = []Tier{
	{"Elite (>= +0.15)", "#F2C14E"},
	{"Strong (+0.05–0.15)", "#2D9CDB"},
	{"Average (-0.05–0.05)", "#BDBDBD"},
	{"Poor (-0.15–-0.05)", "#F2994A"},
	{"Weak (<= -0.15)", "#EB5757"},
}

// Win probability tiers, most likely first.
var ProbTiers = []Tier{
	{"Very high (>=0.70)", "#27AE60"},
	{"High (0.60–0.70)", "#2D9CDB"},
	{"Slight (0.50–0.60)", "#F2C14E"},
	{"Low (0.40–0.50)", "#F2994A"},
	{"Very low (<0.40)", "#EB5757"},
}

// NetTier classifies a rolling net EPA value. NaN falls into the last tier.
func NetTier(v float64) Tier {
	switch {
	case v >= 0.15:
		return NetTiers[0]
	case v >= 0.05:
		return NetTiers[1]
	case v > -0.05:
		return NetTiers[2]
	case v > -0.15:
		return NetTiers[3]
	default:
		return NetTiers[4]
	}
}

// ProbTier classifies a home win probability.
func ProbTier(p float64) Tier {
	switch {
	case p >= 0.70:
		return ProbTiers[0]
	case p >= 0.60:
		return ProbTiers[1]
	case p >= 0.50:
		return ProbTiers[2]
	case p >= 0.40:
		return ProbTiers[3]
	default:
		return ProbTiers[4]
	}
}
