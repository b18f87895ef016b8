package gacha

import "math"

// Outcome reports one pull's result.
type Outcome struct {
	Tier       Tier
	Focus      bool    // 4*/5* only
	Unit       UnitRef // valid when Focus
	Guaranteed bool    // focus forced by the guarantee counter
	Path       bool    // unit forced by the pity-skip path
}

// Category is the coarse outcome class used by Distribution.
type Category int

const (
	FiveStarFocusSpecific Category = iota
	FiveStarFocusOther
	FiveStarNonFocus
	FourStarFocusSpecific
	FourStarFocusOther
	FourStarNonFocus
	Filler
	numCategories
)

var categoryNames = [...]string{
	"5*-focus-specific", "5*-focus-other", "5*-non-focus",
	"4*-focus-specific", "4*-focus-other", "4*-non-focus",
	"filler",
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Distribution is the probability of each category on the next pull.
type Distribution [numCategories]float64

// Sum returns the total probability mass; always 1 up to rounding.
func (d Distribution) Sum() float64 {
	var s float64
	for _, p := range d {
		s += p
	}
	return s
}

// tierRates returns the 5*, 4* and filler probabilities for the next pull.
// 5* takes priority; 4* gets at most what is left.
func (c *BannerConfig) tierRates(s *PityState) (five, four, filler float64) {
	five = c.Five.RateAt(s.SinceFive)
	four = math.Min(c.Four.RateAt(s.SinceFour), 1-five)
	filler = math.Max(0, 1-five-four)
	return five, four, filler
}

// Distribution computes the category probabilities for the next pull from state s.
// specific names, per tier, the unit counted as "specific"; tiers without an
// entry put all focus mass into the "other" category.
func (c *BannerConfig) Distribution(s *PityState, specific map[Tier]UnitRef) Distribution {
	var d Distribution
	five, four, filler := c.tierRates(s)
	d[Filler] = filler

	ref, ok := specific[FiveStar]
	if s.pathReady(c) {
		if ok && ref == s.PathUnit {
			d[FiveStarFocusSpecific] = five
		} else {
			d[FiveStarFocusOther] = five
		}
	} else {
		c.Five.split(&d, FiveStarFocusSpecific, five, s.FiveCounter, ref, ok)
	}

	ref, ok = specific[FourStar]
	c.Four.split(&d, FourStarFocusSpecific, four, s.FourCounter, ref, ok)
	return d
}

// split spreads a tier's mass p over its three categories starting at base.
func (t TierConfig) split(d *Distribution, base Category, p float64, counter int, ref UnitRef, hasRef bool) {
	focus := p * t.FocusProbability(counter)
	share := 0.0
	if hasRef && ref.Index >= 0 && ref.Index < t.unitCount(ref.Kind) {
		share = 1 / float64(t.FocusUnits())
	}
	d[base] = focus * share
	d[base+1] = focus - focus*share
	d[base+2] = p - focus
}

// Resolve performs one pull against the banner and updates s.
//  1. Sample the tier from the soft/hard pity rates.
//  2. On a 5* with the path ready, return the nominated unit.
//  3. Otherwise decide focus from the guarantee table (or FocusRate) and pick a
//     focus unit uniformly.
func Resolve(c *BannerConfig, s *PityState, rng RandomSource) Outcome {
	if rng == nil {
		rng = DefaultRNG()
	}
	five, four, _ := c.tierRates(s)

	var out Outcome
	u := rng.Float64()
	switch {
	case u < five:
		out = c.resolveTier(FiveStar, s, rng)
	case u < five+four:
		out = c.resolveTier(FourStar, s, rng)
	default:
		out = Outcome{Tier: ThreeStar}
	}
	s.record(c, out)
	return out
}

func (c *BannerConfig) resolveTier(t Tier, s *PityState, rng RandomSource) Outcome {
	if t == FiveStar && s.pathReady(c) {
		return Outcome{Tier: t, Focus: true, Unit: s.PathUnit, Path: true}
	}
	tc := c.Tier(t)
	counter := s.Counter(t)
	// probabilities come from a validated config, Draw cannot fail here
	focus, _ := Draw(tc.FocusProbability(counter), rng)
	if !focus {
		return Outcome{Tier: t}
	}
	return Outcome{
		Tier:       t,
		Focus:      true,
		Unit:       tc.pickUnit(rng),
		Guaranteed: tc.Guarantee != nil && counter >= tc.Guarantee.Threshold,
	}
}
