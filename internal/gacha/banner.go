package gacha

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/orbsim/internal/token"
)

// Tier is the star rating of a pull result.
type Tier int

const (
	ThreeStar Tier = 3
	FourStar  Tier = 4
	FiveStar  Tier = 5
)

func (t Tier) String() string { return fmt.Sprintf("%d*", int(t)) }

// UnitKind splits a tier's focus pool into characters and weapons.
type UnitKind int

const (
	Character UnitKind = iota
	Weapon
)

func (k UnitKind) String() string {
	if k == Weapon {
		return "weapon"
	}
	return "character"
}

// UnitRef identifies one focus unit of a tier: the Index-th focus character or weapon.
type UnitRef struct {
	Kind  UnitKind
	Index int
}

func (u UnitRef) String() string { return fmt.Sprintf("%s#%d", u.Kind, u.Index) }

// FocusGuarantee forces a focus result once Threshold consecutive non-focus
// results of the tier have been seen.
// Table[c] is the focus probability while the counter is c, for c in [0, Threshold).
// Example: Threshold=1, Table=[0.55] is a 55/45 split with a guarantee after a loss.
type FocusGuarantee struct {
	Threshold int
	Table     []float64
}

// TierConfig describes one rarity tier of a banner.
type TierConfig struct {
	BaseRate        float64
	SoftPity        SoftPity
	FocusRate       float64 // share of the tier's hits that land on focus units
	FocusCharacters int
	FocusWeapons    int
	Guarantee       *FocusGuarantee // nil => focus ~ Bernoulli(FocusRate) on every hit
}

// PathConfig enables the pity-skip path: after Threshold 5* results that are not the
// nominated unit, the next 5* is that unit.
type PathConfig struct {
	Threshold int
}

// BannerConfig is the immutable description of a banner. Build it with NewBannerConfig.
type BannerConfig struct {
	Name       string
	Cost       token.Token
	Five       TierConfig
	Four       TierConfig
	FillerRate float64 // 3* rate; Five.BaseRate + Four.BaseRate + FillerRate == 1
	Path       *PathConfig
}

// NewBannerConfig validates c and returns a private copy of it.
func NewBannerConfig(c BannerConfig) (*BannerConfig, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := c
	out.Five = c.Five.clone()
	out.Four = c.Four.clone()
	if c.Path != nil {
		p := *c.Path
		out.Path = &p
	}
	return &out, nil
}

func (t TierConfig) clone() TierConfig {
	out := t
	if t.Guarantee != nil {
		g := FocusGuarantee{
			Threshold: t.Guarantee.Threshold,
			Table:     append([]float64(nil), t.Guarantee.Table...),
		}
		out.Guarantee = &g
	}
	return out
}

// Validate checks every field and returns all problems joined together.
func (c BannerConfig) Validate() error {
	var errs []error

	if err := c.Cost.Validate(); err != nil {
		errs = append(errs, configErr("cost.per_pull", "%v", err))
	}
	errs = append(errs, c.Five.validate("five")...)
	errs = append(errs, c.Four.validate("four")...)

	errs = appendProb(errs, "filler_rate", c.FillerRate)
	sum := c.Five.BaseRate + c.Four.BaseRate + c.FillerRate
	if math.Abs(sum-1) > probEpsilon {
		errs = append(errs, configErr("rates", "five + four + filler must sum to 1, got %.9f", sum))
	}

	if c.Path != nil && c.Path.Threshold < 1 {
		errs = append(errs, configErr("path.threshold", "must be >= 1, got %d", c.Path.Threshold))
	}
	return errors.Join(errs...)
}

func (t TierConfig) validate(field string) []error {
	var errs []error
	errs = appendProb(errs, field+".base_rate", t.BaseRate)
	errs = appendProb(errs, field+".focus_rate", t.FocusRate)
	if t.FocusCharacters < 0 {
		errs = append(errs, configErr(field+".focus_characters", "must be >= 0, got %d", t.FocusCharacters))
	}
	if t.FocusWeapons < 0 {
		errs = append(errs, configErr(field+".focus_weapons", "must be >= 0, got %d", t.FocusWeapons))
	}
	errs = append(errs, t.SoftPity.validate(field, t.BaseRate)...)

	if g := t.Guarantee; g != nil {
		if g.Threshold < 1 {
			errs = append(errs, configErr(field+".guarantee.threshold", "must be >= 1, got %d", g.Threshold))
		} else if len(g.Table) != g.Threshold {
			// every reachable counter value below the threshold needs an entry
			errs = append(errs, configErr(field+".guarantee.table",
				"needs one probability per counter value 0..%d, got %d entries", g.Threshold-1, len(g.Table)))
		}
		for i, p := range g.Table {
			errs = appendProb(errs, fmt.Sprintf("%s.guarantee.table[%d]", field, i), p)
		}
	}

	if t.focusPossible() && t.FocusCharacters+t.FocusWeapons == 0 {
		errs = append(errs, configErr(field+".focus_characters",
			"focus results are possible but the tier declares no focus units"))
	}
	return errs
}

// RateAt returns the tier's hit probability for a pull made after `since`
// consecutive pulls without a hit of this tier.
func (t TierConfig) RateAt(since int) float64 {
	return t.SoftPity.Rate(t.BaseRate, since)
}

// FocusProbability returns the chance that a hit of this tier is focus while the
// guarantee counter is at `counter`.
func (t TierConfig) FocusProbability(counter int) float64 {
	g := t.Guarantee
	if g == nil {
		return t.FocusRate
	}
	if counter >= g.Threshold {
		return 1
	}
	if counter < 0 {
		counter = 0
	}
	return g.Table[counter]
}

// FocusUnits returns the number of focus units of the tier.
func (t TierConfig) FocusUnits() int { return t.FocusCharacters + t.FocusWeapons }

// unitCount returns the number of focus units of the given kind.
func (t TierConfig) unitCount(k UnitKind) int {
	if k == Weapon {
		return t.FocusWeapons
	}
	return t.FocusCharacters
}

// pickUnit selects a focus unit uniformly across the tier's characters and weapons.
func (t TierConfig) pickUnit(rng RandomSource) UnitRef {
	i := pick(t.FocusUnits(), rng)
	if i < t.FocusCharacters {
		return UnitRef{Kind: Character, Index: i}
	}
	return UnitRef{Kind: Weapon, Index: i - t.FocusCharacters}
}

// occurs reports whether the tier can ever be hit.
func (t TierConfig) occurs() bool {
	return t.BaseRate > 0 || t.SoftPity.HardPity > 0 || t.SoftPity.Increment > 0
}

func (t TierConfig) focusPossible() bool {
	return t.FocusRate > 0 || t.Guarantee != nil
}

func (t TierConfig) nonFocusPossible() bool {
	if t.Guarantee == nil {
		return t.FocusRate < 1
	}
	for _, p := range t.Guarantee.Table {
		if p < 1 {
			return true
		}
	}
	return false
}

// Tier returns the configuration of a 4* or 5* tier.
func (c *BannerConfig) Tier(t Tier) TierConfig {
	if t == FiveStar {
		return c.Five
	}
	return c.Four
}

// HasPath reports whether the banner offers the pity-skip path.
func (c *BannerConfig) HasPath() bool { return c.Path != nil }
