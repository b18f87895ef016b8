package gacha

import (
	"testing"

	"github.com/xtding233/orbsim/internal/token"
)

// scripted replays fixed draws in order.
type scripted struct {
	t     *testing.T
	draws []float64
}

func script(t *testing.T, draws ...float64) *scripted {
	return &scripted{t: t, draws: draws}
}

func (s *scripted) Float64() float64 {
	if len(s.draws) == 0 {
		s.t.Fatalf("scripted rng exhausted")
	}
	v := s.draws[0]
	s.draws = s.draws[1:]
	return v
}

func (s *scripted) left() int { return len(s.draws) }

// characterBanner is a 5*/4* event banner with a 50/50 focus split and a
// guarantee after one loss.
func characterBanner() BannerConfig {
	return BannerConfig{
		Name: "character",
		Cost: token.Orbs,
		Five: TierConfig{
			BaseRate:        0.006,
			SoftPity:        SoftPity{Start: 73, Increment: 0.06, HardPity: 90},
			FocusRate:       0.5,
			FocusCharacters: 1,
			Guarantee:       &FocusGuarantee{Threshold: 1, Table: []float64{0.5}},
		},
		Four: TierConfig{
			BaseRate:        0.051,
			SoftPity:        SoftPity{Start: 8, Increment: 0.51, HardPity: 10},
			FocusRate:       0.5,
			FocusCharacters: 3,
			Guarantee:       &FocusGuarantee{Threshold: 1, Table: []float64{0.5}},
		},
		FillerRate: 0.943,
	}
}

// weaponBanner has two 5* focus weapons and a pity-skip path.
func weaponBanner() BannerConfig {
	return BannerConfig{
		Name: "weapon",
		Cost: token.Orbs,
		Five: TierConfig{
			BaseRate:     0.007,
			SoftPity:     SoftPity{Start: 62, Increment: 0.07, HardPity: 80},
			FocusRate:    0.75,
			FocusWeapons: 2,
			Guarantee:    &FocusGuarantee{Threshold: 1, Table: []float64{0.75}},
		},
		Four: TierConfig{
			BaseRate:     0.06,
			SoftPity:     SoftPity{Start: 7, Increment: 0.6, HardPity: 10},
			FocusRate:    0.75,
			FocusWeapons: 5,
		},
		FillerRate: 0.933,
		Path:       &PathConfig{Threshold: 1},
	}
}

// focusBanner only has 5* results above filler: 6% base, a ramp from 50
// pulls and a certain 5* on the 99th pull.
func focusBanner(chars int) BannerConfig {
	return BannerConfig{
		Name: "focus",
		Cost: token.Orbs,
		Five: TierConfig{
			BaseRate:        0.06,
			SoftPity:        SoftPity{Start: 50, Increment: 0.06, HardPity: 99},
			FocusRate:       0.5,
			FocusCharacters: chars,
		},
		FillerRate: 0.94,
	}
}

func mustBanner(t *testing.T, c BannerConfig) *BannerConfig {
	t.Helper()
	b, err := NewBannerConfig(c)
	if err != nil {
		t.Fatalf("banner %q: %v", c.Name, err)
	}
	return b
}

func specific(tier Tier, kind UnitKind, index, copies int) GoalTarget {
	return GoalTarget{
		Tier:   tier,
		Pool:   PoolFocus,
		Scope:  SpecificUnit,
		Unit:   UnitRef{Kind: kind, Index: index},
		Copies: copies,
	}
}
