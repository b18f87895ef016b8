// resolve.go
package preset

import (
	"fmt"
	"strings"

	"github.com/xtding233/orbsim/internal/gacha"
	"github.com/xtding233/orbsim/internal/token"
)

// Resolve turns a merged RawConfig into a validated gacha.BannerConfig.
func Resolve(raw RawConfig) (*gacha.BannerConfig, error) {
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}
	c := gacha.BannerConfig{
		Name: raw.Name,
		Cost: token.Token{Name: raw.Cost.Name, PerPull: *raw.Cost.PerPull},
		Five: tier(raw.Five),
		Four: tier(raw.Four),
	}
	if c.Cost.Name == "" {
		c.Cost.Name = token.Orbs.Name
	}
	if raw.FillerRate != nil {
		c.FillerRate = *raw.FillerRate
	} else {
		c.FillerRate = 1 - c.Five.BaseRate - c.Four.BaseRate
	}
	if raw.Path != nil {
		c.Path = &gacha.PathConfig{Threshold: raw.Path.Threshold}
	}
	return gacha.NewBannerConfig(c)
}

func tier(t *TierCfg) gacha.TierConfig {
	if t == nil {
		return gacha.TierConfig{}
	}
	out := gacha.TierConfig{
		BaseRate:        deref(t.BaseRate),
		FocusRate:       deref(t.FocusRate),
		FocusCharacters: deref(t.FocusCharacters),
		FocusWeapons:    deref(t.FocusWeapons),
		SoftPity: gacha.SoftPity{
			Start:     deref(t.SoftStart),
			Increment: deref(t.Increment),
			HardPity:  deref(t.HardPity),
		},
	}
	if g := t.Guarantee; g != nil {
		table := append([]float64(nil), g.Table...)
		if len(table) == 0 {
			// flat split below the threshold
			for i := 0; i < g.Threshold; i++ {
				table = append(table, out.FocusRate)
			}
		}
		out.Guarantee = &gacha.FocusGuarantee{Threshold: g.Threshold, Table: table}
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Goal converts the YAML/JSON goal into a gacha.Goal and validates its shape.
func (g GoalCfg) Goal() (gacha.Goal, error) {
	out := gacha.Goal{
		Combinator: gacha.Combinator(strings.ToLower(g.Combinator)),
		UsePath:    g.UsePath,
	}
	if out.Combinator == "" {
		out.Combinator = gacha.All
	}
	for i, t := range g.Targets {
		gt := gacha.GoalTarget{
			Name:   t.Name,
			Tier:   gacha.Tier(t.Tier),
			Pool:   gacha.Pool(orDefault(t.Pool, string(gacha.PoolFocus))),
			Scope:  gacha.UnitScope(orDefault(t.Unit, string(gacha.AnyUnit))),
			Copies: t.Copies,
		}
		if gt.Scope == gacha.SpecificUnit {
			switch strings.ToLower(t.Kind) {
			case "", "character":
				gt.Unit = gacha.UnitRef{Kind: gacha.Character, Index: t.Index}
			case "weapon":
				gt.Unit = gacha.UnitRef{Kind: gacha.Weapon, Index: t.Index}
			default:
				return gacha.Goal{}, fieldErr(fmt.Sprintf("goal.targets[%d].kind", i), "must be character or weapon, got %q", t.Kind)
			}
		}
		out.Targets = append(out.Targets, gt)
	}
	if err := out.Validate(); err != nil {
		return gacha.Goal{}, err
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return strings.ToLower(s)
}
