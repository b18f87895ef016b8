package gacha

import (
	"errors"
	"fmt"
)

// Combinator decides whether every target or just one must complete.
type Combinator string

const (
	All Combinator = "all"
	Any Combinator = "any"
)

// Pool restricts a target to focus, non-focus or any result of its tier.
type Pool string

const (
	PoolFocus    Pool = "focus"
	PoolNonFocus Pool = "non_focus"
	PoolAny      Pool = "any"
)

// UnitScope restricts which focus units count toward a target.
type UnitScope string

const (
	AnyUnit      UnitScope = "any"
	AnyCharacter UnitScope = "character"
	AnyWeapon    UnitScope = "weapon"
	SpecificUnit UnitScope = "specific"
)

// GoalTarget is one thing the player wants: Copies results matching
// Tier + Pool + Scope (+ Unit for SpecificUnit).
type GoalTarget struct {
	Name   string
	Tier   Tier
	Pool   Pool
	Scope  UnitScope
	Unit   UnitRef
	Copies int
}

// Goal is the stopping condition of a trial.
type Goal struct {
	Combinator Combinator
	Targets    []GoalTarget
	UsePath    bool // chart 5* targets on the pity-skip path when the banner has one
}

// Matches reports whether o counts as one copy for the target.
func (t GoalTarget) Matches(o Outcome) bool {
	if o.Tier != t.Tier {
		return false
	}
	switch t.Pool {
	case PoolFocus:
		if !o.Focus {
			return false
		}
	case PoolNonFocus:
		return !o.Focus
	case PoolAny:
		return true
	}
	switch t.Scope {
	case AnyCharacter:
		return o.Unit.Kind == Character
	case AnyWeapon:
		return o.Unit.Kind == Weapon
	case SpecificUnit:
		return o.Unit == t.Unit
	}
	return true
}

// Label is the target's name, or a generated description.
func (t GoalTarget) Label() string {
	if t.Name != "" {
		return t.Name
	}
	var what string
	switch t.Scope {
	case AnyCharacter:
		what = "focus character"
	case AnyWeapon:
		what = "focus weapon"
	case SpecificUnit:
		what = "focus " + t.Unit.String()
	default:
		what = string(t.Pool) + " item"
	}
	return fmt.Sprintf("%dx %s %s", t.Copies, t.Tier, what)
}

// pathEligible reports whether the path can chart the target.
func (t GoalTarget) pathEligible() bool {
	return t.Tier == FiveStar && t.Pool == PoolFocus && t.Scope == SpecificUnit
}

// Validate checks the goal's shape independent of any banner.
func (g Goal) Validate() error {
	var errs []error
	switch g.Combinator {
	case All, Any:
	default:
		errs = append(errs, configErr("goal.combinator", "must be one of: all, any; got %q", g.Combinator))
	}
	if len(g.Targets) == 0 {
		errs = append(errs, configErr("goal.targets", "at least one target is required"))
	}
	for i, t := range g.Targets {
		field := fmt.Sprintf("goal.targets[%d]", i)
		if t.Copies < 1 {
			errs = append(errs, configErr(field+".copies", "must be >= 1, got %d", t.Copies))
		}
		if t.Tier != FiveStar && t.Tier != FourStar {
			errs = append(errs, configErr(field+".tier", "must be 4 or 5, got %d", int(t.Tier)))
		}
		switch t.Pool {
		case PoolFocus, PoolNonFocus, PoolAny:
		default:
			errs = append(errs, configErr(field+".pool", "must be one of: focus, non_focus, any; got %q", t.Pool))
		}
		switch t.Scope {
		case AnyUnit, AnyCharacter, AnyWeapon, SpecificUnit:
		default:
			errs = append(errs, configErr(field+".unit", "must be one of: any, character, weapon, specific; got %q", t.Scope))
		}
		if t.Pool != PoolFocus && t.Scope != AnyUnit {
			errs = append(errs, configErr(field+".unit", "only focus targets can name a unit scope"))
		}
		if t.Scope == SpecificUnit && t.Unit.Index < 0 {
			errs = append(errs, configErr(field+".index", "must be >= 0, got %d", t.Unit.Index))
		}
	}
	return errors.Join(errs...)
}

// CheckReachable verifies that every target can occur on the banner. Unit
// indexes beyond the banner's focus list are configuration errors; scopes the
// banner can never produce are unreachable-goal errors.
func (g Goal) CheckReachable(c *BannerConfig) error {
	var cfgErrs []error
	for i, t := range g.Targets {
		if t.Scope != SpecificUnit {
			continue
		}
		tc := c.Tier(t.Tier)
		if n := tc.unitCount(t.Unit.Kind); t.Unit.Index >= n {
			cfgErrs = append(cfgErrs, configErr(fmt.Sprintf("goal.targets[%d].index", i),
				"%s unit %d requested but the banner declares %d focus %ss", t.Tier, t.Unit.Index, n, t.Unit.Kind))
		}
	}
	if err := errors.Join(cfgErrs...); err != nil {
		return err
	}

	for i, t := range g.Targets {
		if reason := unreachable(c.Tier(t.Tier), t); reason != "" {
			return &UnreachableGoalError{Target: i, Reason: reason}
		}
	}
	return nil
}

func unreachable(tc TierConfig, t GoalTarget) string {
	if !tc.occurs() {
		return fmt.Sprintf("%s results never occur on this banner", t.Tier)
	}
	switch t.Pool {
	case PoolFocus:
		if !tc.focusPossible() {
			return fmt.Sprintf("%s focus results never occur on this banner", t.Tier)
		}
	case PoolNonFocus:
		if !tc.nonFocusPossible() {
			return fmt.Sprintf("%s non-focus results never occur on this banner", t.Tier)
		}
	}
	switch t.Scope {
	case AnyCharacter:
		if tc.FocusCharacters == 0 {
			return fmt.Sprintf("banner declares no %s focus characters", t.Tier)
		}
	case AnyWeapon:
		if tc.FocusWeapons == 0 {
			return fmt.Sprintf("banner declares no %s focus weapons", t.Tier)
		}
	case AnyUnit:
		if t.Pool == PoolFocus && tc.FocusUnits() == 0 {
			return fmt.Sprintf("banner declares no %s focus units", t.Tier)
		}
	}
	return ""
}
