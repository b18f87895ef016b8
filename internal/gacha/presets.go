package gacha

import "fmt"

// GoalPreset names a common goal.
type GoalPreset string

const (
	AnyFive         GoalPreset = "any-five"
	AnyFiveChar     GoalPreset = "any-five-char"
	FiveCharFocus   GoalPreset = "specific-five-char"
	AnyFiveWeapon   GoalPreset = "any-five-weapon"
	FiveWeaponFocus GoalPreset = "specific-five-weapon"
	AnyFour         GoalPreset = "any-four"
	AnyFourChar     GoalPreset = "any-four-char"
	FourCharFocus   GoalPreset = "specific-four-char"
	AnyFourWeapon   GoalPreset = "any-four-weapon"
	FourWeaponFocus GoalPreset = "specific-four-weapon"
)

// GoalPresets lists every preset in display order.
var GoalPresets = []GoalPreset{
	AnyFive, AnyFiveChar, FiveCharFocus, AnyFiveWeapon, FiveWeaponFocus,
	AnyFour, AnyFourChar, FourCharFocus, AnyFourWeapon, FourWeaponFocus,
}

type presetSpec struct {
	title  string
	tier   Tier
	scope  UnitScope
	kind   UnitKind
	single bool
}

var presetSpecs = map[GoalPreset]presetSpec{
	AnyFive:         {"Any 5* Focus Item (Includes Weapon or Character)", FiveStar, AnyUnit, Character, false},
	AnyFiveChar:     {"Any 5* Focus Character", FiveStar, AnyCharacter, Character, false},
	FiveCharFocus:   {"Specific 5* Focus Character", FiveStar, SpecificUnit, Character, true},
	AnyFiveWeapon:   {"Any 5* Focus Weapon", FiveStar, AnyWeapon, Weapon, false},
	FiveWeaponFocus: {"Specific 5* Focus Weapon", FiveStar, SpecificUnit, Weapon, true},
	AnyFour:         {"Any 4* Focus Item (Includes Weapon or Character)", FourStar, AnyUnit, Character, false},
	AnyFourChar:     {"Any 4* Focus Character", FourStar, AnyCharacter, Character, false},
	FourCharFocus:   {"Specific 4* Focus Character", FourStar, SpecificUnit, Character, true},
	AnyFourWeapon:   {"Any 4* Focus Weapon", FourStar, AnyWeapon, Weapon, false},
	FourWeaponFocus: {"Specific 4* Focus Weapon", FourStar, SpecificUnit, Weapon, true},
}

func (p GoalPreset) String() string {
	if s, ok := presetSpecs[p]; ok {
		return s.title
	}
	return string(p)
}

// SingleTarget reports whether only one unit completes the preset; only those
// presets take a copy count.
func (p GoalPreset) SingleTarget() bool { return presetSpecs[p].single }

// Goal builds the preset as a plain Goal. copies is ignored for presets that are
// not single-target and raised to 1 when lower.
func (p GoalPreset) Goal(copies int) (Goal, error) {
	s, ok := presetSpecs[p]
	if !ok {
		return Goal{}, configErr("goal.preset", "unknown preset %q", string(p))
	}
	if !s.single || copies < 1 {
		copies = 1
	}
	t := GoalTarget{
		Name:   s.title,
		Tier:   s.tier,
		Pool:   PoolFocus,
		Scope:  s.scope,
		Copies: copies,
	}
	if s.scope == SpecificUnit {
		t.Unit = UnitRef{Kind: s.kind}
	}
	return Goal{Combinator: Any, Targets: []GoalTarget{t}}, nil
}

// Available reports whether the preset can be satisfied on the banner.
func (p GoalPreset) Available(c *BannerConfig) bool {
	g, err := p.Goal(1)
	if err != nil {
		return false
	}
	return g.CheckReachable(c) == nil
}

// ParseGoalPreset looks a preset up by name.
func ParseGoalPreset(name string) (GoalPreset, error) {
	p := GoalPreset(name)
	if _, ok := presetSpecs[p]; !ok {
		return "", fmt.Errorf("unknown goal preset %q", name)
	}
	return p, nil
}
