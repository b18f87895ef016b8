package gacha

import (
	"errors"
	"testing"
)

func TestGoalValidate(t *testing.T) {
	g := Goal{
		Combinator: "some",
		Targets: []GoalTarget{
			{Tier: 3, Pool: PoolFocus, Scope: AnyUnit, Copies: 0},
			{Tier: FiveStar, Pool: PoolAny, Scope: AnyCharacter, Copies: 1},
		},
	}
	got := fields(g.Validate())
	for _, f := range []string{"goal.combinator", "goal.targets[0].copies", "goal.targets[0].tier", "goal.targets[1].unit"} {
		if !got[f] {
			t.Fatalf("missing %s in %v", f, got)
		}
	}
	if err := (Goal{Combinator: Any}).Validate(); !fields(err)["goal.targets"] {
		t.Fatalf("empty goal accepted: %v", err)
	}
}

func TestCheckReachable(t *testing.T) {
	b := mustBanner(t, characterBanner())

	g := Goal{Combinator: All, Targets: []GoalTarget{specific(FiveStar, Character, 3, 1)}}
	err := g.CheckReachable(b)
	if !errors.Is(err, ErrInvalidConfig) || !fields(err)["goal.targets[0].index"] {
		t.Fatalf("index beyond focus list: got %v", err)
	}

	g = Goal{Combinator: Any, Targets: []GoalTarget{
		specific(FiveStar, Character, 0, 1),
		{Tier: FiveStar, Pool: PoolFocus, Scope: AnyWeapon, Copies: 1},
	}}
	err = g.CheckReachable(b)
	var ue *UnreachableGoalError
	if !errors.As(err, &ue) || ue.Target != 1 {
		t.Fatalf("weapon target on a character banner: got %v", err)
	}

	g = Goal{Combinator: Any, Targets: []GoalTarget{{Tier: FourStar, Pool: PoolNonFocus, Scope: AnyUnit, Copies: 2}}}
	if err := g.CheckReachable(b); err != nil {
		t.Fatalf("non-focus 4* should be reachable: %v", err)
	}
}

func TestNonFocusUnreachableOnStandard(t *testing.T) {
	c := focusBanner(3)
	c.Five.FocusRate = 1
	b := mustBanner(t, c)
	g := Goal{Combinator: Any, Targets: []GoalTarget{{Tier: FiveStar, Pool: PoolNonFocus, Scope: AnyUnit, Copies: 1}}}
	if err := g.CheckReachable(b); !errors.Is(err, ErrUnreachableGoal) {
		t.Fatalf("want unreachable, got %v", err)
	}
	g.Targets[0].Tier = FourStar
	g.Targets[0].Pool = PoolAny
	if err := g.CheckReachable(b); !errors.Is(err, ErrUnreachableGoal) {
		t.Fatalf("4* never occurs here; got %v", err)
	}
}

func TestTargetMatches(t *testing.T) {
	five0 := Outcome{Tier: FiveStar, Focus: true, Unit: UnitRef{Kind: Character, Index: 0}}
	fiveW := Outcome{Tier: FiveStar, Focus: true, Unit: UnitRef{Kind: Weapon, Index: 0}}
	fiveOff := Outcome{Tier: FiveStar}
	four := Outcome{Tier: FourStar, Focus: true, Unit: UnitRef{Kind: Character, Index: 0}}

	cases := []struct {
		target GoalTarget
		out    Outcome
		want   bool
	}{
		{specific(FiveStar, Character, 0, 1), five0, true},
		{specific(FiveStar, Character, 0, 1), fiveW, false},
		{specific(FiveStar, Character, 0, 1), four, false},
		{GoalTarget{Tier: FiveStar, Pool: PoolFocus, Scope: AnyCharacter}, five0, true},
		{GoalTarget{Tier: FiveStar, Pool: PoolFocus, Scope: AnyCharacter}, fiveW, false},
		{GoalTarget{Tier: FiveStar, Pool: PoolFocus, Scope: AnyUnit}, fiveOff, false},
		{GoalTarget{Tier: FiveStar, Pool: PoolNonFocus, Scope: AnyUnit}, fiveOff, true},
		{GoalTarget{Tier: FiveStar, Pool: PoolNonFocus, Scope: AnyUnit}, five0, false},
		{GoalTarget{Tier: FiveStar, Pool: PoolAny, Scope: AnyUnit}, fiveOff, true},
	}
	for i, tc := range cases {
		if got := tc.target.Matches(tc.out); got != tc.want {
			t.Fatalf("case %d: %s vs %+v = %v, want %v", i, tc.target.Label(), tc.out, got, tc.want)
		}
	}
}

func TestTrackerAnyAll(t *testing.T) {
	targets := []GoalTarget{
		specific(FiveStar, Character, 0, 2),
		{Tier: FiveStar, Pool: PoolFocus, Scope: AnyCharacter, Copies: 1},
	}
	hit := Outcome{Tier: FiveStar, Focus: true, Unit: UnitRef{Kind: Character, Index: 0}}

	anyT := NewGoalTracker(Goal{Combinator: Any, Targets: targets})
	allT := NewGoalTracker(Goal{Combinator: All, Targets: targets})

	if anyT.Observe(hit) != Satisfied {
		t.Fatalf("ANY must finish once the any-character target completes")
	}
	if allT.Observe(hit) != InProgress {
		t.Fatalf("ALL finished early")
	}
	// one outcome counts toward both targets
	if allT.Tally(0) != 1 || allT.Tally(1) != 1 {
		t.Fatalf("tallies = %d, %d", allT.Tally(0), allT.Tally(1))
	}
	allT.Observe(Outcome{Tier: ThreeStar})
	if allT.Status() != InProgress {
		t.Fatalf("filler advanced the goal")
	}
	if allT.Observe(hit) != Satisfied {
		t.Fatalf("ALL should be satisfied after the second copy")
	}
	if got := allT.Completed(); len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Fatalf("completion order = %v", got)
	}
}

func TestGoalPresets(t *testing.T) {
	g, err := FiveCharFocus.Goal(3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Targets[0].Copies != 3 || g.Targets[0].Scope != SpecificUnit {
		t.Fatalf("specific preset: %+v", g.Targets[0])
	}
	g, _ = AnyFive.Goal(3)
	if g.Targets[0].Copies != 1 {
		t.Fatalf("copies must be ignored for any-five, got %d", g.Targets[0].Copies)
	}
	if _, err := ParseGoalPreset("six-star"); err == nil {
		t.Fatalf("unknown preset accepted")
	}

	w := mustBanner(t, weaponBanner())
	if AnyFiveChar.Available(w) {
		t.Fatalf("character preset offered on a weapon-only banner")
	}
	if !FiveWeaponFocus.Available(w) || !AnyFourWeapon.Available(w) {
		t.Fatalf("weapon presets should be available")
	}
	for _, p := range GoalPresets {
		if _, err := ParseGoalPreset(string(p)); err != nil {
			t.Fatalf("%s: %v", p, err)
		}
	}
}
