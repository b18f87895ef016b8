package gacha

import "testing"

func TestPathSelectorAdvance(t *testing.T) {
	g := Goal{Combinator: All, UsePath: true, Targets: []GoalTarget{
		{Tier: FiveStar, Pool: PoolFocus, Scope: AnyWeapon, Copies: 1},
		specific(FiveStar, Weapon, 0, 1),
		specific(FourStar, Weapon, 0, 1),
		specific(FiveStar, Weapon, 1, 1),
	}}
	p := NewPathSelector(g)
	tr := NewGoalTracker(g)
	if i, ok := p.Nominated(); !ok || i != 1 {
		t.Fatalf("first candidate = %d, %v", i, ok)
	}

	// weapon#1 completes out of order; the nomination stays
	tr.Observe(Outcome{Tier: FiveStar, Focus: true, Unit: UnitRef{Kind: Weapon, Index: 1}})
	if p.Advance(tr) {
		t.Fatalf("nomination moved although its target is incomplete")
	}
	tr.Observe(Outcome{Tier: FiveStar, Focus: true, Unit: UnitRef{Kind: Weapon, Index: 0}})
	if !p.Advance(tr) {
		t.Fatalf("nomination should move on completion")
	}
	if _, ok := p.Unit(); ok {
		t.Fatalf("every candidate is complete, the path should be inert")
	}
}

func TestTrialPathReassigns(t *testing.T) {
	b := mustBanner(t, weaponBanner())
	g := Goal{Combinator: All, UsePath: true, Targets: []GoalTarget{
		specific(FiveStar, Weapon, 0, 1),
		specific(FiveStar, Weapon, 1, 1),
	}}
	// carried-over misses make the path ready: only the tier draw is used
	rng := script(t, 0.5)
	tr := NewTrial(b, g, rng, TrialOptions{Start: StartState{SinceFive: 79, PathMisses: 1}})
	if s := tr.State(); !s.PathActive || s.PathUnit != (UnitRef{Kind: Weapon, Index: 0}) {
		t.Fatalf("initial nomination: %+v", s)
	}

	out, status := tr.Step()
	if !out.Path || out.Unit.Index != 0 || status != InProgress {
		t.Fatalf("first pull: %+v %v", out, status)
	}
	s := tr.State()
	if s.PathUnit != (UnitRef{Kind: Weapon, Index: 1}) || s.PathMisses != 0 {
		t.Fatalf("path should chart weapon#1 with a fresh tally: %+v", s)
	}
	res := tr.Result()
	if len(res.Nominations) != 2 || res.Nominations[1] != (Nomination{Target: 1, AtPull: 1}) {
		t.Fatalf("nominations = %+v", res.Nominations)
	}
}

func TestTrialPathMissThenForced(t *testing.T) {
	b := mustBanner(t, weaponBanner())
	g := Goal{Combinator: All, UsePath: true, Targets: []GoalTarget{
		specific(FiveStar, Weapon, 0, 1),
		specific(FiveStar, Weapon, 1, 1),
	}}
	rng := script(t,
		0.5, 0.1, 0.9, // hard pity 5*, focus, weapon#1: a miss for the path
		0.001, // 5* at base rate, forced onto weapon#0
	)
	res, err := RunTrial(b, g, rng, TrialOptions{Start: StartState{SinceFive: 79}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pulls != 2 || res.Orbs != 10 {
		t.Fatalf("pulls=%d orbs=%d", res.Pulls, res.Orbs)
	}
	if len(res.Completed) != 2 || res.Completed[0] != 1 || res.Completed[1] != 0 {
		t.Fatalf("completion order %v", res.Completed)
	}
	want := []Nomination{{Target: 0, AtPull: 0}, {Target: -1, AtPull: 2}}
	if len(res.Nominations) != len(want) || res.Nominations[0] != want[0] || res.Nominations[1] != want[1] {
		t.Fatalf("nominations = %+v", res.Nominations)
	}
	if rng.left() != 0 {
		t.Fatalf("%d draws unused", rng.left())
	}
}

func TestPathIgnoredWithoutBannerSupport(t *testing.T) {
	b := mustBanner(t, characterBanner())
	g := Goal{Combinator: Any, UsePath: true, Targets: []GoalTarget{specific(FiveStar, Character, 0, 1)}}
	tr := NewTrial(b, g, NewSeededRNG(3), TrialOptions{})
	if tr.State().PathActive {
		t.Fatalf("path active on a banner without one")
	}
}
