package gacha

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func seed(v uint64) *uint64 { return &v }

func TestMonteCarloAnyFocusCharacter(t *testing.T) {
	b := mustBanner(t, focusBanner(1))
	g, _ := AnyFiveChar.Goal(1)
	st, err := RunMonteCarlo(context.Background(), b, g, MonteCarloOptions{Trials: 3000, Seed: seed(1)})
	if err != nil {
		t.Fatal(err)
	}
	softStart := 50 * b.Cost.PerPull
	if st.P50 >= softStart {
		t.Fatalf("p50=%d should sit well below the ramp start (%d orbs)", st.P50, softStart)
	}
	if st.P99 < softStart {
		t.Fatalf("p99=%d should reach the ramp start (%d orbs)", st.P99, softStart)
	}
	if st.Trials != 3000 || len(st.Samples) != 3000 || st.Seed != 1 {
		t.Fatalf("trials=%d samples=%d seed=%d", st.Trials, len(st.Samples), st.Seed)
	}
	// each trial ends on a 5*, which the hard pity caps
	if st.Samples[0] < 1 {
		t.Fatalf("trial finished without pulling")
	}
}

func TestMonteCarloPathNominationOrder(t *testing.T) {
	c := focusBanner(2)
	c.Path = &PathConfig{Threshold: 1}
	b := mustBanner(t, c)
	g := Goal{Combinator: All, UsePath: true, Targets: []GoalTarget{
		specific(FiveStar, Character, 0, 7),
		specific(FiveStar, Character, 1, 1),
	}}
	if err := CheckSimulation(b, g); err != nil {
		t.Fatal(err)
	}
	for trial := 0; trial < 50; trial++ {
		tr := NewTrial(b, g, NewTrialRNG(11, trial), TrialOptions{})
		for tr.Tracker().Status() != Satisfied {
			s := tr.State()
			switch {
			case !tr.Tracker().Complete(0):
				if !s.PathActive || s.PathUnit.Index != 0 {
					t.Fatalf("trial %d: path must chart the 7-copy target first: %+v", trial, s)
				}
			case !tr.Tracker().Complete(1):
				if !s.PathActive || s.PathUnit.Index != 1 {
					t.Fatalf("trial %d: path must move to the 1-copy target: %+v", trial, s)
				}
			}
			tr.Step()
		}
		res := tr.Result()
		if res.Nominations[0] != (Nomination{Target: 0, AtPull: 0}) {
			t.Fatalf("trial %d: nominations %+v", trial, res.Nominations)
		}
		if tr.Tracker().Tally(0) < 7 {
			t.Fatalf("trial %d: satisfied with %d copies", trial, tr.Tracker().Tally(0))
		}
	}
}

func TestMonteCarloUnreachable(t *testing.T) {
	c := focusBanner(0)
	c.Five.FocusWeapons = 1
	b := mustBanner(t, c)
	g, _ := AnyFiveChar.Goal(1)
	_, err := RunMonteCarlo(context.Background(), b, g, MonteCarloOptions{Trials: 10})
	var ue *UnreachableGoalError
	if !errors.Is(err, ErrUnreachableGoal) || !errors.As(err, &ue) || ue.Target != 0 {
		t.Fatalf("want unreachable target 0, got %v", err)
	}
}

func TestMonteCarloBadIndex(t *testing.T) {
	b := mustBanner(t, focusBanner(1))
	g := Goal{Combinator: Any, Targets: []GoalTarget{specific(FiveStar, Character, 1, 1)}}
	_, err := RunMonteCarlo(context.Background(), b, g, MonteCarloOptions{Trials: 10})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("want config error, got %v", err)
	}
}

func TestTrialCeiling(t *testing.T) {
	b := mustBanner(t, characterBanner())
	g := Goal{Combinator: Any, Targets: []GoalTarget{specific(FiveStar, Character, 0, 50)}}
	_, err := RunTrial(b, g, NewSeededRNG(5), TrialOptions{MaxPulls: 20})
	var ue *UnreachableGoalError
	if !errors.As(err, &ue) || ue.Pulls != 20 || ue.Target != -1 {
		t.Fatalf("want ceiling error after 20 pulls, got %v", err)
	}
}

func TestMonteCarloDeterministic(t *testing.T) {
	b := mustBanner(t, characterBanner())
	g, _ := FiveCharFocus.Goal(2)
	opts := MonteCarloOptions{Trials: 500, Seed: seed(42), Workers: 1}
	a, err := RunMonteCarlo(context.Background(), b, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Workers = 7
	c, err := RunMonteCarlo(context.Background(), b, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, c) {
		t.Fatalf("worker count changed the result: p50 %d vs %d", a.P50, c.P50)
	}
	opts.Seed = seed(43)
	d, _ := RunMonteCarlo(context.Background(), b, g, opts)
	if reflect.DeepEqual(a.Samples, d.Samples) {
		t.Fatalf("different seeds gave identical samples")
	}
}

func TestAnyNeverSlowerThanAll(t *testing.T) {
	b := mustBanner(t, characterBanner())
	targets := []GoalTarget{
		specific(FiveStar, Character, 0, 1),
		{Tier: FourStar, Pool: PoolFocus, Scope: AnyCharacter, Copies: 4},
	}
	anyG := Goal{Combinator: Any, Targets: targets}
	allG := Goal{Combinator: All, Targets: targets}
	for i := 0; i < 200; i++ {
		ra, err := RunTrial(b, anyG, NewTrialRNG(8, i), TrialOptions{})
		if err != nil {
			t.Fatal(err)
		}
		rl, err := RunTrial(b, allG, NewTrialRNG(8, i), TrialOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if ra.Pulls > rl.Pulls {
			t.Fatalf("trial %d: ANY took %d pulls, ALL %d", i, ra.Pulls, rl.Pulls)
		}
	}
}

func TestMonteCarloCanceled(t *testing.T) {
	b := mustBanner(t, characterBanner())
	g, _ := AnyFive.Goal(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunMonteCarlo(ctx, b, g, MonteCarloOptions{Trials: 1000}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestStartStateShortensRun(t *testing.T) {
	b := mustBanner(t, characterBanner())
	g, _ := AnyFive.Goal(1)
	fresh, _ := RunMonteCarlo(context.Background(), b, g, MonteCarloOptions{Trials: 400, Seed: seed(2)})
	carried, _ := RunMonteCarlo(context.Background(), b, g, MonteCarloOptions{
		Trials: 400, Seed: seed(2), Start: StartState{SinceFive: 80, FiveCounter: 1},
	})
	if carried.P99 > 10*b.Cost.PerPull {
		t.Fatalf("80 pulls of carried pity and a guarantee should finish within 10 pulls; p99=%d", carried.P99)
	}
	if carried.Mean >= fresh.Mean {
		t.Fatalf("carried pity did not help: %v >= %v", carried.Mean, fresh.Mean)
	}
}
