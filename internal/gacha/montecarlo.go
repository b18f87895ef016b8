package gacha

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxPulls bounds a single trial. A goal that passes CheckReachable
// finishes long before it.
const DefaultMaxPulls = 100_000

// TrialOptions controls one trial.
type TrialOptions struct {
	MaxPulls int // <=0 means DefaultMaxPulls
	Start    StartState
}

// Nomination records the pity-skip path charting Target from pull AtPull on.
// Target is -1 once the path went inert.
type Nomination struct {
	Target int
	AtPull int
}

// TrialResult is what one trial spent to satisfy its goal.
type TrialResult struct {
	Pulls       int
	Orbs        int
	Completed   []int // target indexes in completion order
	Nominations []Nomination
}

// Trial runs one goal against one banner with its own state and random source.
type Trial struct {
	banner   *BannerConfig
	goal     Goal
	rng      RandomSource
	state    PityState
	tracker  *GoalTracker
	path     *PathSelector
	maxPulls int
	noms     []Nomination
}

// NewTrial prepares a trial. The banner must come from NewBannerConfig and the
// goal must have passed Validate.
func NewTrial(c *BannerConfig, g Goal, rng RandomSource, opts TrialOptions) *Trial {
	if rng == nil {
		rng = DefaultRNG()
	}
	limit := opts.MaxPulls
	if limit <= 0 {
		limit = DefaultMaxPulls
	}
	t := &Trial{
		banner:   c,
		goal:     g,
		rng:      rng,
		state:    NewPityState(opts.Start),
		tracker:  NewGoalTracker(g),
		maxPulls: limit,
	}
	if g.UsePath && c.HasPath() {
		t.path = NewPathSelector(g)
		t.syncPath()
	}
	return t
}

// syncPath copies the current nomination into the pity state.
func (t *Trial) syncPath() {
	unit, ok := t.path.Unit()
	t.state.PathActive = ok
	t.state.PathUnit = unit
	target, _ := t.path.Nominated()
	if ok || len(t.noms) > 0 {
		t.noms = append(t.noms, Nomination{Target: target, AtPull: t.state.Pulls})
	}
}

// Step performs one pull and feeds it to the goal tracker.
func (t *Trial) Step() (Outcome, GoalStatus) {
	done := len(t.tracker.order)
	out := Resolve(t.banner, &t.state, t.rng)
	status := t.tracker.Observe(out)
	if t.path != nil && len(t.tracker.order) > done && t.path.Advance(t.tracker) {
		// re-charting starts the miss tally over
		t.state.PathMisses = 0
		t.syncPath()
	}
	return out, status
}

// Run pulls until the goal is satisfied or the pull ceiling is reached.
func (t *Trial) Run() (TrialResult, error) {
	for t.tracker.Status() != Satisfied {
		if t.state.Pulls >= t.maxPulls {
			return TrialResult{}, &UnreachableGoalError{
				Target: -1,
				Reason: "goal not satisfied before the pull ceiling",
				Pulls:  t.state.Pulls,
			}
		}
		t.Step()
	}
	return t.Result(), nil
}

// Result reports the trial's spend so far.
func (t *Trial) Result() TrialResult {
	return TrialResult{
		Pulls:       t.state.Pulls,
		Orbs:        t.banner.Cost.SpentFor(t.state.Pulls),
		Completed:   t.tracker.Completed(),
		Nominations: append([]Nomination(nil), t.noms...),
	}
}

// State returns a copy of the trial's pity state.
func (t *Trial) State() PityState { return t.state }

// Tracker exposes the goal progress.
func (t *Trial) Tracker() *GoalTracker { return t.tracker }

// RunTrial runs a single trial to completion.
func RunTrial(c *BannerConfig, g Goal, rng RandomSource, opts TrialOptions) (TrialResult, error) {
	return NewTrial(c, g, rng, opts).Run()
}

// MonteCarloOptions controls a simulation run.
type MonteCarloOptions struct {
	Trials     int
	Workers    int     // <=0 means GOMAXPROCS
	Seed       *uint64 // nil => random seed; reported back in Stats.Seed
	MaxPulls   int
	Start      StartState
	Milestones []float64 // percentiles to report; nil => DefaultMilestones
}

// CheckSimulation validates a banner/goal pair before any trial runs.
func CheckSimulation(c *BannerConfig, g Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return g.CheckReachable(c)
}

// RunMonteCarlo repeats independent trials and returns summary stats.
// Trial i draws from its own PCG stream of seed, so a fixed seed reproduces the same
// Stats whatever the worker count.
func RunMonteCarlo(ctx context.Context, c *BannerConfig, g Goal, opts MonteCarloOptions) (Stats, error) {
	if err := CheckSimulation(c, g); err != nil {
		return Stats{}, err
	}
	if opts.Trials <= 0 {
		return Stats{}, nil
	}
	seed := RandomSeed()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > opts.Trials {
		workers = opts.Trials
	}
	trialOpts := TrialOptions{MaxPulls: opts.MaxPulls, Start: opts.Start}

	pulls := make([]int, opts.Trials)
	eg, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			for n, i := 0, w; i < opts.Trials; n, i = n+1, i+workers {
				if n%256 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				res, err := RunTrial(c, g, NewTrialRNG(seed, i), trialOpts)
				if err != nil {
					return err
				}
				pulls[i] = res.Pulls
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Stats{}, err
	}

	stats := calcStats(pulls, c.Cost.PerPull, opts.Milestones)
	stats.Seed = seed
	return stats, nil
}
