package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xtding233/orbsim/internal/config"
	"github.com/xtding233/orbsim/internal/gacha"
	"github.com/xtding233/orbsim/internal/preset"
	"github.com/xtding233/orbsim/internal/pricing"
)

type simulateFlags struct {
	banner      string
	goal        string
	copies      int
	goalFile    string
	usePath     bool
	trials      int
	seed        uint64
	workers     int
	jsonOut     bool
	catalog     string
	owned       int
	budgetCents int
	milestones  []float64
	start       gacha.StartState
}

func simulateCmd(cfg func() *config.Config) *cobra.Command {
	var f simulateFlags
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Estimate the orbs needed to reach a goal on a banner",
		Example: `  orbsim simulate --banner feh-focus --goal specific-five-char --copies 2
  orbsim simulate --banner character-event --goal-file goals/pair.yaml --seed 42 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *uint64
			if cmd.Flags().Changed("seed") {
				seed = &f.seed
			}
			return runSimulate(cmd.Context(), cfg(), f, seed)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.banner, "banner", "character-event", "Banner preset name")
	fl.StringVar(&f.goal, "goal", "", "Goal preset, or a goal file name under <presets>/goals")
	fl.IntVar(&f.copies, "copies", 1, "Copies wanted, for single-target goal presets")
	fl.StringVar(&f.goalFile, "goal-file", "", "Path to a goal YAML file")
	fl.BoolVar(&f.usePath, "path", false, "Chart 5* targets on the banner's pity-skip path")
	fl.IntVar(&f.trials, "trials", 0, "Number of trials (default ORBSIM_DEFAULT_TRIALS)")
	fl.Uint64Var(&f.seed, "seed", 0, "Random seed; random when unset")
	fl.IntVar(&f.workers, "workers", 0, "Worker goroutines (default ORBSIM_WORKERS, 0 = GOMAXPROCS)")
	fl.BoolVar(&f.jsonOut, "json", false, "Print the result as JSON")
	fl.StringVar(&f.catalog, "catalog", "", "Orb store catalog YAML (default ORBSIM_CATALOG or the bundled store)")
	fl.IntVar(&f.owned, "owned", 0, "Orbs already owned")
	fl.IntVar(&f.budgetCents, "budget", 0, "Spending budget in cents")
	fl.Float64SliceVar(&f.milestones, "milestones", nil, "Percentiles to report (default 10,25,50,75,90,95,99)")
	fl.IntVar(&f.start.SinceFive, "since-five", 0, "Pulls since the last 5*")
	fl.IntVar(&f.start.SinceFour, "since-four", 0, "Pulls since the last 4*")
	fl.IntVar(&f.start.FiveCounter, "five-misses", 0, "Consecutive non-focus 5* results")
	fl.IntVar(&f.start.FourCounter, "four-misses", 0, "Consecutive non-focus 4* results")
	fl.IntVar(&f.start.PathMisses, "path-misses", 0, "5* results that missed the charted unit")
	cmd.MarkFlagsMutuallyExclusive("goal", "goal-file")
	return cmd
}

func resolveGoal(loader *preset.Loader, f simulateFlags) (gacha.Goal, error) {
	var (
		g   gacha.Goal
		err error
	)
	switch {
	case f.goalFile != "":
		g, err = preset.LoadGoalFile(f.goalFile)
	case f.goal == "":
		return gacha.Goal{}, fmt.Errorf("one of --goal or --goal-file is required")
	default:
		if p, perr := gacha.ParseGoalPreset(f.goal); perr == nil {
			g, err = p.Goal(f.copies)
		} else {
			g, err = loader.Goal(f.goal)
		}
	}
	if err != nil {
		return gacha.Goal{}, err
	}
	if f.usePath {
		g.UsePath = true
	}
	return g, nil
}

func loadCatalog(path string) (pricing.Catalog, error) {
	if path == "" {
		return pricing.DefaultCatalog(), nil
	}
	return pricing.LoadCatalog(path)
}

type simulateOutput struct {
	Banner  string                   `json:"banner"`
	Targets []string                 `json:"targets"`
	Stats   gacha.Stats              `json:"stats"`
	Quotes  []pricing.MilestoneQuote `json:"quotes"`
	Budget  *budgetOutput            `json:"budget,omitempty"`
}

type budgetOutput struct {
	Plan   pricing.Plan `json:"plan"`
	Chance float64      `json:"chance"`
}

func runSimulate(ctx context.Context, cfg *config.Config, f simulateFlags, seed *uint64) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	loader := preset.NewLoader(cfg.PresetDir)
	banner, err := loader.Banner(f.banner)
	if err != nil {
		return err
	}
	goal, err := resolveGoal(loader, f)
	if err != nil {
		return err
	}
	catPath := f.catalog
	if catPath == "" {
		catPath = cfg.CatalogPath
	}
	cat, err := loadCatalog(catPath)
	if err != nil {
		return err
	}

	trials := f.trials
	if trials <= 0 {
		trials = cfg.DefaultTrials
	}
	workers := f.workers
	if workers <= 0 {
		workers = cfg.Workers
	}

	started := time.Now()
	stats, err := gacha.RunMonteCarlo(ctx, banner, goal, gacha.MonteCarloOptions{
		Trials:     trials,
		Workers:    workers,
		Seed:       seed,
		MaxPulls:   cfg.MaxPulls,
		Start:      f.start,
		Milestones: f.milestones,
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"trials":  trials,
		"seed":    stats.Seed,
		"elapsed": time.Since(started).String(),
	}).Debug("simulation finished")

	out := simulateOutput{Banner: banner.Name, Stats: stats}
	for _, t := range goal.Targets {
		out.Targets = append(out.Targets, t.Label())
	}
	if out.Quotes, err = pricing.Quote(stats, cat, f.owned, nil); err != nil {
		return err
	}
	if f.budgetCents > 0 {
		plan, chance, err := pricing.BudgetChance(stats, cat, f.owned, f.budgetCents, nil)
		if err != nil {
			return err
		}
		out.Budget = &budgetOutput{Plan: plan, Chance: chance}
	}

	if f.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printSimulation(out, goal.Combinator, cat.Currency)
	return nil
}

func money(cents int, currency string) string {
	return fmt.Sprintf("%s.%02d %s", humanize.Comma(int64(cents/100)), cents%100, currency)
}

func printSimulation(out simulateOutput, comb gacha.Combinator, currency string) {
	s := out.Stats
	fmt.Printf("Banner: %s\n", out.Banner)
	fmt.Printf("Goal (%s): %s\n", comb, strings.Join(out.Targets, "; "))
	fmt.Printf("Trials: %s  Seed: %d\n", humanize.Comma(int64(s.Trials)), s.Seed)
	fmt.Printf("Mean: %s orbs (%.1f pulls), std dev %s\n\n",
		humanize.CommafWithDigits(s.Mean, 1), s.MeanPulls, humanize.CommafWithDigits(s.StdDev, 1))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "chance\tpulls\torbs\tcost\t")
	for _, q := range out.Quotes {
		fmt.Fprintf(w, "%s%%\t%s\t%s\t%s\t\n",
			humanize.Ftoa(q.Percentile),
			humanize.Comma(int64(q.Pulls)),
			humanize.Comma(int64(q.Orbs)),
			money(q.Plan.TotalCents, currency))
	}
	_ = w.Flush()

	if b := out.Budget; b != nil {
		fmt.Printf("\nBudget buys %s orbs for %s: %.1f%% chance to reach the goal\n",
			humanize.Comma(int64(b.Plan.TotalOrbs)), money(b.Plan.TotalCents, currency), b.Chance*100)
		for _, p := range b.Plan.Purchases {
			fmt.Printf("  %d x %s\n", p.Qty, p.Name)
		}
	}
}
