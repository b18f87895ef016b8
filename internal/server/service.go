package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xtding233/orbsim/internal/gacha"
	"github.com/xtding233/orbsim/internal/metrics"
	"github.com/xtding233/orbsim/internal/observability"
	"github.com/xtding233/orbsim/internal/preset"
	"github.com/xtding233/orbsim/internal/pricing"
)

// ErrBadRequest is wrapped by request problems that are not banner or goal
// configuration errors.
var ErrBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// Limits bounds what a single request may ask for.
type Limits struct {
	DefaultTrials int
	MaxTrials     int
	Workers       int
	MaxPulls      int
	Timeout       time.Duration
}

// SimulateRequest is the JSON body of POST /simulate and the gRPC Struct payload.
type SimulateRequest struct {
	Banner       string            `json:"banner"`
	BannerConfig *preset.RawConfig `json:"banner_config,omitempty"` // layered over Banner when both are set
	Goal         *preset.GoalCfg   `json:"goal,omitempty"`
	Preset       string            `json:"preset,omitempty"`
	Copies       int               `json:"copies,omitempty"`
	Trials       int               `json:"trials,omitempty"`
	Seed         *uint64           `json:"seed,omitempty"`
	Start        *StartCfg         `json:"start,omitempty"`
	Milestones   []float64         `json:"milestones,omitempty"`
	CurvePoints  int               `json:"curve_points,omitempty"`
	OwnedOrbs    int               `json:"owned_orbs,omitempty"`
	BudgetCents  int               `json:"budget_cents,omitempty"`
}

// StartCfg carries pity over from earlier pulls.
type StartCfg struct {
	SinceFive   int `json:"since_five"`
	SinceFour   int `json:"since_four"`
	FiveCounter int `json:"five_counter"`
	FourCounter int `json:"four_counter"`
	PathMisses  int `json:"path_misses"`
}

// SimulateResponse is the result of one simulation run.
type SimulateResponse struct {
	RunID   string                   `json:"run_id"`
	Banner  string                   `json:"banner"`
	Targets []string                 `json:"targets"`
	Stats   gacha.Stats              `json:"stats"`
	Curve   []gacha.Milestone        `json:"curve,omitempty"`
	Quotes  []pricing.MilestoneQuote `json:"quotes,omitempty"`
	Budget  *BudgetResult            `json:"budget,omitempty"`
}

type BudgetResult struct {
	Plan   pricing.Plan `json:"plan"`
	Chance float64      `json:"chance"`
}

// BannerInfo describes a banner for listings.
type BannerInfo struct {
	Name      string `json:"name"`
	OrbsPull  int    `json:"orbs_per_pull"`
	Five      int    `json:"five_focus_units"`
	Four      int    `json:"four_focus_units"`
	Path      bool   `json:"path"`
	LoadError string `json:"error,omitempty"`
}

// GoalInfo describes a goal preset.
type GoalInfo struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	SingleTarget bool   `json:"single_target"`
}

// Service runs simulations for every transport.
type Service struct {
	loader  *preset.Loader
	catalog pricing.Catalog
	limits  Limits
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewService(loader *preset.Loader, catalog pricing.Catalog, limits Limits, m *metrics.Metrics, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if limits.DefaultTrials <= 0 {
		limits.DefaultTrials = 10000
	}
	if limits.MaxTrials < limits.DefaultTrials {
		limits.MaxTrials = limits.DefaultTrials
	}
	return &Service{loader: loader, catalog: catalog, limits: limits, metrics: m, log: log}
}

// banner resolves the request's banner: a named preset, an inline config, or
// an inline config layered over a named preset.
func (s *Service) banner(req SimulateRequest) (*gacha.BannerConfig, string, error) {
	if req.BannerConfig == nil {
		if req.Banner == "" {
			return nil, "", badRequest("banner or banner_config is required")
		}
		b, err := s.loader.Banner(req.Banner)
		return b, req.Banner, err
	}
	raw := *req.BannerConfig
	if req.Banner != "" {
		base, err := s.loader.LoadMerged(req.Banner)
		if err != nil {
			return nil, "", err
		}
		raw = preset.Layer(base, raw)
	}
	if raw.Name == "" {
		raw.Name = "custom"
	}
	b, err := preset.Resolve(raw)
	return b, raw.Name, err
}

func (s *Service) goal(req SimulateRequest) (gacha.Goal, error) {
	switch {
	case req.Goal != nil && req.Preset != "":
		return gacha.Goal{}, badRequest("goal and preset are mutually exclusive")
	case req.Goal != nil:
		return req.Goal.Goal()
	case req.Preset != "":
		p, err := gacha.ParseGoalPreset(req.Preset)
		if err != nil {
			return gacha.Goal{}, badRequest("%v", err)
		}
		return p.Goal(req.Copies)
	}
	return gacha.Goal{}, badRequest("goal or preset is required")
}

// Simulate validates the request and runs the Monte Carlo aggregation.
func (s *Service) Simulate(ctx context.Context, req SimulateRequest, transport string) (*SimulateResponse, error) {
	runID := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"run_id": runID, "transport": transport})

	banner, name, err := s.banner(req)
	// unresolved names stay out of metric labels
	label := name
	if err != nil || label == "" {
		label = "unknown"
	}
	done := s.metrics.Start(label, transport)
	if err != nil {
		done(outcome(err), 0)
		return nil, err
	}
	goal, err := s.goal(req)
	if err != nil {
		done(outcome(err), 0)
		return nil, err
	}
	trials := req.Trials
	if trials == 0 {
		trials = s.limits.DefaultTrials
	}
	if trials < 0 || trials > s.limits.MaxTrials {
		err := badRequest("trials must be in [1,%d], got %d", s.limits.MaxTrials, trials)
		done(outcome(err), 0)
		return nil, err
	}
	if err := checkPurchase(req); err != nil {
		done(outcome(err), 0)
		return nil, err
	}

	opts := gacha.MonteCarloOptions{
		Trials:     trials,
		Workers:    s.limits.Workers,
		Seed:       req.Seed,
		MaxPulls:   s.limits.MaxPulls,
		Milestones: req.Milestones,
	}
	if st := req.Start; st != nil {
		opts.Start = gacha.StartState{
			SinceFive:   st.SinceFive,
			SinceFour:   st.SinceFour,
			FiveCounter: st.FiveCounter,
			FourCounter: st.FourCounter,
			PathMisses:  st.PathMisses,
		}
	}

	if s.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.limits.Timeout)
		defer cancel()
	}
	ctx, span := observability.StartSimulationSpan(ctx, runID, name, trials)
	defer span.End()

	started := time.Now()
	stats, err := gacha.RunMonteCarlo(ctx, banner, goal, opts)
	if err != nil {
		observability.RecordError(span, err)
		done(outcome(err), 0)
		log.WithError(err).Warn("simulation failed")
		return nil, err
	}
	observability.RecordSimulationResult(span, stats.Seed, stats.P50, stats.P90, stats.P99)

	resp := &SimulateResponse{RunID: runID, Banner: name, Stats: stats}
	if len(s.catalog.Packs) > 0 {
		if err := s.quote(resp, req); err != nil {
			observability.RecordError(span, err)
			done(outcome(err), 0)
			return nil, err
		}
	}
	done(metrics.OutcomeOK, trials)
	log.WithFields(logrus.Fields{
		"banner":  name,
		"trials":  trials,
		"seed":    stats.Seed,
		"p50":     stats.P50,
		"elapsed": time.Since(started).String(),
	}).Info("simulation finished")

	for _, t := range goal.Targets {
		resp.Targets = append(resp.Targets, t.Label())
	}
	if req.CurvePoints > 0 {
		resp.Curve = stats.Curve(min(req.CurvePoints, 1000))
	}
	return resp, nil
}

func checkPurchase(req SimulateRequest) error {
	if req.OwnedOrbs < 0 || req.OwnedOrbs > pricing.MaxPlanOrbs {
		return badRequest("owned_orbs must be in [0,%d], got %d", pricing.MaxPlanOrbs, req.OwnedOrbs)
	}
	if req.BudgetCents < 0 || req.BudgetCents > pricing.MaxBudgetCents {
		return badRequest("budget_cents must be in [0,%d], got %d", pricing.MaxBudgetCents, req.BudgetCents)
	}
	return nil
}

// quote prices the milestones and the optional budget into resp.
func (s *Service) quote(resp *SimulateResponse, req SimulateRequest) error {
	quotes, err := pricing.Quote(resp.Stats, s.catalog, req.OwnedOrbs, nil)
	if err != nil {
		return badRequest("%v", err)
	}
	resp.Quotes = quotes
	if req.BudgetCents > 0 {
		plan, chance, err := pricing.BudgetChance(resp.Stats, s.catalog, req.OwnedOrbs, req.BudgetCents, nil)
		if err != nil {
			return badRequest("%v", err)
		}
		resp.Budget = &BudgetResult{Plan: plan, Chance: chance}
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, gacha.ErrUnreachableGoal):
		return metrics.OutcomeUnreachable
	case errors.Is(err, gacha.ErrInvalidConfig), errors.Is(err, ErrBadRequest), errors.Is(err, preset.ErrUnknownBanner):
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}

// Banners lists every banner the loader knows.
func (s *Service) Banners() []BannerInfo {
	var out []BannerInfo
	for _, name := range s.loader.Names() {
		info := BannerInfo{Name: name}
		b, err := s.loader.Banner(name)
		if err != nil {
			info.LoadError = err.Error()
		} else {
			info.OrbsPull = b.Cost.PerPull
			info.Five = b.Five.FocusUnits()
			info.Four = b.Four.FocusUnits()
			info.Path = b.HasPath()
		}
		out = append(out, info)
	}
	return out
}

// Goals lists the goal presets, restricted to the banner's when one is named.
func (s *Service) Goals(banner string) ([]GoalInfo, error) {
	var b *gacha.BannerConfig
	if banner != "" {
		var err error
		if b, err = s.loader.Banner(banner); err != nil {
			return nil, err
		}
	}
	var out []GoalInfo
	for _, p := range gacha.GoalPresets {
		if b != nil && !p.Available(b) {
			continue
		}
		out = append(out, GoalInfo{Name: string(p), Title: p.String(), SingleTarget: p.SingleTarget()})
	}
	return out, nil
}
