package gacha

import (
	"math"
	"sort"
)

// DefaultMilestones are the percentiles reported when none are requested.
var DefaultMilestones = []float64{10, 25, 50, 75, 90, 95, 99}

// Milestone is the orb amount that reaches the goal in Percentile % of trials.
type Milestone struct {
	Percentile float64 `json:"percentile"`
	Pulls      int     `json:"pulls"`
	Orbs       int     `json:"orbs"`
}

// Bucket counts the trials that finished at exactly Orbs.
// Cumulative is the fraction of trials finished at or below Orbs.
type Bucket struct {
	Pulls      int     `json:"pulls"`
	Orbs       int     `json:"orbs"`
	Count      int     `json:"count"`
	Cumulative float64 `json:"cumulative"`
}

// Stats summarizes simulation results. All spend figures are in orbs.
type Stats struct {
	Trials      int         `json:"trials"`
	Seed        uint64      `json:"seed"`
	OrbsPerPull int         `json:"orbs_per_pull"`
	Mean        float64     `json:"mean"`
	Var         float64     `json:"var"`
	StdDev      float64     `json:"std_dev"`
	MeanPulls   float64     `json:"mean_pulls"`
	P50         int         `json:"p50"`
	P90         int         `json:"p90"`
	P99         int         `json:"p99"`
	Milestones  []Milestone `json:"milestones"`
	Histogram   []Bucket    `json:"histogram"`
	// sorted pulls per trial; callers can rebuild any view from it
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for per-trial pull counts.
func calcStats(pulls []int, perPull int, milestones []float64) Stats {
	n := len(pulls)
	if n == 0 {
		return Stats{}
	}
	if perPull <= 0 {
		perPull = 1
	}
	cp := append([]int(nil), pulls...)
	sort.Ints(cp)

	// mean
	var sum float64
	for _, v := range cp {
		sum += float64(v)
	}
	meanPulls := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range cp {
		d := float64(v) - meanPulls
		acc += d * d
	}
	cost := float64(perPull)
	variance := acc / float64(n) * cost * cost

	s := Stats{
		Trials:      n,
		OrbsPerPull: perPull,
		Mean:        meanPulls * cost,
		Var:         variance,
		StdDev:      math.Sqrt(variance),
		MeanPulls:   meanPulls,
		Samples:     cp,
	}
	s.P50 = s.Percentile(50)
	s.P90 = s.Percentile(90)
	s.P99 = s.Percentile(99)
	if milestones == nil {
		milestones = DefaultMilestones
	}
	s.Milestones = s.milestones(milestones)
	s.Histogram = s.histogram()
	return s
}

// PercentilePulls returns the smallest pull count such that at least p % of
// trials reached the goal at or below it (nearest rank).
func (s Stats) PercentilePulls(p float64) int {
	n := len(s.Samples)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return s.Samples[0]
	}
	if p >= 100 {
		return s.Samples[n-1]
	}
	// p*n/100 keeps integer products exact; the epsilon absorbs the division
	rank := int(math.Ceil(p*float64(n)/100 - 1e-9))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return s.Samples[rank-1]
}

// Percentile returns the orbs needed to reach the goal with p % chance.
func (s Stats) Percentile(p float64) int {
	return s.PercentilePulls(p) * s.OrbsPerPull
}

// ChanceWithin returns the fraction of trials that reached the goal spending at
// most orbs.
func (s Stats) ChanceWithin(orbs int) float64 {
	n := len(s.Samples)
	if n == 0 || s.OrbsPerPull <= 0 {
		return 0
	}
	pulls := orbs / s.OrbsPerPull
	return float64(sort.SearchInts(s.Samples, pulls+1)) / float64(n)
}

// Curve returns points evenly spaced in percentile, from 100/points up to 100,
// for drawing the cumulative distribution.
func (s Stats) Curve(points int) []Milestone {
	if points <= 0 || len(s.Samples) == 0 {
		return nil
	}
	ps := make([]float64, points)
	for i := range ps {
		ps[i] = 100 * float64(i+1) / float64(points)
	}
	return s.milestones(ps)
}

func (s Stats) milestones(ps []float64) []Milestone {
	out := make([]Milestone, 0, len(ps))
	for _, p := range ps {
		pulls := s.PercentilePulls(p)
		out = append(out, Milestone{Percentile: p, Pulls: pulls, Orbs: pulls * s.OrbsPerPull})
	}
	return out
}

func (s Stats) histogram() []Bucket {
	n := len(s.Samples)
	var out []Bucket
	for i := 0; i < n; {
		j := i
		for j < n && s.Samples[j] == s.Samples[i] {
			j++
		}
		out = append(out, Bucket{
			Pulls:      s.Samples[i],
			Orbs:       s.Samples[i] * s.OrbsPerPull,
			Count:      j - i,
			Cumulative: float64(j) / float64(n),
		})
		i = j
	}
	return out
}
