package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/xtding233/orbsim/internal/gacha"
)

// variant is a pack as it can be bought right now.
type variant struct {
	id, name    string
	orbs, price int
}

// maxX2 bounds the first-time packs tried in combination.
const maxX2 = 12

// The planners keep one table row per orb or cent, so both are bounded.
const (
	MaxPlanOrbs    = 1_000_000
	MaxBudgetCents = 1_000_000
)

// ErrOutOfRange is returned for orb amounts or budgets the planners will not size.
var ErrOutOfRange = errors.New("amount out of planning range")

// variants splits the catalog into repeatable packs and first-time x2 packs
// (bought at most once each).
func variants(cat Catalog, first FirstTimeState) (normal, x2 []variant) {
	for _, p := range cat.Packs {
		if p.FirstTimeX2 && first[p.ID] && len(x2) < maxX2 {
			x2 = append(x2, variant{p.ID + "#x2", p.Name + " (x2)", p.Orbs*2 + p.BonusOrbs, p.PriceCents})
		}
		normal = append(normal, variant{p.ID, p.Name, p.Orbs + p.BonusOrbs, p.PriceCents})
	}
	return normal, x2
}

// subset sums the x2 packs selected by mask.
func subset(x2 []variant, mask int) (orbs, price int) {
	for i, v := range x2 {
		if mask&(1<<i) != 0 {
			orbs += v.orbs
			price += v.price
		}
	}
	return orbs, price
}

// CheapestPlan finds the minimum-cost combination that yields at least orbs.
func CheapestPlan(cat Catalog, orbs int, first FirstTimeState) (Plan, error) {
	if orbs > MaxPlanOrbs {
		return Plan{}, fmt.Errorf("%w: %d orbs exceeds %d", ErrOutOfRange, orbs, MaxPlanOrbs)
	}
	normal, x2 := variants(cat, first)
	if orbs <= 0 || len(normal) == 0 {
		return Plan{Currency: cat.Currency}, nil
	}

	// cost[t] = min cost of repeatable packs granting at least t orbs
	const inf = int(^uint(0) >> 1)
	cost := make([]int, orbs+1)
	pick := make([]int, orbs+1)
	for t := 1; t <= orbs; t++ {
		cost[t], pick[t] = inf, -1
		for i, v := range normal {
			rest := max(0, t-v.orbs)
			if cost[rest] == inf {
				continue
			}
			if c := cost[rest] + v.price; c < cost[t] {
				cost[t], pick[t] = c, i
			}
		}
	}

	bestMask, bestCost := 0, cost[orbs]
	for mask := 1; mask < 1<<len(x2); mask++ {
		o, p := subset(x2, mask)
		rest := max(0, orbs-o)
		if cost[rest] == inf {
			continue
		}
		if c := p + cost[rest]; c < bestCost {
			bestMask, bestCost = mask, c
		}
	}

	counts, x2Counts := reconstruct(normal, x2, bestMask)
	o, _ := subset(x2, bestMask)
	for t := max(0, orbs-o); t > 0 && pick[t] != -1; t = max(0, t-normal[pick[t]].orbs) {
		counts[pick[t]]++
	}
	return buildPlan(cat, normal, counts, x2, x2Counts), nil
}

// BestPlanUnderBudget computes the most orbs purchasable with budgetCents,
// tax included.
func BestPlanUnderBudget(cat Catalog, budgetCents int, first FirstTimeState) (Plan, error) {
	if budgetCents > MaxBudgetCents {
		return Plan{}, fmt.Errorf("%w: budget %d cents exceeds %d", ErrOutOfRange, budgetCents, MaxBudgetCents)
	}
	normal, x2 := variants(cat, first)
	if budgetCents <= 0 || len(normal) == 0 {
		return Plan{Currency: cat.Currency}, nil
	}
	// Tax applies to the subtotal; shrink the budget to a pre-tax amount and
	// back off while rounding still pushes the total over.
	pre := budgetCents
	if cat.TaxRate > 0 {
		pre = int(float64(budgetCents) / (1 + cat.TaxRate))
	}
	for ; pre > 0; pre-- {
		if _, total := applyTax(pre, cat.TaxRate); total <= budgetCents {
			break
		}
	}

	// gain[c] = max orbs from repeatable packs costing at most c
	gain := make([]int, pre+1)
	pick := make([]int, pre+1)
	for c := 0; c <= pre; c++ {
		pick[c] = -1
		if c > 0 {
			gain[c] = gain[c-1]
		}
		for i, v := range normal {
			if v.price > c {
				continue
			}
			if g := gain[c-v.price] + v.orbs; g > gain[c] {
				gain[c], pick[c] = g, i
			}
		}
	}

	bestMask, bestOrbs := 0, gain[pre]
	for mask := 1; mask < 1<<len(x2); mask++ {
		o, p := subset(x2, mask)
		if p > pre {
			continue
		}
		if g := o + gain[pre-p]; g > bestOrbs {
			bestMask, bestOrbs = mask, g
		}
	}

	counts, x2Counts := reconstruct(normal, x2, bestMask)
	_, p := subset(x2, bestMask)
	for c := pre - p; c > 0; {
		if pick[c] == -1 {
			c--
			continue
		}
		counts[pick[c]]++
		c -= normal[pick[c]].price
	}
	return buildPlan(cat, normal, counts, x2, x2Counts), nil
}

// reconstruct allocates the per-pack counts with the x2 packs of mask bought once.
func reconstruct(normal, x2 []variant, mask int) (counts, x2Counts []int) {
	x2Counts = make([]int, len(x2))
	for i := range x2 {
		if mask&(1<<i) != 0 {
			x2Counts[i] = 1
		}
	}
	return make([]int, len(normal)), x2Counts
}

func buildPlan(cat Catalog, normal []variant, counts []int, x2 []variant, x2Counts []int) Plan {
	plan := Plan{Currency: cat.Currency}
	add := func(v variant, qty int) {
		if qty == 0 {
			return
		}
		sub := v.price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			PackID:    v.id,
			Name:      v.name,
			Qty:       qty,
			UnitPrice: v.price,
			UnitOrbs:  v.orbs,
			Subtotal:  sub,
		})
		plan.SubCents += sub
		plan.TotalOrbs += v.orbs * qty
	}
	for i, v := range x2 {
		add(v, x2Counts[i])
	}
	for i, v := range normal {
		add(v, counts[i])
	}
	sort.SliceStable(plan.Purchases, func(a, b int) bool {
		return plan.Purchases[a].UnitOrbs > plan.Purchases[b].UnitOrbs
	})
	plan.TaxCents, plan.TotalCents = applyTax(plan.SubCents, cat.TaxRate)
	return plan
}

// MilestoneQuote prices the orbs of one percentile milestone.
type MilestoneQuote struct {
	gacha.Milestone
	Plan Plan `json:"plan"`
}

// Quote prices every milestone of a simulation, net of orbs already owned.
// Negative owned counts as none.
func Quote(st gacha.Stats, cat Catalog, owned int, first FirstTimeState) ([]MilestoneQuote, error) {
	owned = max(0, owned)
	out := make([]MilestoneQuote, 0, len(st.Milestones))
	for _, m := range st.Milestones {
		plan, err := CheapestPlan(cat, max(0, m.Orbs-owned), first)
		if err != nil {
			return nil, fmt.Errorf("quote p%v: %w", m.Percentile, err)
		}
		out = append(out, MilestoneQuote{Milestone: m, Plan: plan})
	}
	return out, nil
}

// BudgetChance spends budgetCents on orbs and returns the plan with the chance
// of completing the goal using those orbs plus the ones owned.
func BudgetChance(st gacha.Stats, cat Catalog, owned, budgetCents int, first FirstTimeState) (Plan, float64, error) {
	plan, err := BestPlanUnderBudget(cat, budgetCents, first)
	if err != nil {
		return Plan{}, 0, err
	}
	return plan, st.ChanceWithin(max(0, owned) + plan.TotalOrbs), nil
}
