package token

import "fmt"

// Token defines how many currency units are spent per pull.
type Token struct {
	Name    string // e.g. "Orb", "Primogem"
	PerPull int    // units per single pull, e.g. 5, 160
}

// Orbs is the default currency: five orbs per summon.
var Orbs = Token{Name: "Orb", PerPull: 5}

// MaxPerPull caps the per-pull cost so pull totals stay well inside int.
const MaxPerPull = 100_000

// Validate reports a cost that cannot price a pull.
func (t Token) Validate() error {
	if t.PerPull <= 0 {
		return fmt.Errorf("per_pull must be >= 1, got %d", t.PerPull)
	}
	if t.PerPull > MaxPerPull {
		return fmt.Errorf("per_pull must be <= %d, got %d", MaxPerPull, t.PerPull)
	}
	return nil
}

// SpentFor returns how many units n pulls cost.
func (t Token) SpentFor(pulls int) int {
	if pulls <= 0 {
		return 0
	}
	return pulls * t.PerPull
}

// PullsFor returns how many whole pulls the given amount of units buys.
func (t Token) PullsFor(units int) int {
	if units <= 0 || t.PerPull <= 0 {
		return 0
	}
	return units / t.PerPull
}
