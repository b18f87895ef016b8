package gacha

// GoalStatus is the progress of a goal.
type GoalStatus int

const (
	InProgress GoalStatus = iota
	Satisfied
)

func (s GoalStatus) String() string {
	if s == Satisfied {
		return "satisfied"
	}
	return "in-progress"
}

// GoalTracker counts matching copies per target.
type GoalTracker struct {
	goal   Goal
	tally  []int
	done   []bool
	order  []int // target indexes in completion order
	status GoalStatus
}

func NewGoalTracker(g Goal) *GoalTracker {
	return &GoalTracker{
		goal:  g,
		tally: make([]int, len(g.Targets)),
		done:  make([]bool, len(g.Targets)),
	}
}

// Observe feeds one outcome. Every target it matches gains a copy, so targets
// keep counting after they complete.
func (t *GoalTracker) Observe(o Outcome) GoalStatus {
	for i, target := range t.goal.Targets {
		if !target.Matches(o) {
			continue
		}
		t.tally[i]++
		if !t.done[i] && t.tally[i] >= target.Copies {
			t.done[i] = true
			t.order = append(t.order, i)
		}
	}
	t.status = t.evaluate()
	return t.status
}

func (t *GoalTracker) evaluate() GoalStatus {
	if t.goal.Combinator == Any {
		if len(t.order) > 0 {
			return Satisfied
		}
		return InProgress
	}
	if len(t.order) == len(t.done) {
		return Satisfied
	}
	return InProgress
}

func (t *GoalTracker) Status() GoalStatus { return t.status }

// Tally returns the copies seen for target i.
func (t *GoalTracker) Tally(i int) int { return t.tally[i] }

// Complete reports whether target i reached its copy count.
func (t *GoalTracker) Complete(i int) bool { return t.done[i] }

// Completed returns the completed target indexes in completion order.
func (t *GoalTracker) Completed() []int { return append([]int(nil), t.order...) }
