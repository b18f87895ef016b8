package gacha

// PathSelector picks the target charted on the pity-skip path.
// Candidates are the 5* focus specific-unit targets in declaration order. The
// first one is nominated; when it completes, the next incomplete one takes over.
// Once none is left the path goes inert for the rest of the trial.
type PathSelector struct {
	goal       Goal
	candidates []int
	pos        int
}

func NewPathSelector(g Goal) *PathSelector {
	p := &PathSelector{goal: g}
	for i, t := range g.Targets {
		if t.pathEligible() {
			p.candidates = append(p.candidates, i)
		}
	}
	return p
}

// Nominated returns the charted target index, if any.
func (p *PathSelector) Nominated() (int, bool) {
	if p.pos >= len(p.candidates) {
		return -1, false
	}
	return p.candidates[p.pos], true
}

// Unit returns the unit of the charted target.
func (p *PathSelector) Unit() (UnitRef, bool) {
	i, ok := p.Nominated()
	if !ok {
		return UnitRef{}, false
	}
	return p.goal.Targets[i].Unit, true
}

// Advance moves past completed candidates and reports whether the nomination changed.
func (p *PathSelector) Advance(t *GoalTracker) bool {
	start := p.pos
	for p.pos < len(p.candidates) && t.Complete(p.candidates[p.pos]) {
		p.pos++
	}
	return p.pos != start
}
