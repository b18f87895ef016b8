package gacha

// PityState holds the counters of one trial. It is created at trial start and
// discarded at trial end; counters only grow except for the resets below.
type PityState struct {
	Pulls     int // pulls made so far
	SinceFive int // pulls since last 5*
	SinceFour int // pulls since last 4*

	// guarantee counters: consecutive non-focus hits of the tier
	FiveCounter int
	FourCounter int

	// pity-skip path
	PathActive bool
	PathUnit   UnitRef
	PathMisses int // 5* results that were not PathUnit since it was last obtained
}

// StartState carries pity over from earlier pulls into a fresh trial.
type StartState struct {
	SinceFive   int
	SinceFour   int
	FiveCounter int
	FourCounter int
	PathMisses  int
}

// NewPityState returns the state for a trial starting from s.
func NewPityState(s StartState) PityState {
	return PityState{
		SinceFive:   nonNegative(s.SinceFive),
		SinceFour:   nonNegative(s.SinceFour),
		FiveCounter: nonNegative(s.FiveCounter),
		FourCounter: nonNegative(s.FourCounter),
		PathMisses:  nonNegative(s.PathMisses),
	}
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Counter returns the guarantee counter of a tier.
func (s *PityState) Counter(t Tier) int {
	if t == FiveStar {
		return s.FiveCounter
	}
	return s.FourCounter
}

// pathReady reports whether the next 5* is forced onto the nominated unit.
func (s *PityState) pathReady(c *BannerConfig) bool {
	return s.PathActive && c.Path != nil && s.PathMisses >= c.Path.Threshold
}

// record applies one outcome to the counters.
// On a tier hit that tier's count resets; every other pull increments it.
func (s *PityState) record(c *BannerConfig, o Outcome) {
	s.Pulls++
	switch o.Tier {
	case FiveStar:
		s.SinceFive = 0
		s.SinceFour++
		if c.Five.Guarantee != nil {
			s.FiveCounter = bump(s.FiveCounter, o.Focus)
		}
		if s.PathActive {
			if o.Focus && o.Unit == s.PathUnit {
				s.PathMisses = 0
			} else {
				s.PathMisses++
			}
		}
	case FourStar:
		s.SinceFour = 0
		s.SinceFive++
		if c.Four.Guarantee != nil {
			s.FourCounter = bump(s.FourCounter, o.Focus)
		}
	default:
		s.SinceFive++
		s.SinceFour++
	}
}

func bump(counter int, focus bool) int {
	if focus {
		return 0
	}
	return counter + 1
}
