package gacha

// SoftPity defines the ramp behavior before the hard pity.
// Example: Start=73, Increment=0.06, HardPity=90 => from the 74th pull since the
// last hit, p grows by 6 points per pull and the 90th pull always hits.
type SoftPity struct {
	Start     int     // pulls since last hit at which the ramp begins
	Increment float64 // added per pull from Start on; 0 disables the ramp
	HardPity  int     // pull index (1-based) at which a hit is certain; 0 disables it
}

// validate checks the schedule against the tier's base rate.
func (s SoftPity) validate(field string, base float64) []error {
	var errs []error
	if s.HardPity < 0 {
		errs = append(errs, configErr(field+".hard_pity", "must be >= 0, got %d", s.HardPity))
	}
	if s.Start < 0 {
		errs = append(errs, configErr(field+".soft_start", "must be >= 0, got %d", s.Start))
	}
	if !(s.Increment >= 0 && s.Increment <= 1) {
		errs = append(errs, configErr(field+".increment", "must be in [0,1], got %v", s.Increment))
		return errs
	}
	if s.Increment == 0 || s.HardPity <= 0 || len(errs) > 0 {
		return errs
	}
	// Ramp ends at HardPity-1 pulls since the last hit. It must have room to ramp
	// and must reach 1 on its own by then.
	if s.Start >= s.HardPity {
		errs = append(errs, configErr(field+".soft_start",
			"must be < hard_pity (%d), got %d", s.HardPity, s.Start))
		return errs
	}
	if p := s.ramp(base, s.HardPity-1); p < 1-probEpsilon {
		errs = append(errs, configErr(field+".increment",
			"schedule reaches only %.4f by hard pity %d", p, s.HardPity))
	}
	return errs
}

// ramp is the soft pity probability without the hard pity or the clamp.
func (s SoftPity) ramp(base float64, since int) float64 {
	if s.Increment <= 0 || since < s.Start {
		return base
	}
	return base + float64(since-s.Start+1)*s.Increment
}

// Rate computes the probability the next pull should use after `since` pulls
// without a hit:
// - If since+1 >= HardPity: return 1 (hard pity).
// - Else if since >= Start: base + (since-Start+1)*Increment, clamped to 1.
// - Else: return base.
func (s SoftPity) Rate(base float64, since int) float64 {
	if s.HardPity > 0 && since+1 >= s.HardPity {
		return 1.0
	}
	p := s.ramp(base, since)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}
