package gacha

import "errors"

// ErrInvalidProb is returned by Draw for a probability outside [0,1].
var ErrInvalidProb = errors.New("probability must be in [0,1]")

// Draw reports a hit with probability p. The edges 0 and 1 are decided without
// consuming a number from rng, so scripted sources stay aligned with the pulls.
func Draw(p float64, rng RandomSource) (bool, error) {
	switch {
	case !validProb(p):
		return false, ErrInvalidProb
	case p == 0:
		return false, nil
	case p == 1:
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}
