package gacha

// probEpsilon is the tolerance used when checking that rates sum to one.
const probEpsilon = 1e-9

// validProb rejects NaN and infinities along with anything outside [0,1].
func validProb(p float64) bool { return p >= 0 && p <= 1 }

// appendProb records a ConfigError for field when p is not a probability.
func appendProb(errs []error, field string, p float64) []error {
	if validProb(p) {
		return errs
	}
	return append(errs, configErr(field, "must be in [0,1], got %v", p))
}
