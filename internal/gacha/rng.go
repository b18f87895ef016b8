package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource abstract

type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random : default generation method
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	// 53 random bits => [0, 1)
	u := cryptoUint64() >> 11
	return float64(u) / (1 << 53)
}

func cryptoUint64() uint64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Uint64()
	}
	return binary.BigEndian.Uint64(buf[:])
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// RandomSeed draws a fresh simulation seed from the crypto source.
func RandomSeed() uint64 { return cryptoUint64() }

// Replicable RNG (e.g. Monte Carlo)
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

// NewTrialRNG returns the source for one trial of a seeded run. Each trial index
// selects its own PCG stream, so trials never share draws.
func NewTrialRNG(seed uint64, trial int) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, uint64(trial)+1))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// pick returns a uniform index in [0, n) using one draw from rng.
func pick(n int, rng RandomSource) int {
	if n <= 1 {
		return 0
	}
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
