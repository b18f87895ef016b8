package gacha

import (
	"errors"
	"math"
	"testing"
)

func TestSoftPityRate(t *testing.T) {
	s := SoftPity{Start: 73, Increment: 0.06, HardPity: 90}
	const base = 0.006

	if got := s.Rate(base, 0); got != base {
		t.Fatalf("rate before ramp = %v, want %v", got, base)
	}
	if got := s.Rate(base, 72); got != base {
		t.Fatalf("rate at 72 = %v, want %v", got, base)
	}
	if got, want := s.Rate(base, 73), base+0.06; math.Abs(got-want) > 1e-12 {
		t.Fatalf("first ramped rate = %v, want %v", got, want)
	}
	if got := s.Rate(base, 89); got != 1 {
		t.Fatalf("hard pity rate = %v, want 1", got)
	}

	prev := 0.0
	for since := 0; since < s.HardPity; since++ {
		p := s.Rate(base, since)
		if p < prev {
			t.Fatalf("rate decreased at since=%d: %v < %v", since, p, prev)
		}
		if p < 0 || p > 1 {
			t.Fatalf("rate out of range at since=%d: %v", since, p)
		}
		prev = p
	}
}

func TestSoftPityDisabled(t *testing.T) {
	s := SoftPity{}
	for _, since := range []int{0, 10, 1000} {
		if got := s.Rate(0.03, since); got != 0.03 {
			t.Fatalf("since=%d: got %v, want base", since, got)
		}
	}
}

func TestSoftPityValidate(t *testing.T) {
	cases := []struct {
		name  string
		s     SoftPity
		field string
	}{
		{"ramp too slow", SoftPity{Start: 80, Increment: 0.01, HardPity: 90}, "five.increment"},
		{"start past hard pity", SoftPity{Start: 90, Increment: 0.5, HardPity: 90}, "five.soft_start"},
		{"negative hard pity", SoftPity{HardPity: -1}, "five.hard_pity"},
		{"increment above one", SoftPity{Start: 1, Increment: 1.5, HardPity: 5}, "five.increment"},
	}
	for _, tc := range cases {
		errs := tc.s.validate("five", 0.006)
		if len(errs) == 0 {
			t.Fatalf("%s: expected an error", tc.name)
		}
		var ce *ConfigError
		if !errors.As(errs[0], &ce) || ce.Field != tc.field {
			t.Fatalf("%s: got %v, want field %s", tc.name, errs[0], tc.field)
		}
	}
	if errs := (SoftPity{Start: 73, Increment: 0.06, HardPity: 90}).validate("five", 0.006); len(errs) != 0 {
		t.Fatalf("valid schedule rejected: %v", errs)
	}
}
