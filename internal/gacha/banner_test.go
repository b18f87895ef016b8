package gacha

import (
	"errors"
	"testing"
)

// fields collects the ConfigError fields of a joined validation error.
func fields(err error) map[string]bool {
	out := map[string]bool{}
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ce, ok := e.(*ConfigError); ok {
			out[ce.Field] = true
			return
		}
		if j, ok := e.(interface{ Unwrap() []error }); ok {
			for _, x := range j.Unwrap() {
				walk(x)
			}
		}
	}
	walk(err)
	return out
}

func TestNewBannerConfigValid(t *testing.T) {
	for _, c := range []BannerConfig{characterBanner(), weaponBanner(), focusBanner(1)} {
		if _, err := NewBannerConfig(c); err != nil {
			t.Fatalf("%s: %v", c.Name, err)
		}
	}
}

func TestNewBannerConfigCopies(t *testing.T) {
	c := characterBanner()
	b := mustBanner(t, c)
	c.Five.Guarantee.Table[0] = 0
	if b.Five.Guarantee.Table[0] != 0.5 {
		t.Fatalf("banner shares the caller's guarantee table")
	}
}

func TestBannerValidateCollectsErrors(t *testing.T) {
	c := characterBanner()
	c.FillerRate = 0.5
	c.Five.Guarantee = &FocusGuarantee{Threshold: 2, Table: []float64{0.5}}
	c.Four.FocusCharacters = 0

	err := c.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	got := fields(err)
	for _, f := range []string{"rates", "five.guarantee.table", "four.focus_characters"} {
		if !got[f] {
			t.Fatalf("missing error for %s in %v", f, err)
		}
	}
}

func TestBannerValidateRejects(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*BannerConfig)
		field string
	}{
		{"negative base", func(c *BannerConfig) { c.Five.BaseRate = -0.1; c.FillerRate += 0.106 }, "five.base_rate"},
		{"focus rate above one", func(c *BannerConfig) { c.Four.FocusRate = 1.2 }, "four.focus_rate"},
		{"zero path threshold", func(c *BannerConfig) { c.Path = &PathConfig{} }, "path.threshold"},
		{"bad guarantee entry", func(c *BannerConfig) { c.Five.Guarantee.Table = []float64{2} }, "five.guarantee.table[0]"},
		{"zero cost", func(c *BannerConfig) { c.Cost.PerPull = 0 }, "cost.per_pull"},
	}
	for _, tc := range cases {
		c := characterBanner()
		tc.edit(&c)
		_, err := NewBannerConfig(c)
		if !fields(err)[tc.field] {
			t.Fatalf("%s: want error on %s, got %v", tc.name, tc.field, err)
		}
	}
}

func TestFocusProbability(t *testing.T) {
	b := mustBanner(t, characterBanner())
	if got := b.Five.FocusProbability(0); got != 0.5 {
		t.Fatalf("counter 0: got %v", got)
	}
	if got := b.Five.FocusProbability(1); got != 1 {
		t.Fatalf("counter at threshold must force focus; got %v", got)
	}
	b2 := mustBanner(t, focusBanner(1))
	if got := b2.Five.FocusProbability(7); got != 0.5 {
		t.Fatalf("no guarantee: got %v, want focus rate", got)
	}
}
