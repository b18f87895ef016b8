package preset

import (
	"errors"
	"fmt"

	"github.com/xtding233/orbsim/internal/gacha"
	"github.com/xtding233/orbsim/internal/token"
)

func fieldErr(field, format string, args ...any) error {
	return &gacha.ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateRaw checks the shape of a merged RawConfig: required fields are
// present and counts are sane. Rate relationships are left to gacha.NewBannerConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []error

	// cost
	if cfg.Cost == nil || cfg.Cost.PerPull == nil {
		errs = append(errs, fieldErr("cost.per_pull", "is required"))
	} else if *cfg.Cost.PerPull <= 0 {
		errs = append(errs, fieldErr("cost.per_pull", "must be >= 1, got %d", *cfg.Cost.PerPull))
	} else if *cfg.Cost.PerPull > token.MaxPerPull {
		errs = append(errs, fieldErr("cost.per_pull", "must be <= %d, got %d", token.MaxPerPull, *cfg.Cost.PerPull))
	}

	// tiers
	if cfg.Five == nil {
		errs = append(errs, fieldErr("five", "is required"))
	} else {
		errs = append(errs, validateTier("five", cfg.Five)...)
	}
	if cfg.Four != nil {
		errs = append(errs, validateTier("four", cfg.Four)...)
	}

	if cfg.Path != nil && cfg.Path.Threshold <= 0 {
		errs = append(errs, fieldErr("path.threshold", "must be >= 1, got %d", cfg.Path.Threshold))
	}
	return errors.Join(errs...)
}

func validateTier(field string, t *TierCfg) []error {
	var errs []error
	if t.BaseRate == nil {
		errs = append(errs, fieldErr(field+".base_rate", "is required"))
	}
	// soft start and increment come together
	if (t.SoftStart == nil) != (t.Increment == nil) {
		errs = append(errs, fieldErr(field+".soft_start", "soft_start and increment must be set together"))
	}
	if t.SoftStart != nil && t.HardPity == nil {
		errs = append(errs, fieldErr(field+".hard_pity", "is required when soft pity is configured"))
	}
	if t.FocusCharacters != nil && *t.FocusCharacters < 0 {
		errs = append(errs, fieldErr(field+".focus_characters", "must be >= 0, got %d", *t.FocusCharacters))
	}
	if t.FocusWeapons != nil && *t.FocusWeapons < 0 {
		errs = append(errs, fieldErr(field+".focus_weapons", "must be >= 0, got %d", *t.FocusWeapons))
	}
	if g := t.Guarantee; g != nil {
		if g.Threshold <= 0 {
			errs = append(errs, fieldErr(field+".guarantee.threshold", "must be >= 1, got %d", g.Threshold))
		}
		if len(g.Table) == 0 && t.FocusRate == nil {
			errs = append(errs, fieldErr(field+".guarantee.table", "is required when focus_rate is not set"))
		}
	}
	return errs
}
