package gacha

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every banner or goal configuration problem.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnreachableGoal is wrapped when a goal cannot complete on a banner.
	ErrUnreachableGoal = errors.New("unreachable goal")
)

// ConfigError names the offending field of a banner or goal.
type ConfigError struct {
	Field  string // e.g. "five.hard_pity", "goal.targets[1].index"
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnreachableGoalError reports a goal target that cannot be satisfied.
// Pulls is non-zero when the trial ceiling was hit at runtime.
type UnreachableGoalError struct {
	Target int
	Reason string
	Pulls  int
}

func (e *UnreachableGoalError) Error() string {
	if e.Pulls > 0 {
		return fmt.Sprintf("unreachable goal: %s after %d pulls", e.Reason, e.Pulls)
	}
	if e.Target < 0 {
		return "unreachable goal: " + e.Reason
	}
	return fmt.Sprintf("unreachable goal: target %d: %s", e.Target, e.Reason)
}

func (e *UnreachableGoalError) Unwrap() error { return ErrUnreachableGoal }
