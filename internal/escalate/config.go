package escalate

import (
	"fmt"
	"time"
)

// OverflowPolicy controls what happens when presses continue past the last
// ladder rung.
type OverflowPolicy uint8

const (
	// OverflowNoop keeps counting but dispatches nothing past the last rung.
	OverflowNoop OverflowPolicy = iota

	// OverflowRepeatLast keeps counting and re-dispatches the last rung on
	// every further press.
	OverflowRepeatLast

	// OverflowClamp pins the counter at the ladder length and re-dispatches
	// the last rung on every further press.
	OverflowClamp
)

// String returns the configuration spelling of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowNoop:
		return "noop"
	case OverflowRepeatLast:
		return "repeat_last"
	case OverflowClamp:
		return "clamp"
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy parses a configuration spelling into a policy.
// The empty string selects the default.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "noop":
		return OverflowNoop, nil
	case "repeat_last":
		return OverflowRepeatLast, nil
	case "clamp":
		return OverflowClamp, nil
	default:
		return OverflowNoop, fmt.Errorf("%w: %q", ErrInvalidOverflow, s)
	}
}

// PathConfig describes one escalation path.
type PathConfig struct {
	// Name identifies the path in OnTrigger calls. Must be unique.
	Name string

	// Ladder lists action names by level; Ladder[0] is the first press.
	Ladder []string
}

// Config holds dispatcher configuration.
type Config struct {
	// Paths are the escalation paths. At least one is required.
	Paths []PathConfig

	// Debounce is the window after each press within which the next press
	// continues the run. Zero or negative makes every press a solo press.
	Debounce time.Duration

	// Overflow selects behavior for presses past the last rung.
	Overflow OverflowPolicy
}

// DefaultConfig returns a configuration with two conventional paths.
func DefaultConfig() Config {
	return Config{
		Paths: []PathConfig{
			{
				Name:   "primary",
				Ladder: []string{"smart_close", "save", "quit", "quit_all"},
			},
			{
				Name:   "secondary",
				Ladder: []string{"smart_close", "quit", "force_quit_all"},
			},
		},
		Debounce: 400 * time.Millisecond,
		Overflow: OverflowNoop,
	}
}

// WithDebounce returns a copy of the config with the debounce window set.
func (c Config) WithDebounce(d time.Duration) Config {
	c.Debounce = d
	return c
}

// WithOverflow returns a copy of the config with the overflow policy set.
func (c Config) WithOverflow(p OverflowPolicy) Config {
	c.Overflow = p
	return c
}

// WithPath returns a copy of the config with a path appended.
func (c Config) WithPath(name string, ladder ...string) Config {
	paths := make([]PathConfig, len(c.Paths), len(c.Paths)+1)
	copy(paths, c.Paths)
	c.Paths = append(paths, PathConfig{Name: name, Ladder: ladder})
	return c
}

// Validate checks the configuration for structural errors.
func (c Config) Validate() error {
	if len(c.Paths) == 0 {
		return ErrNoPaths
	}

	seen := make(map[string]bool, len(c.Paths))
	for _, p := range c.Paths {
		if p.Name == "" {
			return ErrEmptyPathName
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, p.Name)
		}
		seen[p.Name] = true

		if len(p.Ladder) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyLadder, p.Name)
		}
		for _, rung := range p.Ladder {
			if rung == "" {
				return fmt.Errorf("%w: path %s", ErrEmptyActionName, p.Name)
			}
		}
	}
	return nil
}
