package escalate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/keyladder/internal/escalate"
)

func TestConfigValidate(t *testing.T) {
	if err := escalate.DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}

	tests := []struct {
		name    string
		cfg     escalate.Config
		wantErr error
	}{
		{"no paths", escalate.Config{}, escalate.ErrNoPaths},
		{
			"empty path name",
			escalate.Config{Paths: []escalate.PathConfig{{Ladder: []string{"save"}}}},
			escalate.ErrEmptyPathName,
		},
		{
			"duplicate path",
			escalate.Config{Paths: []escalate.PathConfig{
				{Name: "a", Ladder: []string{"save"}},
				{Name: "a", Ladder: []string{"quit"}},
			}},
			escalate.ErrDuplicatePath,
		},
		{
			"empty ladder",
			escalate.Config{Paths: []escalate.PathConfig{{Name: "a"}}},
			escalate.ErrEmptyLadder,
		},
		{
			"empty action name",
			escalate.Config{Paths: []escalate.PathConfig{{Name: "a", Ladder: []string{""}}}},
			escalate.ErrEmptyActionName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigBuilders(t *testing.T) {
	cfg := escalate.Config{}.
		WithPath("solo", "smart_close", "quit").
		WithDebounce(250 * time.Millisecond).
		WithOverflow(escalate.OverflowClamp)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(cfg.Paths) != 1 || cfg.Paths[0].Name != "solo" {
		t.Errorf("Paths = %+v, want one path named solo", cfg.Paths)
	}
	if len(cfg.Paths[0].Ladder) != 2 {
		t.Errorf("Ladder = %v, want 2 rungs", cfg.Paths[0].Ladder)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Debounce)
	}
	if cfg.Overflow != escalate.OverflowClamp {
		t.Errorf("Overflow = %v, want clamp", cfg.Overflow)
	}
}

func TestConfigWithPathDoesNotAliasOriginal(t *testing.T) {
	base := escalate.Config{}.WithPath("one", "save")
	extended := base.WithPath("two", "quit")

	if len(base.Paths) != 1 {
		t.Errorf("base.Paths = %v, want unchanged single path", base.Paths)
	}
	if len(extended.Paths) != 2 {
		t.Errorf("extended.Paths = %v, want two paths", extended.Paths)
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    escalate.OverflowPolicy
		wantErr bool
	}{
		{"", escalate.OverflowNoop, false},
		{"noop", escalate.OverflowNoop, false},
		{"repeat_last", escalate.OverflowRepeatLast, false},
		{"clamp", escalate.OverflowClamp, false},
		{"bounce", escalate.OverflowNoop, true},
	}

	for _, tt := range tests {
		got, err := escalate.ParseOverflowPolicy(tt.input)
		if tt.wantErr {
			if !errors.Is(err, escalate.ErrInvalidOverflow) {
				t.Errorf("ParseOverflowPolicy(%q) error = %v, want ErrInvalidOverflow", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOverflowPolicy(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOverflowPolicy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOverflowPolicyString(t *testing.T) {
	tests := []struct {
		policy escalate.OverflowPolicy
		want   string
	}{
		{escalate.OverflowNoop, "noop"},
		{escalate.OverflowRepeatLast, "repeat_last"},
		{escalate.OverflowClamp, "clamp"},
		{escalate.OverflowPolicy(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.policy.String(); got != tt.want {
			t.Errorf("OverflowPolicy(%d).String() = %q, want %q", tt.policy, got, tt.want)
		}
	}
}
