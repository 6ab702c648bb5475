package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keyladder/internal/action"
	"github.com/dshills/keyladder/internal/escalate"
)

// defaultTOML is the built-in configuration layer. User files are merged
// over it key by key; see Load.
const defaultTOML = `
debounce_ms = 400
on_overflow = "noop"
completion_engine = "auto"
preserved_buffers = ["*scratch*", "*log*"]

[[path]]
name = "primary"
key = "Esc"
ladder = ["smart_close", "save", "quit", "quit_all"]

[[path]]
name = "secondary"
key = "Ctrl+Q"
ladder = ["smart_close", "quit", "force_quit_all"]
`

// Path configures one escalation path.
type Path struct {
	// Name identifies the path; ladder triggers reference it.
	Name string `toml:"name"`

	// Key is the trigger key specification, e.g. "Esc" or "Ctrl+Q".
	Key string `toml:"key"`

	// Ladder lists action names by press count.
	Ladder []string `toml:"ladder"`
}

// Commands overrides the host command strings the built-in effects issue.
// Empty fields keep the built-in spelling.
type Commands struct {
	Save          string `toml:"save"`
	Quit          string `toml:"quit"`
	QuitAll       string `toml:"quit_all"`
	ForceQuitAll  string `toml:"force_quit_all"`
	DeleteBuffer  string `toml:"delete_buffer"`
	CloseOverlays string `toml:"close_overlays"`
	DismissPopup  string `toml:"dismiss_popup"`
	AbortCommand  string `toml:"abort_command"`
	LeaveTerminal string `toml:"leave_terminal"`
	ToNormal      string `toml:"to_normal"`
}

// Config is the full keyladder configuration.
type Config struct {
	// DebounceMS is the escalation window in milliseconds. Zero or
	// negative makes every trigger press a solo press.
	DebounceMS int `toml:"debounce_ms"`

	// OnOverflow selects behavior for presses past the last ladder rung:
	// "noop", "repeat_last" or "clamp".
	OnOverflow string `toml:"on_overflow"`

	// CompletionEngine selects the completion popup probe: "auto" asks the
	// host, "none" disables detection, "lua:<chunk>" installs a scripted
	// predicate, and any other value names a host capability.
	CompletionEngine string `toml:"completion_engine"`

	// PreservedBuffers lists glob patterns for special buffers that
	// smart_close must never delete.
	PreservedBuffers []string `toml:"preserved_buffers"`

	// Paths are the escalation paths.
	Paths []Path `toml:"path"`

	// Commands overrides built-in effect command strings.
	Commands Commands `toml:"commands"`

	// CustomActions maps action names to Lua chunks registered as effects.
	CustomActions map[string]string `toml:"custom_actions"`

	// UnknownKeys collects unrecognized top-level keys seen while loading,
	// for callers to warn about. Unknown keys are otherwise tolerated.
	UnknownKeys []string `toml:"-"`
}

// knownKeys are the recognized top-level configuration keys.
var knownKeys = map[string]bool{
	"debounce_ms":       true,
	"on_overflow":       true,
	"completion_engine": true,
	"preserved_buffers": true,
	"path":              true,
	"commands":          true,
	"custom_actions":    true,
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse("<defaults>", []byte(defaultTOML))
	if err != nil {
		// The default layer is a compile-time constant; failing to parse
		// it is a programming error.
		panic(fmt.Sprintf("config: invalid built-in defaults: %v", err))
	}
	return cfg
}

// Load reads the configuration file at path, merged over the defaults.
// A missing file selects the defaults and is not an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadReader reads configuration from r, merged over the defaults.
func LoadReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}

// parse decodes data merged over the default layer.
//
// Merging happens on the raw key/value maps so a user file overrides
// exactly the keys it mentions: scalars and arrays replace, tables merge
// recursively. The merged map is decoded into the typed Config.
func parse(source string, data []byte) (*Config, error) {
	var user map[string]any
	if err := toml.Unmarshal(data, &user); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	merged := user
	var unknown []string
	if source != "<defaults>" {
		var defaults map[string]any
		if err := toml.Unmarshal([]byte(defaultTOML), &defaults); err != nil {
			return nil, &ParseError{Path: "<defaults>", Message: err.Error(), Err: err}
		}
		merged = DeepMerge(defaults, user)

		for key := range user {
			if !knownKeys[key] {
				unknown = append(unknown, key)
			}
		}
	}

	// Round-trip through TOML to decode the merged map into the struct.
	out, err := toml.Marshal(merged)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	cfg := &Config{}
	if err := toml.Unmarshal(out, cfg); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	cfg.UnknownKeys = unknown
	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values that have a sensible reading
// instead of rejecting them.
func (c *Config) normalize() {
	if c.DebounceMS < 0 {
		c.DebounceMS = 0
	}
	if c.OnOverflow == "" {
		c.OnOverflow = escalate.OverflowNoop.String()
	}
	if c.CompletionEngine == "" {
		c.CompletionEngine = "auto"
	}
}

// Validate checks the configuration for structural errors. All problems
// are collected into a single ValidationErrors result.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if len(c.Paths) == 0 {
		errs.Add("path", "at least one escalation path is required")
	}

	seen := make(map[string]bool, len(c.Paths))
	for i, p := range c.Paths {
		at := fmt.Sprintf("path[%d]", i)

		switch {
		case p.Name == "":
			errs.Add(at+".name", "path name must not be empty")
		case seen[p.Name]:
			errs.AddWithValue(at+".name", "duplicate path name", p.Name)
		default:
			seen[p.Name] = true
		}

		if len(p.Ladder) == 0 {
			errs.Add(at+".ladder", "ladder must list at least one action")
		}
		for j, rung := range p.Ladder {
			if rung == "" {
				errs.Add(fmt.Sprintf("%s.ladder[%d]", at, j), "action name must not be empty")
			}
		}

		if p.Key != "" {
			if _, err := ParseKey(p.Key); err != nil {
				errs.AddWithValue(at+".key", fmt.Sprintf("invalid key spec: %v", err), p.Key)
			}
		}
	}

	if _, err := escalate.ParseOverflowPolicy(c.OnOverflow); err != nil {
		errs.AddWithValue("on_overflow", "must be noop, repeat_last or clamp", c.OnOverflow)
	}

	for i, pat := range c.PreservedBuffers {
		if _, err := filepath.Match(pat, ""); err != nil {
			errs.AddWithValue(fmt.Sprintf("preserved_buffers[%d]", i), "invalid glob pattern", pat)
		}
	}

	if chunk, ok := strings.CutPrefix(c.CompletionEngine, "lua:"); ok && strings.TrimSpace(chunk) == "" {
		errs.Add("completion_engine", "lua predicate chunk must not be empty")
	}

	for name, chunk := range c.CustomActions {
		at := fmt.Sprintf("custom_actions.%s", name)
		if name == "" {
			errs.Add("custom_actions", "action name must not be empty")
			continue
		}
		if action.IsBuiltin(name) {
			errs.AddWithValue(at, "shadows a built-in action", name)
		}
		if strings.TrimSpace(chunk) == "" {
			errs.Add(at, "lua chunk must not be empty")
		}
	}

	return errs.OrNil()
}

// Debounce returns the escalation window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// EscalateConfig converts to the dispatcher's configuration.
func (c *Config) EscalateConfig() (escalate.Config, error) {
	policy, err := escalate.ParseOverflowPolicy(c.OnOverflow)
	if err != nil {
		return escalate.Config{}, err
	}

	paths := make([]escalate.PathConfig, 0, len(c.Paths))
	for _, p := range c.Paths {
		ladder := make([]string, len(p.Ladder))
		copy(ladder, p.Ladder)
		paths = append(paths, escalate.PathConfig{Name: p.Name, Ladder: ladder})
	}

	return escalate.Config{
		Paths:    paths,
		Debounce: c.Debounce(),
		Overflow: policy,
	}, nil
}

// ActionCommands returns the effect command strings, with configured
// overrides applied over the built-in spellings.
func (c *Config) ActionCommands() action.Commands {
	cmds := action.DefaultCommands()
	override := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	override(&cmds.Save, c.Commands.Save)
	override(&cmds.Quit, c.Commands.Quit)
	override(&cmds.QuitAll, c.Commands.QuitAll)
	override(&cmds.ForceQuitAll, c.Commands.ForceQuitAll)
	override(&cmds.DeleteBuffer, c.Commands.DeleteBuffer)
	override(&cmds.CloseOverlays, c.Commands.CloseOverlays)
	override(&cmds.DismissPopup, c.Commands.DismissPopup)
	override(&cmds.AbortCommand, c.Commands.AbortCommand)
	override(&cmds.LeaveTerminal, c.Commands.LeaveTerminal)
	override(&cmds.ToNormal, c.Commands.ToNormal)
	return cmds
}

// PreservedMatcher compiles the preserved-buffer patterns into a matcher.
// Patterns that fail to compile are skipped; Validate reports them.
func (c *Config) PreservedMatcher() func(string) bool {
	patterns := make([]string, len(c.PreservedBuffers))
	copy(patterns, c.PreservedBuffers)

	return func(name string) bool {
		for _, pat := range patterns {
			if ok, err := filepath.Match(pat, name); err == nil && ok {
				return true
			}
		}
		return false
	}
}

// PathByName returns the configured path with the given name.
func (c *Config) PathByName(name string) (Path, bool) {
	for _, p := range c.Paths {
		if p.Name == name {
			return p, true
		}
	}
	return Path{}, false
}

// DeepMerge recursively merges src into dst and returns dst.
// Values in src override values in dst; maps are merged recursively,
// all other types (including arrays) are replaced. dst is modified.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}

	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = srcVal
			continue
		}

		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
		} else {
			dst[key] = srcVal
		}
	}

	return dst
}
