package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key spec parse errors.
var (
	ErrEmptyKeySpec   = errors.New("empty key specification")
	ErrInvalidKeySpec = errors.New("invalid key specification")
)

// Modifier is a bitmask of key modifiers.
type Modifier uint8

// Modifier bits.
const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

// Has returns true if the modifier bit is set.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Key is a parsed trigger key specification, independent of any terminal
// event representation. Exactly one of Name and Rune is set: Name carries
// a canonical special-key name ("esc", "enter", "f5"), Rune a printable
// character.
type Key struct {
	Mod  Modifier
	Name string
	Rune rune
}

// String returns the canonical spelling of the key.
func (k Key) String() string {
	var b strings.Builder
	if k.Mod.Has(ModCtrl) {
		b.WriteString("Ctrl+")
	}
	if k.Mod.Has(ModAlt) {
		b.WriteString("Alt+")
	}
	if k.Mod.Has(ModShift) {
		b.WriteString("Shift+")
	}
	if k.Name != "" {
		b.WriteString(strings.ToUpper(k.Name[:1]) + k.Name[1:])
	} else {
		b.WriteRune(k.Rune)
	}
	return b.String()
}

// specialKeys maps accepted spellings to canonical special-key names.
var specialKeys = map[string]string{
	"esc":       "esc",
	"escape":    "esc",
	"enter":     "enter",
	"return":    "enter",
	"cr":        "enter",
	"tab":       "tab",
	"space":     "space",
	"backspace": "backspace",
	"bs":        "backspace",
	"delete":    "delete",
	"del":       "delete",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"home":      "home",
	"end":       "end",
	"pgup":      "pgup",
	"pageup":    "pgup",
	"pgdn":      "pgdn",
	"pagedown":  "pgdn",
	"insert":    "insert",
}

// ParseKey parses a trigger key specification.
//
// Supported forms: a single printable character ("q", "@"), a special key
// name ("Esc", "Enter", "F5"), and modifier prefixes joined with "+"
// ("Ctrl+Q", "Alt+Shift+F2"). Names are case-insensitive.
func ParseKey(spec string) (Key, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Key{}, ErrEmptyKeySpec
	}

	parts := strings.Split(spec, "+")

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control", "c":
			mods |= ModCtrl
		case "alt", "meta", "a", "m":
			mods |= ModAlt
		case "shift", "s":
			mods |= ModShift
		case "":
			// A trailing "+" means the key itself is '+' ("Ctrl++");
			// handled below via the empty last part.
		default:
			return Key{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidKeySpec, p)
		}
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		if strings.HasSuffix(spec, "+") {
			keyPart = "+"
		} else {
			return Key{}, fmt.Errorf("%w: missing key in %q", ErrInvalidKeySpec, spec)
		}
	}

	return parseKeyPart(keyPart, mods)
}

// parseKeyPart interprets the final component of a key spec.
func parseKeyPart(part string, mods Modifier) (Key, error) {
	// Single printable character.
	if utf8.RuneCountInString(part) == 1 {
		r, _ := utf8.DecodeRuneInString(part)
		// Ctrl+letter is canonically lowercase.
		if mods.Has(ModCtrl) && r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return Key{Mod: mods, Rune: r}, nil
	}

	lower := strings.ToLower(part)

	if name, ok := specialKeys[lower]; ok {
		return Key{Mod: mods, Name: name}, nil
	}

	// Function keys F1..F12.
	if strings.HasPrefix(lower, "f") && len(lower) <= 3 {
		valid := len(lower) > 1
		n := 0
		for _, d := range lower[1:] {
			if d < '0' || d > '9' {
				valid = false
				break
			}
			n = n*10 + int(d-'0')
		}
		if valid && n >= 1 && n <= 12 {
			return Key{Mod: mods, Name: lower}, nil
		}
	}

	return Key{}, fmt.Errorf("%w: unknown key %q", ErrInvalidKeySpec, part)
}
