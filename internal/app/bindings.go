package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyladder/internal/config"
)

// binding maps one parsed trigger key to an escalation path.
type binding struct {
	key  config.Key
	path string
}

// compileBindings parses each path's key spec. Paths without a key are
// reachable only programmatically.
func compileBindings(paths []config.Path) ([]binding, error) {
	bindings := make([]binding, 0, len(paths))
	for _, p := range paths {
		if p.Key == "" {
			continue
		}
		key, err := config.ParseKey(p.Key)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", p.Name, err)
		}
		bindings = append(bindings, binding{key: key, path: p.Name})
	}
	return bindings, nil
}

// match returns the path bound to the event, if any.
func matchBinding(bindings []binding, ev *tcell.EventKey) (string, bool) {
	key, ok := keyFromEvent(ev)
	if !ok {
		return "", false
	}
	for _, b := range bindings {
		if b.key == key {
			return b.path, true
		}
	}
	return "", false
}

// specialByTcell maps tcell named keys to canonical key-spec names.
var specialByTcell = map[tcell.Key]string{
	tcell.KeyEscape:     "esc",
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyInsert:     "insert",
}

// keyFromEvent converts a tcell key event to the key-spec representation.
//
// Control-letter chords arrive from tcell as dedicated key codes in the
// C0 range; they are folded back to Ctrl+<letter> so "Ctrl+Q" in a config
// file matches what the terminal delivers. Esc, Tab and Enter are named
// keys and take precedence over their C0 aliases.
func keyFromEvent(ev *tcell.EventKey) (config.Key, bool) {
	var mods config.Modifier
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= config.ModCtrl
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= config.ModAlt
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= config.ModShift
	}

	k := ev.Key()

	if name, ok := specialByTcell[k]; ok {
		// tcell reports Esc/Tab/Enter with ModCtrl on some terminals
		// because they share C0 codes; the name wins.
		mods &^= config.ModCtrl
		return config.Key{Mod: mods, Name: name}, true
	}

	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return config.Key{Mod: mods, Name: fmt.Sprintf("f%d", int(k-tcell.KeyF1)+1)}, true
	}

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return config.Key{
			Mod:  mods | config.ModCtrl,
			Rune: rune('a' + int(k-tcell.KeyCtrlA)),
		}, true
	}
	if k == tcell.KeyCtrlSpace {
		return config.Key{Mod: mods | config.ModCtrl, Name: "space"}, true
	}

	if k == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return config.Key{Mod: mods, Name: "space"}, true
		}
		// Shift is already baked into the rune for printable keys.
		mods &^= config.ModShift
		return config.Key{Mod: mods, Rune: r}, true
	}

	return config.Key{}, false
}
