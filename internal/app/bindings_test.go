package app

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyladder/internal/config"
)

func TestKeyFromEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want config.Key
	}{
		{
			"escape",
			tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			config.Key{Name: "esc"},
		},
		{
			"plain rune",
			tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
			config.Key{Rune: 'q'},
		},
		{
			"ctrl letter chord",
			tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl),
			config.Key{Mod: config.ModCtrl, Rune: 'q'},
		},
		{
			"function key",
			tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone),
			config.Key{Name: "f5"},
		},
		{
			"alt rune",
			tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt),
			config.Key{Mod: config.ModAlt, Rune: 'x'},
		},
		{
			"tab is named, not ctrl-i",
			tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
			config.Key{Name: "tab"},
		},
		{
			"space",
			tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone),
			config.Key{Name: "space"},
		},
		{
			"ctrl space",
			tcell.NewEventKey(tcell.KeyCtrlSpace, 0, tcell.ModCtrl),
			config.Key{Mod: config.ModCtrl, Name: "space"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyFromEvent(tt.ev)
			if !ok {
				t.Fatal("keyFromEvent() ok = false")
			}
			if got != tt.want {
				t.Errorf("keyFromEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestKeyFromEventRoundTripsParseKey(t *testing.T) {
	// Every spec the default config uses must match its terminal event.
	tests := []struct {
		spec string
		ev   *tcell.EventKey
	}{
		{"Esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"Ctrl+Q", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)},
		{"F1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone)},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			parsed, err := config.ParseKey(tt.spec)
			if err != nil {
				t.Fatalf("ParseKey(%q) error = %v", tt.spec, err)
			}
			fromEvent, ok := keyFromEvent(tt.ev)
			if !ok {
				t.Fatal("keyFromEvent() ok = false")
			}
			if parsed != fromEvent {
				t.Errorf("ParseKey(%q) = %+v, event key = %+v", tt.spec, parsed, fromEvent)
			}
		})
	}
}

func TestCompileBindings(t *testing.T) {
	paths := []config.Path{
		{Name: "primary", Key: "Esc", Ladder: []string{"noop"}},
		{Name: "secondary", Key: "Ctrl+Q", Ladder: []string{"noop"}},
		{Name: "hidden", Ladder: []string{"noop"}},
	}

	bindings, err := compileBindings(paths)
	if err != nil {
		t.Fatalf("compileBindings() error = %v", err)
	}
	if len(bindings) != 2 {
		t.Fatalf("len(bindings) = %d, want 2 (keyless path skipped)", len(bindings))
	}

	path, ok := matchBinding(bindings, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if !ok || path != "primary" {
		t.Errorf("matchBinding(Esc) = %q, %v, want primary, true", path, ok)
	}

	path, ok = matchBinding(bindings, tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	if !ok || path != "secondary" {
		t.Errorf("matchBinding(Ctrl+Q) = %q, %v, want secondary, true", path, ok)
	}

	if _, ok := matchBinding(bindings, tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)); ok {
		t.Error("matchBinding(z) matched, want no match")
	}
}

func TestCompileBindingsBadSpec(t *testing.T) {
	if _, err := compileBindings([]config.Path{{Name: "p", Key: "Hyper+X"}}); err == nil {
		t.Error("compileBindings() with bad key spec error = nil")
	}
}
