package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyladder/internal/action"
	"github.com/dshills/keyladder/internal/config"
	"github.com/dshills/keyladder/internal/escalate"
	"github.com/dshills/keyladder/internal/host"
	"github.com/dshills/keyladder/internal/logging"
	"github.com/dshills/keyladder/internal/script"
	"github.com/dshills/keyladder/internal/situation"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty selects the defaults
	// and disables live reload.
	ConfigPath string

	// Watch enables live configuration reload.
	Watch bool

	// Logger receives application logs. Defaults to the process logger.
	Logger *logging.Logger
}

// App wires the demo editor to the escalation dispatcher.
type App struct {
	logger     *logging.Logger
	editor     *Editor
	registry   *action.Registry
	scripts    *script.State
	classifier *situation.Classifier
	dispatcher *escalate.Dispatcher
	watcher    *config.Watcher

	mu        sync.Mutex
	bindings  []binding
	preserved func(string) bool

	screen tcell.Screen
}

// New builds the application from the configuration at opts.ConfigPath.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	for _, key := range cfg.UnknownKeys {
		logger.Warn("unknown configuration key %q ignored", key)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	editor := NewEditor(logger)

	a := &App{
		logger:   logger.WithComponent("app"),
		editor:   editor,
		registry: action.NewRegistry(logger),
		scripts:  script.New(editor, logger),
	}
	a.classifier = situation.NewClassifier(editor, nil, logger)

	escCfg, err := cfg.EscalateConfig()
	if err != nil {
		return nil, err
	}
	a.dispatcher, err = escalate.New(escCfg, escalate.Deps{
		Registry:  a.registry,
		Executor:  editor,
		Inspector: editor,
		Classify:  a.classifier.Classify,
		Preserved: a.isPreserved,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	if err := a.applyConfig(cfg); err != nil {
		a.Close()
		return nil, err
	}

	if opts.Watch && opts.ConfigPath != "" {
		a.watcher, err = config.NewWatcher(opts.ConfigPath, a.reload, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// applyConfig installs a validated configuration: effects, probe,
// bindings, then the dispatcher's paths.
func (a *App) applyConfig(cfg *config.Config) error {
	bindings, err := compileBindings(cfg.Paths)
	if err != nil {
		return err
	}

	a.registry.Clear()
	if err := action.RegisterBuiltins(a.registry, cfg.ActionCommands()); err != nil {
		return err
	}
	if err := a.scripts.RegisterEffects(a.registry, cfg.CustomActions); err != nil {
		return err
	}

	probe, err := a.buildProbe(cfg.CompletionEngine)
	if err != nil {
		return err
	}
	a.classifier.SetProbe(probe)

	escCfg, err := cfg.EscalateConfig()
	if err != nil {
		return err
	}
	if err := a.dispatcher.Reconfigure(escCfg); err != nil {
		return err
	}

	a.mu.Lock()
	a.bindings = bindings
	a.preserved = cfg.PreservedMatcher()
	a.mu.Unlock()

	return nil
}

// buildProbe resolves the configured completion engine to a popup probe.
func (a *App) buildProbe(engine string) (situation.PopupProbe, error) {
	if chunk, ok := strings.CutPrefix(engine, "lua:"); ok {
		probe, err := a.scripts.Probe(chunk)
		if err != nil {
			return nil, fmt.Errorf("completion_engine: %w", err)
		}
		return probe, nil
	}
	return situation.ProbeForEngine(engine, a.editor), nil
}

// reload is the config watcher callback.
func (a *App) reload(cfg *config.Config) {
	if err := a.applyConfig(cfg); err != nil {
		a.logger.Error("reload rejected: %v", err)
	}
}

// isPreserved reports whether the buffer matches a preserved pattern
// under the current configuration.
func (a *App) isPreserved(name string) bool {
	a.mu.Lock()
	preserved := a.preserved
	a.mu.Unlock()

	return preserved != nil && preserved(name)
}

// Dispatcher exposes the escalation dispatcher for inspection.
func (a *App) Dispatcher() *escalate.Dispatcher {
	return a.dispatcher
}

// Editor exposes the demo editor.
func (a *App) Editor() *Editor {
	return a.editor
}

// SetScreen injects a tcell screen. Run creates a real terminal screen
// when none was injected; tests supply a simulation screen.
func (a *App) SetScreen(s tcell.Screen) {
	a.screen = s
}

// Run drives the event loop until quit. Returns ErrQuit on a normal
// user-requested exit.
func (a *App) Run() error {
	if a.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("app: creating screen: %w", err)
		}
		if err := s.Init(); err != nil {
			return fmt.Errorf("app: initializing screen: %w", err)
		}
		a.screen = s
	}
	defer a.screen.Fini()

	for {
		a.render()

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			a.HandleKey(ev)
		case *tcell.EventResize:
			a.screen.Sync()
		}

		if a.editor.QuitRequested() {
			return ErrQuit
		}
	}
}

// HandleKey processes one key event: trigger bindings first, from every
// mode, then demo editing keys.
func (a *App) HandleKey(ev *tcell.EventKey) {
	a.mu.Lock()
	bindings := a.bindings
	a.mu.Unlock()

	if pathName, ok := matchBinding(bindings, ev); ok {
		a.dispatcher.OnTrigger(pathName)
		return
	}

	switch a.editor.Mode() {
	case host.ModeNormal:
		a.handleNormalKey(ev)
	case host.ModeInsert:
		a.handleInsertKey(ev)
	case host.ModeCommand:
		a.handleCommandKey(ev)
	case host.ModeVisual, host.ModeTerminal:
		// Only trigger keys leave these modes in the demo.
	}
}

// handleNormalKey implements the demo's normal-mode keys.
func (a *App) handleNormalKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyTab:
		a.editor.NextBuffer()
	case ev.Key() == tcell.KeyF1:
		a.editor.ToggleOverlay()
	case ev.Key() == tcell.KeyRune:
		switch ev.Rune() {
		case 'i':
			a.editor.EnterMode(host.ModeInsert)
		case 'v':
			a.editor.EnterMode(host.ModeVisual)
		case 't':
			a.editor.EnterMode(host.ModeTerminal)
		case ':':
			a.editor.EnterMode(host.ModeCommand)
			a.editor.InsertRune(':')
		}
	}
}

// handleInsertKey types into the buffer; Ctrl+Space opens the fake
// completion popup.
func (a *App) handleInsertKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlSpace {
		a.editor.ShowPopup()
		return
	}
	if ev.Key() == tcell.KeyRune {
		a.editor.InsertRune(ev.Rune())
	}
}

// handleCommandKey types into the command line.
func (a *App) handleCommandKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyRune {
		a.editor.InsertRune(ev.Rune())
	}
}

// Close releases every resource. Safe to call more than once.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.scripts != nil {
		a.scripts.Close()
	}
}
