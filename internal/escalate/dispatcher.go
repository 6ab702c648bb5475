package escalate

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dshills/keyladder/internal/action"
	"github.com/dshills/keyladder/internal/host"
	"github.com/dshills/keyladder/internal/logging"
	"github.com/dshills/keyladder/internal/situation"
)

// Deps carries the collaborators a Dispatcher needs.
type Deps struct {
	// Registry resolves ladder rungs to effects. Required.
	Registry *action.Registry

	// Executor runs host commands for effects.
	Executor host.Executor

	// Inspector provides read-only host state for effects.
	Inspector host.Inspector

	// Classify returns the current situation. May be nil.
	Classify func() situation.Situation

	// Preserved reports buffers exempt from smart_close deletion. May be nil.
	Preserved func(bufferName string) bool

	// Timers creates release timers. Defaults to RealTimers().
	Timers TimerFactory

	// Logger receives dispatch and transition logs. Defaults to the
	// process-wide logger.
	Logger *logging.Logger

	// Metrics collects statistics. Created internally if nil.
	Metrics *Metrics
}

// path is the per-path escalation state.
//
// level counts presses in the current run; 0 is idle. epoch takes a new
// globally unique value on every transition that invalidates an armed
// timer, and timer callbacks re-check it before acting.
type path struct {
	name   string
	ladder []string
	level  int
	epoch  uint64
	timer  Timer
}

// stopTimer cancels a pending release without touching level or epoch.
func (p *path) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// advance moves the counter one press forward under the policy and
// returns the action name to dispatch, empty when nothing should run.
// overflowed reports a press landing past the final rung.
func (p *path) advance(policy OverflowPolicy) (actionName string, overflowed bool) {
	last := len(p.ladder)
	overflowed = p.level >= last

	switch policy {
	case OverflowClamp:
		if p.level < last {
			p.level++
		}
		return p.ladder[p.level-1], overflowed
	case OverflowRepeatLast:
		p.level++
		if p.level > last {
			return p.ladder[last-1], overflowed
		}
		return p.ladder[p.level-1], overflowed
	default: // OverflowNoop
		p.level++
		if p.level > last {
			return "", overflowed
		}
		return p.ladder[p.level-1], overflowed
	}
}

// Dispatcher owns all escalation paths and their release timers.
//
// Every state transition happens under one mutex. Effects are applied
// with the mutex released, so an effect may call OnTrigger, ResetPath or
// Level on its own dispatcher without deadlocking; a nested trigger for
// the same path is handled as the next press.
type Dispatcher struct {
	mu       sync.Mutex
	paths    map[string]*path
	order    []string
	debounce time.Duration
	overflow OverflowPolicy
	seq      uint64
	closed   bool

	registry  *action.Registry
	executor  host.Executor
	inspector host.Inspector
	classify  func() situation.Situation
	preserved func(string) bool
	timers    TimerFactory
	logger    *logging.Logger
	metrics   *Metrics
}

// New creates a dispatcher for the given configuration.
func New(cfg Config, deps Deps) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Registry == nil {
		return nil, ErrNoRegistry
	}
	if deps.Timers == nil {
		deps.Timers = RealTimers()
	}
	if deps.Logger == nil {
		deps.Logger = logging.GetLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}

	d := &Dispatcher{
		registry:  deps.Registry,
		executor:  deps.Executor,
		inspector: deps.Inspector,
		classify:  deps.Classify,
		preserved: deps.Preserved,
		timers:    deps.Timers,
		logger:    deps.Logger.WithComponent("escalate"),
		metrics:   deps.Metrics,
	}
	d.install(cfg)
	return d, nil
}

// install replaces path state from a validated config.
// Caller must hold the lock, except from the constructor.
func (d *Dispatcher) install(cfg Config) {
	paths := make(map[string]*path, len(cfg.Paths))
	order := make([]string, 0, len(cfg.Paths))
	for _, pc := range cfg.Paths {
		ladder := make([]string, len(pc.Ladder))
		copy(ladder, pc.Ladder)
		paths[pc.Name] = &path{name: pc.Name, ladder: ladder}
		order = append(order, pc.Name)
	}
	sort.Strings(order)

	d.paths = paths
	d.order = order
	d.debounce = cfg.Debounce
	d.overflow = cfg.Overflow
}

// bump assigns p a fresh globally unique epoch, invalidating any
// outstanding timer callback or pending rearm for p.
// Caller must hold the lock.
func (d *Dispatcher) bump(p *path) {
	d.seq++
	p.epoch = d.seq
}

// OnTrigger records one press of a path's trigger key.
//
// The press cancels any pending release, advances the counter, dispatches
// the rung for the new level and only then arms a fresh release timer.
// Unknown paths are logged and ignored; OnTrigger never panics.
func (d *Dispatcher) OnTrigger(pathName string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	p, ok := d.paths[pathName]
	if !ok {
		d.mu.Unlock()
		d.logger.Warn("trigger for unknown path %q", pathName)
		return
	}

	// This press supersedes any pending release.
	p.stopTimer()
	d.bump(p)

	solo := d.debounce <= 0
	if solo {
		p.level = 0
	}

	actionName, overflowed := p.advance(d.overflow)
	level := p.level
	armEpoch := p.epoch

	d.metrics.RecordTrigger(pathName, level)
	if overflowed {
		d.metrics.RecordOverflow(pathName)
	}
	d.mu.Unlock()

	if actionName != "" {
		d.logger.Debug("path %s level %d -> %s", pathName, level, actionName)
		start := time.Now()
		result := d.registry.Dispatch(actionName, d.buildContext(pathName))
		d.metrics.RecordDispatch(actionName, time.Since(start), result.Status)
	} else {
		d.logger.Debug("path %s level %d past ladder end, nothing dispatched", pathName, level)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	p, ok = d.paths[pathName]
	if !ok || p.epoch != armEpoch {
		// A nested trigger, reset or reconfigure owned the path while the
		// effect ran; its timer arrangement wins.
		return
	}

	if solo {
		p.level = 0
		d.bump(p)
		return
	}

	ep := armEpoch
	p.timer = d.timers.AfterFunc(d.debounce, func() {
		d.onTimeout(pathName, ep)
	})
}

// onTimeout is the release timer callback.
func (d *Dispatcher) onTimeout(pathName string, epoch uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	p, ok := d.paths[pathName]
	if !ok || p.epoch != epoch || p.timer == nil {
		// Stale: the path was triggered, reset or reconfigured after this
		// timer was armed.
		return
	}

	p.timer = nil
	p.level = 0
	d.bump(p)

	d.metrics.RecordReset(pathName, ResetTimeout)
	d.logger.Debug("path %s released, back to idle", pathName)
}

// ResetPath forces a path back to idle, cancelling any pending release.
func (d *Dispatcher) ResetPath(pathName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	p, ok := d.paths[pathName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPath, pathName)
	}

	active := p.level != 0 || p.timer != nil
	p.stopTimer()
	p.level = 0
	d.bump(p)

	if active {
		d.metrics.RecordReset(pathName, ResetExplicit)
	}
	return nil
}

// Level returns a path's current escalation level; 0 for idle or unknown.
func (d *Dispatcher) Level(pathName string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.paths[pathName]
	if !ok {
		return 0
	}
	return p.level
}

// Levels returns the current level of every configured path.
func (d *Dispatcher) Levels() map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()

	levels := make(map[string]int, len(d.paths))
	for name, p := range d.paths {
		levels[name] = p.level
	}
	return levels
}

// Paths returns the configured path names, sorted.
func (d *Dispatcher) Paths() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, len(d.order))
	copy(names, d.order)
	return names
}

// Debounce returns the active debounce window.
func (d *Dispatcher) Debounce() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.debounce
}

// Metrics returns the dispatcher's metrics collector.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Reconfigure atomically replaces paths, debounce window and overflow
// policy. All paths return to idle and pending timers are cancelled.
// On validation error the previous configuration stays active. Calling
// it again with the same configuration is harmless.
func (d *Dispatcher) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	for _, p := range d.paths {
		p.stopTimer()
	}
	d.install(cfg)

	d.logger.Info("reconfigured: %d paths, debounce %s, overflow %s",
		len(cfg.Paths), cfg.Debounce, cfg.Overflow)
	return nil
}

// Close cancels all timers and rejects further triggers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	for _, p := range d.paths {
		p.stopTimer()
	}
}

// buildContext assembles the per-dispatch effect context.
func (d *Dispatcher) buildContext(pathName string) *action.Context {
	return &action.Context{
		Executor:  d.executor,
		Inspector: d.inspector,
		Classify:  d.classify,
		Preserved: d.preserved,
		Logger:    d.logger.WithField("path", pathName),
	}
}
