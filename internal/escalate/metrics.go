package escalate

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/keyladder/internal/action"
)

// ResetCause distinguishes why a path returned to idle.
type ResetCause uint8

const (
	// ResetTimeout means the debounce window expired.
	ResetTimeout ResetCause = iota
	// ResetExplicit means ResetPath was called.
	ResetExplicit
)

// String returns a human-readable cause name.
func (c ResetCause) String() string {
	switch c {
	case ResetTimeout:
		return "timeout"
	case ResetExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Metrics collects escalation statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-path and per-action metrics
	pathMetrics   map[string]*PathMetrics
	actionMetrics map[string]*ActionMetrics

	// Global counters
	totalTriggers   uint64
	totalDispatches uint64
	totalErrors     uint64

	// Timing
	totalDuration time.Duration
}

// PathMetrics holds statistics for one escalation path.
type PathMetrics struct {
	Name           string
	TriggerCount   uint64
	PeakLevel      int
	TimeoutResets  uint64
	ExplicitResets uint64
	OverflowCount  uint64
}

// ActionMetrics holds statistics for one dispatched action.
type ActionMetrics struct {
	Name          string
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastStatus    action.Status
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		pathMetrics:   make(map[string]*PathMetrics),
		actionMetrics: make(map[string]*ActionMetrics),
	}
}

// RecordTrigger records a trigger press that advanced a path to level.
func (m *Metrics) RecordTrigger(pathName string, level int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalTriggers++

	pm := m.pathStats(pathName)
	pm.TriggerCount++
	if level > pm.PeakLevel {
		pm.PeakLevel = level
	}
}

// RecordOverflow records a trigger past the last rung that dispatched nothing.
func (m *Metrics) RecordOverflow(pathName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pathStats(pathName).OverflowCount++
}

// RecordReset records a path returning to idle.
func (m *Metrics) RecordReset(pathName string, cause ResetCause) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pm := m.pathStats(pathName)
	switch cause {
	case ResetTimeout:
		pm.TimeoutResets++
	case ResetExplicit:
		pm.ExplicitResets++
	}
}

// RecordDispatch records one effect dispatch.
func (m *Metrics) RecordDispatch(actionName string, duration time.Duration, status action.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration

	if status == action.StatusError {
		m.totalErrors++
	}

	am := m.actionMetrics[actionName]
	if am == nil {
		am = &ActionMetrics{
			Name:        actionName,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.actionMetrics[actionName] = am
	}

	am.DispatchCount++
	am.TotalDuration += duration
	am.LastStatus = status
	am.LastDispatch = time.Now()

	if duration < am.MinDuration {
		am.MinDuration = duration
	}
	if duration > am.MaxDuration {
		am.MaxDuration = duration
	}

	if status == action.StatusError {
		am.ErrorCount++
	}
}

// pathStats returns the entry for a path, creating it if needed.
// Caller must hold the lock.
func (m *Metrics) pathStats(pathName string) *PathMetrics {
	pm := m.pathMetrics[pathName]
	if pm == nil {
		pm = &PathMetrics{Name: pathName}
		m.pathMetrics[pathName] = pm
	}
	return pm
}

// TotalTriggers returns the total number of trigger presses.
func (m *Metrics) TotalTriggers() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalTriggers
}

// TotalDispatches returns the total number of effect dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the total number of failed dispatches.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// PathStats returns metrics for a specific path, or nil if never triggered.
func (m *Metrics) PathStats(pathName string) *PathMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pm := m.pathMetrics[pathName]
	if pm == nil {
		return nil
	}

	// Return a copy
	copy := *pm
	return &copy
}

// ActionStats returns metrics for a specific action, or nil if never dispatched.
func (m *Metrics) ActionStats(actionName string) *ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	am := m.actionMetrics[actionName]
	if am == nil {
		return nil
	}

	// Return a copy
	copy := *am
	return &copy
}

// TopActions returns the top N most dispatched actions.
func (m *Metrics) TopActions(n int) []*ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	actions := make([]*ActionMetrics, 0, len(m.actionMetrics))
	for _, am := range m.actionMetrics {
		copy := *am
		actions = append(actions, &copy)
	}

	sort.Slice(actions, func(i, j int) bool {
		return actions[i].DispatchCount > actions[j].DispatchCount
	})

	if n > len(actions) {
		n = len(actions)
	}
	return actions[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pathMetrics = make(map[string]*PathMetrics)
	m.actionMetrics = make(map[string]*ActionMetrics)
	m.totalTriggers = 0
	m.totalDispatches = 0
	m.totalErrors = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time snapshot of all metrics.
type MetricsSnapshot struct {
	TotalTriggers   uint64
	TotalDispatches uint64
	TotalErrors     uint64
	AverageDuration time.Duration
	PathCount       int
	ActionCount     int
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalTriggers:   m.totalTriggers,
		TotalDispatches: m.totalDispatches,
		TotalErrors:     m.totalErrors,
		PathCount:       len(m.pathMetrics),
		ActionCount:     len(m.actionMetrics),
		Timestamp:       time.Now(),
	}

	if m.totalDispatches > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalDispatches)
	}

	return snapshot
}

// AverageDuration returns the average dispatch duration for the action.
func (am *ActionMetrics) AverageDuration() time.Duration {
	if am.DispatchCount == 0 {
		return 0
	}
	return am.TotalDuration / time.Duration(am.DispatchCount)
}

// ErrorRate returns the error rate as a percentage.
func (am *ActionMetrics) ErrorRate() float64 {
	if am.DispatchCount == 0 {
		return 0
	}
	return float64(am.ErrorCount) / float64(am.DispatchCount) * 100
}
