package escalate

import "time"

// Timer is a single-shot timer handle.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was stopped. The callback may still be running or
	// queued when Stop returns false; epoch checks make that harmless.
	Stop() bool
}

// TimerFactory creates single-shot timers.
//
// Production code uses RealTimers. Tests substitute a manual factory to
// control expiry deterministically.
type TimerFactory interface {
	// AfterFunc schedules fn to run once after d on an unspecified
	// goroutine.
	AfterFunc(d time.Duration, fn func()) Timer
}

type realTimerFactory struct{}

// AfterFunc implements TimerFactory using time.AfterFunc.
func (realTimerFactory) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// RealTimers returns the TimerFactory backed by time.AfterFunc.
func RealTimers() TimerFactory {
	return realTimerFactory{}
}
