// Package escalate turns repeated trigger-key presses into escalating
// actions.
//
// Each configured path owns a ladder of action names and a repeat counter.
// A press within the debounce window advances the counter and dispatches
// the ladder rung for the new count; the window expiring returns the path
// to idle. Two paths never share state: pressing one trigger has no effect
// on another path's counter or timer.
//
// # Dispatch Cycle
//
// When a trigger arrives for a path:
//
//  1. The path's pending release timer, if any, is cancelled and its
//     epoch advances, invalidating callbacks already in flight.
//  2. The repeat counter advances under the overflow policy and the rung
//     for the new level is resolved.
//  3. The effect is dispatched through the action registry with no locks
//     held. Effects may call back into the dispatcher; a nested trigger
//     for the same path is simply the next press.
//  4. A fresh release timer is armed only if the path's epoch is
//     unchanged, so a nested trigger's timer always wins over the
//     outer press's.
//
// Dispatch strictly precedes arming: an effect that inspects the
// dispatcher during execution sees the pre-arm state. With a zero or
// negative debounce every press is a solo press; the first rung is
// dispatched and the path stays idle.
//
// # Timers
//
// Release timers come from a TimerFactory. The real factory wraps
// time.AfterFunc; tests inject a manual factory to drive expiry
// deterministically. A timer callback carries only the path name and the
// epoch at arm time, and is ignored unless both still match.
//
// # Errors
//
// Effect failures never reach this package: the action registry absorbs
// errors and panics and reports them as a status. Escalation state
// advances identically for failed and successful effects.
//
// # Usage
//
//	disp, err := escalate.New(cfg, escalate.Deps{
//	    Registry:  registry,
//	    Executor:  ed,
//	    Inspector: ed,
//	    Classify:  classifier.Classify,
//	})
//	if err != nil {
//	    return err
//	}
//	defer disp.Close()
//
//	// From the host's key handler:
//	disp.OnTrigger("primary")
package escalate
