// Package action provides the effect registry for escalation ladders.
//
// A ladder rung names an action; the registry maps that open string key to
// an Effect. Effects receive a Context carrying the host collaborators and
// return a typed Result. The registry is the error boundary: an effect
// that returns an error or panics is logged and reported as StatusError,
// and the escalation state machine advances exactly as it would for a
// successful effect. An unknown action name dispatches as a no-op.
//
// Built-in effects wrap single host commands ("save", "quit", ...); the
// smart_close composite consults the situation classifier and dismisses
// the most specific transient UI state it finds. Custom effects are
// registered from configuration, either as Go functions or Lua chunks.
package action
