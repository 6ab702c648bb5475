// Package script runs user-supplied Lua chunks as escalation effects and
// completion-popup probes.
//
// All chunks share one sandboxed Lua state owned by a State value. The
// sandbox opens only the base, table, string and math libraries and
// removes the chunk-loading functions, so configuration files cannot read
// the filesystem or spawn processes. Chunks are compiled once at
// configuration time; compile failures are configuration errors, runtime
// failures are absorbed at the action registry boundary like any other
// effect error.
//
// Chunks see a global "host" table:
//
//	host.execute(cmd)   -- run an editor command, returns true on success
//	host.mode()         -- current mode name ("normal", "insert", ...)
//	host.buffer_name()  -- name of the focused buffer
//	host.situation()    -- classified situation ("overlay", "insert", ...)
//
// An effect chunk's return value selects the result: true means the
// effect changed host state, false or nil means it had nothing to do.
// A probe chunk returns whether a completion popup is visible.
package script
