// Package config loads, validates and watches keyladder configuration.
//
// Configuration lives in a single TOML file. Values the file omits fall
// back to built-in defaults: the user file is deep-merged over the default
// layer, table by table, so a file that only sets debounce_ms leaves the
// default paths and commands intact. A missing file is not an error; it
// selects the defaults wholesale.
//
// Validate reports every structural problem at once (empty ladders,
// duplicate path names, malformed key specs, unknown overflow policies).
// Validation failures are fatal to setup but never to the host process:
// callers keep their previous configuration when a reload fails.
//
// Watcher provides live reload. It watches the configuration file through
// fsnotify, coalesces save bursts, and delivers freshly loaded and
// validated configurations to a callback. Invalid or unreadable files are
// logged and dropped; deleting the file delivers the defaults.
package config
