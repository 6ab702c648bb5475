// Package app is the keyladder demonstration host: a deliberately small
// modal editor over tcell that exists to exercise every collaborator the
// escalation dispatcher depends on.
//
// The toy editor has a handful of buffers (one file-like, two special),
// modes (normal, insert, visual, terminal, command), a floating help
// overlay and a simulated completion popup. It implements host.Host, so
// the same escalation machinery an embedding editor would use drives it
// end to end: trigger keys reach Dispatcher.OnTrigger from every mode,
// effects come back through Execute, and the status line shows each
// path's live level. Editing the configuration file reconfigures the
// dispatcher without a restart.
package app
