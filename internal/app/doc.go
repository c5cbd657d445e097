// Package app contains the core application logic. It wires a program
// loaded from HCL into a debug session together with its history store,
// notification sinks, metrics and health server, and exposes the three
// entrypoints the CLI drives: Run, Inspect and Sessions.
package app
