// Package app wires the application together: it owns the logger, loads and
// compiles the mapping document, loads the parameter table, and drives the
// batch orchestrator. Construction (NewApp) performs every validation that
// must complete before any output directory is touched; Run only performs
// I/O for cases that passed it.
package app
