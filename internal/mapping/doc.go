// Package mapping defines the format-agnostic model of the mapping document
// (the declarative description of how parameter values are injected into the
// reference case) and compiles it into a validated, typed rule set.
//
// The raw Document is produced by a format-specific loader (see the
// hcladapter and jsonadapter packages). Compile is the single validation
// point: every problem in the document is reported before any case is
// built, so a malformed mapping can never leave partial output behind.
package mapping
