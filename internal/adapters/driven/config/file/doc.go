// Package file provides the TOML-backed configuration store.
//
// Configuration lives in ~/.perturb/config.toml. Recognised keys:
//
//	output.dir      default directory for session output files
//	journal.enabled whether completed sessions are journaled
//	journal.dir     where the journal database lives
//	verbose         default verbosity
package file
