// Package file implements dataset persistence over JSON files.
//
// It is the production DatasetStore: loads fail fast on missing or
// malformed files, and saves are atomic (temp file plus rename) so a
// crashed write never leaves a file that claims to be complete.
package file
