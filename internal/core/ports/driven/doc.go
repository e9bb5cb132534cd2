// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DatasetStore: Dataset load/save persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SessionJournal: Session history persistence. Without it,
//     completed sessions simply are not recorded.
//   - ConfigStore: Application configuration. Without it, built-in
//     defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
