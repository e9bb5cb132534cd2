// Package domain defines the core business entities for the perturb CLI.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Dataset: A Quoref-style reading-comprehension dataset
//   - Article: A titled collection of paragraphs
//   - Paragraph: A context passage with its QA pairs
//   - QAPair: A question with one or more accepted answer spans
//   - SessionRecord: The outcome of one annotation session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
