// Package domain defines the core entities of the Sercha inspector.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entity: Anything that can be analysed (file, directory, stream, decoded value)
//   - Kind: The hierarchical type tag used to route an entity to analyzers
//   - StreamSource: A (possibly re-openable) handle to the bytes of one piece of content
//   - ContentObject: The classified, hashed and format-matched view of a StreamSource
//   - AnalysisContext: Immutable state threaded through recursive analysis
//   - AnalysisResult: The node produced for an entity
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
