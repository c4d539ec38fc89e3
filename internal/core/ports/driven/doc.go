// Package driven defines the interfaces that core calls OUT to collaborators.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and the pluggable analyzers,
// formats, hash algorithms, container providers and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - EntityAnalyzer: Describes entities of one kind
//   - HashAlgorithm: Computes a digest over content
//   - FormatDescriptor: Recognises and decodes one format
//   - GraphStore: Receives the produced description
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be absent - the engine degrades gracefully:
//
//   - ContainerProvider: Without providers, nested entities are dispatched directly.
//   - EncodingDetectorFactory: Without it, only UTF-8 text is recognised.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, analyzer, format or container package
package driven
