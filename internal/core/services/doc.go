// Package services implements the driving port interfaces.
// Services contain the entity analysis engine: the analyzer registry and
// dispatcher, the container composition tree and the streaming classifier.
// They orchestrate calls to driven ports (analyzers, formats, hashes,
// containers, graph stores).
package services
