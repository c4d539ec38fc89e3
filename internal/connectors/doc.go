// Package connectors provides StreamSource implementations and input walkers
// for the places content comes from. Each connector knows how to hand the
// engine bytes from a specific origin (filesystem, memory, a one-shot pipe).
//
// Connectors never interpret content; classification is the engine's job.
package connectors
