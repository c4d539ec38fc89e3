// Package formats provides the FormatDescriptor implementations the
// classifier matches content against, and the registry they are built from.
//
// Each descriptor makes two decisions. CheckHeader is a cheap predicate over
// the first HeaderLength bytes of the content; Match fully decodes the
// content and hands the typed value to the engine for nested analysis.
//
// Descriptors are built in registration order, which is the declaration
// order matches are reported in.
package formats
