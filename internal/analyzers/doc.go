// Package analyzers wires the built-in entity analyzers.
//
// Each analyzer lives in a subpackage grouped by what it describes:
// filesystem entities (fs), raw content and the streams handed out by
// containers (content), and the values formats decode (values).
package analyzers
