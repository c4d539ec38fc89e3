// Package values provides the analyzers for decoded format values:
// archives, images, structured documents and XML documents. A value's node
// is derived from the content it was decoded from (see describe.ValueNode).
package values
