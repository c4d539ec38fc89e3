// Package encoding implements the text encoding ports on top of
// golang.org/x/net/html/charset for detection and golang.org/x/text for
// decoding.
//
// Detection follows the WHATWG sniffing order: byte order mark, then an
// HTML meta declaration, then UTF-8 validity, falling back to windows-1252.
// Pure ASCII input is reported as utf-8.
package encoding
