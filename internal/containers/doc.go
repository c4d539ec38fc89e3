// Package containers provides the built-in container providers.
//
// A provider claims an entity as the root of a nested structure and then
// sees every child dispatched inside it, before ordinary analysis:
//
//   - Directory claims directory trees and assigns path-based identities.
//   - Archive claims decoded archives and links each entry back to its
//     archive.
//   - Exclude claims the top-level input and drops every file, directory
//     or archive entry whose name matches one of its glob patterns.
package containers
