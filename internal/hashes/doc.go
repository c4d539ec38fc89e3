// Package hashes provides the hash algorithms the classifier runs over content.
//
// Every algorithm here is a thin wrapper around a hash.Hash constructor that
// names its digests with RFC 6920 "ni" URIs (ni:///sha-256;<base64url>).
// Algorithms are constructed by name through a Registry so the configured
// list can be resolved once at startup.
package hashes
