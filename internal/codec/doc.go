// Package codec is the CBOR codec shared by the cbor format descriptor and
// the --output cbor report encoder.
//
// Encoding is Core Deterministic (RFC 8949 §4.2): identical reports produce
// identical bytes, so encoded graphs can themselves be hashed and compared.
// Decoding into an any target yields map[string]any for maps, matching what
// the JSON, YAML and TOML descriptors produce.
package codec
