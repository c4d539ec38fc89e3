// Package file provides the file-backed configuration store.
//
// Settings live in a TOML file, ~/.sercha-inspect/config.toml by default.
// Tables are flattened into dot-separated keys on load ([analysis]
// max_depth becomes "analysis.max_depth") and nested again on save.
package file
