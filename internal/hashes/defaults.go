package hashes

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// RegisterDefaults registers all built-in algorithms with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("md5", simple("md5", "md5", md5.New))
	r.Register("sha1", simple("sha1", "sha-1", sha1.New))
	r.Register("sha256", simple("sha256", "sha-256", sha256.New))
	r.Register("sha512", simple("sha512", "sha-512", sha512.New))
	r.Register("sha3-256", simple("sha3-256", "sha3-256", func() hash.Hash { return sha3.New256() }))
	r.Register("blake3", simple("blake3", "blake3", func() hash.Hash { return blake3.New() }))
	r.Register("blake2b-256", buildBlake2b)
}

func simple(id, niName string, newFn func() hash.Hash) BuilderFunc {
	return func() (driven.HashAlgorithm, error) {
		return New(domain.HashID(id), niName, newFn), nil
	}
}

// buildBlake2b creates an unkeyed BLAKE2b-256 algorithm.
func buildBlake2b() (driven.HashAlgorithm, error) {
	if _, err := blake2b.New256(nil); err != nil {
		return nil, err
	}
	return New("blake2b-256", "blake2b-256", func() hash.Hash {
		// Unkeyed construction cannot fail.
		h, _ := blake2b.New256(nil)
		return h
	}), nil
}
