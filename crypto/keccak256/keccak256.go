// Package keccak256 provides Keccak-256 hashing — the pre-standard Keccak
// variant (not NIST SHA-3) used throughout Ethereum for address derivation
// and the keystore MAC.
package keccak256

import (
	"golang.org/x/crypto/sha3"

	"github.com/ethkeys/keyvault/primitives/hash"
)

// Hash computes the Keccak-256 hash of data.
func Hash(data []byte) hash.Hash256 {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out hash.Hash256
	copy(out[:], h.Sum(nil))
	return out
}

// Sum256 is an alias for Hash, matching the stdlib hash package naming
// convention (crypto/sha256.Sum256 etc).
func Sum256(data []byte) hash.Hash256 {
	return Hash(data)
}

// HashString computes the Keccak-256 hash of a UTF-8 string.
func HashString(s string) hash.Hash256 {
	return Hash([]byte(s))
}
