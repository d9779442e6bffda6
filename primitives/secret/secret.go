// Package secret provides the 32-byte secp256k1 scalar private key type.
//
// Deriving a public key, signing, and recovering all require the curve
// context and live in crypto/curve; this package only owns the value's
// representation, validity range, and its zeroization on disposal.
package secret

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethkeys/keyvault/primitives/bigint"
)

// Size is the size of a Secret in bytes.
const Size = 32

// Errors returned by Secret construction.
var (
	ErrInvalidLength = errors.New("secret: must be 32 bytes")
	ErrInvalidHex    = errors.New("secret: invalid hex string")
	ErrOutOfRange    = errors.New("secret: must satisfy 0 < secret < n")
)

// Secret is a 32-byte secp256k1 scalar private key. The zero value is
// invalid; a valid Secret always satisfies 0 < Secret < bigint.N.
type Secret [Size]byte

// Generate returns a new Secret drawn from a CSPRNG, resampling on the
// rare draw that falls outside (0, n).
func Generate() (Secret, error) {
	var s Secret
	for {
		if _, err := rand.Read(s[:]); err != nil {
			return Secret{}, err
		}
		if s.IsValid() {
			return s, nil
		}
	}
}

// FromHex parses a Secret from a hex string, rejecting out-of-range values.
func FromHex(s string) (Secret, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) != Size*2 {
		return Secret{}, ErrInvalidLength
	}
	var sec Secret
	if _, err := hex.Decode(sec[:], []byte(s)); err != nil {
		return Secret{}, ErrInvalidHex
	}
	if !sec.IsValid() {
		return Secret{}, ErrOutOfRange
	}
	return sec, nil
}

// FromBytes builds a Secret from raw bytes, rejecting out-of-range values.
func FromBytes(b []byte) (Secret, error) {
	if len(b) != Size {
		return Secret{}, ErrInvalidLength
	}
	var sec Secret
	copy(sec[:], b)
	if !sec.IsValid() {
		return Secret{}, ErrOutOfRange
	}
	return sec, nil
}

// MustFromHex parses a Secret from hex, panicking on error.
func MustFromHex(s string) Secret {
	sec, err := FromHex(s)
	if err != nil {
		panic(fmt.Sprintf("secret.MustFromHex: %v", err))
	}
	return sec
}

// Hex returns the lowercase hex representation with 0x prefix.
// WARNING: exposes sensitive key material.
func (s Secret) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// Bytes returns the secret as a byte slice sharing the underlying array.
func (s *Secret) Bytes() []byte {
	return s[:]
}

// IsValid reports whether the scalar satisfies 0 < Secret < n.
func (s Secret) IsValid() bool {
	return bigint.BigInt256(s).InRange()
}

// Zeroize overwrites the secret with zeros in place. Must be called on
// every exit path once a Secret is no longer needed.
func (s *Secret) Zeroize() {
	for i := range s {
		s[i] = 0
	}
}
