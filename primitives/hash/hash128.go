package hash

import (
	"bytes"
	"encoding/hex"
)

// Size128 is the size of a Hash128 in bytes.
const Size128 = 16

// Hash128 represents a 16-byte hash/key-material value (e.g. the
// keystore's derived AES key or IV).
type Hash128 [Size128]byte

// Zero128 is the zero Hash128.
var Zero128 Hash128

// FromBytes128 creates a Hash128 from a byte slice.
func FromBytes128(b []byte) (Hash128, error) {
	if len(b) != Size128 {
		return Hash128{}, ErrInvalidLength
	}
	var h Hash128
	copy(h[:], b)
	return h, nil
}

// FromHex128 creates a Hash128 from a hex string.
func FromHex128(s string) (Hash128, error) {
	b, err := decodeFixed(s, Size128)
	if err != nil {
		return Hash128{}, err
	}
	var h Hash128
	copy(h[:], b)
	return h, nil
}

// Hex returns the hex representation with 0x prefix.
func (h Hash128) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Bytes returns the value as a byte slice.
func (h Hash128) Bytes() []byte {
	return h[:]
}

// IsZero returns true if this is the zero value.
func (h Hash128) IsZero() bool {
	return h == Zero128
}

// Equal returns true if the values are equal.
func (h Hash128) Equal(other Hash128) bool {
	return h == other
}

// Compare compares two values lexicographically.
func (h Hash128) Compare(other Hash128) int {
	return bytes.Compare(h[:], other[:])
}

// String returns the hex representation.
func (h Hash128) String() string {
	return h.Hex()
}

// Zeroize overwrites the value with zeros in place. Used for key
// material (derived AES keys) that must not linger in memory.
func (h *Hash128) Zeroize() {
	for i := range h {
		h[i] = 0
	}
}
