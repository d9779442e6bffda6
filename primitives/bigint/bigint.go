// Package bigint provides a 256-bit unsigned integer type supporting
// the comparison and subtraction-modulo-n operations needed for
// secp256k1 low-S normalization.
package bigint

import (
	"bytes"
	"math/big"

	"github.com/ethkeys/keyvault/primitives/hash"
)

// Size is the size of a BigInt256 in bytes.
const Size = 32

// BigInt256 is an unsigned 256-bit integer in big-endian byte order.
type BigInt256 [Size]byte

// Zero is the zero value.
var Zero BigInt256

// N is the secp256k1 group order:
// 0xFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141
var N = BigInt256{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
	0xba, 0xae, 0xdc, 0xe6, 0xaf, 0x48, 0xa0, 0x3b,
	0xbf, 0xd2, 0x5e, 0x8c, 0xd0, 0x36, 0x41, 0x41,
}

// HalfN is N/2 (integer division), the low-S threshold.
var HalfN = BigInt256{
	0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0x5d, 0x57, 0x6e, 0x73, 0x57, 0xa4, 0x50, 0x1d,
	0xdf, 0xe9, 0x2f, 0x46, 0x68, 0x1b, 0x20, 0xa0,
}

// FromBytes creates a BigInt256 from a big-endian byte slice, right-aligning
// (zero-padding on the left) inputs shorter than Size.
func FromBytes(b []byte) (BigInt256, error) {
	if len(b) > Size {
		return BigInt256{}, ErrInvalidLength
	}
	var v BigInt256
	copy(v[Size-len(b):], b)
	return v, nil
}

// FromHash interprets a Hash256 as a big-endian BigInt256.
func FromHash(h hash.Hash256) BigInt256 {
	return BigInt256(h)
}

// FromBigInt converts a math/big.Int, which must be non-negative and fit in 256 bits.
func FromBigInt(i *big.Int) (BigInt256, error) {
	if i == nil {
		return Zero, nil
	}
	if i.Sign() < 0 {
		return BigInt256{}, ErrNegative
	}
	if i.BitLen() > 256 {
		return BigInt256{}, ErrInvalidLength
	}
	return FromBytes(i.Bytes())
}

// Bytes returns the big-endian byte representation.
func (v BigInt256) Bytes() []byte {
	return v[:]
}

// TrimmedBytes returns the value with leading zero bytes stripped (RLP-style
// minimal integer encoding): zero trims to the empty byte string, matching
// RLP's convention that the integer 0 has no byte representation.
func (v BigInt256) TrimmedBytes() []byte {
	for i := 0; i < Size; i++ {
		if v[i] != 0 {
			return v[i:]
		}
	}
	return []byte{}
}

// BigInt returns the value as a math/big.Int.
func (v BigInt256) BigInt() *big.Int {
	return new(big.Int).SetBytes(v[:])
}

// IsZero returns true if the value is zero.
func (v BigInt256) IsZero() bool {
	return v == Zero
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than other.
func (v BigInt256) Compare(other BigInt256) int {
	return bytes.Compare(v[:], other[:])
}

// LessThan returns true if v < other.
func (v BigInt256) LessThan(other BigInt256) bool {
	return v.Compare(other) < 0
}

// InRange returns true if 0 < v < N, the validity condition for a secp256k1 scalar.
func (v BigInt256) InRange() bool {
	return !v.IsZero() && v.LessThan(N)
}

// SubFromN computes N - v using byte-wise subtraction with borrow, avoiding
// a round-trip through math/big. Used for low-S normalization: s' = N - s.
func (v BigInt256) SubFromN() BigInt256 {
	var out BigInt256
	borrow := 0
	for i := Size - 1; i >= 0; i-- {
		diff := int(N[i]) - int(v[i]) - borrow
		if diff < 0 {
			diff += 256
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = byte(diff)
	}
	return out
}
