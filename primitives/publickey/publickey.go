// Package publickey provides secp256k1 public key operations: parsing,
// compression/decompression, and address derivation. Signing and recovery
// require the curve context and live in crypto/curve.
package publickey

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethkeys/keyvault/crypto/keccak256"
	"github.com/ethkeys/keyvault/primitives/address"
	"github.com/ethkeys/keyvault/primitives/hex"
)

// secp256k1 curve parameters (y^2 = x^3 + 7 over Fp).
var (
	secp256k1P, _  = new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	secp256k1B     = big.NewInt(7)
	secp256k1Three = big.NewInt(3)
)

// Errors returned by PublicKey construction.
var (
	ErrInvalidLength = errors.New("publickey: invalid length")
	ErrInvalidPrefix = errors.New("publickey: invalid prefix")
	ErrInvalidPoint  = errors.New("publickey: point not on curve")
	ErrInvalidHex    = errors.New("publickey: invalid hex")
)

// PublicKey represents a secp256k1 public key. Internally it always stores
// the 65-byte uncompressed form (0x04 || X || Y).
type PublicKey struct {
	bytes [65]byte
}

// FromBytes creates a PublicKey from bytes.
// Accepts 33 (compressed), 64 (uncompressed no prefix), or 65 (uncompressed with prefix) bytes.
func FromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey

	switch len(b) {
	case 33:
		if b[0] != 0x02 && b[0] != 0x03 {
			return pk, ErrInvalidPrefix
		}
		x := new(big.Int).SetBytes(b[1:33])
		y, err := decompressY(x, b[0] == 0x03)
		if err != nil {
			return pk, err
		}
		pk.bytes[0] = 0x04
		copy(pk.bytes[1:33], padTo32(x.Bytes()))
		copy(pk.bytes[33:65], padTo32(y.Bytes()))

	case 64:
		pk.bytes[0] = 0x04
		copy(pk.bytes[1:], b)

	case 65:
		if b[0] != 0x04 {
			return pk, ErrInvalidPrefix
		}
		copy(pk.bytes[:], b)

	default:
		return pk, ErrInvalidLength
	}

	if !pk.IsValid() {
		return PublicKey{}, ErrInvalidPoint
	}

	return pk, nil
}

// FromHex creates a PublicKey from a hex string.
// Accepts both "0x" prefixed and raw hex strings.
func FromHex(s string) (PublicKey, error) {
	b, err := hex.Decode(s)
	if err != nil {
		return PublicKey{}, ErrInvalidHex
	}
	return FromBytes(b)
}

// MustFromHex creates a PublicKey from a hex string, panicking on error.
func MustFromHex(s string) PublicKey {
	pk, err := FromHex(s)
	if err != nil {
		panic(fmt.Sprintf("publickey.MustFromHex: %v", err))
	}
	return pk
}

// Bytes returns the 65-byte uncompressed format (04 || X || Y).
func (pk PublicKey) Bytes() []byte {
	result := make([]byte, 65)
	copy(result, pk.bytes[:])
	return result
}

// BytesUncompressed returns the 64-byte format (X || Y), the spec's "Public".
func (pk PublicKey) BytesUncompressed() []byte {
	result := make([]byte, 64)
	copy(result, pk.bytes[1:65])
	return result
}

// BytesCompressed returns the 33-byte compressed format (02/03 || X), the
// spec's "PublicCompressed".
func (pk PublicKey) BytesCompressed() []byte {
	result := make([]byte, 33)

	y := new(big.Int).SetBytes(pk.bytes[33:65])
	if y.Bit(0) == 0 {
		result[0] = 0x02
	} else {
		result[0] = 0x03
	}

	copy(result[1:], pk.bytes[1:33])
	return result
}

// Hex returns the uncompressed hex representation with 0x prefix (130 chars).
func (pk PublicKey) Hex() string {
	return hex.Encode(pk.bytes[:])
}

// HexCompressed returns the compressed hex representation with 0x prefix (68 chars).
func (pk PublicKey) HexCompressed() string {
	return hex.Encode(pk.BytesCompressed())
}

// Address derives the Ethereum address from this public key:
// right160(keccak256(X||Y)).
func (pk PublicKey) Address() address.Address {
	digest := keccak256.Sum256(pk.bytes[1:65])
	var addr address.Address
	copy(addr[:], digest[12:32])
	return addr
}

// IsValid returns true if the public key point is on the secp256k1 curve.
func (pk PublicKey) IsValid() bool {
	x := new(big.Int).SetBytes(pk.bytes[1:33])
	y := new(big.Int).SetBytes(pk.bytes[33:65])

	if x.Sign() <= 0 || x.Cmp(secp256k1P) >= 0 {
		return false
	}
	if y.Sign() <= 0 || y.Cmp(secp256k1P) >= 0 {
		return false
	}

	return isOnCurve(x, y)
}

// Equal returns true if this public key equals another (constant-time).
func (pk PublicKey) Equal(other PublicKey) bool {
	var result byte
	for i := 0; i < 65; i++ {
		result |= pk.bytes[i] ^ other.bytes[i]
	}
	return result == 0
}

// String returns the compressed hex representation.
func (pk PublicKey) String() string {
	return pk.HexCompressed()
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.HexCompressed()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + pk.HexCompressed() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return ErrInvalidHex
	}
	return pk.UnmarshalText(data[1 : len(data)-1])
}

// decompressY computes Y from X and parity for secp256k1: y^2 = x^3 + 7 (mod p).
func decompressY(x *big.Int, oddY bool) (*big.Int, error) {
	if x.Cmp(secp256k1P) >= 0 {
		return nil, ErrInvalidPoint
	}

	x3 := new(big.Int).Exp(x, secp256k1Three, secp256k1P)
	y2 := new(big.Int).Add(x3, secp256k1B)
	y2.Mod(y2, secp256k1P)

	// p ≡ 3 (mod 4) for secp256k1, so sqrt(a) = a^((p+1)/4) mod p.
	exp := new(big.Int).Add(secp256k1P, big.NewInt(1))
	exp.Div(exp, big.NewInt(4))
	y := new(big.Int).Exp(y2, exp, secp256k1P)

	ySquared := new(big.Int).Mul(y, y)
	ySquared.Mod(ySquared, secp256k1P)
	if ySquared.Cmp(y2) != 0 {
		return nil, ErrInvalidPoint
	}

	if oddY != (y.Bit(0) == 1) {
		y.Sub(secp256k1P, y)
	}

	return y, nil
}

// isOnCurve checks if (x, y) is on secp256k1: y^2 = x^3 + 7 (mod p).
func isOnCurve(x, y *big.Int) bool {
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, secp256k1P)

	x3 := new(big.Int).Exp(x, secp256k1Three, secp256k1P)
	x3Plus7 := new(big.Int).Add(x3, secp256k1B)
	x3Plus7.Mod(x3Plus7, secp256k1P)

	return y2.Cmp(x3Plus7) == 0
}

// padTo32 pads a byte slice to 32 bytes (left-pad with zeros).
func padTo32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	result := make([]byte, 32)
	copy(result[32-len(b):], b)
	return result
}
