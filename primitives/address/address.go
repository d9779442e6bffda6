// Package address provides the 20-byte Ethereum address container and its
// EIP-55 checksum text form. Deriving an address from a key or from a
// (sender, nonce) pair lives in crypto/addressderiv, which needs Keccak-256
// and RLP and would otherwise make this package depend on them for no
// reason when it is just parsing/formatting a fixed-width value.
package address

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethkeys/keyvault/crypto/keccak256"
)

// Size is the size of an Ethereum address in bytes.
const Size = 20

// Errors returned by Address construction.
var (
	ErrInvalidHex    = errors.New("address: invalid hex string")
	ErrInvalidLength = errors.New("address: invalid length")
)

// Address represents a 20-byte Ethereum address.
type Address [Size]byte

// Zero is the zero address.
var Zero Address

// FromHex creates an Address from a hex string.
// Accepts both "0x" prefixed and raw hex strings, in any case.
func FromHex(s string) (Address, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) != Size*2 {
		return Address{}, ErrInvalidLength
	}
	var addr Address
	if _, err := hex.Decode(addr[:], []byte(s)); err != nil {
		return Address{}, ErrInvalidHex
	}
	return addr, nil
}

// FromBytes creates an Address from a byte slice.
// Returns an error if the slice is not exactly 20 bytes.
func FromBytes(b []byte) (Address, error) {
	if len(b) != Size {
		return Address{}, ErrInvalidLength
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// MustFromHex creates an Address from a hex string, panicking on error.
func MustFromHex(s string) Address {
	addr, err := FromHex(s)
	if err != nil {
		panic(fmt.Sprintf("address.MustFromHex: %v", err))
	}
	return addr
}

// Hex returns the lowercase hex representation with 0x prefix.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ChecksumHex returns the EIP-55 checksummed hex representation.
func (a Address) ChecksumHex() string {
	lower := hex.EncodeToString(a[:])
	digest := keccak256.HashString(lower)

	var sb strings.Builder
	sb.WriteString("0x")
	for i, c := range lower {
		if c >= '0' && c <= '9' {
			sb.WriteRune(c)
			continue
		}
		// One hex nibble of the address per character; use the matching
		// nibble of keccak256(lowercaseHex) to pick the case.
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			sb.WriteRune(c - 32) // uppercase
		} else {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero returns true if this is the zero address.
func (a Address) IsZero() bool {
	return a == Zero
}

// Equal returns true if the addresses are equal.
func (a Address) Equal(other Address) bool {
	return a == other
}

// Compare compares two addresses lexicographically.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// String returns the checksummed hex representation.
func (a Address) String() string {
	return a.ChecksumHex()
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.ChecksumHex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	addr, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.ChecksumHex() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return ErrInvalidHex
	}
	return a.UnmarshalText(data[1 : len(data)-1])
}

// ValidateChecksum validates that a hex string has a valid EIP-55 checksum.
func ValidateChecksum(s string) bool {
	if len(s) < 2 || s[0] != '0' || s[1] != 'x' {
		return false
	}
	addr, err := FromHex(s)
	if err != nil {
		return false
	}
	return addr.ChecksumHex() == s
}
