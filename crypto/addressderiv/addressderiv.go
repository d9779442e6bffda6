// Package addressderiv derives Ethereum addresses from public keys, secrets,
// and the CREATE (sender, nonce) rule. It sits above crypto/curve,
// crypto/keccak256, and primitives/rlp, none of which primitives/address
// itself needs for parsing and formatting a fixed-width value.
package addressderiv

import (
	"errors"

	"github.com/ethkeys/keyvault/crypto/curve"
	"github.com/ethkeys/keyvault/crypto/keccak256"
	"github.com/ethkeys/keyvault/primitives/address"
	"github.com/ethkeys/keyvault/primitives/bigint"
	"github.com/ethkeys/keyvault/primitives/publickey"
	"github.com/ethkeys/keyvault/primitives/rlp"
	"github.com/ethkeys/keyvault/primitives/secret"
)

// ErrInvalidSecret is returned when FromSecret is given a secret outside (0, n).
var ErrInvalidSecret = errors.New("addressderiv: secret is zero or >= n")

// FromPublicKey derives the Ethereum address of a public key:
// right160(keccak256(X||Y)). This is a thin alias over PublicKey.Address,
// named to match the component this package implements.
func FromPublicKey(pub publickey.PublicKey) address.Address {
	return pub.Address()
}

// FromSecret derives the Ethereum address controlled by a secret:
// toAddress(toPublic(secret)).
func FromSecret(s secret.Secret) (address.Address, error) {
	pub, err := curve.ToPublic(s)
	if err != nil {
		return address.Address{}, ErrInvalidSecret
	}
	return pub.Address(), nil
}

// ContractAddress computes the CREATE contract address: the address a
// contract deployed by sender at the given nonce would receive.
//
//	address = right160(keccak256(RLP([sender, nonce])))
//
// nonce is RLP-encoded as a big-endian integer with no leading zero bytes;
// a nonce of zero becomes the empty byte string, per RLP's convention for
// the integer zero.
func ContractAddress(sender address.Address, nonce bigint.BigInt256) (address.Address, error) {
	encoded, err := rlp.EncodeList([]interface{}{
		sender.Bytes(),
		nonce.TrimmedBytes(),
	})
	if err != nil {
		return address.Address{}, err
	}

	digest := keccak256.Hash(encoded)
	var addr address.Address
	copy(addr[:], digest[12:32])
	return addr, nil
}
