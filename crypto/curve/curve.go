// Package curve implements the secp256k1 signing/recovery/verification
// layer: public key derivation, recoverable ECDSA signing with low-S
// normalization, signature recovery, and verification.
//
// The secp256k1 context is process-wide immutable state once created; the
// decred library this package wraps needs no explicit init/teardown call
// (unlike a libsecp256k1 FFI context), so there is no Close/teardown API —
// the "context" referred to in the design is simply this package's pure
// functions over immutable curve parameters.
package curve

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ethkeys/keyvault/primitives/bigint"
	"github.com/ethkeys/keyvault/primitives/hash"
	"github.com/ethkeys/keyvault/primitives/publickey"
	"github.com/ethkeys/keyvault/primitives/secret"
	"github.com/ethkeys/keyvault/primitives/signature"
)

// Errors returned by curve operations. Per the design's sentinel-value
// propagation policy these are also reflected as an empty/zero return
// value — callers may check either the error or the zero value.
var (
	ErrInvalidSecret    = errors.New("curve: secret is zero or >= n")
	ErrInvalidPoint     = errors.New("curve: public key bytes do not parse")
	ErrInvalidSignature = errors.New("curve: signature recovery id > 3 or unrecoverable")
)

// ToPublic derives the uncompressed public key (64 bytes, X||Y without the
// 0x04 prefix) from a secret. Fails if the secret is not in (0, n).
func ToPublic(s secret.Secret) (publickey.PublicKey, error) {
	if !s.IsValid() {
		return publickey.PublicKey{}, ErrInvalidSecret
	}
	priv := secp256k1.PrivKeyFromBytes(s.Bytes())
	defer priv.Zero()
	uncompressed := priv.PubKey().SerializeUncompressed()
	return publickey.FromBytes(uncompressed[1:])
}

// ToPublicCompressed derives the compressed public key (33 bytes,
// 0x02/0x03 || X) from a secret.
func ToPublicCompressed(s secret.Secret) ([]byte, error) {
	if !s.IsValid() {
		return nil, ErrInvalidSecret
	}
	priv := secp256k1.PrivKeyFromBytes(s.Bytes())
	defer priv.Zero()
	return priv.PubKey().SerializeCompressed(), nil
}

// DecompressPublic parses a 33-byte compressed public key into its
// uncompressed form. Fails if the bytes do not parse as a valid point.
func DecompressPublic(compressed []byte) (publickey.PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(compressed)
	if err != nil {
		return publickey.PublicKey{}, ErrInvalidPoint
	}
	return publickey.FromBytes(pub.SerializeUncompressed()[1:])
}

// Sign produces a recoverable ECDSA signature over hash with deterministic
// (RFC 6979) nonce generation, then applies low-S normalization: if
// s > n/2, s is replaced with n-s and the recovery bit of v is flipped.
// Postcondition: s <= n/2, v in {0,1}.
func Sign(s secret.Secret, h hash.Hash256) (signature.Signature, error) {
	if !s.IsValid() {
		return signature.Signature{}, ErrInvalidSecret
	}
	priv := secp256k1.PrivKeyFromBytes(s.Bytes())
	defer priv.Zero()

	// SignCompact yields [v(27/28), r, s]; the decred implementation
	// already returns the low-S form, but we re-derive and re-check
	// explicitly so the normalization invariant is this package's own
	// guarantee, not an incidental property of the dependency.
	compact := dcrecdsa.SignCompact(priv, h[:], false)

	var sig signature.Signature
	copy(sig.R[:], compact[1:33])
	copy(sig.S[:], compact[33:65])
	sig.V = compact[0] - 27

	sVal := bigint.BigInt256(sig.S)
	if sVal.Compare(bigint.HalfN) > 0 {
		sig.S = [32]byte(sVal.SubFromN())
		sig.V ^= 1
	}

	return sig, nil
}

// Recover reconstructs the public key from a signature and the hash it was
// produced over. Fails if v > 3 or the signature is mathematically
// unrecoverable.
func Recover(sig signature.Signature, h hash.Hash256) (publickey.PublicKey, error) {
	if sig.V > 3 {
		return publickey.PublicKey{}, ErrInvalidSignature
	}

	compact := make([]byte, 65)
	compact[0] = sig.V + 27
	copy(compact[1:33], sig.R[:])
	copy(compact[33:65], sig.S[:])

	pub, _, err := dcrecdsa.RecoverCompact(compact, h[:])
	if err != nil {
		return publickey.PublicKey{}, ErrInvalidSignature
	}

	return publickey.FromBytes(pub.SerializeUncompressed()[1:])
}

// Verify reports whether sig is a valid signature by pub over hash. It is
// implemented as pub == recover(sig, hash): a zero/sentinel public key
// always fails.
func Verify(pub publickey.PublicKey, sig signature.Signature, h hash.Hash256) bool {
	recovered, err := Recover(sig, h)
	if err != nil {
		return false
	}
	return pub.Equal(recovered)
}

// VerifyCompressed performs standard (non-recoverable) ECDSA verification
// of a 64-byte (r||s) signature against a compressed public key.
func VerifyCompressed(pubCompressed []byte, rs []byte, h hash.Hash256) bool {
	if len(rs) != 64 {
		return false
	}
	pub, err := secp256k1.ParsePubKey(pubCompressed)
	if err != nil {
		return false
	}

	r := new(secp256k1.ModNScalar)
	r.SetByteSlice(rs[:32])
	sVal := new(secp256k1.ModNScalar)
	sVal.SetByteSlice(rs[32:64])

	sig := dcrecdsa.NewSignature(r, sVal)
	return sig.Verify(h[:], pub)
}
