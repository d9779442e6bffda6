// Package codec implements the Web3 Secret Storage (v3) keystore JSON
// encoding: PBKDF2-HMAC-SHA256 key derivation, AES-128-CBC encryption with
// PKCS#7 padding, and a keccak256 MAC over the derived key and ciphertext.
//
// The MAC covers the derived key directly concatenated with the
// ciphertext, not the "second half of a 32-byte derived key" convention
// later clients adopted — dklen here is 16, so the derived key has no
// second half. A file written the later way will not verify against this
// package, and vice versa.
package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/pbkdf2"

	"github.com/ethkeys/keyvault/crypto/keccak256"
	rawbytes "github.com/ethkeys/keyvault/primitives/bytes"
	"github.com/ethkeys/keyvault/primitives/hash"
)

// Fixed Encrypt parameters. dklen is 16, below the 32 bytes later clients
// settled on; preserved as-is since changing it would be a wire-format
// break, not a bug fix.
const (
	dklen      = 16
	iterations = 262144
	saltSize   = 32
	ivSize     = 16

	kdfPbkdf2       = "pbkdf2"
	prfHMACSHA256   = "hmac-sha256"
	cipherAES128CBC = "aes-128-cbc"
)

// Errors returned by Decrypt.
var (
	ErrUnsupportedKdf    = errors.New("codec: unsupported kdf")
	ErrUnsupportedCipher = errors.New("codec: unsupported cipher")
	ErrMacMismatch       = errors.New("codec: mac mismatch")
	ErrMalformedJson     = errors.New("codec: malformed keystore json")
)

// cryptoJSON is the "crypto" object of a keystore v3 file.
type cryptoJSON struct {
	Cipher       string           `json:"cipher"`
	CipherText   string           `json:"ciphertext"`
	CipherParams cipherParamsJSON `json:"cipherparams"`
	KDF          string           `json:"kdf"`
	KDFParams    kdfParamsJSON    `json:"kdfparams"`
	MAC          string           `json:"mac"`
}

type cipherParamsJSON struct {
	IV string `json:"iv"`
}

type kdfParamsJSON struct {
	PRF   string `json:"prf"`
	C     int    `json:"c"`
	Salt  string `json:"salt"`
	DKLen int    `json:"dklen"`
}

// Encrypt encrypts secret under passphrase, returning the "crypto" JSON
// object (the caller embeds it in the enclosing keystore file alongside
// an id and version).
func Encrypt(secret []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return encryptWithSalt(secret, passphrase, salt, nil)
}

// encryptWithSalt is Encrypt with the salt and iv fixed by the caller,
// letting tests reproduce deterministic fixtures. iv nil means random.
func encryptWithSalt(secret []byte, passphrase string, salt []byte, iv []byte) ([]byte, error) {
	derivedKey := deriveKey(passphrase, salt, iterations, dklen)
	defer rawbytes.Zero(derivedKey)

	aesKey := deriveAESKey(derivedKey)
	defer aesKey.Zeroize()

	var ivKey hash.Hash128
	if iv == nil {
		ivBytes := make([]byte, ivSize)
		if _, err := rand.Read(ivBytes); err != nil {
			return nil, err
		}
		ivKey, _ = hash.FromBytes128(ivBytes)
	} else {
		k, err := hash.FromBytes128(iv)
		if err != nil {
			return nil, err
		}
		ivKey = k
	}

	cipherText, err := aesCBCEncrypt(aesKey.Bytes(), ivKey.Bytes(), pkcs7Pad(secret, aes.BlockSize))
	if err != nil {
		return nil, err
	}

	mac := computeMAC(derivedKey, cipherText)

	out := cryptoJSON{
		Cipher:       cipherAES128CBC,
		CipherText:   hex.EncodeToString(cipherText),
		CipherParams: cipherParamsJSON{IV: ivKey.Hex()[2:]},
		KDF:          kdfPbkdf2,
		KDFParams: kdfParamsJSON{
			PRF:   prfHMACSHA256,
			C:     iterations,
			Salt:  hex.EncodeToString(salt),
			DKLen: dklen,
		},
		MAC: hex.EncodeToString(mac),
	}

	return json.Marshal(out)
}

// Decrypt decrypts a "crypto" JSON object produced by Encrypt, returning
// the original secret. Returns ErrUnsupportedKdf/ErrUnsupportedCipher for
// an unrecognized kdf/cipher, and ErrMacMismatch for a wrong passphrase or
// corrupted ciphertext.
func Decrypt(jsonText []byte, passphrase string) ([]byte, error) {
	var c cryptoJSON
	if err := json.Unmarshal(jsonText, &c); err != nil {
		return nil, ErrMalformedJson
	}

	if c.KDF != kdfPbkdf2 || c.KDFParams.PRF != prfHMACSHA256 {
		return nil, ErrUnsupportedKdf
	}

	salt, err := hex.DecodeString(c.KDFParams.Salt)
	if err != nil {
		return nil, ErrMalformedJson
	}
	cipherText, err := hex.DecodeString(c.CipherText)
	if err != nil {
		return nil, ErrMalformedJson
	}
	ivBytes, err := hex.DecodeString(c.CipherParams.IV)
	if err != nil {
		return nil, ErrMalformedJson
	}
	ivKey, err := hash.FromBytes128(ivBytes)
	if err != nil {
		return nil, ErrMalformedJson
	}
	wantMAC, err := hex.DecodeString(c.MAC)
	if err != nil {
		return nil, ErrMalformedJson
	}

	derivedKey := deriveKey(passphrase, salt, c.KDFParams.C, c.KDFParams.DKLen)
	defer rawbytes.Zero(derivedKey)

	gotMAC := computeMAC(derivedKey, cipherText)
	if !rawbytes.Equal(gotMAC, wantMAC) {
		return nil, ErrMacMismatch
	}

	if c.Cipher != cipherAES128CBC {
		return nil, ErrUnsupportedCipher
	}

	aesKey := deriveAESKey(derivedKey)
	defer aesKey.Zeroize()
	padded, err := aesCBCDecrypt(aesKey.Bytes(), ivKey.Bytes(), cipherText)
	if err != nil {
		return nil, err
	}

	return pkcs7Unpad(padded)
}

func deriveKey(passphrase string, salt []byte, c, dklen int) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, c, dklen, sha256.New)
}

// deriveAESKey computes aesKey = right128(keccak256(right-align(derivedKey, 16))).
// With dklen=16, derivedKey is already the right-aligned 16 bytes, so this
// reduces to the last 16 bytes of keccak256(derivedKey). The result is a
// Hash128 rather than a plain []byte so the caller zeroizes it the same way
// it zeroizes every other piece of key material.
func deriveAESKey(derivedKey []byte) hash.Hash128 {
	aligned := rightAlign16(derivedKey)
	defer aligned.Zeroize()
	digest := keccak256.Hash(aligned.Bytes())
	key, _ := hash.FromBytes128(digest[16:32])
	return key
}

// computeMAC computes mac = keccak256(right16(derivedKey) || cipherText).
func computeMAC(derivedKey, cipherText []byte) []byte {
	last16 := rightAlign16(derivedKey)
	defer last16.Zeroize()
	digest := keccak256.Hash(rawbytes.Concat(last16.Bytes(), cipherText))
	return digest[:]
}

// rightAlign16 returns the right-aligned (last) 16 bytes of b as a Hash128,
// zero-padding on the left if b is shorter.
func rightAlign16(b []byte) hash.Hash128 {
	var aligned []byte
	if len(b) >= 16 {
		aligned = b[len(b)-16:]
	} else {
		aligned = rawbytes.PadLeft(b, 16, 0)
	}
	key, _ := hash.FromBytes128(aligned)
	return key
}

func aesCBCEncrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)
	return ciphertext, nil
}

func aesCBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("codec: ciphertext not a multiple of the block size")
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return plaintext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("codec: empty plaintext")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) || padLen > aes.BlockSize {
		return nil, errors.New("codec: invalid padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("codec: invalid padding")
		}
	}
	return data[:len(data)-padLen], nil
}
