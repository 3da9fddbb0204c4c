// Package cryptox holds the cryptographic helpers protecting local data:
// password based key derivation, AES-GCM sealing of the device configuration
// blob and of export archives, and the one-way password digest sent to the
// server.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/passy1977/pocket-web-backend/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	keySize  = 32
	saltSize = 16
)

var ErrMalformed = errors.New("malformed ciphertext")

// DeriveKey stretches password with argon2id into a 32-byte AES key.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// SHA512Hex returns the hex encoded SHA-512 digest of b.
func SHA512Hex(b []byte) string {
	sum := sha512.Sum512(b)
	return hex.EncodeToString(sum[:])
}

// AES seals and opens data with AES-256-GCM. Sealed output is nonce||ciphertext.
type AES struct {
	aead cipher.AEAD
}

// NewAES builds an AES sealer from a raw 16, 24 or 32 byte key.
func NewAES(key []byte) (*AES, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return &AES{aead: aead}, nil
}

// NewAESFromSecret derives the key from an arbitrary length secret, such as
// the device secret handed out by the server.
func NewAESFromSecret(secret string, salt []byte) (*AES, error) {
	key := DeriveKey([]byte(secret), salt)
	defer common.WipeByteArray(key)
	return NewAES(key)
}

func (a *AES) Seal(plaintext []byte) []byte {
	nonce := common.GenerateRandByteArray(a.aead.NonceSize())
	return a.aead.Seal(nonce, nonce, plaintext, nil)
}

func (a *AES) Open(sealed []byte) ([]byte, error) {
	n := a.aead.NonceSize()
	if len(sealed) < n+a.aead.Overhead() {
		return nil, ErrMalformed
	}
	plain, err := a.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, common.ErrWrongPassword
	}
	return plain, nil
}

// EncryptString seals plain and returns it base64 encoded.
func (a *AES) EncryptString(plain string) string {
	return base64.StdEncoding.EncodeToString(a.Seal([]byte(plain)))
}

func (a *AES) DecryptString(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	plain, err := a.Open(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// EncryptBlob protects plaintext with a key derived from password. The random
// salt is stored in front of the sealed data and the result is base64 encoded.
func EncryptBlob(password, plaintext []byte) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	a, err := NewAES(key)
	if err != nil {
		return "", err
	}

	out := append(salt, a.Seal(plaintext)...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptBlob reverses EncryptBlob. A wrong password yields
// common.ErrWrongPassword.
func DecryptBlob(password []byte, blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < saltSize {
		return nil, ErrMalformed
	}

	key := DeriveKey(password, raw[:saltSize])
	defer common.WipeByteArray(key)

	a, err := NewAES(key)
	if err != nil {
		return nil, err
	}
	return a.Open(raw[saltSize:])
}
