// Package cryptox implements key derivation and the symmetric encryption
// service used to protect vault payloads at rest.
package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length in bytes of keys produced by DeriveMasterKey (AES-256).
const KeySize = 32

// MakeVerifier returns a SHA-256 digest of masterKey, suitable for storing
// instead of the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches password with salt using Argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}
