package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/dmitrijs2005/datavault/internal/common"
)

// Sealer is the encryption service contract: Open(Seal(p)) must return p.
// Open failures must wrap common.ErrorEncryption.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(ciphertext []byte) ([]byte, error)
}

// AESSealer seals payloads with AES-GCM. The output layout is nonce||ciphertext,
// a fresh random nonce is drawn for every call.
type AESSealer struct {
	aead cipher.AEAD
}

// NewAESSealer builds a sealer from a raw AES key (16, 24 or 32 bytes).
func NewAESSealer(key []byte) (*AESSealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &AESSealer{aead: aead}, nil
}

// NewAESSealerFromPassphrase derives an AES-256 key from passphrase and salt
// with DeriveMasterKey and builds a sealer from it.
func NewAESSealerFromPassphrase(passphrase, salt []byte) (*AESSealer, error) {
	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)
	return NewAESSealer(key)
}

// Seal encrypts plaintext.
func (s *AESSealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", common.ErrorEncryption, err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a value produced by Seal. Tampered, truncated or foreign
// ciphertexts fail with common.ErrorEncryption.
func (s *AESSealer) Open(ciphertext []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(ciphertext) < ns+s.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", common.ErrorEncryption)
	}
	plaintext, err := s.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorEncryption, err)
	}
	return plaintext, nil
}
