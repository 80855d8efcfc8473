package utils

import (
	"crypto/aes"    // Block cipher
	"crypto/cipher" // GCM mode
	"crypto/rand"   // Nonce generation
	"crypto/sha256" // Key derivation
	"encoding/base64"
	"errors"
	"io"
)

// ErrInvalidCiphertext is returned when decryption input is malformed or
// has been tampered with
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// newGCM derives a 32-byte key from the application secret via SHA-256 and
// returns an AES-256-GCM cipher over it
func newGCM(secret string) (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptData encrypts sensitive string data (card PAN, CVV) and returns it
// base64-encoded with the nonce prepended
func EncryptData(plaintext, secret string) (string, error) {
	gcm, err := newGCM(secret)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptData reverses EncryptData. Tampered or truncated input fails with
// ErrInvalidCiphertext.
func DecryptData(encrypted, secret string) (string, error) {
	gcm, err := newGCM(secret)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(raw) < gcm.NonceSize() {
		return "", ErrInvalidCiphertext
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(plaintext), nil
}
