// Package crypt seals small payloads with AES-256-GCM. Output is one
// base64url string carrying the nonce and the authenticated
// ciphertext, so it can sit in a cookie, a DB column, or a file on
// disk without further framing.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/villageangel/config"
)

// ErrDecrypt covers every decode, authentication or padding failure.
// Callers get no detail beyond it; distinguishing tampered input from
// a wrong key helps nobody but an attacker.
var ErrDecrypt = errors.New("crypt: decryption failed")

// aead builds the AES-256-GCM primitive from APP_KEY, falling back to
// the access-token secret so development needs one secret total. The
// key is derived per call because config can reload under tests.
func aead() (cipher.AEAD, error) {
	secret := config.Get("APP_KEY", config.AccessTokenSecret())
	if secret == "" {
		return nil, errors.New("crypt: APP_KEY not configured")
	}

	sum := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals a string.
func Encrypt(plaintext string) (string, error) {
	return EncryptBytes([]byte(plaintext))
}

// EncryptBytes seals raw bytes into base64url(nonce || ciphertext || tag).
func EncryptBytes(data []byte) (string, error) {
	gcm, err := aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a string sealed by Encrypt.
func Decrypt(encoded string) (string, error) {
	raw, err := DecryptBytes(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecryptBytes opens a sealed payload, verifying its authentication tag.
func DecryptBytes(encoded string) ([]byte, error) {
	gcm, err := aead()
	if err != nil {
		return nil, err
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil || len(data) < gcm.NonceSize() {
		return nil, ErrDecrypt
	}

	plain, err := gcm.Open(nil, data[:gcm.NonceSize()], data[gcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// EncryptJSON seals v's JSON encoding.
func EncryptJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("crypt: marshal: %w", err)
	}
	return EncryptBytes(raw)
}

// DecryptJSON opens a sealed payload and decodes it into dest.
func DecryptJSON(encoded string, dest interface{}) error {
	raw, err := DecryptBytes(encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("crypt: unmarshal: %w", err)
	}
	return nil
}

// Hash returns the SHA-256 hex digest of input.
func Hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
