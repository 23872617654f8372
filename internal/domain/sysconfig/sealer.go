package sysconfig

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"campuscore/internal/core/apperror"
)

// Sealer encrypts configuration values at rest with XChaCha20-Poly1305.
// The sealed form is base64(nonce || ciphertext) with the config key bound
// as additional data, so a sealed value cannot be replayed under another key.
type Sealer struct {
	key []byte
}

// NewSealer creates a sealer from a 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("config encryption key must be %d bytes, got %d",
			chacha20poly1305.KeySize, len(key))
	}
	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext bound to the config key.
func (s *Sealer) Seal(configKey string, plaintext []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("init aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, []byte(configKey))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Unseal decrypts a value produced by Seal for the same config key.
func (s *Sealer) Unseal(configKey, sealed string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, apperror.NewValidation("sealed value is not valid base64").
			WithDetail("key", configKey)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}

	if len(raw) < aead.NonceSize() {
		return nil, apperror.NewValidation("sealed value too short").
			WithDetail("key", configKey)
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(configKey))
	if err != nil {
		return nil, apperror.NewValidation("sealed value failed authentication").
			WithDetail("key", configKey)
	}
	return plaintext, nil
}
