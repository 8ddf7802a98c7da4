// internal/prefs/secure.go
//
// Secure-mode sealing for preference values.
// Responsibilities:
//   - Derive an encryption key and a naming key from one secret (HKDF-SHA256).
//   - Hide key names behind a truncated HMAC, prefixed with "~".
//   - Encrypt values with XChaCha20-Poly1305, bound to their stored name.

package prefs

import (
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// securePrefix marks hashed key names. Plain keys starting with it are
// reserved and never stored.
const securePrefix = "~"

// sealer encrypts values with XChaCha20-Poly1305 and hides key names behind an HMAC.
// The encryption and naming keys are both derived from one secret.
type sealer struct {
	aead    cipher.AEAD
	nameKey []byte
	random  io.Reader // nonce source
}

func newSealer(secret string) (*sealer, error) {
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("gameprogress prefs v1"))
	material := make([]byte, chacha20poly1305.KeySize+32)
	if _, err := io.ReadFull(kdf, material); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(material[:chacha20poly1305.KeySize])
	if err != nil {
		return nil, err
	}
	return &sealer{aead: aead, nameKey: material[chacha20poly1305.KeySize:], random: rand.Reader}, nil
}

func (s *sealer) name(key string) string {
	h := hmac.New(sha256.New, s.nameKey)
	h.Write([]byte(key))
	return securePrefix + hex.EncodeToString(h.Sum(nil)[:16])
}

// seal binds the ciphertext to its stored name, so values cannot be swapped between keys.
// It panics when no nonce can be drawn; a zero nonce would repeat across writes.
func (s *sealer) seal(name, plain string) string {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := io.ReadFull(s.random, nonce); err != nil {
		panic(fmt.Errorf("secure prefs: read nonce: %w", err))
	}
	out := s.aead.Seal(nonce, nonce, []byte(plain), []byte(name))
	return base64.RawURLEncoding.EncodeToString(out)
}

func (s *sealer) open(name, stored string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(stored)
	if err != nil {
		return "", err
	}
	if len(raw) < s.aead.NonceSize() {
		return "", errors.New("secure pref too short")
	}
	nonce, body := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, body, []byte(name))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
