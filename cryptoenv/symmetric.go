/*
Package cryptoenv implements the two confidentiality envelopes
(passphrase-derived symmetric, and multi-recipient hybrid asymmetric) plus
detached Ed25519 signatures, per spec.md §4.4-§4.6. It leans on
golang.org/x/crypto the way the pack's own crypto files do
(floegence-flowersec's AEAD record framing, faanross-simulacra_txt's and
kbdharun-age's key-derivation-then-AEAD shape) rather than the teacher's
own XOR "Vigenère cipher" placeholder in service/cryptography_service.go,
which this spec's confidentiality requirements cannot be satisfied by.
*/
package cryptoenv

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/vvwio/vvw/models"
)

const (
	defaultSaltLen = 16
	keyLen         = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// deriveKey runs Argon2id over (passphrase, salt) with the library's
// default-shaped parameters and returns the first 32 bytes as the AEAD
// key, per spec.md §4.4.
func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)
}

// EncryptSymmetric wraps plaintext under a key derived from passphrase,
// emitting salt_len(1) || salt || nonce(12) || ciphertext || tag(16).
func EncryptSymmetric(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, defaultSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("cryptoenv: read salt: %w", err)
	}

	key := deriveKey(passphrase, salt)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoenv: init AEAD: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptoenv: read nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, 1+len(salt)+len(nonce)+len(ciphertext))
	out = append(out, byte(len(salt)))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// DecryptSymmetric reverses EncryptSymmetric. Wrong passphrase, tampered
// ciphertext, and truncated input all collapse to the single opaque
// ErrDecryptionFailed, per spec.md §4.4 and §7's error-aliasing policy.
func DecryptSymmetric(envelope []byte, passphrase string) ([]byte, error) {
	if len(envelope) < 1 {
		return nil, models.ErrDecryptionFailed
	}
	saltLen := int(envelope[0])
	if len(envelope) < 1+saltLen+chacha20poly1305.NonceSize {
		return nil, models.ErrDecryptionFailed
	}

	salt := envelope[1 : 1+saltLen]
	nonceStart := 1 + saltLen
	nonce := envelope[nonceStart : nonceStart+chacha20poly1305.NonceSize]
	ciphertext := envelope[nonceStart+chacha20poly1305.NonceSize:]

	key := deriveKey(passphrase, salt)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, models.ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, models.ErrDecryptionFailed
	}
	return plaintext, nil
}
