package cryptoenv

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/vvwio/vvw/models"
)

// hkdfInfo is the domain-separation string spec.md §4.5/§9 recommends in
// place of the source's ad-hoc repeated-hash KDF.
const hkdfInfo = "vvw-key-derivation"

const (
	ephemeralPubLen = 32
	keyNonceLen     = 24
	wrappedKeyLen   = 32 + 16 // content key + AEAD tag
	recipientBlockLen = ephemeralPubLen + keyNonceLen + wrappedKeyLen

	contentKeyLen   = 32
	payloadNonceLen = 24
)

func deriveKEK(sharedSecret []byte) ([]byte, error) {
	kdf := hkdf.New(sha256.New, sharedSecret, nil, []byte(hkdfInfo))
	kek := make([]byte, keyLen)
	if _, err := io.ReadFull(kdf, kek); err != nil {
		return nil, fmt.Errorf("cryptoenv: hkdf: %w", err)
	}
	return kek, nil
}

func newXChaCha(key []byte) (cipher.AEAD, error) {
	return chacha20poly1305.NewX(key)
}

// EncryptAsymmetric wraps plaintext under a fresh content key K, itself
// wrapped once per recipient via X25519 ECDH + HKDF-SHA256 +
// XChaCha20-Poly1305, per spec.md §4.5.
func EncryptAsymmetric(plaintext []byte, recipients [][32]byte) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient is required", models.ErrInvalidParameter)
	}

	contentKey := make([]byte, contentKeyLen)
	if _, err := io.ReadFull(rand.Reader, contentKey); err != nil {
		return nil, fmt.Errorf("cryptoenv: read content key: %w", err)
	}

	out := make([]byte, 0, 1+len(recipients)*recipientBlockLen+payloadNonceLen+len(plaintext)+16)
	out = append(out, byte(len(recipients)))

	for _, rcptPub := range recipients {
		var ephPriv, ephPub [32]byte
		if _, err := io.ReadFull(rand.Reader, ephPriv[:]); err != nil {
			return nil, fmt.Errorf("cryptoenv: read ephemeral key: %w", err)
		}
		ephPriv[0] &= 248
		ephPriv[31] &= 127
		ephPriv[31] |= 64
		curve25519.ScalarBaseMult(&ephPub, &ephPriv)

		shared, err := curve25519.X25519(ephPriv[:], rcptPub[:])
		if err != nil {
			return nil, fmt.Errorf("cryptoenv: X25519: %w", err)
		}

		kek, err := deriveKEK(shared)
		if err != nil {
			return nil, err
		}

		aead, err := newXChaCha(kek)
		if err != nil {
			return nil, fmt.Errorf("cryptoenv: init AEAD: %w", err)
		}
		keyNonce := make([]byte, keyNonceLen)
		if _, err := io.ReadFull(rand.Reader, keyNonce); err != nil {
			return nil, fmt.Errorf("cryptoenv: read key-wrap nonce: %w", err)
		}
		wrapped := aead.Seal(nil, keyNonce, contentKey, nil)

		out = append(out, ephPub[:]...)
		out = append(out, keyNonce...)
		out = append(out, wrapped...)
	}

	payloadAEAD, err := newXChaCha(contentKey)
	if err != nil {
		return nil, fmt.Errorf("cryptoenv: init payload AEAD: %w", err)
	}
	payloadNonce := make([]byte, payloadNonceLen)
	if _, err := io.ReadFull(rand.Reader, payloadNonce); err != nil {
		return nil, fmt.Errorf("cryptoenv: read payload nonce: %w", err)
	}
	ciphertext := payloadAEAD.Seal(nil, payloadNonce, plaintext, nil)

	out = append(out, payloadNonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// DecryptAsymmetric iterates recipient blocks attempting to recover the
// content key with priv's kex material; the first success decrypts the
// payload. Failure across every block yields ErrDecryptionFailed (the
// spec's NotARecipient case), consistent with §7's decrypt error-aliasing.
func DecryptAsymmetric(envelope []byte, kexPriv [32]byte) ([]byte, error) {
	if len(envelope) < 1 {
		return nil, models.ErrDecryptionFailed
	}
	count := int(envelope[0])
	off := 1

	var contentKey []byte
	for i := 0; i < count; i++ {
		if off+recipientBlockLen > len(envelope) {
			return nil, models.ErrDecryptionFailed
		}
		block := envelope[off : off+recipientBlockLen]
		off += recipientBlockLen

		ephPub := block[0:ephemeralPubLen]
		keyNonce := block[ephemeralPubLen : ephemeralPubLen+keyNonceLen]
		wrapped := block[ephemeralPubLen+keyNonceLen:]

		shared, err := curve25519.X25519(kexPriv[:], ephPub)
		if err != nil {
			continue
		}
		kek, err := deriveKEK(shared)
		if err != nil {
			continue
		}
		aead, err := newXChaCha(kek)
		if err != nil {
			continue
		}
		key, err := aead.Open(nil, keyNonce, wrapped, nil)
		if err != nil {
			continue
		}
		contentKey = key
		break
	}

	if contentKey == nil {
		return nil, models.ErrDecryptionFailed
	}

	if off+payloadNonceLen > len(envelope) {
		return nil, models.ErrDecryptionFailed
	}
	payloadNonce := envelope[off : off+payloadNonceLen]
	ciphertext := envelope[off+payloadNonceLen:]

	payloadAEAD, err := newXChaCha(contentKey)
	if err != nil {
		return nil, models.ErrDecryptionFailed
	}
	plaintext, err := payloadAEAD.Open(nil, payloadNonce, ciphertext, nil)
	if err != nil {
		return nil, models.ErrDecryptionFailed
	}
	return plaintext, nil
}
