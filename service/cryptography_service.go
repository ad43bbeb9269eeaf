package service

import (
	"fmt"
	"log"

	"github.com/vvwio/vvw/cryptoenv"
	"github.com/vvwio/vvw/keys"
	"github.com/vvwio/vvw/models"
)

// cryptographyService implements the CryptographyService interface over
// package cryptoenv's AEAD envelopes and Ed25519 signatures.
type cryptographyService struct{}

// NewCryptographyService creates a new cryptography service instance
func NewCryptographyService() CryptographyService {
	return &cryptographyService{}
}

// Encrypt wraps plaintext under the envelope selected by mode. Exactly one
// of passphrase or recipients is meaningful per mode, per spec.md §3's
// sym_encrypted XOR asym_encrypted invariant.
func (c *cryptographyService) Encrypt(mode models.EncryptionMode, plaintext []byte, passphrase string, recipients [][32]byte) ([]byte, error) {
	switch mode {
	case models.EncryptionNone:
		return plaintext, nil
	case models.EncryptionSymmetric:
		if passphrase == "" {
			return nil, fmt.Errorf("%w: symmetric encryption requires a passphrase", models.ErrCryptoMissingCredential)
		}
		log.Printf("[DEBUG] Encrypt: sealing %d bytes under a passphrase-derived key", len(plaintext))
		return cryptoenv.EncryptSymmetric(plaintext, passphrase)
	case models.EncryptionAsymmetric:
		if len(recipients) == 0 {
			return nil, fmt.Errorf("%w: asymmetric encryption requires at least one recipient", models.ErrCryptoMissingCredential)
		}
		log.Printf("[DEBUG] Encrypt: sealing %d bytes for %d recipients", len(plaintext), len(recipients))
		return cryptoenv.EncryptAsymmetric(plaintext, recipients)
	default:
		return nil, fmt.Errorf("%w: unknown encryption mode", models.ErrInvalidParameter)
	}
}

// Decrypt reverses Encrypt. Wrong passphrase, wrong key, and tampering all
// collapse to ErrDecryptionFailed per spec.md §4.4/§4.5/§7.
func (c *cryptographyService) Decrypt(mode models.EncryptionMode, envelope []byte, passphrase string, priv *keys.PrivateKey) ([]byte, error) {
	switch mode {
	case models.EncryptionNone:
		return envelope, nil
	case models.EncryptionSymmetric:
		if passphrase == "" {
			return nil, fmt.Errorf("%w: decrypting a symmetric envelope requires a passphrase", models.ErrCryptoMissingCredential)
		}
		return cryptoenv.DecryptSymmetric(envelope, passphrase)
	case models.EncryptionAsymmetric:
		if priv == nil {
			return nil, fmt.Errorf("%w: decrypting an asymmetric envelope requires a private key", models.ErrCryptoMissingCredential)
		}
		return cryptoenv.DecryptAsymmetric(envelope, priv.KexPriv)
	default:
		return nil, fmt.Errorf("%w: unknown encryption mode", models.ErrInvalidParameter)
	}
}

// Sign computes a detached signature over payload.
func (c *cryptographyService) Sign(payload []byte, priv *keys.PrivateKey) []byte {
	return cryptoenv.Sign(payload, priv.SignPriv)
}

// Verify checks a detached signature against pub.
func (c *cryptographyService) Verify(payload, sig []byte, pub *keys.PublicKey) error {
	return cryptoenv.Verify(payload, sig, pub.SignPub)
}
