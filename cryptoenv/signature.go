package cryptoenv

import (
	"crypto/ed25519"
	"fmt"

	"github.com/vvwio/vvw/models"
)

// Sign computes a detached Ed25519 signature over payload (which, when the
// container is also encrypted, is already ciphertext — this binds
// authorship to ciphertext, not plaintext, per spec.md §4.6/§9).
func Sign(payload []byte, priv ed25519.PrivateKey) []byte {
	return ed25519.Sign(priv, payload)
}

// Verify checks a detached signature. Any mismatch — wrong key, wrong
// message, truncated signature — returns ErrSignatureInvalid.
func Verify(payload []byte, sig []byte, pub ed25519.PublicKey) error {
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: signature is %d bytes, want %d", models.ErrSignatureInvalid, len(sig), ed25519.SignatureSize)
	}
	if !ed25519.Verify(pub, payload, sig) {
		return models.ErrSignatureInvalid
	}
	return nil
}
