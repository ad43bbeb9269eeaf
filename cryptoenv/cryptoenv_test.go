package cryptoenv

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"testing"

	"golang.org/x/crypto/curve25519"
)

func TestSymmetricRoundTrip(t *testing.T) {
	plaintext := []byte("Secret message")
	envelope, err := EncryptSymmetric(plaintext, "puzzle123")
	if err != nil {
		t.Fatalf("EncryptSymmetric: %v", err)
	}

	got, err := DecryptSymmetric(envelope, "puzzle123")
	if err != nil {
		t.Fatalf("DecryptSymmetric: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("got %q, want %q", got, plaintext)
	}
}

func TestSymmetricWrongPassphraseFails(t *testing.T) {
	envelope, err := EncryptSymmetric([]byte("Secret message"), "puzzle123")
	if err != nil {
		t.Fatalf("EncryptSymmetric: %v", err)
	}
	if _, err := DecryptSymmetric(envelope, "wrong-passphrase"); err == nil {
		t.Fatal("expected DecryptionFailed with wrong passphrase")
	}
}

func TestSymmetricTamperedCiphertextFails(t *testing.T) {
	envelope, err := EncryptSymmetric([]byte("Secret message"), "puzzle123")
	if err != nil {
		t.Fatalf("EncryptSymmetric: %v", err)
	}
	envelope[len(envelope)-1] ^= 0xFF
	if _, err := DecryptSymmetric(envelope, "puzzle123"); err == nil {
		t.Fatal("expected DecryptionFailed on tampered ciphertext")
	}
}

func genKexPub() ([32]byte, [32]byte) {
	var priv, pub [32]byte
	io.ReadFull(rand.Reader, priv[:])
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64
	curve25519.ScalarBaseMult(&pub, &priv)
	return priv, pub
}

func TestAsymmetricMultiRecipientRoundTrip(t *testing.T) {
	priv1, pub1 := genKexPub()
	priv2, pub2 := genKexPub()
	priv3, pub3 := genKexPub()

	plaintext := []byte("Multi-recipient secret")
	envelope, err := EncryptAsymmetric(plaintext, [][32]byte{pub1, pub2, pub3})
	if err != nil {
		t.Fatalf("EncryptAsymmetric: %v", err)
	}

	for i, priv := range [][32]byte{priv1, priv2, priv3} {
		got, err := DecryptAsymmetric(envelope, priv)
		if err != nil {
			t.Fatalf("recipient %d: DecryptAsymmetric: %v", i, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("recipient %d: got %q, want %q", i, got, plaintext)
		}
	}
}

func TestAsymmetricNonRecipientFails(t *testing.T) {
	priv1, pub1 := genKexPub()
	otherPriv, _ := genKexPub()
	_ = priv1

	envelope, err := EncryptAsymmetric([]byte("secret"), [][32]byte{pub1})
	if err != nil {
		t.Fatalf("EncryptAsymmetric: %v", err)
	}
	if _, err := DecryptAsymmetric(envelope, otherPriv); err == nil {
		t.Fatal("expected DecryptionFailed (NotARecipient) for non-recipient key")
	}
}

func TestAsymmetricRequiresAtLeastOneRecipient(t *testing.T) {
	if _, err := EncryptAsymmetric([]byte("x"), nil); err == nil {
		t.Fatal("expected error with zero recipients")
	}
}

func TestSignVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	otherPub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	msg := []byte("Signed message")
	sig := Sign(msg, priv)

	if err := Verify(msg, sig, pub); err != nil {
		t.Errorf("Verify(correct key, correct message): %v", err)
	}
	if err := Verify([]byte("tampered"), sig, pub); err == nil {
		t.Error("Verify should fail for a different message")
	}
	if err := Verify(msg, sig, otherPub); err == nil {
		t.Error("Verify should fail for a different public key")
	}
}
