package service

import (
	"github.com/vvwio/vvw/keys"
	"github.com/vvwio/vvw/models"
)

// CryptographyService implements the two confidentiality envelopes and
// detached signatures (spec.md §4.4-§4.6), dispatched by
// models.EncryptionMode. Where the teacher's implementation of this
// interface performed an XOR "Vigenère cipher", this one wraps the real
// AEAD envelopes in package cryptoenv.
type CryptographyService interface {
	Encrypt(mode models.EncryptionMode, plaintext []byte, passphrase string, recipients [][32]byte) ([]byte, error)
	Decrypt(mode models.EncryptionMode, envelope []byte, passphrase string, priv *keys.PrivateKey) ([]byte, error)
	Sign(payload []byte, priv *keys.PrivateKey) []byte
	Verify(payload, sig []byte, pub *keys.PublicKey) error
}

// AudioService wraps the audio-in-audio codec (spec.md §4.7): reading a
// 48kHz 16-bit mono/stereo WAV to embed, framing it, and reversing that on
// extract. Where the teacher's AudioService only computed PSNR, this one
// owns the whole audio-in-audio round trip.
type AudioService interface {
	EncodeAudioFile(path string) ([]byte, error)
	DecodeAudioFile(frames []byte, outPath string) error
}

// SteganographyService dispatches embed/extract/capacity to the LSB or
// aux-chunk channel by models.EmbedMethod.
type SteganographyService interface {
	Capacity(carrierPath string, bits int, mask models.ChannelMask) (*models.CapacityReport, error)
	Embed(method models.EmbedMethod, carrierPath, outPath string, container []byte, bits int, mask models.ChannelMask) error
	Extract(method models.EmbedMethod, carrierPath string, bits int, mask models.ChannelMask) ([]byte, error)
}

// KeyService implements keygen and key loading.
type KeyService interface {
	Generate(basePath string) (*models.KeygenResult, error)
	LoadPrivate(path string) (*keys.PrivateKey, error)
	LoadPublic(path string) (*keys.PublicKey, error)
}
