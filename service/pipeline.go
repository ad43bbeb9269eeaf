package service

import (
	"crypto/ed25519"
	"fmt"
	"log"

	"github.com/vvwio/vvw/container"
	"github.com/vvwio/vvw/keys"
	"github.com/vvwio/vvw/models"
)

// Pipeline wires the four domain services into the encode/decode/inspect
// state machines spec.md §4.8 describes. It holds no state of its own: each
// call is a fresh run of LoadCarrier -> ... -> Write (or its inverse).
type Pipeline struct {
	Stego  SteganographyService
	Crypto CryptographyService
	Audio  AudioService
	Keys   KeyService
}

// NewPipeline wires the default service implementations together.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Stego:  NewStegoService(),
		Crypto: NewCryptographyService(),
		Audio:  NewAudioService(),
		Keys:   NewKeyService(),
	}
}

func toRecipientKeys(recipients [][]byte) ([][32]byte, error) {
	out := make([][32]byte, len(recipients))
	for i, r := range recipients {
		if len(r) != 32 {
			return nil, fmt.Errorf("%w: recipient %d is %d bytes, want 32", models.ErrInvalidParameter, i, len(r))
		}
		copy(out[i][:], r)
	}
	return out, nil
}

// Encode runs LoadCarrier -> BuildPayload -> ChooseEnvelope -> Encrypt? ->
// Sign? -> BuildContainer -> CheckCapacity -> EmbedViaMethod -> Write.
func (p *Pipeline) Encode(req *models.EncodeRequest) (*models.EncodeResult, error) {
	if !req.Method.IsValid() {
		return nil, fmt.Errorf("%w: unknown embedding method", models.ErrInvalidParameter)
	}
	if !req.Channel.IsValid() {
		return nil, fmt.Errorf("%w: unknown channel mask", models.ErrInvalidParameter)
	}
	if req.Text == "" && req.AudioPath == "" {
		return nil, fmt.Errorf("%w: encode requires text, an audio secret, or both", models.ErrInvalidParameter)
	}

	payload := &container.Payload{Text: req.Text}
	if req.AudioPath != "" {
		frames, err := p.Audio.EncodeAudioFile(req.AudioPath)
		if err != nil {
			return nil, err
		}
		payload.Audio = frames
	}
	plaintext := payload.ToBytes()

	var body []byte
	var err error
	switch req.Encryption {
	case models.EncryptionNone:
		body = plaintext
	case models.EncryptionSymmetric:
		body, err = p.Crypto.Encrypt(req.Encryption, plaintext, req.Passphrase, nil)
	case models.EncryptionAsymmetric:
		var recipients [][32]byte
		recipients, err = toRecipientKeys(req.Recipients)
		if err == nil {
			body, err = p.Crypto.Encrypt(req.Encryption, plaintext, "", recipients)
		}
	default:
		err = fmt.Errorf("%w: unknown encryption mode", models.ErrInvalidParameter)
	}
	if err != nil {
		return nil, err
	}

	ed := &container.EmbeddedData{
		HasText:       req.Text != "",
		HasAudio:      len(payload.Audio) > 0,
		SymEncrypted:  req.Encryption == models.EncryptionSymmetric,
		AsymEncrypted: req.Encryption == models.EncryptionAsymmetric,
		Method:        toContainerMethod(req.Method),
		Payload:       body,
	}

	if req.Sign {
		if len(req.SigningKey) != ed25519.SeedSize {
			return nil, fmt.Errorf("%w: signing requires a %d-byte Ed25519 seed", models.ErrCryptoMissingCredential, ed25519.SeedSize)
		}
		priv := &keys.PrivateKey{SignPriv: ed25519.NewKeyFromSeed(req.SigningKey)}
		ed.IsSigned = true
		ed.Signature = p.Crypto.Sign(body, priv)
	}

	raw := ed.ToBytes()

	report, err := p.Stego.Capacity(req.CarrierPath, req.Bits, req.Channel)
	if err != nil {
		return nil, err
	}
	if avail := capacityBytesFor(report, req.Bits, req.Channel, req.Method); len(raw) > avail {
		return nil, fmt.Errorf("%w: container is %d bytes, carrier holds %d", models.ErrCapacityExceeded, len(raw), avail)
	}

	if err := p.Stego.Embed(req.Method, req.CarrierPath, req.OutputPath, raw, req.Bits, req.Channel); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Encode: wrote %s via %s (%d container bytes, %d payload bytes, signed=%t, encryption=%v)",
		req.OutputPath, req.Method, len(raw), len(plaintext), req.Sign, req.Encryption)

	return &models.EncodeResult{
		OutputPath:     req.OutputPath,
		Method:         req.Method,
		ContainerBytes: len(raw),
		PayloadBytes:   len(plaintext),
		Signed:         req.Sign,
		Encrypted:      req.Encryption,
	}, nil
}

// Decode runs LoadCarrier -> TryAuxExtract -> else TryLsbExtract ->
// ParseContainer -> VerifySig? -> Decrypt? -> ParsePayload -> Deliver.
func (p *Pipeline) Decode(req *models.DecodeRequest) (*models.DecodeResult, error) {
	if !req.Channel.IsValid() {
		return nil, fmt.Errorf("%w: unknown channel mask", models.ErrInvalidParameter)
	}

	raw, method, err := p.extractAny(req.CarrierPath, req.Bits, req.Channel)
	if err != nil {
		return nil, err
	}

	ed, err := container.FromBytes(raw)
	if err != nil {
		return nil, err
	}

	result := &models.DecodeResult{Method: method}

	if ed.IsSigned {
		result.SignatureChecked = len(req.VerifyKey) == ed25519.PublicKeySize
		if result.SignatureChecked {
			pub := &keys.PublicKey{SignPub: ed25519.PublicKey(req.VerifyKey)}
			if err := p.Crypto.Verify(ed.Payload, ed.Signature, pub); err != nil {
				return nil, fmt.Errorf("%w", models.ErrSignatureInvalid)
			}
			result.SignatureValid = true
		}
	}

	plaintext := ed.Payload
	switch {
	case ed.SymEncrypted:
		plaintext, err = p.Crypto.Decrypt(models.EncryptionSymmetric, ed.Payload, req.Passphrase, nil)
	case ed.AsymEncrypted:
		var priv *keys.PrivateKey
		if len(req.PrivateKey) > 0 {
			priv, err = keys.PrivateKeyFromBytes(req.PrivateKey)
		}
		if err == nil {
			plaintext, err = p.Crypto.Decrypt(models.EncryptionAsymmetric, ed.Payload, "", priv)
		}
	}
	if err != nil {
		return nil, err
	}

	payload, err := container.PayloadFromBytes(plaintext)
	if err != nil {
		return nil, err
	}

	result.Text = payload.Text
	if len(payload.Audio) > 0 {
		result.Audio = payload.Audio
	}

	log.Printf("[INFO] Decode: recovered container from %s via %s (signed=%t, sig_valid=%t)", req.CarrierPath, method, ed.IsSigned, result.SignatureValid)
	return result, nil
}

// Inspect recovers container metadata without ever touching Encrypt,
// Decrypt, or Verify, so a tampered envelope or missing credential never
// surfaces as a decryption error here.
func (p *Pipeline) Inspect(carrierPath string, bits int, mask models.ChannelMask) (*models.InspectResult, error) {
	raw, method, err := p.extractAny(carrierPath, bits, mask)
	if err != nil {
		return nil, err
	}

	ed, err := container.FromBytes(raw)
	if err != nil {
		return nil, err
	}

	res := &models.InspectResult{
		Method:        method,
		HasText:       ed.HasText,
		HasAudio:      ed.HasAudio,
		Signed:        ed.IsSigned,
		SymEncrypted:  ed.SymEncrypted,
		AsymEncrypted: ed.AsymEncrypted,
		PayloadBytes:  len(ed.Payload),
		TotalBytes:    ed.TotalSize(),
	}
	if ed.AsymEncrypted && len(ed.Payload) > 0 {
		res.RecipientCount = int(ed.Payload[0])
	}
	if ed.IsSigned && len(ed.Signature) >= 6 {
		res.SignatureFingerprint = fmt.Sprintf("%012x", ed.Signature[:6])
	}
	return res, nil
}

// extractAny tries the aux-chunk channel first, then falls back to LSB, per
// spec.md §4.8's decode state machine. Both attempts must return a byte
// string whose first four bytes equal container.Magic to be accepted;
// otherwise the next method is tried, or ErrNoEmbeddedData is raised once
// both have been exhausted.
func (p *Pipeline) extractAny(carrierPath string, bits int, mask models.ChannelMask) ([]byte, models.EmbedMethod, error) {
	if raw, err := p.Stego.Extract(models.MethodAuxChunk, carrierPath, bits, mask); err == nil && hasMagic(raw) {
		return raw, models.MethodAuxChunk, nil
	}

	if raw, err := p.Stego.Extract(models.MethodLSB, carrierPath, bits, mask); err == nil && hasMagic(raw) {
		return raw, models.MethodLSB, nil
	}

	return nil, 0, fmt.Errorf("%w", models.ErrNoEmbeddedData)
}

func hasMagic(data []byte) bool {
	return len(data) >= 4 && [4]byte(data[0:4]) == container.Magic
}

func toContainerMethod(m models.EmbedMethod) container.Method {
	if m == models.MethodAuxChunk {
		return container.MethodAuxChunk
	}
	return container.MethodLSB
}

func capacityBytesFor(r *models.CapacityReport, bits int, mask models.ChannelMask, method models.EmbedMethod) int {
	if method == models.MethodAuxChunk {
		return r.AuxChunk
	}
	switch {
	case mask == models.ChannelBoth:
		switch bits {
		case 1:
			return r.Bits1Both
		case 2:
			return r.Bits2Both
		case 3:
			return r.Bits3Both
		default:
			return r.Bits4Both
		}
	default: // Left and Right share the same per-channel capacity
		switch bits {
		case 1:
			return r.Bits1Left
		case 2:
			return r.Bits2Left
		case 3:
			return r.Bits3Left
		default:
			return r.Bits4Left
		}
	}
}
