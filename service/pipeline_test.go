package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vvwio/vvw/keys"
	"github.com/vvwio/vvw/models"
	"github.com/vvwio/vvw/wavio"
)

// writeCarrier synthesizes a small 16-bit stereo WAV file for use as a
// steganographic carrier in these tests.
func writeCarrier(t *testing.T, path string, samples int) {
	t.Helper()
	buf := make([]int, samples*2)
	for i := range buf {
		buf[i] = (i*131 + 7) % 30000
	}
	sb := &wavio.SampleBuffer{
		Spec:    wavio.Spec{BitDepth: 16, Channels: 2, SampleRate: 44100},
		Samples: buf,
	}
	if err := wavio.Write(path, sb); err != nil {
		t.Fatalf("writeCarrier: %v", err)
	}
}

func TestPipelineEncodeDecodeTextLSB(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	out := filepath.Join(dir, "stego.wav")
	writeCarrier(t, carrier, 20000)

	p := NewPipeline()
	encRes, err := p.Encode(&models.EncodeRequest{
		CarrierPath: carrier,
		OutputPath:  out,
		Text:        "the quick brown fox",
		Method:      models.MethodLSB,
		Bits:        2,
		Channel:     models.ChannelBoth,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encRes.Method != models.MethodLSB {
		t.Errorf("Method = %v, want LSB", encRes.Method)
	}

	decRes, err := p.Decode(&models.DecodeRequest{
		CarrierPath: out,
		Bits:        2,
		Channel:     models.ChannelBoth,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decRes.Text != "the quick brown fox" {
		t.Errorf("Text = %q, want %q", decRes.Text, "the quick brown fox")
	}
}

func TestPipelineEncodeDecodeAuxChunk(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	out := filepath.Join(dir, "stego.wav")
	writeCarrier(t, carrier, 2000)

	p := NewPipeline()
	if _, err := p.Encode(&models.EncodeRequest{
		CarrierPath: carrier,
		OutputPath:  out,
		Text:        "aux chunk secret",
		Method:      models.MethodAuxChunk,
		Channel:     models.ChannelBoth,
	}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decRes, err := p.Decode(&models.DecodeRequest{CarrierPath: out, Channel: models.ChannelBoth})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decRes.Method != models.MethodAuxChunk {
		t.Errorf("Method = %v, want aux-chunk", decRes.Method)
	}
	if decRes.Text != "aux chunk secret" {
		t.Errorf("Text = %q, want %q", decRes.Text, "aux chunk secret")
	}
}

func TestPipelineSymmetricEncryptionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	out := filepath.Join(dir, "stego.wav")
	writeCarrier(t, carrier, 20000)

	p := NewPipeline()
	if _, err := p.Encode(&models.EncodeRequest{
		CarrierPath: carrier,
		OutputPath:  out,
		Text:        "top secret",
		Method:      models.MethodLSB,
		Bits:        2,
		Channel:     models.ChannelBoth,
		Encryption:  models.EncryptionSymmetric,
		Passphrase:  "puzzle123",
	}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decRes, err := p.Decode(&models.DecodeRequest{
		CarrierPath: out,
		Bits:        2,
		Channel:     models.ChannelBoth,
		Passphrase:  "puzzle123",
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decRes.Text != "top secret" {
		t.Errorf("Text = %q, want %q", decRes.Text, "top secret")
	}

	if _, err := p.Decode(&models.DecodeRequest{
		CarrierPath: out,
		Bits:        2,
		Channel:     models.ChannelBoth,
		Passphrase:  "wrong-passphrase",
	}); !errors.Is(err, models.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed for wrong passphrase, got %v", err)
	}
}

func TestPipelineAsymmetricMultiRecipientRoundTrip(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	out := filepath.Join(dir, "stego.wav")
	writeCarrier(t, carrier, 30000)

	priv1, pub1, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}
	_, pub2, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}
	_, pub3, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}

	p := NewPipeline()
	if _, err := p.Encode(&models.EncodeRequest{
		CarrierPath: carrier,
		OutputPath:  out,
		Text:        "multi-recipient secret",
		Method:      models.MethodLSB,
		Bits:        2,
		Channel:     models.ChannelBoth,
		Encryption:  models.EncryptionAsymmetric,
		Recipients:  [][]byte{pub1.KexPub[:], pub2.KexPub[:], pub3.KexPub[:]},
	}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	privBlob := append(append([]byte{}, priv1.SignPriv.Seed()...), priv1.KexPriv[:]...)
	decRes, err := p.Decode(&models.DecodeRequest{
		CarrierPath: out,
		Bits:        2,
		Channel:     models.ChannelBoth,
		PrivateKey:  privBlob,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decRes.Text != "multi-recipient secret" {
		t.Errorf("Text = %q, want %q", decRes.Text, "multi-recipient secret")
	}
}

func TestPipelineSignVerify(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	out := filepath.Join(dir, "stego.wav")
	writeCarrier(t, carrier, 20000)

	priv, pub, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}
	_, otherPub, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}

	p := NewPipeline()
	if _, err := p.Encode(&models.EncodeRequest{
		CarrierPath: carrier,
		OutputPath:  out,
		Text:        "signed message",
		Method:      models.MethodLSB,
		Bits:        2,
		Channel:     models.ChannelBoth,
		Sign:        true,
		SigningKey:  priv.SignPriv.Seed(),
	}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decRes, err := p.Decode(&models.DecodeRequest{
		CarrierPath: out,
		Bits:        2,
		Channel:     models.ChannelBoth,
		VerifyKey:   pub.SignPub,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !decRes.SignatureValid {
		t.Error("expected a valid signature")
	}

	if _, err := p.Decode(&models.DecodeRequest{
		CarrierPath: out,
		Bits:        2,
		Channel:     models.ChannelBoth,
		VerifyKey:   otherPub.SignPub,
	}); !errors.Is(err, models.ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid for the wrong verify key, got %v", err)
	}
}

func TestPipelineCapacityExceeded(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	out := filepath.Join(dir, "stego.wav")
	writeCarrier(t, carrier, 10)

	p := NewPipeline()
	_, err := p.Encode(&models.EncodeRequest{
		CarrierPath: carrier,
		OutputPath:  out,
		Text:        "this message is far too long for a ten-sample carrier to hold at one bit per sample",
		Method:      models.MethodLSB,
		Bits:        1,
		Channel:     models.ChannelBoth,
	})
	if !errors.Is(err, models.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestPipelineInspectNeverDecrypts(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	out := filepath.Join(dir, "stego.wav")
	writeCarrier(t, carrier, 20000)

	p := NewPipeline()
	if _, err := p.Encode(&models.EncodeRequest{
		CarrierPath: carrier,
		OutputPath:  out,
		Text:        "inspect me",
		Method:      models.MethodLSB,
		Bits:        2,
		Channel:     models.ChannelBoth,
		Encryption:  models.EncryptionSymmetric,
		Passphrase:  "correct horse battery staple",
	}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	res, err := p.Inspect(out, 2, models.ChannelBoth)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !res.SymEncrypted {
		t.Error("expected SymEncrypted to be true")
	}
	if res.Method != models.MethodLSB {
		t.Errorf("Method = %v, want LSB", res.Method)
	}
}

func TestPipelineInspectSignatureFingerprint(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	out := filepath.Join(dir, "stego.wav")
	writeCarrier(t, carrier, 20000)

	priv, _, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}

	p := NewPipeline()
	if _, err := p.Encode(&models.EncodeRequest{
		CarrierPath: carrier,
		OutputPath:  out,
		Text:        "fingerprint me",
		Method:      models.MethodLSB,
		Bits:        2,
		Channel:     models.ChannelBoth,
		Sign:        true,
		SigningKey:  priv.SignPriv.Seed(),
	}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	res, err := p.Inspect(out, 2, models.ChannelBoth)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !res.Signed {
		t.Fatal("expected Signed to be true")
	}
	if len(res.SignatureFingerprint) != 12 {
		t.Errorf("SignatureFingerprint = %q, want 12 hex chars (6 bytes)", res.SignatureFingerprint)
	}
}

func TestPipelineEncodeDecodeAcrossSignalPatterns(t *testing.T) {
	patterns := []struct {
		name    string
		pattern wavio.AudioPattern
	}{
		{"very_quiet", wavio.PatternVeryQuiet},
		{"loud_clipping", wavio.PatternLoudClipping},
		{"white_noise", wavio.PatternWhiteNoise},
		{"square", wavio.PatternSquare},
	}

	for _, tc := range patterns {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			carrier := filepath.Join(dir, "cover.wav")
			out := filepath.Join(dir, "stego.wav")

			cfg := wavio.DefaultTestWavConfig()
			cfg.Pattern = tc.pattern
			cfg.DurationSecs = 1.0
			if err := wavio.WriteTestCarrier(carrier, cfg); err != nil {
				t.Fatalf("WriteTestCarrier: %v", err)
			}

			p := NewPipeline()
			if _, err := p.Encode(&models.EncodeRequest{
				CarrierPath: carrier,
				OutputPath:  out,
				Text:        "signal pattern round trip",
				Method:      models.MethodLSB,
				Bits:        1,
				Channel:     models.ChannelBoth,
			}); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			decRes, err := p.Decode(&models.DecodeRequest{
				CarrierPath: out,
				Bits:        1,
				Channel:     models.ChannelBoth,
			})
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if decRes.Text != "signal pattern round trip" {
				t.Errorf("Text = %q, want %q", decRes.Text, "signal pattern round trip")
			}
		})
	}
}

func TestPipelineDecodeNoEmbeddedData(t *testing.T) {
	dir := t.TempDir()
	carrier := filepath.Join(dir, "cover.wav")
	writeCarrier(t, carrier, 20000)

	p := NewPipeline()
	if _, err := p.Decode(&models.DecodeRequest{
		CarrierPath: carrier,
		Bits:        2,
		Channel:     models.ChannelBoth,
	}); !errors.Is(err, models.ErrNoEmbeddedData) {
		t.Errorf("expected ErrNoEmbeddedData for a plain carrier, got %v", err)
	}

	if _, err := p.Inspect(carrier, 2, models.ChannelBoth); !errors.Is(err, models.ErrNoEmbeddedData) {
		t.Errorf("expected ErrNoEmbeddedData from Inspect on a plain carrier, got %v", err)
	}
}
