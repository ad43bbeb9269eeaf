/*
Package container implements the vvw on-disk/in-carrier container: a
magic-prefixed, versioned, bit-packed binary layout carrying header flags,
payload, and an optional detached signature. It is a pure byte-level
(de)serializer with no knowledge of encryption, signing, or the carrier
format it eventually rides inside.
*/
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/vvwio/vvw/models"
)

// Magic identifies a vvw container: literal "VVW" followed by the format
// version byte.
var Magic = [4]byte{0x56, 0x56, 0x57, 0x01}

const (
	flagHasText       = 1 << 0
	flagHasAudio      = 1 << 1
	flagIsSigned      = 1 << 2
	flagSymEncrypted  = 1 << 3
	flagAsymEncrypted = 1 << 4

	// headerSize is the fixed 10-byte header: 4 magic + 1 flags + 1
	// method + 4 payload_length.
	headerSize = 10

	signatureSize = 64
)

// Method enumerates the steganographic channel the container was (or will
// be) embedded through.
type Method byte

const (
	MethodLSB      Method = 0
	MethodAuxChunk Method = 1
)

func (m Method) valid() bool {
	return m == MethodLSB || m == MethodAuxChunk
}

// EmbeddedData is the container wrapped around a payload before it is
// handed to a steganographic channel.
type EmbeddedData struct {
	HasText       bool
	HasAudio      bool
	IsSigned      bool
	SymEncrypted  bool
	AsymEncrypted bool

	Method Method

	// Payload is opaque: either the serialized inner Payload struct, or
	// (when encrypted) the AEAD envelope bytes.
	Payload []byte

	// Signature is exactly 64 bytes when IsSigned, computed over Payload.
	Signature []byte
}

// TotalSize returns the number of bytes ToBytes will produce.
func (d *EmbeddedData) TotalSize() int {
	n := headerSize + len(d.Payload)
	if d.IsSigned {
		n += signatureSize
	}
	return n
}

func (d *EmbeddedData) flags() byte {
	var f byte
	if d.HasText {
		f |= flagHasText
	}
	if d.HasAudio {
		f |= flagHasAudio
	}
	if d.IsSigned {
		f |= flagIsSigned
	}
	if d.SymEncrypted {
		f |= flagSymEncrypted
	}
	if d.AsymEncrypted {
		f |= flagAsymEncrypted
	}
	return f
}

// ToBytes serializes the container. It does not validate invariants
// (callers build EmbeddedData values through the orchestration layer,
// which is responsible for the has_text/has_audio/exclusive-encryption
// invariants in the data model).
func (d *EmbeddedData) ToBytes() []byte {
	out := make([]byte, headerSize, d.TotalSize())
	copy(out[0:4], Magic[:])
	out[4] = d.flags()
	out[5] = byte(d.Method)
	binary.LittleEndian.PutUint32(out[6:10], uint32(len(d.Payload)))
	out = append(out, d.Payload...)
	if d.IsSigned {
		out = append(out, d.Signature...)
	}
	return out
}

// FromBytes parses a container out of the head of data. Extra trailing
// bytes (e.g. RIFF chunk padding) are ignored; callers that need exact
// framing should slice data to TotalSize() first.
func FromBytes(data []byte) (*EmbeddedData, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header: got %d bytes, need %d", models.ErrCorruptData, len(data), headerSize)
	}
	if [4]byte(data[0:4]) != Magic {
		return nil, fmt.Errorf("%w: bad magic %x", models.ErrCorruptData, data[0:4])
	}

	flags := data[4]
	method := Method(data[5])
	if !method.valid() {
		return nil, fmt.Errorf("%w: unknown method %d", models.ErrCorruptData, method)
	}

	payloadLen := binary.LittleEndian.Uint32(data[6:10])
	end := headerSize + int(payloadLen)
	if end < headerSize || end > len(data) {
		return nil, fmt.Errorf("%w: payload_length %d runs past buffer of %d bytes", models.ErrCorruptData, payloadLen, len(data))
	}

	d := &EmbeddedData{
		HasText:       flags&flagHasText != 0,
		HasAudio:      flags&flagHasAudio != 0,
		IsSigned:      flags&flagIsSigned != 0,
		SymEncrypted:  flags&flagSymEncrypted != 0,
		AsymEncrypted: flags&flagAsymEncrypted != 0,
		Method:        method,
		Payload:       append([]byte(nil), data[headerSize:end]...),
	}

	if d.IsSigned {
		sigEnd := end + signatureSize
		if sigEnd > len(data) {
			return nil, fmt.Errorf("%w: truncated signature: need %d trailing bytes after payload", models.ErrCorruptData, signatureSize)
		}
		d.Signature = append([]byte(nil), data[end:sigEnd]...)
	}

	return d, nil
}

// Payload is the inner, plaintext-when-decrypted structure carried inside
// EmbeddedData.Payload.
type Payload struct {
	Text  string
	Audio []byte
}

// ToBytes serializes the inner payload as
// text_len(4 LE) [text] audio_len(4 LE) [audio].
func (p *Payload) ToBytes() []byte {
	textBytes := []byte(p.Text)
	out := make([]byte, 0, 8+len(textBytes)+len(p.Audio))

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(textBytes)))
	out = append(out, lenBuf[:]...)
	out = append(out, textBytes...)

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(p.Audio)))
	out = append(out, lenBuf[:]...)
	out = append(out, p.Audio...)

	return out
}

// PayloadFromBytes parses the inner payload structure.
func PayloadFromBytes(data []byte) (*Payload, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: truncated payload: missing text_len", models.ErrCorruptData)
	}
	textLen := binary.LittleEndian.Uint32(data[0:4])
	off := 4 + int(textLen)
	if textLen > 0 && (off < 4 || off > len(data)) {
		return nil, fmt.Errorf("%w: text_len %d runs past payload", models.ErrCorruptData, textLen)
	}
	text := string(data[4:off])

	if len(data) < off+4 {
		return nil, fmt.Errorf("%w: truncated payload: missing audio_len", models.ErrCorruptData)
	}
	audioLen := binary.LittleEndian.Uint32(data[off : off+4])
	audioStart := off + 4
	audioEnd := audioStart + int(audioLen)
	if audioEnd < audioStart || audioEnd > len(data) {
		return nil, fmt.Errorf("%w: audio_len %d runs past payload", models.ErrCorruptData, audioLen)
	}

	var audio []byte
	if audioLen > 0 {
		audio = append([]byte(nil), data[audioStart:audioEnd]...)
	}

	return &Payload{Text: text, Audio: audio}, nil
}
