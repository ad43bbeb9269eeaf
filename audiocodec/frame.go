/*
Package audiocodec frames the audio-in-audio payload described in
spec.md §4.7/§3: fixed 20ms/960-sample frames at a 48kHz processing rate,
encoded through a pluggable Encoder/Decoder pair. Two implementations
exist behind a build tag, following the same release/testing split
ausocean-av uses for device/raspistill (imp_release.go built by default,
imp_testing.go built under the "test" tag): encoder_opus.go wraps
github.com/hraban/opus by default, and encoder_raw.go (built with the
"noopus" tag) is the compile-time raw-bytes fallback spec.md §4.7
describes, copying the int16 PCM samples through verbatim. The rest of this package, and
everything above it, is unaware of which one is linked in.
*/
package audiocodec

import (
	"encoding/binary"
	"fmt"

	"github.com/vvwio/vvw/models"
)

const (
	// ProcessingSampleRate is the fixed rate audio-in-audio frames are
	// encoded at.
	ProcessingSampleRate = 48000
	// FrameDurationMs is the fixed per-frame duration.
	FrameDurationMs = 20
	// FrameSamples is 20ms of audio at 48kHz: 960 samples per channel.
	FrameSamples = ProcessingSampleRate * FrameDurationMs / 1000
	// MaxPacketSize bounds a single encoded frame.
	MaxPacketSize = 4000

	bitrateMono   = 64000
	bitrateStereo = 96000

	maxFrameCount = 1<<16 - 1 // u16::MAX, per spec.md §9's open question
)

// Encoder turns one 20ms frame of interleaved int16 PCM into compressed
// bytes no larger than MaxPacketSize.
type Encoder interface {
	EncodeFrame(pcm []int16, channels int) ([]byte, error)
}

// Decoder reverses Encoder for one frame.
type Decoder interface {
	DecodeFrame(data []byte, channels int) ([]int16, error)
}

// Encode validates the input format (48kHz 16-bit PCM, 1 or 2 channels),
// splits it into fixed-size frames (zero-padding the last), and emits the
// framed stream: sample_rate(4) channels(2) frame_count(2)
// [frame_len(2) frame_bytes]*.
func Encode(enc Encoder, sampleRate, channels int, pcm []int16) ([]byte, error) {
	if sampleRate != ProcessingSampleRate {
		return nil, fmt.Errorf("%w: audio-in-audio input must be 48kHz, got %d", models.ErrInvalidParameter, sampleRate)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: audio-in-audio input must be mono or stereo, got %d channels", models.ErrInvalidParameter, channels)
	}

	frameLen := FrameSamples * channels
	frameCount := (len(pcm) + frameLen - 1) / frameLen
	if frameCount > maxFrameCount {
		return nil, fmt.Errorf("%w: audio-in-audio input produces %d frames, exceeds %d", models.ErrInvalidParameter, frameCount, maxFrameCount)
	}

	out := make([]byte, 0, 8+frameCount*64)
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(sampleRate))
	binary.LittleEndian.PutUint16(hdr[4:6], uint16(channels))
	binary.LittleEndian.PutUint16(hdr[6:8], uint16(frameCount))
	out = append(out, hdr[:]...)

	padded := pcm
	if rem := len(pcm) % frameLen; rem != 0 && len(pcm) > 0 {
		padded = make([]int16, len(pcm)+(frameLen-rem))
		copy(padded, pcm)
	}

	for i := 0; i < frameCount; i++ {
		frame := padded[i*frameLen : (i+1)*frameLen]
		encoded, err := enc.EncodeFrame(frame, channels)
		if err != nil {
			return nil, fmt.Errorf("audiocodec: encode frame %d: %w", i, err)
		}
		if len(encoded) > MaxPacketSize {
			return nil, fmt.Errorf("audiocodec: encoded frame %d is %d bytes, exceeds max packet size %d", i, len(encoded), MaxPacketSize)
		}

		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(encoded)))
		out = append(out, lenBuf[:]...)
		out = append(out, encoded...)
	}

	return out, nil
}

// PeekFormat reads just the sample rate and channel count out of a framed
// stream's header, so a caller can construct the right Decoder (codecs like
// Opus are bound to a channel count at construction time) before calling
// Decode.
func PeekFormat(stream []byte) (sampleRate, channels int, err error) {
	if len(stream) < 8 {
		return 0, 0, fmt.Errorf("%w: audio-in-audio stream header truncated", models.ErrCorruptData)
	}
	return int(binary.LittleEndian.Uint32(stream[0:4])), int(binary.LittleEndian.Uint16(stream[4:6])), nil
}

// Decode reverses Encode, returning the sample rate, channel count, and
// the reassembled (zero-padded-tail-included) PCM stream.
func Decode(dec Decoder, stream []byte) (sampleRate, channels int, pcm []int16, err error) {
	if len(stream) < 8 {
		return 0, 0, nil, fmt.Errorf("%w: audio-in-audio stream header truncated", models.ErrCorruptData)
	}
	sampleRate = int(binary.LittleEndian.Uint32(stream[0:4]))
	channels = int(binary.LittleEndian.Uint16(stream[4:6]))
	frameCount := int(binary.LittleEndian.Uint16(stream[6:8]))

	off := 8
	for i := 0; i < frameCount; i++ {
		if off+2 > len(stream) {
			return 0, 0, nil, fmt.Errorf("%w: audio-in-audio stream truncated before frame %d length", models.ErrCorruptData, i)
		}
		frameLen := int(binary.LittleEndian.Uint16(stream[off : off+2]))
		off += 2
		if off+frameLen > len(stream) {
			return 0, 0, nil, fmt.Errorf("%w: audio-in-audio stream truncated before frame %d body", models.ErrCorruptData, i)
		}
		frame, err := dec.DecodeFrame(stream[off:off+frameLen], channels)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("audiocodec: decode frame %d: %w", i, err)
		}
		pcm = append(pcm, frame...)
		off += frameLen
	}

	return sampleRate, channels, pcm, nil
}

// Bitrate returns the target encoding bitrate for a channel count, per
// spec.md §3 (64kbps mono, 96kbps stereo).
func Bitrate(channels int) int {
	if channels == 1 {
		return bitrateMono
	}
	return bitrateStereo
}
