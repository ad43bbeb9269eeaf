//go:build noopus

/*
encoder_raw.go is the compile-time raw-bytes fallback from spec.md §4.7:
it copies each frame's int16 PCM through verbatim instead of lossily
compressing it, for build environments without libopus available. Built
under the "noopus" tag, mirroring ausocean-av/device/raspistill's
imp_testing.go swapping in for imp_release.go under its own tag.
*/

package audiocodec

import "encoding/binary"

// RawEncoder implements Encoder by copying PCM through as little-endian
// bytes, verbatim.
type RawEncoder struct{}

// NewEncoder constructs the raw-fallback encoder. The channel count is
// unused: raw mode copies every channel through identically.
func NewEncoder(int) (Encoder, error) { return RawEncoder{}, nil }

// NewDecoder constructs the raw-fallback decoder.
func NewDecoder(int) (Decoder, error) { return RawDecoder{}, nil }

func (RawEncoder) EncodeFrame(pcm []int16, channels int) ([]byte, error) {
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(out[i*2:i*2+2], uint16(s))
	}
	return out, nil
}

// RawDecoder reverses RawEncoder.
type RawDecoder struct{}

func (RawDecoder) DecodeFrame(data []byte, channels int) ([]int16, error) {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
	}
	return out, nil
}
