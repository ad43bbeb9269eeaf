//go:build !noopus

/*
encoder_opus.go provides the default audio-in-audio codec: a thin wrapper
around github.com/hraban/opus, the Opus binding named in this retrieval
pack (NicolasHaas-gospeak's go.mod) for exactly this 20ms/48kHz framing.
Built whenever the "noopus" tag is absent, matching the release/testing
split ausocean-av/device/raspistill uses for its two implementations of
the same interface.
*/

package audiocodec

import (
	"fmt"

	"github.com/hraban/opus"
)

// OpusEncoder wraps a single opus.Encoder, built by NewEncoder for one
// channel count; the channels argument of EncodeFrame is not consulted.
type OpusEncoder struct {
	enc *opus.Encoder
}

// NewEncoder constructs the default (Opus) encoder for the given channel
// count and spec.md §3's per-channel bitrate.
func NewEncoder(channels int) (Encoder, error) {
	return newOpusEncoder(channels)
}

// NewDecoder constructs the default (Opus) decoder for the given channel
// count.
func NewDecoder(channels int) (Decoder, error) {
	return newOpusDecoder(channels)
}

func newOpusEncoder(channels int) (*OpusEncoder, error) {
	enc, err := opus.NewEncoder(ProcessingSampleRate, channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("audiocodec: new opus encoder: %w", err)
	}
	if err := enc.SetBitrate(Bitrate(channels)); err != nil {
		return nil, fmt.Errorf("audiocodec: set bitrate: %w", err)
	}
	return &OpusEncoder{enc: enc}, nil
}

func (o *OpusEncoder) EncodeFrame(pcm []int16, channels int) ([]byte, error) {
	buf := make([]byte, MaxPacketSize)
	n, err := o.enc.Encode(pcm, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// OpusDecoder mirrors OpusEncoder for the decode direction.
type OpusDecoder struct {
	dec *opus.Decoder
}

func newOpusDecoder(channels int) (*OpusDecoder, error) {
	dec, err := opus.NewDecoder(ProcessingSampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("audiocodec: new opus decoder: %w", err)
	}
	return &OpusDecoder{dec: dec}, nil
}

func (o *OpusDecoder) DecodeFrame(data []byte, channels int) ([]int16, error) {
	pcm := make([]int16, FrameSamples*channels)
	n, err := o.dec.Decode(data, pcm)
	if err != nil {
		return nil, err
	}
	return pcm[:n*channels], nil
}
