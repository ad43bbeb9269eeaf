/*
Package wavio is the opaque sample reader/writer the rest of the toolkit
builds on. It does not attempt to be a general RIFF/WAVE codec: it hands
back a (spec, samples) pair for integer PCM carriers and writes one back
out, leaning on github.com/go-audio/wav and github.com/go-audio/audio the
same way ausocean-av's codec/wav package and the audio-steganography
backends in this retrieval pack lean on go-audio for PCM access.
*/
package wavio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/vvwio/vvw/models"
)

// Spec describes the PCM layout of a carrier: bit depth, channel count,
// and sample rate.
type Spec struct {
	BitDepth   int
	Channels   int
	SampleRate int
}

// SampleBuffer is an ordered, interleaved sequence of signed integer PCM
// samples. Sample N belongs to channel N mod Spec.Channels.
type SampleBuffer struct {
	Spec    Spec
	Samples []int
}

// Read loads a carrier file and decodes it into an interleaved integer
// sample buffer. Floating-point carriers are rejected per the data model's
// "only integer PCM is accepted" invariant.
func Read(path string) (*SampleBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrIO, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", models.ErrInputNotWav, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIO, err)
	}

	if dec.WavAudioFormat == 3 { // IEEE float
		return nil, models.ErrUnsupportedSampleFormat
	}

	return &SampleBuffer{
		Spec: Spec{
			BitDepth:   int(dec.BitDepth),
			Channels:   int(dec.NumChans),
			SampleRate: int(dec.SampleRate),
		},
		Samples: buf.Data,
	}, nil
}

// Write encodes an interleaved integer sample buffer back out as an integer
// PCM WAV file at sb.Spec.BitDepth.
func Write(path string, sb *SampleBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrIO, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sb.Spec.SampleRate, sb.Spec.BitDepth, sb.Spec.Channels, 1)
	ib := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: sb.Spec.Channels, SampleRate: sb.Spec.SampleRate},
		Data:   sb.Samples,
		SourceBitDepth: sb.Spec.BitDepth,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("%w: %v", models.ErrIO, err)
	}
	return enc.Close()
}
