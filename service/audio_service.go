package service

import (
	"fmt"
	"log"

	"github.com/vvwio/vvw/audiocodec"
	"github.com/vvwio/vvw/models"
	"github.com/vvwio/vvw/wavio"
)

// audioService implements AudioService over package audiocodec's
// frame codec and package wavio's PCM access, per spec.md §4.7's
// audio-in-audio carrier.
type audioService struct{}

// NewAudioService creates a new audio service instance
func NewAudioService() AudioService {
	return &audioService{}
}

// EncodeAudioFile reads a 48kHz mono/stereo WAV file and returns the framed
// audio-in-audio stream to be embedded as a secret payload.
func (a *audioService) EncodeAudioFile(path string) ([]byte, error) {
	sb, err := wavio.Read(path)
	if err != nil {
		return nil, err
	}
	if sb.Spec.SampleRate != audiocodec.ProcessingSampleRate {
		return nil, fmt.Errorf("%w: audio-in-audio secret must be %dHz, got %dHz", models.ErrInvalidParameter, audiocodec.ProcessingSampleRate, sb.Spec.SampleRate)
	}
	if sb.Spec.Channels != 1 && sb.Spec.Channels != 2 {
		return nil, fmt.Errorf("%w: audio-in-audio secret must be mono or stereo, got %d channels", models.ErrInvalidParameter, sb.Spec.Channels)
	}

	pcm := make([]int16, len(sb.Samples))
	for i, s := range sb.Samples {
		pcm[i] = int16(s)
	}

	enc, err := audiocodec.NewEncoder(sb.Spec.Channels)
	if err != nil {
		return nil, fmt.Errorf("audio_service: build encoder: %w", err)
	}

	log.Printf("[DEBUG] EncodeAudioFile: framing %d samples at %dch/%dHz", len(pcm), sb.Spec.Channels, sb.Spec.SampleRate)
	return audiocodec.Encode(enc, sb.Spec.SampleRate, sb.Spec.Channels, pcm)
}

// DecodeAudioFile reverses EncodeAudioFile, writing the recovered PCM back
// out as a 16-bit WAV file at outPath.
func (a *audioService) DecodeAudioFile(frames []byte, outPath string) error {
	sampleRate, channels, err := audiocodec.PeekFormat(frames)
	if err != nil {
		return err
	}

	dec, err := audiocodec.NewDecoder(channels)
	if err != nil {
		return fmt.Errorf("audio_service: build decoder: %w", err)
	}

	_, _, pcm, err := audiocodec.Decode(dec, frames)
	if err != nil {
		return err
	}

	samples := make([]int, len(pcm))
	for i, s := range pcm {
		samples[i] = int(s)
	}

	log.Printf("[DEBUG] DecodeAudioFile: writing %d samples at %dch/%dHz to %s", len(samples), channels, sampleRate, outPath)
	return wavio.Write(outPath, &wavio.SampleBuffer{
		Spec:    wavio.Spec{BitDepth: 16, Channels: channels, SampleRate: sampleRate},
		Samples: samples,
	})
}
