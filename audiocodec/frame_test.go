package audiocodec

import (
	"reflect"
	"testing"
)

// passthroughCodec is a deterministic stand-in for Encoder/Decoder used to
// exercise the framing logic in frame.go independent of which codec
// implementation (opus or raw) is linked into the binary.
type passthroughCodec struct{}

func (passthroughCodec) EncodeFrame(pcm []int16, channels int) ([]byte, error) {
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out, nil
}

func (passthroughCodec) DecodeFrame(data []byte, channels int) ([]int16, error) {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return out, nil
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pcm := make([]int16, FrameSamples*2*3+100) // several full frames plus a partial one
	for i := range pcm {
		pcm[i] = int16(i * 7)
	}

	stream, err := Encode(passthroughCodec{}, ProcessingSampleRate, 2, pcm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	sampleRate, channels, got, err := Decode(passthroughCodec{}, stream)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if sampleRate != ProcessingSampleRate || channels != 2 {
		t.Errorf("got rate=%d channels=%d, want %d/2", sampleRate, channels, ProcessingSampleRate)
	}

	want := make([]int16, len(got))
	copy(want, pcm) // decoded stream is zero-padded out to a whole number of frames
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch: got %d samples, want %d", len(got), len(want))
	}
}

func TestEncodeRejectsWrongSampleRate(t *testing.T) {
	if _, err := Encode(passthroughCodec{}, 44100, 2, make([]int16, 100)); err == nil {
		t.Fatal("expected InvalidParameter for non-48kHz input")
	}
}

func TestEncodeRejectsWrongChannelCount(t *testing.T) {
	if _, err := Encode(passthroughCodec{}, ProcessingSampleRate, 3, make([]int16, 100)); err == nil {
		t.Fatal("expected InvalidParameter for a 3-channel input")
	}
}

func TestBitrate(t *testing.T) {
	if Bitrate(1) != 64000 {
		t.Errorf("mono bitrate = %d, want 64000", Bitrate(1))
	}
	if Bitrate(2) != 96000 {
		t.Errorf("stereo bitrate = %d, want 96000", Bitrate(2))
	}
}
