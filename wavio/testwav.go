package wavio

import "math"

// AudioPattern names a synthetic signal shape for generating test carrier
// WAV files. The catalog mirrors navicore/zim-hide's tests/common/mod.rs
// TestWavConfig/AudioPattern harness, which exercises LSB and aux-chunk
// steganography against carriers closer to real audio than a single
// linear-ramp buffer: silence and very-quiet carriers stress low-bit
// capacity, loud-clipping and square waves stress harsh sample transitions.
type AudioPattern int

const (
	PatternSine AudioPattern = iota
	PatternSilence
	PatternWhiteNoise
	PatternMultiFrequency
	PatternAmplitudeSweep
	PatternLoudClipping
	PatternVeryQuiet
	PatternSquare
)

// TestWavConfig configures a synthetic carrier generated by GenerateSamples.
type TestWavConfig struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	DurationSecs  float64
	Pattern       AudioPattern
	// Frequency is used by PatternSine and PatternSquare; ignored otherwise.
	Frequency float64
	// Amplitude scales the generated signal, 0.0-1.0 of full scale.
	Amplitude float64
}

// DefaultTestWavConfig matches the original's Default impl: 1s stereo
// 44.1kHz 16-bit sine wave at 440Hz, 0.6 amplitude.
func DefaultTestWavConfig() TestWavConfig {
	return TestWavConfig{
		Channels:      2,
		SampleRate:    44100,
		BitsPerSample: 16,
		DurationSecs:  1.0,
		Pattern:       PatternSine,
		Frequency:     440,
		Amplitude:     0.6,
	}
}

// xorshiftRNG reproduces the original's reproducible noise generator so
// WhiteNoise carriers are deterministic across test runs.
type xorshiftRNG struct{ state uint32 }

func newXorshiftRNG() *xorshiftRNG { return &xorshiftRNG{state: 0xDEADBEEF} }

// next returns a pseudo-random float64 in (-1.0, 1.0].
func (r *xorshiftRNG) next() float64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 17
	r.state ^= r.state << 5
	return float64(r.state)/float64(math.MaxUint32)*2.0 - 1.0
}

// GenerateSamples synthesizes an interleaved int16-range sample buffer for
// cfg. The returned SampleBuffer is ready to hand to Write for use as a
// steganographic carrier in tests.
func GenerateSamples(cfg TestWavConfig) *SampleBuffer {
	total := int(float64(cfg.SampleRate) * cfg.DurationSecs)
	maxAmp := 32767.0 * cfg.Amplitude
	rng := newXorshiftRNG()

	samples := make([]int, 0, total*cfg.Channels)
	for i := 0; i < total; i++ {
		t := float64(i) / float64(cfg.SampleRate)

		var v float64
		switch cfg.Pattern {
		case PatternSine:
			v = math.Sin(t*cfg.Frequency*2*math.Pi) * maxAmp
		case PatternSilence:
			v = 0
		case PatternWhiteNoise:
			v = rng.next() * maxAmp
		case PatternMultiFrequency:
			base := 220.0
			s1 := math.Sin(t * base * 2 * math.Pi)
			s2 := math.Sin(t*base*2*2*math.Pi) * 0.5
			s3 := math.Sin(t*base*4*2*math.Pi) * 0.25
			s4 := math.Sin(t*base*8*2*math.Pi) * 0.125
			v = (s1 + s2 + s3 + s4) / 1.875 * maxAmp
		case PatternAmplitudeSweep:
			envelope := t / cfg.DurationSecs
			v = math.Sin(t*440*2*math.Pi) * maxAmp * envelope
		case PatternLoudClipping:
			raw := math.Sin(t*440*2*math.Pi) * 32767.0 * 1.1
			v = math.Max(-32768.0, math.Min(32767.0, raw))
		case PatternVeryQuiet:
			v = math.Sin(t*440*2*math.Pi) * 100.0
		case PatternSquare:
			freq := cfg.Frequency
			if freq == 0 {
				freq = 440
			}
			phase := math.Mod(t*freq, 1.0)
			if phase < 0.5 {
				v = maxAmp
			} else {
				v = -maxAmp
			}
		}

		sample := int(math.Round(v))
		for c := 0; c < cfg.Channels; c++ {
			samples = append(samples, sample)
		}
	}

	return &SampleBuffer{
		Spec: Spec{
			BitDepth:   cfg.BitsPerSample,
			Channels:   cfg.Channels,
			SampleRate: cfg.SampleRate,
		},
		Samples: samples,
	}
}

// WriteTestCarrier generates a synthetic carrier per cfg and writes it to
// path, for use by package tests that need a specific signal shape rather
// than an arbitrary buffer.
func WriteTestCarrier(path string, cfg TestWavConfig) error {
	return Write(path, GenerateSamples(cfg))
}
