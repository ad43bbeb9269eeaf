/*
Package lsb implements the least-significant-bit steganographic channel:
bit-level sample manipulation across a configurable bit depth and channel
mask, with a self-delimiting 4-byte length-prefix frame. The bit-twiddling
style (explicit bit-by-bit embed/extract loops over []int sample slices,
package-level log-free pure functions) follows the teacher's
embedBitsIntoSamples/extractBitsFromSamples in
service/utils.go, generalized from fixed 16-bit/2-byte PCM to the
arbitrary bit-depth, arbitrary-channel-count sample buffers this spec
requires.
*/
package lsb

import (
	"encoding/binary"
	"fmt"

	"github.com/vvwio/vvw/models"
	"github.com/vvwio/vvw/wavio"
)

// maxLength is the hard ceiling on a decoded length prefix, stopping
// runaway allocations when extracting from a corrupt or non-vvw carrier.
const maxLength = 100_000_000

func eligible(index, channels int, mask models.ChannelMask) bool {
	if channels <= 1 {
		return true
	}
	switch mask {
	case models.ChannelBoth:
		return true
	case models.ChannelLeft:
		return index%channels == 0
	case models.ChannelRight:
		return index%channels == 1
	default:
		return false
	}
}

func eligibleIndices(sb *wavio.SampleBuffer, mask models.ChannelMask) []int {
	idx := make([]int, 0, len(sb.Samples))
	for i := range sb.Samples {
		if eligible(i, sb.Spec.Channels, mask) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Capacity returns the number of payload bytes (after the 4-byte length
// prefix is subtracted) that can be carried at the given bit depth and
// channel mask, saturating at zero.
func Capacity(sb *wavio.SampleBuffer, bits int, mask models.ChannelMask) (int, error) {
	if bits < 1 || bits > 4 {
		return 0, fmt.Errorf("%w: bits must be in [1,4], got %d", models.ErrInvalidParameter, bits)
	}
	if !mask.IsValid() {
		return 0, fmt.Errorf("%w: unknown channel mask", models.ErrInvalidParameter)
	}

	n := len(eligibleIndices(sb, mask))
	cap := (n*bits)/8 - 4
	if cap < 0 {
		cap = 0
	}
	return cap, nil
}

// Embed writes data, length-prefixed, into the lower bits bits of each
// eligible sample of sb, returning a new buffer. sb is not mutated.
func Embed(sb *wavio.SampleBuffer, data []byte, bits int, mask models.ChannelMask) (*wavio.SampleBuffer, error) {
	if sb.Spec.BitDepth == 0 {
		return nil, models.ErrUnsupportedSampleFormat
	}
	if bits < 1 || bits > 4 {
		return nil, fmt.Errorf("%w: bits must be in [1,4], got %d", models.ErrInvalidParameter, bits)
	}
	if !mask.IsValid() {
		return nil, fmt.Errorf("%w: unknown channel mask", models.ErrInvalidParameter)
	}

	cap, err := Capacity(sb, bits, mask)
	if err != nil {
		return nil, err
	}
	if len(data) > cap {
		return nil, fmt.Errorf("%w: need %d bytes, capacity is %d", models.ErrCapacityExceeded, len(data), cap)
	}

	framed := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint32(framed[0:4], uint32(len(data)))
	copy(framed[4:], data)

	bitStream := bytesToBits(framed)

	out := &wavio.SampleBuffer{
		Spec:    sb.Spec,
		Samples: append([]int(nil), sb.Samples...),
	}

	indices := eligibleIndices(out, mask)
	mask32 := (1 << uint(bits)) - 1

	bitPos := 0
	for _, idx := range indices {
		if bitPos >= len(bitStream) {
			break
		}
		group := 0
		for k := 0; k < bits && bitPos < len(bitStream); k++ {
			if bitStream[bitPos] != 0 {
				group |= 1 << uint(k)
			}
			bitPos++
		}
		s := out.Samples[idx]
		s = (s &^ mask32) | group
		out.Samples[idx] = s
	}

	return out, nil
}

// Extract reads the self-delimiting payload back out of sb.
func Extract(sb *wavio.SampleBuffer, bits int, mask models.ChannelMask) ([]byte, error) {
	if sb.Spec.BitDepth == 0 {
		return nil, models.ErrUnsupportedSampleFormat
	}
	if bits < 1 || bits > 4 {
		return nil, fmt.Errorf("%w: bits must be in [1,4], got %d", models.ErrInvalidParameter, bits)
	}
	if !mask.IsValid() {
		return nil, fmt.Errorf("%w: unknown channel mask", models.ErrInvalidParameter)
	}

	indices := eligibleIndices(sb, mask)

	cap, err := Capacity(sb, bits, mask)
	if err != nil {
		return nil, err
	}

	lengthBits := extractBits(indices, sb.Samples, bits, 0, 32)
	if len(lengthBits) < 32 {
		return nil, fmt.Errorf("%w: carrier too small to hold a length prefix", models.ErrCorruptData)
	}
	lengthBytes := bitsToBytes(lengthBits)
	length := binary.LittleEndian.Uint32(lengthBytes)

	if length > maxLength {
		return nil, fmt.Errorf("%w: declared length %d exceeds hard ceiling", models.ErrCorruptData, length)
	}
	if int(length) > cap {
		return nil, fmt.Errorf("%w: declared length %d exceeds capacity %d", models.ErrCorruptData, length, cap)
	}

	dataBits := extractBits(indices, sb.Samples, bits, 32, int(length)*8)
	if len(dataBits) < int(length)*8 {
		return nil, fmt.Errorf("%w: carrier truncated before declared payload end", models.ErrCorruptData)
	}

	return bitsToBytes(dataBits), nil
}

// extractBits reads exactly count payload bits starting at bit offset
// startBit (0-indexed over the eligible-sample bit stream), bits bits at a
// time per sample.
func extractBits(indices []int, samples []int, bits, startBit, count int) []int {
	out := make([]int, 0, count)
	bitPos := 0
	end := startBit + count
	for _, idx := range indices {
		if bitPos >= end {
			break
		}
		s := samples[idx]
		for k := 0; k < bits; k++ {
			if bitPos >= end {
				break
			}
			bit := (s >> uint(k)) & 1
			if bitPos >= startBit {
				out = append(out, bit)
			}
			bitPos++
		}
	}
	return out
}

// bytesToBits expands data into a 0/1 slice, LSB (bit 0) first within each
// byte, matching the teacher's bytesToBits/bitsToBytes pairing in
// service/utils.go but bit-0-first instead of MSB-first so that the
// length prefix can always be read as exactly 32 payload bits regardless
// of bits-per-sample.
func bytesToBits(data []byte) []int {
	out := make([]int, len(data)*8)
	for i, b := range data {
		for k := 0; k < 8; k++ {
			if b&(1<<uint(k)) != 0 {
				out[i*8+k] = 1
			}
		}
	}
	return out
}

func bitsToBytes(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
