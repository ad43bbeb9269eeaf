package auxchunk

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// minimalWav builds a tiny valid RIFF/WAVE file with a fmt and data chunk,
// the same shape the teacher's parseWAVHeader walks.
func minimalWav(dataLen int) []byte {
	fmtChunk := make([]byte, 8+16)
	copy(fmtChunk[0:4], "fmt ")
	binary.LittleEndian.PutUint32(fmtChunk[4:8], 16)
	binary.LittleEndian.PutUint16(fmtChunk[8:10], 1)  // PCM
	binary.LittleEndian.PutUint16(fmtChunk[10:12], 2) // channels
	binary.LittleEndian.PutUint32(fmtChunk[12:16], 44100)
	binary.LittleEndian.PutUint32(fmtChunk[16:20], 44100*4)
	binary.LittleEndian.PutUint16(fmtChunk[20:22], 4)
	binary.LittleEndian.PutUint16(fmtChunk[22:24], 16)

	dataChunk := make([]byte, 8+dataLen)
	copy(dataChunk[0:4], "data")
	binary.LittleEndian.PutUint32(dataChunk[4:8], uint32(dataLen))

	body := append(fmtChunk, dataChunk...)
	out := make([]byte, 12)
	copy(out[0:4], "RIFF")
	copy(out[8:12], "WAVE")
	out = append(out, body...)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	carrier := minimalWav(1000)
	payload := []byte("hidden container bytes")

	embedded, err := Embed(carrier, payload)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	got, err := Extract(embedded)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}

	declared := binary.LittleEndian.Uint32(embedded[4:8])
	if int(declared) != len(embedded)-8 {
		t.Errorf("RIFF size field = %d, want %d", declared, len(embedded)-8)
	}
}

func TestEmbedOddLengthPadsChunk(t *testing.T) {
	carrier := minimalWav(10)
	payload := []byte("odd") // 3 bytes, odd length

	embedded, err := Embed(carrier, payload)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	got, err := Extract(embedded)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestEmbedReplacesExistingAuxChunk(t *testing.T) {
	carrier := minimalWav(10)
	first, err := Embed(carrier, []byte("first"))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	second, err := Embed(first, []byte("second, longer payload"))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	got, err := Extract(second)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !bytes.Equal(got, []byte("second, longer payload")) {
		t.Errorf("got %q, want replaced payload", got)
	}

	// Only one aux chunk should remain.
	chunks, err := walk(second)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	count := 0
	for _, c := range chunks {
		if c.id == ChunkID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("found %d aux chunks, want 1", count)
	}
}

func TestExtractNotFound(t *testing.T) {
	carrier := minimalWav(10)
	if _, err := Extract(carrier); err == nil {
		t.Fatal("expected NotFound on carrier without an aux chunk")
	}
}

func TestNotWav(t *testing.T) {
	if _, err := Extract([]byte("not a riff file at all")); err == nil {
		t.Fatal("expected NotWav error")
	}
}

func TestCorruptChunkRunsPastEnd(t *testing.T) {
	carrier := minimalWav(10)
	// Corrupt the fmt chunk's declared size so it claims to run past EOF.
	binary.LittleEndian.PutUint32(carrier[16:20], 0xFFFFFF)
	if _, err := Extract(carrier); err == nil {
		t.Fatal("expected CorruptWav error")
	}
}
