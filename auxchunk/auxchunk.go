/*
Package auxchunk implements the auxiliary-chunk steganographic channel: it
appends (or replaces) a private RIFF chunk carrying the container verbatim,
invisible to conventional players that skip unknown chunk IDs. The chunk
walker here generalizes the teacher's parseWAVHeader in
service/utils.go, which already walks RIFF chunks looking
for "data"; this package walks the same way looking for (or past) any
chunk, including the reserved auxiliary one.
*/
package auxchunk

import (
	"encoding/binary"
	"fmt"

	"github.com/vvwio/vvw/models"
)

// ChunkID is the reserved 4-byte chunk identifier this package injects.
var ChunkID = [4]byte{'z', 'i', 'm', 'H'}

const riffHeaderSize = 12 // "RIFF" + size(4) + "WAVE"

type chunk struct {
	id     [4]byte
	offset int // offset of the 8-byte chunk header
	size   int // declared chunk_size, excluding the pad byte
}

// walk returns every chunk in data, in file order, or an error if a chunk
// (including its pad byte) runs past the end of data. The RIFF header's
// declared size is not consulted.
func walk(data []byte) ([]chunk, error) {
	if len(data) < riffHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, models.ErrNotWav
	}

	var chunks []chunk
	offset := riffHeaderSize
	for offset+8 <= len(data) {
		var id [4]byte
		copy(id[:], data[offset:offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))

		advance := 8 + size
		if size%2 == 1 {
			advance++
		}
		if size < 0 || offset+advance > len(data) || advance <= 0 {
			return nil, fmt.Errorf("%w: chunk %q at offset %d runs past end of file", models.ErrCorrupt, id, offset)
		}

		chunks = append(chunks, chunk{id: id, offset: offset, size: size})
		offset += advance
	}
	return chunks, nil
}

// Embed appends payload as a private chunk, eliding any pre-existing
// instance of the same chunk ID, and rewrites the RIFF outer size. All
// other chunks and their order are preserved.
func Embed(carrier []byte, payload []byte) ([]byte, error) {
	chunks, err := walk(carrier)
	if err != nil {
		return nil, err
	}

	out := make([]byte, riffHeaderSize)
	copy(out, carrier[0:riffHeaderSize])

	for _, c := range chunks {
		if c.id == ChunkID {
			continue // elided: a fresh chunk is appended below
		}
		end := c.offset + 8 + c.size
		if c.size%2 == 1 {
			end++
		}
		out = append(out, carrier[c.offset:end]...)
	}

	out = append(out, ChunkID[:]...)
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(payload)))
	out = append(out, sizeBuf[:]...)
	out = append(out, payload...)
	if len(payload)%2 == 1 {
		out = append(out, 0x00)
	}

	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))

	return out, nil
}

// Extract returns the bytes of the first auxiliary chunk found, or
// models.ErrNotFound if none is present.
func Extract(carrier []byte) ([]byte, error) {
	chunks, err := walk(carrier)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		if c.id == ChunkID {
			start := c.offset + 8
			return append([]byte(nil), carrier[start:start+c.size]...), nil
		}
	}
	return nil, models.ErrNotFound
}
