// Package pngchunk reads the chunk stream of PNG files without decoding the image,
// and decodes the text chunks (tEXt / iTXt) AI image tools write their metadata into.
package pngchunk

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// 89 50 4E 47 0D 0A 1A 0A
var Signature = []byte{137, 80, 78, 71, 13, 10, 26, 10}

var (
	ErrInvalidSignature = fmt.Errorf("not a valid PNG file")
	ErrTruncated        = fmt.Errorf("truncated PNG chunk stream")
)

const (
	TypeText  = "tEXt"
	TypeIText = "iTXt"
	TypeZText = "zTXt"
	TypeEnd   = "IEND"
)

// Chunk is one raw PNG chunk. Data aliases the parsed buffer.
type Chunk struct {
	Type   string
	Length uint32
	Data   []byte
	CRC    uint32 // as stored in file, never verified
}

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	return bytes.HasPrefix(data, Signature)
}

// Parse walks the chunk stream of a PNG file.
// It stops at the first IEND chunk, or when less than a chunk header (8 bytes) remains.
// CRC is read but not checked: a corrupt CRC must not stop metadata extraction.
// Returns ErrInvalidSignature if data is not a PNG,
// or ErrTruncated if a chunk declares more bytes than are left.
func Parse(data []byte) (chunks []Chunk, err error) {
	if !IsPNG(data) {
		return nil, ErrInvalidSignature
	}
	offset := len(Signature)
	for len(data)-offset >= 8 {
		length := binary.BigEndian.Uint32(data[offset:])
		chunkType := string(data[offset+4 : offset+8])
		offset += 8
		// data + 4 bytes CRC
		if uint64(length)+4 > uint64(len(data)-offset) {
			return nil, fmt.Errorf("%w: chunk %q at offset %d declares %d bytes, only %d left",
				ErrTruncated, chunkType, offset-8, length, len(data)-offset)
		}
		chunk := Chunk{
			Type:   chunkType,
			Length: length,
			Data:   data[offset : offset+int(length) : offset+int(length)],
		}
		offset += int(length)
		chunk.CRC = binary.BigEndian.Uint32(data[offset:])
		offset += 4
		chunks = append(chunks, chunk)
		if chunkType == TypeEnd {
			break
		}
	}
	return chunks, nil
}
