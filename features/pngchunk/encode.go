package pngchunk

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"golang.org/x/text/encoding/charmap"
)

// Encode serializes chunks into a PNG byte stream, prefixed with the PNG signature.
// Length and CRC of each chunk are computed from Type and Data.
// If the last chunk is not IEND, an IEND chunk is appended.
func Encode(chunks ...Chunk) []byte {
	var buf bytes.Buffer
	buf.Write(Signature)
	for _, c := range chunks {
		writeChunk(&buf, c.Type, c.Data)
	}
	if len(chunks) == 0 || chunks[len(chunks)-1].Type != TypeEnd {
		writeChunk(&buf, TypeEnd, nil)
	}
	return buf.Bytes()
}

func writeChunk(buf *bytes.Buffer, chunkType string, data []byte) {
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(chunkType)
	buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	binary.Write(buf, binary.BigEndian, crc.Sum32())
}

// NewTextChunk returns a tEXt chunk with keyword and text encoded as Latin-1.
// A string that is not representable in Latin-1 is written as is.
func NewTextChunk(keyword, text string) Chunk {
	data := append(encodeLatin1(keyword), 0)
	data = append(data, encodeLatin1(text)...)
	return Chunk{Type: TypeText, Length: uint32(len(data)), Data: data}
}

// NewITextChunk returns an uncompressed iTXt chunk with empty language tag and translated keyword.
func NewITextChunk(keyword, text string) Chunk {
	data := append([]byte(keyword), 0, 0, 0, 0, 0)
	data = append(data, text...)
	return Chunk{Type: TypeIText, Length: uint32(len(data)), Data: data}
}

func encodeLatin1(s string) []byte {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}
