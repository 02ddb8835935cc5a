package pngchunk

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextRecord is a keyword / text pair of a PNG text chunk. Keyword is never empty.
type TextRecord struct {
	Keyword string
	Text    string
}

// Decode decodes a tEXt or iTXt chunk.
// It returns ok=false for other chunk types (including zTXt) and for malformed text chunks,
// so one bad chunk never stops the extraction of the others.
//
// tEXt: keyword \0 text, both Latin-1.
// iTXt: keyword \0 compression flag (1 byte) compression method (1 byte) language tag \0
// translated keyword \0 text; keyword and text are UTF-8 (Latin-1 fallback if invalid).
// Compressed iTXt text is not inflated and is returned as is.
func Decode(c Chunk) (record *TextRecord, ok bool) {
	switch c.Type {
	case TypeText:
		keyword, text, found := bytes.Cut(c.Data, []byte{0})
		if !found || len(keyword) == 0 {
			return nil, false
		}
		return &TextRecord{Keyword: decodeLatin1(keyword), Text: decodeLatin1(text)}, true
	case TypeIText:
		keyword, rest, found := bytes.Cut(c.Data, []byte{0})
		if !found || len(keyword) == 0 || len(rest) < 2 {
			return nil, false
		}
		rest = rest[2:] // compression flag & method
		if _, rest, found = bytes.Cut(rest, []byte{0}); !found { // language tag
			return nil, false
		}
		_, text, found := bytes.Cut(rest, []byte{0}) // translated keyword
		if !found {
			return nil, false
		}
		return &TextRecord{Keyword: decodeUTF8(keyword), Text: decodeUTF8(text)}, true
	}
	return nil, false
}

// DecodeAll decodes every text chunk of chunks, in file order, skipping malformed ones.
func DecodeAll(chunks []Chunk) (records []*TextRecord) {
	for _, c := range chunks {
		if record, ok := Decode(c); ok {
			records = append(records, record)
		}
	}
	return records
}

func decodeLatin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// every byte is a valid Latin-1 char, unreachable in practice
		return string(b)
	}
	return string(s)
}

func decodeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return decodeLatin1(b)
}
