package stringutil

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	unicodeEncoding "golang.org/x/text/encoding/unicode"
)

var (
	ErrSeemsInvalid = fmt.Errorf("input seems not a valid string of specified charset")
)

// Key: IANA charset name (case sensitive) used by chardet.
var encodings = map[string]encoding.Encoding{
	"GB-18030":     simplifiedchinese.GB18030,
	"Big5":         traditionalchinese.Big5,
	"EUC-JP":       japanese.EUCJP, // GBK 字符串容易被误识别为 EUC-JP。
	"ISO-2022-JP":  japanese.ISO2022JP,
	"Shift_JIS":    japanese.ShiftJIS,
	"EUC-KR":       korean.EUCKR,
	"ISO-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"UTF-16BE":     unicodeEncoding.UTF16(unicodeEncoding.BigEndian, unicodeEncoding.IgnoreBOM),
	"UTF-16LE":     unicodeEncoding.UTF16(unicodeEncoding.LittleEndian, unicodeEncoding.IgnoreBOM),
}

func DecodeText(input []byte, charset string, force bool) ([]byte, error) {
	if charset == "UTF-8" {
		if !force && strings.ContainsRune(string(input), '�') {
			return input, ErrSeemsInvalid
		}
		return input, nil
	}
	if enc, ok := encodings[charset]; ok {
		output, err := enc.NewDecoder().Bytes(input)
		if !force && strings.ContainsRune(string(output), '�') { // U+FFFD, unicode REPLACEMENT CHARACTER
			return output, ErrSeemsInvalid
		}
		return output, err
	}
	return nil, fmt.Errorf("unsupported charset %s", charset)
}

// DetectAndDecode returns input as an UTF-8 string.
// Valid UTF-8 input is returned as is, otherwise the charset is guessed by chardet.
// If the guess fails, input is decoded as ISO-8859-1, which never fails.
func DetectAndDecode(input []byte) (string, string) {
	if utf8.Valid(input) {
		return string(input), "UTF-8"
	}
	detector := chardet.NewTextDetector()
	if result, err := detector.DetectBest(input); err == nil {
		if output, err := DecodeText(input, result.Charset, false); err == nil {
			return string(output), result.Charset
		}
	}
	output, _ := charmap.ISO8859_1.NewDecoder().Bytes(input)
	return string(output), "ISO-8859-1"
}

// DecodeUTF16 decodes UTF-16 input of unknown byte order.
// A BOM takes precedence. Without one, the order is guessed from the positions of zero bytes,
// which for mostly-ASCII text sit on the high byte of each code unit.
func DecodeUTF16(input []byte) string {
	var order unicodeEncoding.Endianness = unicodeEncoding.LittleEndian
	switch {
	case bytes.HasPrefix(input, []byte{0xFE, 0xFF}):
		order = unicodeEncoding.BigEndian
	case bytes.HasPrefix(input, []byte{0xFF, 0xFE}):
	default:
		even, odd := 0, 0
		for i, b := range input {
			if b != 0 {
				continue
			}
			if i%2 == 0 {
				even++
			} else {
				odd++
			}
		}
		if even > odd {
			order = unicodeEncoding.BigEndian
		}
	}
	output, _ := unicodeEncoding.UTF16(order, unicodeEncoding.UseBOM).NewDecoder().Bytes(input)
	return strings.TrimRight(string(output), "\x00")
}
