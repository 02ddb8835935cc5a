package aimeta

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	dsexif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

// buildExif returns a TIFF-headed EXIF block with IFD0 ASCII tags, given as name, value pairs
// in ascending tag id order.
func buildExif(t *testing.T, tags ...string) []byte {
	t.Helper()
	im, err := exifcommon.NewIfdMappingWithStandard()
	require.NoError(t, err)
	ib := dsexif.NewIfdBuilder(im, dsexif.NewTagIndex(), exifcommon.IfdStandardIfdIdentity, binary.BigEndian)
	for i := 0; i+1 < len(tags); i += 2 {
		require.NoError(t, ib.AddStandardWithName(tags[i], tags[i+1]))
	}
	data, err := dsexif.NewIfdByteEncoder().EncodeToExif(ib)
	require.NoError(t, err)
	return data
}

func TestReadExif(t *testing.T) {
	data := buildExif(t, "ImageDescription", "a cat on a sofa", "Software", "Stable Diffusion")
	// the EXIF block may be anywhere in the file
	data = append([]byte("some leading bytes"), data...)
	fields, err := ReadExif(data)
	require.NoError(t, err)
	assert.Equal(t, "a cat on a sofa", fields.ImageDescription)
	assert.Equal(t, "Stable Diffusion", fields.Software)
	assert.Empty(t, fields.UserComment)
}

func TestReadExifNone(t *testing.T) {
	_, err := ReadExif([]byte("no exif in here"))
	assert.ErrorIs(t, err, ErrNoExif)
}

func utf16Bytes(t *testing.T, order unicode.Endianness, s string) []byte {
	t.Helper()
	b, err := unicode.UTF16(order, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestDecodeUserComment(t *testing.T) {
	cases := []struct {
		name  string
		value []byte
		want  string
	}{
		{"ascii", []byte("ASCII\x00\x00\x00hello world\x00"), "hello world"},
		{"undefined", append(make([]byte, 8), "a cat"...), "a cat"},
		{"unicode big endian", append([]byte("UNICODE\x00"), utf16Bytes(t, unicode.BigEndian, "hi 你好")...), "hi 你好"},
		{"unicode little endian", append([]byte("UNICODE\x00"), utf16Bytes(t, unicode.LittleEndian, "hi 你好")...), "hi 你好"},
		{"unicode bom", append([]byte("UNICODE\x00\xff\xfe"), utf16Bytes(t, unicode.LittleEndian, "a cat")...), "a cat"},
		{"no prefix", []byte("a cat sitting on a sofa"), "a cat sitting on a sofa"},
		{"short", []byte("ab"), "ab"},
		{"utf8 payload", []byte("ASCII\x00\x00\x00一个女孩"), "一个女孩"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DecodeUserComment(c.value), c.name)
	}
}

func TestParseExif(t *testing.T) {
	meta := ParseExif(&ExifFields{
		UserComment:      "1girl\nNegative prompt: lowres\nSteps: 20, Seed: 5",
		ImageDescription: "ignored",
		Software:         "sd-webui",
	})
	require.NotNil(t, meta)
	assert.Equal(t, ToolAutomatic1111, meta.Tool)
	assert.Equal(t, ConfidenceMedium, meta.Confidence)
	assert.Equal(t, "1girl", meta.Positive)
	assert.Equal(t, "lowres", meta.Negative)
	assert.Equal(t, Params{
		"steps":    json.Number("20"),
		"seed":     json.Number("5"),
		"software": "sd-webui",
	}, meta.Parameters)

	meta = ParseExif(&ExifFields{ImageDescription: "a cat on a sofa"})
	require.NotNil(t, meta)
	assert.Equal(t, ToolUnknown, meta.Tool)
	assert.Equal(t, ConfidenceLow, meta.Confidence)
	assert.Equal(t, "a cat on a sofa", meta.Positive)
	assert.Equal(t, Params{}, meta.Parameters)

	assert.Nil(t, ParseExif(&ExifFields{Software: "GIMP"}))
	assert.Nil(t, ParseExif(nil))
}
