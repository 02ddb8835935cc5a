package aimeta

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	dsexif "github.com/dsoprea/go-exif/v3"
	"github.com/rwcarlsen/goexif/exif"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/sdmeta/util/stringutil"
)

var ErrNoExif = fmt.Errorf("no exif metadata")

// ExifFields are the EXIF fields that may carry generation metadata.
type ExifFields struct {
	Software         string
	ImageDescription string
	UserComment      string
}

// ReadExif locates the EXIF block anywhere in data (JPEG APP1, WebP EXIF, PNG eXIf...) and reads
// the generation related fields. Returns ErrNoExif if there is no EXIF or none of the fields is set.
func ReadExif(data []byte) (*ExifFields, error) {
	rawExif, err := dsexif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, dsexif.ErrNoExif) {
			return nil, ErrNoExif
		}
		return nil, fmt.Errorf("search exif: %w", err)
	}
	x, err := exif.Decode(bytes.NewReader(rawExif))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, fmt.Errorf("decode exif: %w", err)
	}
	fields := &ExifFields{
		Software:         exifText(x, exif.Software),
		ImageDescription: exifText(x, exif.ImageDescription),
	}
	if tag, err := x.Get(exif.UserComment); err == nil {
		fields.UserComment = DecodeUserComment(tag.Val)
	}
	if *fields == (ExifFields{}) {
		return nil, ErrNoExif
	}
	return fields, nil
}

func exifText(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	return decodeExifText(tag.Val)
}

// DecodeUserComment decodes an EXIF UserComment value.
// The first 8 bytes are the charset: "ASCII\0\0\0", "UNICODE\0", "JIS\0\0\0\0\0" or all zeros (undefined).
func DecodeUserComment(value []byte) string {
	if len(value) < 8 {
		return decodeExifText(value)
	}
	prefix, payload := value[:8], value[8:]
	switch {
	case bytes.HasPrefix(prefix, []byte("UNICODE")):
		return strings.TrimSpace(stringutil.DecodeUTF16(payload))
	case bytes.HasPrefix(prefix, []byte("ASCII")), bytes.HasPrefix(prefix, []byte("JIS")),
		bytes.Equal(prefix, make([]byte, 8)):
		return decodeExifText(payload)
	}
	// no charset prefix
	return decodeExifText(value)
}

func decodeExifText(value []byte) string {
	value = bytes.TrimRight(value, "\x00")
	text, charset := stringutil.DetectAndDecode(value)
	if charset != "UTF-8" {
		log.Debugf("exif: text decoded as %s", charset)
	}
	return strings.TrimSpace(text)
}

// ParseExif converts EXIF fields to metadata. Returns nil if there is no prompt text.
// A prompt in the AUTOMATIC1111 "parameters" layout (as written by its JPEG / WebP saver) is fully parsed.
func ParseExif(fields *ExifFields) *ParsedMetadata {
	if fields == nil {
		return nil
	}
	text := fields.UserComment
	if text == "" {
		text = fields.ImageDescription
	}
	var meta *ParsedMetadata
	if text != "" && IsAutomatic1111Text(text) {
		meta = ParseAutomatic1111(text)
		meta.Confidence = ConfidenceMedium
	} else {
		meta = &ParsedMetadata{
			Tool:       ToolUnknown,
			Positive:   text,
			Parameters: Params{},
			Confidence: ConfidenceLow,
		}
	}
	if fields.Software != "" {
		meta.Parameters.setIfAbsent("software", fields.Software)
	}
	if !meta.hasPrompt() {
		return nil
	}
	return meta
}
