package aimeta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sagan/sdmeta/constants"
	"github.com/sagan/sdmeta/features/pngchunk"
	"github.com/sagan/sdmeta/util/imgutil"
)

// Extractor extracts generation metadata from image files.
// It's read-only after New and safe for concurrent use.
type Extractor struct {
	h *Heuristics
}

// New returns an Extractor using h. If h is nil, DefaultHeuristics() is used.
func New(h *Heuristics) *Extractor {
	if h == nil {
		h = DefaultHeuristics()
	}
	return &Extractor{h: h.Normalized()}
}

var defaultExtractor = New(nil)

// Extract extracts metadata from data using the default heuristics.
func Extract(ctx context.Context, data []byte, info *FileInfo) (*Result, error) {
	return defaultExtractor.Extract(ctx, data, info)
}

// Extract reads every metadata source of the image file contents data.
// info is the declared file info and may be nil; an empty Type is sniffed from data.
// Only a corrupt PNG structure (pngchunk.ErrInvalidSignature / pngchunk.ErrTruncated) returns an error;
// an image without any generation metadata is a Result with Success false.
func (e *Extractor) Extract(ctx context.Context, data []byte, info *FileInfo) (*Result, error) {
	result := &Result{}
	if info != nil {
		result.BasicInfo = *info
		result.Filename = info.Name
	}
	basicInfo := &result.BasicInfo
	if basicInfo.Size == 0 {
		basicInfo.Size = int64(len(data))
	}
	if basicInfo.Type == "" {
		basicInfo.Type = http.DetectContentType(data)
	}
	basicInfo.SizeFormatted = fmt.Sprintf("%.1f KB", float64(basicInfo.Size)/1024)
	if width, height, err := imgutil.DecodeSize(data); err == nil {
		basicInfo.Width, basicInfo.Height = width, height
	} else {
		log.Debugf("%s: %v", result.Filename, err)
	}

	var pngSources []Source
	var exifSource *Source
	g, ctx := errgroup.WithContext(ctx)
	if isPNGType(basicInfo.Type) {
		g.Go(func() (err error) {
			pngSources, err = e.extractPNG(ctx, data)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		exifSource = e.extractExif(data)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sources := pngSources
	if exifSource != nil {
		sources = append(sources, *exifSource)
	}
	result.Standardized = Standardize(sources)
	result.Methods = []Method{}
	for _, source := range sources {
		result.Methods = append(result.Methods, Method{
			Method:     source.Method,
			Keyword:    source.Keyword,
			Tool:       source.Meta.Tool,
			Confidence: source.Meta.Confidence,
		})
	}
	result.Success = len(sources) > 0
	result.Timestamp = time.Now().UTC().Format(constants.TIME_FORMAT)
	return result, nil
}

// extractPNG parses every AI metadata text chunk of a PNG file, in chunk order.
func (e *Extractor) extractPNG(ctx context.Context, data []byte) ([]Source, error) {
	chunks, err := pngchunk.Parse(data)
	if err != nil {
		return nil, err
	}
	var sources []Source
	for _, record := range pngchunk.DecodeAll(chunks) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if record.Text == "" {
			log.Tracef("png: skip empty text chunk %q", record.Keyword)
			continue
		}
		hint := Classify(record)
		if hint == HintNone {
			log.Tracef("png: skip text chunk %q", record.Keyword)
			continue
		}
		var meta *ParsedMetadata
		switch hint {
		case HintAutomatic1111:
			meta = ParseAutomatic1111(record.Text)
		case HintComfyUI:
			meta, err = e.h.ParseComfyUI(record.Text)
			if err != nil {
				log.Warnf("png: text chunk %q: %v", record.Keyword, err)
				continue
			}
		case HintNovelAI:
			meta = ParseNovelAI(record.Text)
		}
		if meta == nil {
			continue
		}
		log.Debugf("png: text chunk %q parsed as %s (%s)", record.Keyword, meta.Tool, meta.Confidence)
		sources = append(sources, Source{Method: SourcePNG, Keyword: record.Keyword, Meta: meta})
	}
	return sources, nil
}

func (e *Extractor) extractExif(data []byte) *Source {
	fields, err := ReadExif(data)
	if err != nil {
		if !errors.Is(err, ErrNoExif) {
			log.Debugf("exif: %v", err)
		}
		return nil
	}
	meta := ParseExif(fields)
	if meta == nil {
		return nil
	}
	return &Source{Method: SourceEXIF, Meta: meta}
}

func isPNGType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), constants.MIME_PNG)
}
