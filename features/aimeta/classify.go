package aimeta

import (
	"strings"

	"github.com/sagan/sdmeta/features/pngchunk"
)

// FormatHint is the parser a text chunk should be routed to.
type FormatHint int

const (
	HintNone FormatHint = iota
	HintAutomatic1111
	HintComfyUI
	HintNovelAI
)

func (f FormatHint) String() string {
	switch f {
	case HintAutomatic1111:
		return string(ToolAutomatic1111)
	case HintComfyUI:
		return string(ToolComfyUI)
	case HintNovelAI:
		return string(ToolNovelAI)
	}
	return "none"
}

// Classify decides which parser handles a PNG text record, by keyword and content.
// Most PNG text chunks (Software, Creation Time...) are irrelevant and get HintNone.
func Classify(record *pngchunk.TextRecord) FormatHint {
	switch record.Keyword {
	case "parameters":
		if IsAutomatic1111Text(record.Text) {
			return HintAutomatic1111
		}
	case "workflow", "prompt":
		return HintComfyUI
	case "Description", "Comment":
		return HintNovelAI
	}
	return HintNone
}

// IsAutomatic1111Text reports whether text looks like an AUTOMATIC1111 "parameters" block.
func IsAutomatic1111Text(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range a1111Markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
