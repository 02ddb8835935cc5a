package aimeta

import (
	log "github.com/sirupsen/logrus"

	"github.com/sagan/sdmeta/util/jsonvalue"
)

// ParseNovelAI parses the JSON of a NovelAI "Comment" / "Description" text chunk.
// Returns nil if text is not a JSON object.
func ParseNovelAI(text string) *ParsedMetadata {
	doc, err := jsonvalue.Parse([]byte(text))
	if err != nil || doc.Kind != jsonvalue.Object {
		log.Debugf("novelai: not a json object, ignored")
		return nil
	}
	meta := &ParsedMetadata{
		Tool:       ToolNovelAI,
		Positive:   doc.Get("prompt").TrimmedString(),
		Negative:   doc.Get("uc").TrimmedString(),
		Parameters: Params{},
		Confidence: ConfidenceHigh,
	}
	for _, key := range novelAIParamKeys {
		if value, ok := paramValue(doc.Get(key)); ok {
			meta.Parameters[key] = value
		}
	}
	return meta
}
