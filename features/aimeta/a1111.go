package aimeta

import (
	"encoding/json"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

const a1111NegativeMarker = "Negative prompt:"

// A line containing any of these is the start of the parameter block.
var a1111ParamLineRegex = regexp.MustCompile(`(?i)\b(Steps|Sampler|CFG scale|Seed|Size|Model):`)

// One "key: value" segment of a parameter line.
var a1111ParamRegex = regexp.MustCompile(`^\s*(\w+(?:\s+\w+)*)\s*:(.*)$`)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// JSON number grammar, so every number parameter is also a valid json.Number.
var numberRegex = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ParseAutomatic1111 parses the AUTOMATIC1111 "parameters" text:
//
//	<positive prompt>
//	Negative prompt: <negative prompt>
//	Steps: 20, Sampler: Euler a, CFG scale: 7, Seed: 1, Size: 512x512, Model: xxx
//
// Both prompts may span multiple lines. Without the "Negative prompt:" marker,
// all text before the parameter line is the positive prompt.
func ParseAutomatic1111(text string) *ParsedMetadata {
	meta := &ParsedMetadata{
		Tool:       ToolAutomatic1111,
		Confidence: ConfidenceHigh,
	}
	var paramLines []string
	if before, after, found := strings.Cut(text, a1111NegativeMarker); found {
		meta.Positive = strings.TrimSpace(before)
		var negativeLines []string
		negativeLines, paramLines = splitParameterLines(after)
		meta.Negative = strings.TrimSpace(strings.Join(negativeLines, "\n"))
	} else {
		var positiveLines []string
		positiveLines, paramLines = splitParameterLines(text)
		meta.Positive = strings.TrimSpace(strings.Join(positiveLines, " "))
	}
	meta.Parameters = ParseParameters(strings.Join(paramLines, ", "))
	log.Debugf("a1111: positive %d chars, negative %d chars, %d params",
		len(meta.Positive), len(meta.Negative), len(meta.Parameters))
	return meta
}

// splitParameterLines splits text into trimmed, non-empty lines.
// The first line matching the parameter predicate and every line after it are paramLines;
// lines before it are textLines.
func splitParameterLines(text string) (textLines []string, paramLines []string) {
	inParams := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if inParams || a1111ParamLineRegex.MatchString(line) {
			inParams = true
			paramLines = append(paramLines, line)
		} else {
			textLines = append(textLines, line)
		}
	}
	return textLines, paramLines
}

// ParseParameters parses "Steps: 20, Sampler: DPM++ 2M, CFG scale: 7" style text.
// A comma-separated segment that does not start with "key:" belongs to the previous value.
// Keys are lower-cased with spaces removed ("CFG scale" => "cfgscale").
// Values that are numbers become json.Number, others are kept as string.
func ParseParameters(text string) Params {
	type pair struct {
		key   string
		value string
	}
	var pairs []pair
	for _, segment := range strings.Split(text, ",") {
		if m := a1111ParamRegex.FindStringSubmatch(segment); m != nil {
			pairs = append(pairs, pair{key: m[1], value: m[2]})
		} else if len(pairs) > 0 {
			pairs[len(pairs)-1].value += "," + segment
		}
	}
	params := Params{}
	for _, p := range pairs {
		key := strings.ToLower(whitespaceRegex.ReplaceAllString(p.key, ""))
		value := strings.TrimSpace(p.value)
		if value == "" {
			continue
		}
		params[key] = parseParamValue(value)
	}
	return params
}

func parseParamValue(value string) any {
	if numberRegex.MatchString(value) {
		return json.Number(value)
	}
	return value
}
