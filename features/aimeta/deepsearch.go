package aimeta

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/sagan/sdmeta/util/jsonvalue"
)

// DeepSearchResult is the outcome of a deep search over an arbitrary JSON document.
type DeepSearchResult struct {
	Positive   string
	Negative   string
	Parameters Params
	// All accepted candidates, longest first.
	Candidates []Candidate
}

// DeepSearch walks every string leaf of v and picks the most plausible positive and negative prompts.
// Strings that are themselves JSON documents are searched recursively.
// Known sampler / model keys found on the way are collected as parameters; the first occurrence wins.
func (h *Heuristics) DeepSearch(v *jsonvalue.Value) *DeepSearchResult {
	var candidates []Candidate
	params := Params{}
	h.collect(v, "", &candidates, params)
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Length, a.Length)
	})

	result := &DeepSearchResult{Parameters: params}
	var positives, negatives []string
	for _, candidate := range candidates {
		accepted := &positives
		if h.IsNegativePrompt(candidate.Text) {
			accepted = &negatives
		}
		if overlapsAny(*accepted, candidate.Text) {
			log.Tracef("deep search: skip duplicate %s", candidate.Path)
			continue
		}
		*accepted = append(*accepted, candidate.Text)
		result.Candidates = append(result.Candidates, candidate)
	}
	log.Debugf("deep search: %d candidates, %d positive, %d negative",
		len(candidates), len(positives), len(negatives))
	result.Positive = h.SelectBestPrompt(positives)
	result.Negative = h.SelectBestPrompt(negatives)
	return result
}

func (h *Heuristics) collect(v *jsonvalue.Value, path string, candidates *[]Candidate, params Params) {
	if v == nil {
		return
	}
	switch v.Kind {
	case jsonvalue.String:
		text := strings.TrimSpace(v.Str)
		if embedded := parseEmbeddedJSON(text); embedded != nil {
			h.collect(embedded, path+"(json)", candidates, params)
			return
		}
		length := utf8.RuneCountInString(text)
		if length <= h.MinCandidateLength || IsSystemText(text) {
			return
		}
		log.Debugf("deep search: found text at %s: %.50q", path, text)
		*candidates = append(*candidates, Candidate{Text: text, Path: path, Length: length})
	case jsonvalue.Array:
		for i, item := range v.Items {
			h.collect(item, fmt.Sprintf("%s[%d]", path, i), candidates, params)
		}
	case jsonvalue.Object:
		for _, member := range v.Members {
			childPath := path + "." + member.Key
			if slices.Contains(promptLikeKeys, strings.ToLower(member.Key)) {
				childPath += "*"
			}
			if key, ok := paramKeys[member.Key]; ok {
				if value, ok := paramValue(member.Value); ok {
					params.setIfAbsent(key, value)
				}
			}
			h.collect(member.Value, childPath, candidates, params)
		}
	}
}

// parseEmbeddedJSON returns the parsed document if text is a JSON object or array.
func parseEmbeddedJSON(text string) *jsonvalue.Value {
	if len(text) < 2 || (text[0] != '{' && text[0] != '[') {
		return nil
	}
	v, err := jsonvalue.Parse([]byte(text))
	if err != nil || (v.Kind != jsonvalue.Object && v.Kind != jsonvalue.Array) {
		return nil
	}
	return v
}

// paramValue returns the value of a number or string JSON scalar.
func paramValue(v *jsonvalue.Value) (any, bool) {
	value, ok := v.Scalar()
	if !ok {
		return nil, false
	}
	switch value := value.(type) {
	case json.Number:
		return value, true
	case string:
		return value, value != ""
	}
	return nil, false
}

// overlapsAny reports whether text contains, or is contained by, any of accepted.
func overlapsAny(accepted []string, text string) bool {
	for _, other := range accepted {
		if strings.Contains(other, text) || strings.Contains(text, other) {
			return true
		}
	}
	return false
}
