package aimeta

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// Strings that are obviously not prompts: hashes, versions, urls, constants, filenames, literals, sizes, colors.
var systemTextRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[a-f0-9]{8,}$`),
	regexp.MustCompile(`^\d+\.\d+\.\d+`),
	regexp.MustCompile(`^https?://`),
	regexp.MustCompile(`^[A-Z_]+$`),
	regexp.MustCompile(`(?i)^\w+\.(png|jpg|jpeg|webp|gif)$`),
	regexp.MustCompile(`(?i)^(true|false|null|undefined)$`),
	regexp.MustCompile(`^\d+x\d+$`),
	regexp.MustCompile(`(?i)^#[a-f0-9]{6}$`),
}

// IsSystemText reports whether text is machine data (hash, version, URL...) rather than a possible prompt.
func IsSystemText(text string) bool {
	text = strings.TrimSpace(text)
	for _, re := range systemTextRegexes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// IsNegativePrompt reports whether text looks like a negative prompt. Any of:
// it contains a negative keyword; the ratio of matched negative keywords to words
// exceeds NegativeRatioThreshold; it starts with a negative keyword.
func (h *Heuristics) IsNegativePrompt(text string) bool {
	lower := strings.ToLower(text)
	matched := 0
	startsWithKeyword := false
	for _, keyword := range h.NegativeKeywords {
		if strings.Contains(lower, keyword) {
			matched++
			if strings.HasPrefix(lower, keyword) {
				startsWithKeyword = true
			}
		}
	}
	words := max(len(strings.Fields(text)), 1)
	ratio := float64(matched) / float64(words)
	return matched > 0 || ratio > h.NegativeRatioThreshold || startsWithKeyword
}

// PromptScore scores how much text looks like a complete, final prompt. Higher is better.
func (h *Heuristics) PromptScore(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0

	if h.IdealLength > 0 {
		ideal := float64(h.IdealLength)
		length := float64(utf8.RuneCountInString(text))
		score += math.Max(0, 1-math.Abs(length-ideal)/ideal) * h.Weights.Length
	}
	if h.CommaCap > 0 {
		commas := float64(strings.Count(text, ","))
		score += math.Min(commas/float64(h.CommaCap), 1) * h.Weights.Commas
	}
	score += keywordFraction(lower, h.QualityKeywords) * h.Weights.Quality
	score += keywordFraction(lower, h.StyleKeywords) * h.Weights.Style

	if words := strings.Fields(lower); len(words) > 0 {
		unique := map[string]struct{}{}
		for _, word := range words {
			unique[word] = struct{}{}
		}
		score += float64(len(unique)) / float64(len(words)) * h.Weights.Uniqueness
	}
	return score
}

func keywordFraction(lower string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	found := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

// SelectBestPrompt returns the highest scoring text, the earliest one on a tie.
// Returns "" if texts is empty.
func (h *Heuristics) SelectBestPrompt(texts []string) string {
	switch len(texts) {
	case 0:
		return ""
	case 1:
		return texts[0]
	}
	best, bestScore := 0, h.PromptScore(texts[0])
	for i := 1; i < len(texts); i++ {
		if score := h.PromptScore(texts[i]); score > bestScore {
			best, bestScore = i, score
		}
	}
	log.Debugf("best prompt (score %.2f) of %d: %.50q", bestScore, len(texts), texts[best])
	return texts[best]
}

// SmartMerge merges the prompt texts found in several nodes into one.
// If the longest text is more than twice as long as the next one, it's taken as the final (composed) prompt;
// otherwise all distinct texts are joined by ", ", longest first.
func SmartMerge(prompts []string) string {
	var unique []string
	for _, prompt := range prompts {
		if !slices.Contains(unique, prompt) {
			unique = append(unique, prompt)
		}
	}
	switch len(unique) {
	case 0:
		return ""
	case 1:
		return unique[0]
	}
	slices.SortStableFunc(unique, func(a, b string) int {
		return cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a))
	})
	if utf8.RuneCountInString(unique[0]) > 2*utf8.RuneCountInString(unique[1]) {
		return unique[0]
	}
	return strings.Join(unique, ", ")
}
