package aimeta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagan/sdmeta/features/pngchunk"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		keyword string
		text    string
		want    FormatHint
	}{
		{"parameters", "a cat\nSteps: 20, Sampler: Euler", HintAutomatic1111},
		{"parameters", "a cat\nnegative prompt: dog", HintAutomatic1111},
		{"parameters", "just some text", HintNone},
		{"workflow", `{"nodes":[]}`, HintComfyUI},
		{"prompt", `{}`, HintComfyUI},
		{"prompt", "not json", HintComfyUI},
		{"Comment", `{"prompt":"a cat"}`, HintNovelAI},
		{"Description", "a cat", HintNovelAI},
		{"Software", "NovelAI", HintNone},
		{"Parameters", "Steps: 20", HintNone},
	}
	for _, c := range cases {
		got := Classify(&pngchunk.TextRecord{Keyword: c.keyword, Text: c.text})
		assert.Equal(t, c.want, got, "%s: %q", c.keyword, c.text)
	}
}

func TestFormatHintString(t *testing.T) {
	assert.Equal(t, "AUTOMATIC1111", HintAutomatic1111.String())
	assert.Equal(t, "none", HintNone.String())
}
