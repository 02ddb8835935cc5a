package aimeta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSystemText(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"a3f9c21b8e", true},
		{"1.2.3-beta", true},
		{"https://example.com/model", true},
		{"CONSTANT_NAME", true},
		{"image_01.png", true},
		{"TRUE", true},
		{"undefined", true},
		{"512x768", true},
		{"#FF6B6B", true},
		{"a beautiful girl, masterpiece", false},
		{"1girl, forest", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsSystemText(c.text), "text %q", c.text)
	}
}

func TestIsNegativePrompt(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	assert.True(t, h.IsNegativePrompt("lowres, bad anatomy, worst quality"))
	assert.True(t, h.IsNegativePrompt("Watermark"))
	assert.True(t, h.IsNegativePrompt("最差质量, 低质量"))
	assert.False(t, h.IsNegativePrompt("1girl, forest, masterpiece, best quality"))
	assert.False(t, h.IsNegativePrompt(""))
}

func TestSelectBestPrompt(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	short := "a cat sitting on the windowsill"
	long := "masterpiece, best quality, detailed, 1girl, solo, long silver hair, blue eyes, " +
		"standing in a sunlit meadow, wildflowers, gentle breeze, soft clouds, cinematic lighting, " +
		"wide shot, summer afternoon"
	assert.Equal(t, long, h.SelectBestPrompt([]string{short, long}))
	assert.Equal(t, long, h.SelectBestPrompt([]string{long, short}))
	assert.Equal(t, "", h.SelectBestPrompt(nil))
	assert.Equal(t, short, h.SelectBestPrompt([]string{short}))
	// equal scores: the first one wins
	assert.Equal(t, "cat dog", h.SelectBestPrompt([]string{"cat dog", "dog cat"}))
}

func TestPromptScore(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	ideal := strings.Repeat("a", 200)
	assert.InDelta(t, 0.3+0.2, h.PromptScore(ideal), 1e-9)
	assert.InDelta(t, 0.0, h.PromptScore(""), 1e-9)
	assert.Greater(t, h.PromptScore("masterpiece, anime"), h.PromptScore("cat, cat"))
}

func TestSmartMerge(t *testing.T) {
	cases := []struct {
		prompts []string
		want    string
	}{
		{nil, ""},
		{[]string{"a cat"}, "a cat"},
		{[]string{"a cat", "a cat"}, "a cat"},
		{[]string{"short one", "a much much longer prompt text here"}, "a much much longer prompt text here"},
		{[]string{"red apple", "green pear"}, "green pear, red apple"},
		{[]string{"abc", "xyz", "abcd"}, "abcd, abc, xyz"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SmartMerge(c.prompts), "prompts %q", c.prompts)
	}
}
