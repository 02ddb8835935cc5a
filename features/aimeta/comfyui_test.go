package aimeta

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagan/sdmeta/util/jsonvalue"
)

const testWorkflow = `{
  "last_node_id": 5,
  "nodes": [
    {"id": 1, "type": "CheckpointLoaderSimple", "widgets_values": ["sdxl_base.safetensors"]},
    {"id": 2, "type": "CLIPTextEncode", "title": "Negative", "widgets_values": ["a beautiful landscape, masterpiece"]},
    {"id": 3, "type": "CLIPTextEncode", "widgets_values": ["1girl, forest, sunny day"]},
    {"id": 4, "type": "KSampler", "widgets_values": [123456789012345678, "randomize", 25, 6.5, "euler", "normal", 1]},
    {"id": 5, "type": "EmptyLatentImage", "widgets_values": [832, 1216, 1]}
  ]
}`

const testPrompt = `{
  "3": {"class_type": "KSampler", "inputs": {"seed": 42, "steps": 20, "cfg": 7, "sampler_name": "euler",
    "scheduler": "normal", "denoise": 1, "model": ["4", 0], "positive": ["6", 0], "negative": ["7", 0]}},
  "4": {"class_type": "CheckpointLoaderSimple", "inputs": {"ckpt_name": "v1-5-pruned.ckpt"}},
  "6": {"class_type": "CLIPTextEncode", "inputs": {"text": "1girl, forest, masterpiece, best quality", "clip": ["4", 1]}},
  "7": {"class_type": "CLIPTextEncode", "inputs": {"text": "lowres, bad anatomy, worst quality", "clip": ["4", 1]}}
}`

func TestParseComfyUIWorkflow(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	meta, err := h.ParseComfyUI(testWorkflow)
	require.NoError(t, err)
	assert.Equal(t, ToolComfyUI, meta.Tool)
	assert.Equal(t, ConfidenceHigh, meta.Confidence)
	assert.Equal(t, "1girl, forest, sunny day", meta.Positive)
	assert.Equal(t, "a beautiful landscape, masterpiece", meta.Negative)
	assert.Equal(t, Params{
		"model":     "sdxl_base.safetensors",
		"seed":      json.Number("123456789012345678"),
		"steps":     json.Number("25"),
		"cfg_scale": json.Number("6.5"),
		"sampler":   "euler",
		"scheduler": "normal",
		"denoise":   json.Number("1"),
		"width":     json.Number("832"),
		"height":    json.Number("1216"),
	}, meta.Parameters)
}

func TestParseComfyUIPrompt(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	meta, err := h.ParseComfyUI(testPrompt)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceHigh, meta.Confidence)
	assert.Equal(t, "1girl, forest, masterpiece, best quality", meta.Positive)
	assert.Equal(t, "lowres, bad anatomy, worst quality", meta.Negative)
	assert.Equal(t, Params{
		"model":     "v1-5-pruned.ckpt",
		"seed":      json.Number("42"),
		"steps":     json.Number("20"),
		"cfg_scale": json.Number("7"),
		"sampler":   "euler",
		"scheduler": "normal",
		"denoise":   json.Number("1"),
	}, meta.Parameters)
}

func TestParseComfyUINodeSignals(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	cases := []struct {
		name     string
		doc      string
		positive string
		negative string
	}{
		{
			name: "negative color",
			doc: `{"nodes": [{"type": "CLIPTextEncode", "color": "#FF6B6B", "widgets_values": ["sunset over the sea"]},
				{"type": "CLIPTextEncode", "widgets_values": ["a lighthouse"]}]}`,
			positive: "a lighthouse",
			negative: "sunset over the sea",
		},
		{
			name:     "positive title with negative text",
			doc:      `{"nodes": [{"type": "CLIPTextEncode", "title": "Positive Prompt", "widgets_values": ["lowres landscape"]}]}`,
			negative: "lowres landscape",
		},
		{
			name: "stock positive title",
			doc: `{"nodes": [{"type": "CLIPTextEncode", "title": "CLIP Text Encode (Positive Prompt)",
				"widgets_values": ["a dark castle at night, watermark"]}]}`,
			negative: "a dark castle at night, watermark",
		},
		{
			name:     "stock positive title with plain text",
			doc:      `{"nodes": [{"type": "CLIPTextEncode", "title": "CLIP Text Encode (Positive Prompt)", "widgets_values": ["a lighthouse"]}]}`,
			positive: "a lighthouse",
		},
		{
			name:     "chinese negative title",
			doc:      `{"nodes": [{"type": "CLIPTextEncode", "title": "反向提示词", "widgets_values": ["a lighthouse"]}]}`,
			negative: "a lighthouse",
		},
		{
			name:     "prompt meta title",
			doc:      `{"1": {"class_type": "CLIPTextEncode", "_meta": {"title": "CLIP Negative"}, "inputs": {"text": "a lighthouse"}}}`,
			negative: "a lighthouse",
		},
		{
			name:     "node text field",
			doc:      `{"nodes": [{"type": "ShowText", "widgets_values": ["", 1], "text": "  a lighthouse  "}]}`,
			positive: "a lighthouse",
		},
		{
			name: "converted text widget",
			doc: `{"nodes": [{"type": "CLIPTextEncode", "widgets_values": [],
				"inputs": [{"name": "clip"}, {"name": "text", "widget": {"name": "text", "value": "a lighthouse"}}]}]}`,
			positive: "a lighthouse",
		},
		{
			name:     "properties text",
			doc:      `{"nodes": [{"type": "Text", "properties": {"text": "a lighthouse"}}]}`,
			positive: "a lighthouse",
		},
		{
			name:     "prompt input",
			doc:      `{"1": {"class_type": "TIPO", "inputs": {"text": ["2", 0], "prompt": "a lighthouse"}}}`,
			positive: "a lighthouse",
		},
		{
			name: "merge same polarity",
			doc: `{"nodes": [{"type": "CLIPTextEncode", "widgets_values": ["red apple"]},
				{"type": "CLIPTextEncode", "widgets_values": ["green pear"]},
				{"type": "CLIPTextEncode", "widgets_values": ["red apple"]}]}`,
			positive: "green pear, red apple",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			meta, err := h.ParseComfyUI(c.doc)
			require.NoError(t, err)
			assert.Equal(t, c.positive, meta.Positive)
			assert.Equal(t, c.negative, meta.Negative)
		})
	}
}

func TestParseComfyUIParameterOverwrite(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	doc := `{"nodes": [
		{"type": "CLIPTextEncode", "widgets_values": ["a lighthouse"]},
		{"type": "KSampler", "widgets_values": [1, "fixed", 20, 7, "euler", "normal", 1]},
		{"type": "KSampler", "widgets_values": [2, 30, 5, "dpmpp_2m", "karras", 0.5]}
	]}`
	meta, err := h.ParseComfyUI(doc)
	require.NoError(t, err)
	assert.Equal(t, json.Number("2"), meta.Parameters["seed"])
	assert.Equal(t, json.Number("30"), meta.Parameters["steps"])
	assert.Equal(t, "karras", meta.Parameters["scheduler"])
	assert.Equal(t, json.Number("0.5"), meta.Parameters["denoise"])
}

func TestParseComfyUILinkedInputsSkipped(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	doc := `{"1": {"class_type": "KSampler", "inputs": {"seed": ["10", 0], "steps": 12}},
		"2": {"class_type": "CLIPTextEncode", "inputs": {"text": "a lighthouse"}}}`
	meta, err := h.ParseComfyUI(doc)
	require.NoError(t, err)
	assert.Equal(t, Params{"steps": json.Number("12")}, meta.Parameters)
}

func TestParseComfyUIDeepSearch(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	doc := `{"nodes": [{"type": "Note", "widgets_values": [
		"1girl, silver hair, masterpiece, best quality, garden",
		"worst quality, lowres, bad hands",
		"a3f9c21b8e11"]}],
		"extra": {"seed": 7}}`
	meta, err := h.ParseComfyUI(doc)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceMedium, meta.Confidence)
	assert.Equal(t, "1girl, silver hair, masterpiece, best quality, garden", meta.Positive)
	assert.Equal(t, "worst quality, lowres, bad hands", meta.Negative)
	assert.Equal(t, json.Number("7"), meta.Parameters["seed"])
}

func TestParseComfyUINothingFound(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	meta, err := h.ParseComfyUI(`{"nodes": []}`)
	require.NoError(t, err)
	assert.Equal(t, ToolComfyUI, meta.Tool)
	assert.Equal(t, ConfidenceLow, meta.Confidence)
	assert.Empty(t, meta.Positive)
	assert.Empty(t, meta.Negative)
}

func TestParseComfyUIInvalid(t *testing.T) {
	h := DefaultHeuristics().Normalized()
	for _, doc := range []string{"", "not json", `{"a":`, `[1, 2]`, `"text"`} {
		_, err := h.ParseComfyUI(doc)
		assert.Error(t, err, "doc %q", doc)
	}
}

func TestNamedWidgets(t *testing.T) {
	layout := nodeWidgets["KSamplerAdvanced"]
	for _, doc := range []string{
		`["enable", 99, "fixed", 30, 8, "dpmpp_2m", "karras", 0, 10000, "disable"]`,
		`["enable", 99, 30, 8, "dpmpp_2m", "karras", 0, 10000, "disable"]`,
	} {
		values, err := jsonvalue.Parse([]byte(doc))
		require.NoError(t, err)
		params := Params{}
		for _, widget := range namedWidgets(layout, values.Items) {
			setParam(params, widget.Key, widget.Value)
		}
		assert.Equal(t, Params{
			"seed":      json.Number("99"),
			"steps":     json.Number("30"),
			"cfg_scale": json.Number("8"),
			"sampler":   "dpmpp_2m",
			"scheduler": "karras",
		}, params, doc)
	}
}
