package aimeta

import (
	"slices"
	"strings"
)

// ScoreWeights are the weights of SelectBestPrompt score terms.
type ScoreWeights struct {
	Length     float64 `toml:"length" json:"length"`
	Commas     float64 `toml:"commas" json:"commas"`
	Quality    float64 `toml:"quality" json:"quality"`
	Style      float64 `toml:"style" json:"style"`
	Uniqueness float64 `toml:"uniqueness" json:"uniqueness"`
}

// Heuristics holds every keyword table, threshold and weight used to classify and score prompts.
// Keyword matching is case-insensitive; use Normalized() before matching with a hand-built value.
type Heuristics struct {
	// Texts containing any of these (case-insensitive) are negative prompts.
	NegativeKeywords []string `toml:"negative_keywords" json:"negative_keywords"`
	// A text whose matched-negative-keyword count / word count exceeds this is negative.
	NegativeRatioThreshold float64 `toml:"negative_ratio_threshold" json:"negative_ratio_threshold"`

	QualityKeywords []string     `toml:"quality_keywords" json:"quality_keywords"`
	StyleKeywords   []string     `toml:"style_keywords" json:"style_keywords"`
	IdealLength     int          `toml:"ideal_length" json:"ideal_length"`
	CommaCap        int          `toml:"comma_cap" json:"comma_cap"`
	Weights         ScoreWeights `toml:"weights" json:"weights"`

	// Deep search only collects strings longer than this (runes, after trimming).
	MinCandidateLength int `toml:"min_candidate_length" json:"min_candidate_length"`

	// ComfyUI node types whose text is a prompt.
	TextEncoderTypes []string `toml:"text_encoder_types" json:"text_encoder_types"`
	// ComfyUI node title substrings (case-insensitive) marking a negative prompt node.
	NegativeTitleMarkers []string `toml:"negative_title_markers" json:"negative_title_markers"`
	// ComfyUI node colors (case-insensitive hex) users give negative prompt nodes.
	NegativeColors []string `toml:"negative_colors" json:"negative_colors"`
}

// DefaultHeuristics returns a new copy of the built-in heuristics.
func DefaultHeuristics() *Heuristics {
	return &Heuristics{
		NegativeKeywords: []string{
			// quality
			"worst quality", "bad quality", "low quality", "poor quality",
			"bad anatomy", "bad proportions", "bad hands", "bad fingers",
			"ugly", "deformed", "disfigured", "mutated", "malformed",
			"blurry", "blur", "out of focus", "unfocused", "soft focus",
			"lowres", "low resolution", "pixelated", "jpeg artifacts",
			// technical
			"error", "glitch", "artifact", "noise", "grain", "distorted",
			"cropped", "cut off", "truncated", "incomplete",
			"watermark", "signature", "text", "logo", "username",
			"border", "frame", "black bars", "letterbox",
			// anatomy
			"extra limbs", "missing limbs", "extra fingers", "missing fingers",
			"extra arms", "extra legs", "fused fingers", "too many fingers",
			"long neck", "long body", "elongated", "stretched",
			"duplicate", "multiple", "conjoined", "merged",
			// style
			"amateur", "sketch", "draft", "unfinished", "rough",
			"simple", "basic", "plain", "boring", "dull",
			"monochrome", "grayscale", "black and white", "sepia",
			// content
			"nsfw", "nude", "naked", "explicit", "sexual",
			"violence", "blood", "gore", "disturbing", "scary",
			"dark", "horror", "nightmare", "creepy", "evil",
			// zh
			"最差质量", "糟糕质量", "低质量", "差质量",
			"糟糕解剖", "变形", "畸形", "丑陋", "模糊",
			"低分辨率", "像素化", "噪点", "伪影",
			"水印", "签名", "文字", "标志", "用户名",
			"多余的", "缺失的", "融合的", "重复的",
			"业余", "草图", "未完成", "粗糙", "简单",
			"单色", "灰度", "黑白", "暗色调",
		},
		NegativeRatioThreshold: 0.3,
		QualityKeywords:        []string{"masterpiece", "best quality", "high quality", "detailed", "professional"},
		StyleKeywords: []string{"anime", "realistic", "painting", "illustration", "digital art",
			"concept art"},
		IdealLength: 200,
		CommaCap:    10,
		Weights: ScoreWeights{
			Length:     0.3,
			Commas:     0.2,
			Quality:    0.2,
			Style:      0.1,
			Uniqueness: 0.2,
		},
		MinCandidateLength: 10,
		TextEncoderTypes: []string{
			"CLIPTextEncode",
			"CLIPTextEncodeSDXL",
			"BNK_CLIPTextEncoder",
			"WeiLin-ComfyUI-prompt-all-in-one",
			"TIPO",
			"PromptWithStyle",
			"StringFunction",
			"Text",
			"TextInput",
			"PromptBuilder",
			"AdvancedCLIPTextEncode",
			"CLIPTextEncodeFlux",
			"ShowText",
			"StringConstant",
			"MultilineStringLiteral",
		},
		NegativeTitleMarkers: []string{"negative", "负向", "反向"},
		NegativeColors:       []string{"#ff6b6b", "#e74c3c"},
	}
}

func (h *Heuristics) isTextEncoder(nodeType string) bool {
	return slices.Contains(h.TextEncoderTypes, nodeType)
}

// Normalized returns a copy of h with keyword tables lower-cased,
// so matching can lower-case only the input text.
func (h *Heuristics) Normalized() *Heuristics {
	n := *h
	n.NegativeKeywords = lowerAll(h.NegativeKeywords)
	n.QualityKeywords = lowerAll(h.QualityKeywords)
	n.StyleKeywords = lowerAll(h.StyleKeywords)
	n.NegativeTitleMarkers = lowerAll(h.NegativeTitleMarkers)
	n.NegativeColors = lowerAll(h.NegativeColors)
	n.TextEncoderTypes = slices.Clone(h.TextEncoderTypes)
	return &n
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Widget (input) names of ComfyUI parameter nodes, in widgets_values order.
// A "control_after_generate" widget follows every seed widget in the UI; it is skipped when present.
var nodeWidgets = map[string][]string{
	"KSampler": {"seed", "steps", "cfg", "sampler_name", "scheduler", "denoise"},
	"KSamplerAdvanced": {"add_noise", "noise_seed", "steps", "cfg", "sampler_name", "scheduler",
		"start_at_step", "end_at_step", "return_with_leftover_noise"},
	"SamplerCustom":          {"add_noise", "noise_seed", "cfg"},
	"CheckpointLoaderSimple": {"ckpt_name"},
	"CheckpointLoader":       {"config_name", "ckpt_name"},
	"EmptyLatentImage":       {"width", "height", "batch_size"},
	"LatentUpscale":          {"upscale_method", "width", "height", "crop"},
}

// ComfyUI input name => normalized parameter key.
var paramKeys = map[string]string{
	"seed":         "seed",
	"noise_seed":   "seed",
	"steps":        "steps",
	"cfg":          "cfg_scale",
	"sampler_name": "sampler",
	"scheduler":    "scheduler",
	"denoise":      "denoise",
	"ckpt_name":    "model",
	"width":        "width",
	"height":       "height",
}

// Values of the ComfyUI "control_after_generate" widget.
var seedControlValues = []string{"fixed", "increment", "decrement", "randomize"}

// Object keys that usually hold prompt text. Only used to annotate deep search paths.
var promptLikeKeys = []string{"text", "prompt", "string", "content", "value", "input", "output"}

// NovelAI metadata fields copied into parameters.
var novelAIParamKeys = []string{"steps", "scale", "seed", "sampler", "width", "height"}

// Markers in a "parameters" text chunk that identify the AUTOMATIC1111 layout (lower case).
var a1111Markers = []string{"steps:", "cfg scale:", "sampler:", "negative prompt:"}
