package aimeta

import (
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sagan/sdmeta/util/jsonvalue"
)

// comfyExtraction accumulates the structural pass results of one ComfyUI document.
type comfyExtraction struct {
	positives []string
	negatives []string
	params    Params
}

func (ex *comfyExtraction) add(text string, negative bool) {
	if negative {
		ex.negatives = append(ex.negatives, text)
	} else {
		ex.positives = append(ex.positives, text)
	}
}

// ParseComfyUI parses a ComfyUI "workflow" (UI graph, {"nodes": [...]}) or "prompt" (API graph,
// {"<id>": {"class_type": ..., "inputs": {...}}}) JSON document.
// If no prompt text is found in text encoder nodes, the whole document is deep searched.
func (h *Heuristics) ParseComfyUI(text string) (*ParsedMetadata, error) {
	doc, err := jsonvalue.Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("comfyui: %w", err)
	}
	if doc.Kind != jsonvalue.Object {
		return nil, fmt.Errorf("comfyui: expect json object, got %s", doc.Kind)
	}
	ex := &comfyExtraction{params: Params{}}
	if nodes := doc.Get("nodes"); nodes != nil && nodes.Kind == jsonvalue.Array {
		log.Debugf("comfyui: workflow of %d nodes", len(nodes.Items))
		for _, node := range nodes.Items {
			h.workflowNode(node, ex)
		}
	} else {
		log.Debugf("comfyui: prompt of %d nodes", len(doc.Members))
		for _, member := range doc.Members {
			h.promptNode(member.Value, ex)
		}
	}

	meta := &ParsedMetadata{
		Tool:       ToolComfyUI,
		Positive:   SmartMerge(ex.positives),
		Negative:   SmartMerge(ex.negatives),
		Parameters: ex.params,
		Confidence: ConfidenceHigh,
	}
	if meta.hasPrompt() {
		return meta, nil
	}
	log.Debugf("comfyui: no text encoder prompt, deep searching")
	result := h.DeepSearch(doc)
	meta.Positive, meta.Negative = result.Positive, result.Negative
	for key, value := range result.Parameters {
		meta.Parameters.setIfAbsent(key, value)
	}
	if meta.hasPrompt() {
		meta.Confidence = ConfidenceMedium
	} else {
		meta.Confidence = ConfidenceLow
	}
	return meta, nil
}

func (h *Heuristics) workflowNode(node *jsonvalue.Value, ex *comfyExtraction) {
	if node == nil || node.Kind != jsonvalue.Object {
		return
	}
	nodeType := node.Get("type").String()
	if h.isTextEncoder(nodeType) {
		if text := workflowNodeText(node); text != "" {
			ex.add(text, h.isNegativeNode(text, node.Get("title").String(), node.Get("color").String()))
		}
	}
	layout, ok := nodeWidgets[nodeType]
	if !ok {
		return
	}
	widgets := node.Get("widgets_values")
	switch {
	case widgets == nil:
	case widgets.Kind == jsonvalue.Array:
		for _, widget := range namedWidgets(layout, widgets.Items) {
			setParam(ex.params, widget.Key, widget.Value)
		}
	case widgets.Kind == jsonvalue.Object:
		// some custom frontends save widget values by name
		for _, name := range layout {
			setParam(ex.params, name, widgets.Get(name))
		}
	}
}

func (h *Heuristics) promptNode(node *jsonvalue.Value, ex *comfyExtraction) {
	if node == nil || node.Kind != jsonvalue.Object {
		return
	}
	classType := node.Get("class_type").String()
	inputs := node.Get("inputs")
	if h.isTextEncoder(classType) {
		text := ""
		for _, key := range []string{"text", "prompt", "string"} {
			if input := inputs.Get(key); input.IsString() {
				text = input.TrimmedString()
				break
			}
		}
		if text != "" {
			ex.add(text, h.isNegativeNode(text, node.Path("_meta", "title").String(), ""))
		}
	}
	if layout, ok := nodeWidgets[classType]; ok {
		for _, name := range layout {
			// linked inputs are [node_id, output_index] arrays and are skipped
			setParam(ex.params, name, inputs.Get(name))
		}
	}
}

// workflowNodeText returns the prompt text of a workflow text encoder node.
func workflowNodeText(node *jsonvalue.Value) string {
	if widgets := node.Get("widgets_values"); widgets != nil && widgets.Kind == jsonvalue.Array {
		for _, widget := range widgets.Items {
			if text := widget.TrimmedString(); text != "" {
				return text
			}
		}
	}
	if text := node.Get("text").TrimmedString(); text != "" {
		return text
	}
	if inputs := node.Get("inputs"); inputs != nil && inputs.Kind == jsonvalue.Array {
		for _, input := range inputs.Items {
			if input.Get("name").String() != "text" {
				continue
			}
			if text := input.Path("widget", "value").TrimmedString(); text != "" {
				return text
			}
		}
	}
	return node.Path("properties", "text").TrimmedString()
}

// isNegativeNode decides the polarity of a text encoder node:
// a negative title or colour, or negative-looking text.
func (h *Heuristics) isNegativeNode(text string, title string, color string) bool {
	title = strings.ToLower(title)
	for _, marker := range h.NegativeTitleMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	if color != "" && slices.Contains(h.NegativeColors, strings.ToLower(color)) {
		return true
	}
	return h.IsNegativePrompt(text)
}

// namedWidgets maps positional widget values to the names of layout.
// The "control_after_generate" value following a seed widget has no name and is skipped.
func namedWidgets(layout []string, values []*jsonvalue.Value) []jsonvalue.Member {
	var widgets []jsonvalue.Member
	j := 0
	for _, name := range layout {
		if j >= len(values) {
			break
		}
		widgets = append(widgets, jsonvalue.Member{Key: name, Value: values[j]})
		j++
		if (name == "seed" || name == "noise_seed") && j < len(values) &&
			values[j].IsString() && slices.Contains(seedControlValues, values[j].Str) {
			j++
		}
	}
	return widgets
}

// setParam sets the normalized parameter of ComfyUI input name, overwriting any previous value.
func setParam(params Params, name string, v *jsonvalue.Value) {
	key, ok := paramKeys[name]
	if !ok {
		return
	}
	if value, ok := paramValue(v); ok {
		params[key] = value
	}
}
