package aimeta

type Tool string

const (
	ToolUnknown       Tool = "Unknown"
	ToolAutomatic1111 Tool = "AUTOMATIC1111"
	ToolComfyUI       Tool = "ComfyUI"
	ToolNovelAI       Tool = "NovelAI"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Params are generation parameters. Values are json.Number or string.
type Params map[string]any

// setIfAbsent sets key only if it's not already present.
func (p Params) setIfAbsent(key string, value any) {
	if _, ok := p[key]; !ok {
		p[key] = value
	}
}

// ParsedMetadata is the result of one metadata source (a PNG text chunk, or EXIF).
type ParsedMetadata struct {
	Tool       Tool       `json:"generationTool"`
	Positive   string     `json:"positive"`
	Negative   string     `json:"negative"`
	Parameters Params     `json:"parameters"`
	Confidence Confidence `json:"confidence"`
}

func (m *ParsedMetadata) hasPrompt() bool {
	return m.Positive != "" || m.Negative != ""
}

// Candidate is a deep search prompt candidate.
type Candidate struct {
	Text   string
	Path   string // JSON locator, e.g. `.nodes[3].widgets_values[0]`; "*" marks prompt-like keys
	Length int    // runes
}

// NormalizedRecord is the final merged metadata of an image.
type NormalizedRecord struct {
	Tool       Tool   `json:"generationTool"`
	Positive   string `json:"positive"`
	Negative   string `json:"negative"`
	Parameters Params `json:"parameters"`
}

// Source names, in merge priority order.
const (
	SourcePNG  = "PNG"
	SourceEXIF = "EXIF"
)

// Source is a ParsedMetadata tagged with where it came from.
type Source struct {
	Method  string
	Keyword string // PNG text chunk keyword
	Meta    *ParsedMetadata
}

// Method describes a source that contributed to a Result.
type Method struct {
	Method     string     `json:"method"`
	Keyword    string     `json:"keyword,omitempty"`
	Tool       Tool       `json:"generationTool"`
	Confidence Confidence `json:"confidence"`
}

// FileInfo is the declared info of the input file.
// Width & Height are filled from the image header during extraction when it can be decoded.
type FileInfo struct {
	Name          string `json:"name,omitempty"`
	Size          int64  `json:"size"`
	SizeFormatted string `json:"sizeFormatted"`
	Type          string `json:"type"`
	LastModified  string `json:"lastModified,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
}

// Result is the output of one extraction.
type Result struct {
	Success      bool             `json:"success"`
	Filename     string           `json:"filename,omitempty"`
	BasicInfo    FileInfo         `json:"basicInfo"`
	Standardized NormalizedRecord `json:"standardizedData"`
	Methods      []Method         `json:"extractionMethods"`
	Timestamp    string           `json:"timestamp"`
}
