package fuzzywuzzy

// ConverterFunc converts matched slot values into typed values. Converters
// are supplied by callers and handed through to the reconstruction step
// untouched; this package never interprets them.
type ConverterFunc func(values ...any) ([]any, error)

// Intent names the recognized category with its confidence (score / 100).
type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Entity is a typed slot value recovered from a matched path. Populating
// entities is the reconstruction collaborator's job; the type lives here so
// both sides of that boundary agree on the shape.
type Entity struct {
	Entity   string `json:"entity"`
	Value    any    `json:"value"`
	RawValue string `json:"raw_value,omitempty"`
}

// Recognition is the final result handed back to callers: the recognized
// intent, the sentence rebuilt from the matched path, and the raw query it
// was matched from.
type Recognition struct {
	Intent           Intent   `json:"intent"`
	Entities         []Entity `json:"entities,omitempty"`
	Text             string   `json:"text"`
	RawText          string   `json:"raw_text"`
	Tokens           []string `json:"tokens,omitempty"`
	RawTokens        []string `json:"raw_tokens,omitempty"`
	Path             []int    `json:"path,omitempty"`
	RecognizeSeconds float64  `json:"recognize_seconds"`
}
