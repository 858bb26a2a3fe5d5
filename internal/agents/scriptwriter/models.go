// internal/agents/scriptwriter/models.go
package scriptwriter

import "scriptforge/internal/agents/llm"

// Section is one body segment of the script.
type Section struct {
	SectionTitle     string `json:"section_title"`
	Content          string `json:"content"`
	DurationEstimate string `json:"duration_estimate"`
}

// Sections is the structured script broken into narrative parts.
type Sections struct {
	Hook       string    `json:"hook"`
	Intro      string    `json:"intro"`
	Body       []Section `json:"body"`
	Conclusion string    `json:"conclusion"`
}

// Meta records provider accounting plus the requested style knobs.
type Meta struct {
	TokensUsed llm.Usage `json:"tokens_used"`
	StopReason string    `json:"stop_reason"`
	Style      string    `json:"style,omitempty"`
	Duration   string    `json:"duration,omitempty"`
}

// Result is the generated script. On a parse failure ParseError is set
// and FullScript carries the raw model output.
type Result struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Keywords          []string `json:"keywords"`
	Script            Sections `json:"script"`
	FullScript        string   `json:"full_script"`
	EstimatedDuration string   `json:"estimated_duration"`
	Tone              string   `json:"tone"`
	TargetAudience    string   `json:"target_audience"`
	ParseError        string   `json:"error,omitempty"`
	Meta              Meta     `json:"_meta"`
}

// Degraded reports whether the result carries raw text instead of a
// structured script.
func (r *Result) Degraded() bool {
	return r.ParseError != ""
}
