// internal/agents/research/models.go
package research

import "scriptforge/internal/agents/llm"

// Source is one cited reference in the research output.
type Source struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Credibility string   `json:"credibility"`
	KeyPoints   []string `json:"key_points"`
}

// Meta records provider accounting for the call that produced a Result.
type Meta struct {
	TokensUsed llm.Usage `json:"tokens_used"`
	StopReason string    `json:"stop_reason"`
}

// Result is the structured research output. When the model response
// could not be parsed as JSON, ParseError is set and Summary carries the
// raw response text instead of a synthesis.
type Result struct {
	Topic          string   `json:"topic"`
	KeyFindings    []string `json:"key_findings"`
	Statistics     []string `json:"statistics"`
	TrendingAngles []string `json:"trending_angles"`
	HookIdeas      []string `json:"hook_ideas"`
	Sources        []Source `json:"sources"`
	Summary        string   `json:"research_summary"`
	ParseError     string   `json:"error,omitempty"`
	Meta           Meta     `json:"_meta"`
}

// Degraded reports whether the result carries raw text instead of
// structured findings.
func (r *Result) Degraded() bool {
	return r.ParseError != ""
}
