// internal/generation/models.go
package generation

import (
	"time"

	"scriptforge/internal/agents/research"
	"scriptforge/internal/agents/scriptwriter"
)

// Request carries the caller's generation parameters.
type Request struct {
	Topic         string `json:"topic"`
	Style         string `json:"style"`
	Duration      string `json:"duration"`
	ResearchDepth string `json:"research_depth"`
	BrandVoice    string `json:"brand_voice"`
}

// ApplyDefaults fills optional fields with their documented defaults.
func (r *Request) ApplyDefaults() {
	if r.Style == "" {
		r.Style = "educational"
	}
	if r.Duration == "" {
		r.Duration = "10-15 minutes"
	}
	if r.ResearchDepth == "" {
		r.ResearchDepth = "medium"
	}
}

// Response is the unified generation result merging identifiers, script
// content, research context, and analytics.
type Response struct {
	ScriptID    string   `json:"script_id"`
	Topic       string   `json:"topic"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`

	// Script structure
	Hook       string                 `json:"hook"`
	Intro      string                 `json:"intro"`
	Body       []scriptwriter.Section `json:"body"`
	Conclusion string                 `json:"conclusion"`
	FullScript string                 `json:"full_script"`

	// Metadata
	EstimatedDuration string `json:"estimated_duration"`
	Tone              string `json:"tone"`
	TargetAudience    string `json:"target_audience"`

	// Research
	Sources     []research.Source `json:"sources"`
	KeyFindings []string          `json:"key_findings"`

	// Analytics
	TokensUsed     int     `json:"tokens_used"`
	GenerationTime float64 `json:"generation_time"`

	CreatedAt time.Time `json:"created_at"`
}
