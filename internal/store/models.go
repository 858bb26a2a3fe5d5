// internal/store/models.go
package store

import (
	"encoding/json"
	"time"
)

// Script is one persisted generation result. JSON columns stay opaque
// RawMessage blobs so the row round-trips byte-identically.
type Script struct {
	ID       int64  `json:"id"`
	ScriptID string `json:"script_id"`

	// Input
	Topic    string `json:"topic"`
	Style    string `json:"style"`
	Duration string `json:"duration"`

	// Research data
	ResearchData json.RawMessage `json:"research_data,omitempty"`
	Sources      json.RawMessage `json:"sources,omitempty"`

	// Script content
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Keywords       json.RawMessage `json:"keywords,omitempty"`
	FullScript     string          `json:"full_script"`
	ScriptSections json.RawMessage `json:"script_sections,omitempty"`

	// Metadata
	EstimatedDuration string `json:"estimated_duration"`
	Tone              string `json:"tone"`
	TargetAudience    string `json:"target_audience"`

	// Analytics
	TokensUsed     int     `json:"tokens_used"`
	GenerationTime float64 `json:"generation_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
