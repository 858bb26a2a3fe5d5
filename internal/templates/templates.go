// Package templates serves the built-in script template catalog.
package templates

import (
	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/generation"
)

// Template is one preset generation configuration.
type Template struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	ExampleTopic  string `json:"example_topic"`
	Style         string `json:"style"`
	Duration      string `json:"duration"`
	ResearchDepth string `json:"research_depth"`
	BrandVoice    string `json:"brand_voice"`
}

var catalog = []Template{
	{
		ID:            "tutorial",
		Name:          "Tutorial/How-To",
		Description:   "Step-by-step educational content",
		Icon:          "📚",
		ExampleTopic:  "How to start a podcast",
		Style:         "educational",
		Duration:      "10-15 minutes",
		ResearchDepth: "medium",
		BrandVoice:    "Clear, instructional, beginner-friendly with step-by-step guidance",
	},
	{
		ID:            "product-review",
		Name:          "Product Review",
		Description:   "Honest product analysis",
		Icon:          "⭐",
		ExampleTopic:  "iPhone 15 Pro Max Review",
		Style:         "entertaining",
		Duration:      "8-10 minutes",
		ResearchDepth: "deep",
		BrandVoice:    "Balanced, honest, detailed with pros and cons",
	},
	{
		ID:            "vlog",
		Name:          "Vlog/Personal Story",
		Description:   "Personal narrative content",
		Icon:          "🎥",
		ExampleTopic:  "My journey learning web development",
		Style:         "inspirational",
		Duration:      "5-8 minutes",
		ResearchDepth: "quick",
		BrandVoice:    "Personal, authentic, conversational with storytelling elements",
	},
	{
		ID:            "listicle",
		Name:          "Top 10/Listicle",
		Description:   "Ranked list format",
		Icon:          "📊",
		ExampleTopic:  "Top 10 productivity apps in 2024",
		Style:         "entertaining",
		Duration:      "10-15 minutes",
		ResearchDepth: "medium",
		BrandVoice:    "Engaging, concise, with clear rankings and reasons",
	},
	{
		ID:            "explainer",
		Name:          "Explainer/Deep Dive",
		Description:   "Complex topic breakdown",
		Icon:          "🔬",
		ExampleTopic:  "How AI language models work",
		Style:         "educational",
		Duration:      "15-20 minutes",
		ResearchDepth: "deep",
		BrandVoice:    "Technical yet accessible, using analogies and examples",
	},
	{
		ID:            "news-analysis",
		Name:          "News/Trend Analysis",
		Description:   "Current events commentary",
		Icon:          "📰",
		ExampleTopic:  "Latest AI developments explained",
		Style:         "educational",
		Duration:      "8-10 minutes",
		ResearchDepth: "deep",
		BrandVoice:    "Informative, objective, with context and implications",
	},
}

// All returns the full catalog.
func All() []Template {
	return catalog
}

// Get looks up one template by id.
func Get(id string) (*Template, error) {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i], nil
		}
	}
	return nil, commonerrors.NewTemplateNotFoundError(id)
}

// Apply builds a generation request from the template, optionally
// overriding the example topic.
func Apply(id, customTopic string) (*generation.Request, error) {
	template, err := Get(id)
	if err != nil {
		return nil, err
	}

	topic := template.ExampleTopic
	if customTopic != "" {
		topic = customTopic
	}

	return &generation.Request{
		Topic:         topic,
		Style:         template.Style,
		Duration:      template.Duration,
		ResearchDepth: template.ResearchDepth,
		BrandVoice:    template.BrandVoice,
	}, nil
}
