// Package scriptwriter implements the second pipeline stage: turning
// research findings into a complete YouTube script.
package scriptwriter

import (
	"context"
	"fmt"
	"strings"

	"scriptforge/internal/agents/llm"
	"scriptforge/internal/agents/research"
	"scriptforge/internal/common/jsonextract"
	"scriptforge/internal/common/logger"
)

const systemPrompt = `You are an expert YouTube scriptwriter who creates engaging, high-performing video scripts.

Your expertise includes:
- Viral hook formulas that grab attention in first 5 seconds
- Structured storytelling with clear narrative arc
- Audience retention techniques (pattern interrupts, callbacks, open loops)
- Natural, conversational tone that builds trust
- Strong CTAs (Call-To-Action) that drive engagement

Script Structure:
1. HOOK (0-15 seconds): Attention-grabbing opening
2. INTRO (15-30 seconds): Promise/preview of value
3. BODY (main content): Structured with clear sections
4. CONCLUSION (final 30-60 seconds): Recap + strong CTA

Output Format (JSON):
{
  "title": "Optimized video title (50-70 chars)",
  "description": "SEO-optimized description",
  "keywords": ["keyword1", "keyword2", ...],
  "script": {
    "hook": "Opening hook text",
    "intro": "Introduction text",
    "body": [
      {
        "section_title": "Section name",
        "content": "Section script",
        "duration_estimate": "2-3 minutes"
      }
    ],
    "conclusion": "Closing text with CTA"
  },
  "full_script": "Complete script as continuous text",
  "estimated_duration": "10-12 minutes",
  "tone": "educational|entertaining|inspirational",
  "target_audience": "audience description"
}

Best Practices:
- Use "you" language (direct address)
- Include pattern interrupts every 60-90 seconds
- Add visual cue suggestions [B-ROLL], [SCREENSHOT]
- Keep sentences short and punchy
- End sections with smooth transitions
`

const (
	// Script writing runs hotter than research for creativity.
	scriptTemperature = 0.8
	refineTemperature = 0.7
)

// Agent generates and refines video scripts.
type Agent struct {
	client llm.Client
	logger logger.Logger
}

func NewAgent(client llm.Client, log logger.Logger) *Agent {
	return &Agent{
		client: client,
		logger: log.With(map[string]interface{}{"agent": "scriptwriter"}),
	}
}

// GenerateScript builds a script from research findings. A provider
// failure returns an error; an unparsable model response returns a
// degraded Result with the raw text preserved in FullScript.
func (a *Agent) GenerateScript(ctx context.Context, researchData *research.Result, style, duration, brandVoice string) (*Result, error) {
	resp, err := a.client.Generate(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		UserMessage:  buildScriptPrompt(researchData, style, duration, brandVoice),
		Temperature:  scriptTemperature,
	})
	if err != nil {
		return nil, err
	}

	meta := Meta{
		TokensUsed: resp.Usage,
		StopReason: resp.StopReason,
		Style:      style,
		Duration:   duration,
	}

	var result Result
	if reason, ok := jsonextract.Unmarshal(resp.Content, &result); !ok {
		a.logger.Warn("script response was not valid JSON", map[string]interface{}{
			"topic":  researchData.Topic,
			"reason": reason,
		})
		return &Result{
			Title:      researchData.Topic,
			FullScript: resp.Content,
			ParseError: "JSON parsing failed: " + reason,
			Meta:       meta,
		}, nil
	}

	result.Meta = meta

	a.logger.Info("script generated", map[string]interface{}{
		"topic":        researchData.Topic,
		"title":        result.Title,
		"sectionCount": len(result.Script.Body),
	})

	return &result, nil
}

// RefineScript reworks an existing script per the feedback while keeping
// its core structure.
func (a *Agent) RefineScript(ctx context.Context, fullScript, feedback string) (*Result, error) {
	if fullScript == "" {
		fullScript = "N/A"
	}

	userMessage := fmt.Sprintf(`You are refining a YouTube script based on feedback.

ORIGINAL SCRIPT:
%s

FEEDBACK:
%s

Apply the feedback while maintaining the script's core structure and message.
Return the complete refined script in JSON format.
`, fullScript, feedback)

	resp, err := a.client.Generate(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
		Temperature:  refineTemperature,
	})
	if err != nil {
		return nil, err
	}

	meta := Meta{TokensUsed: resp.Usage, StopReason: resp.StopReason}

	var result Result
	if reason, ok := jsonextract.Unmarshal(resp.Content, &result); !ok {
		return &Result{
			FullScript: resp.Content,
			ParseError: "Refinement completed but JSON parsing failed: " + reason,
			Meta:       meta,
		}, nil
	}

	result.Meta = meta
	return &result, nil
}

func buildScriptPrompt(researchData *research.Result, style, duration, brandVoice string) string {
	topic := researchData.Topic
	if topic == "" {
		topic = "Unknown topic"
	}

	brandSection := ""
	if brandVoice != "" {
		brandSection = "\n\nBrand Voice Guidelines:\n" + brandVoice
	}

	return fmt.Sprintf(`Create a YouTube video script based on this research:

TOPIC: %s

RESEARCH SUMMARY:
%s

KEY FINDINGS:
%s

STATISTICS TO INCLUDE:
%s

HOOK IDEAS:
%s

SCRIPT REQUIREMENTS:
- Style: %s
- Target Duration: %s
- Include visual cue suggestions [B-ROLL], [SCREENSHOT]
- Use pattern interrupts and engagement techniques
- Strong opening hook and clear CTA%s

Generate the complete script in the specified JSON format.
Ensure the hook is compelling and the content flows naturally.
`,
		topic,
		researchData.Summary,
		bulleted(researchData.KeyFindings, 5),
		bulleted(researchData.Statistics, 5),
		bulleted(researchData.HookIdeas, 3),
		style,
		duration,
		brandSection,
	)
}

func bulleted(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
