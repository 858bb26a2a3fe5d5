// Package research implements the first pipeline stage: turning a topic
// into structured findings the scriptwriter can build on.
package research

import (
	"context"
	"fmt"

	"scriptforge/internal/agents/llm"
	"scriptforge/internal/common/jsonextract"
	"scriptforge/internal/common/logger"
)

const systemPrompt = `You are an expert research assistant specializing in gathering and synthesizing information for YouTube video scripts.

Your responsibilities:
1. Conduct thorough research on the given topic
2. Synthesize findings from multiple credible sources
3. Extract key facts, statistics, and insights
4. Identify trending angles and hooks
5. Note important citations and sources

Output Format (JSON):
{
  "topic": "original topic",
  "key_findings": ["finding 1", "finding 2", ...],
  "statistics": ["stat 1 with source", "stat 2 with source", ...],
  "trending_angles": ["angle 1", "angle 2", ...],
  "hook_ideas": ["hook 1", "hook 2", ...],
  "sources": [
    {
      "title": "source title",
      "url": "source url",
      "credibility": "high|medium|low",
      "key_points": ["point 1", "point 2"]
    }
  ],
  "research_summary": "2-3 sentence overview of findings"
}

Focus on:
- Factual accuracy and credible sources
- Current trends and recent information
- Practical, actionable insights
- Engaging angles for video content
`

const researchTemperature = 0.7

var depthInstructions = map[string]string{
	"quick":  "Focus on 2-3 top sources with key highlights",
	"medium": "Gather 4-6 diverse sources with comprehensive analysis",
	"deep":   "Conduct extensive research with 8-10 sources, detailed fact-checking",
}

// Agent performs model-knowledge research without external search.
type Agent struct {
	client llm.Client
	logger logger.Logger
}

func NewAgent(client llm.Client, log logger.Logger) *Agent {
	return &Agent{
		client: client,
		logger: log.With(map[string]interface{}{"agent": "research"}),
	}
}

// Research synthesizes findings for the topic. A provider failure
// returns an error; an unparsable model response returns a degraded
// Result with the raw text preserved in Summary.
func (a *Agent) Research(ctx context.Context, topic, depth string) (*Result, error) {
	result, err := a.generate(ctx, topic, depth, "")
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Agent) generate(ctx context.Context, topic, depth, webContext string) (*Result, error) {
	instructions, ok := depthInstructions[depth]
	if !ok {
		depth, instructions = "medium", depthInstructions["medium"]
	}

	userMessage := fmt.Sprintf(`Research the following topic for a YouTube video:

Topic: %s

Research Depth: %s - %s

Provide comprehensive research findings in the specified JSON format.
Ensure all statistics and claims include source attribution.
`, topic, depth, instructions)
	if webContext != "" {
		userMessage += webContext
	}

	resp, err := a.client.Generate(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
		Temperature:  researchTemperature,
	})
	if err != nil {
		return nil, err
	}

	meta := Meta{TokensUsed: resp.Usage, StopReason: resp.StopReason}

	var result Result
	if reason, ok := jsonextract.Unmarshal(resp.Content, &result); !ok {
		a.logger.Warn("research response was not valid JSON", map[string]interface{}{
			"topic":  topic,
			"reason": reason,
		})
		return &Result{
			Topic:      topic,
			Summary:    resp.Content,
			ParseError: "JSON parsing failed: " + reason,
			Meta:       meta,
		}, nil
	}

	result.Meta = meta
	if result.Topic == "" {
		result.Topic = topic
	}
	for i := range result.Sources {
		if result.Sources[i].Credibility == "" {
			result.Sources[i].Credibility = "medium"
		}
	}

	a.logger.Info("research completed", map[string]interface{}{
		"topic":        topic,
		"depth":        depth,
		"findingCount": len(result.KeyFindings),
		"sourceCount":  len(result.Sources),
	})

	return &result, nil
}
