// internal/agents/research/web_agent.go
package research

import (
	"context"
	"fmt"
	"strings"

	"scriptforge/internal/agents/llm"
	"scriptforge/internal/common/logger"
	"scriptforge/internal/search"
)

// Searcher provides web results to ground the research prompt.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
}

var depthResultLimits = map[string]int{
	"quick":  3,
	"medium": 5,
	"deep":   8,
}

// WebAgent is the search-grounded research variant. It injects live web
// snippets into the prompt; when search fails it degrades to plain
// model-knowledge research instead of failing the pipeline.
type WebAgent struct {
	agent    *Agent
	searcher Searcher
	logger   logger.Logger
}

func NewWebAgent(client llm.Client, searcher Searcher, log logger.Logger) *WebAgent {
	return &WebAgent{
		agent:    NewAgent(client, log),
		searcher: searcher,
		logger:   log.With(map[string]interface{}{"agent": "research-web"}),
	}
}

func (a *WebAgent) Research(ctx context.Context, topic, depth string) (*Result, error) {
	limit, ok := depthResultLimits[depth]
	if !ok {
		limit = depthResultLimits["medium"]
	}

	results, err := a.searcher.Search(ctx, topic, limit)
	if err != nil {
		a.logger.Warn("web search failed, falling back to model knowledge", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
		return a.agent.Research(ctx, topic, depth)
	}
	if len(results) == 0 {
		return a.agent.Research(ctx, topic, depth)
	}

	return a.agent.generate(ctx, topic, depth, webContext(results))
}

func webContext(results []search.Result) string {
	var b strings.Builder
	b.WriteString("\nCurrent web search results for grounding:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\nResult %d:\nTitle: %s\nURL: %s\nSnippet: %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	b.WriteString("\nPrefer these sources when citing; include their URLs in the sources list.\n")
	return b.String()
}
