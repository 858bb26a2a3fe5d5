// Package search wraps a Google Custom Search compatible API for the
// web-grounded research variant.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"scriptforge/internal/common/config"
	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/common/logger"
)

// Result is one web search hit.
type Result struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Snippet   string  `json:"snippet"`
	Relevance float64 `json:"relevance"`
}

type Client struct {
	cfg    config.SearchConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.SearchConfig, log logger.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: log.With(map[string]interface{}{"component": "search"}),
	}
}

// Search runs one query and returns up to limit deduplicated results,
// highest relevance first. Deadline expiry maps to WEB_SEARCH_TIMEOUT.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 5
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(query, limit), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline") ||
			strings.Contains(err.Error(), "Client.Timeout") {
			return nil, commonerrors.NewWebSearchTimeoutError(query)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var apiResponse struct {
		Items []struct {
			Link    string `json:"link"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Mime    string `json:"mime"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var results []Result
	for _, item := range apiResponse.Items {
		// Skip non-HTML
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true

		relevance := 1.0
		if strings.Contains(item.Link, ".gov") || strings.Contains(item.Link, ".edu") {
			relevance += 0.2
		}
		if strings.Contains(strings.ToLower(item.Title), "official") {
			relevance += 0.1
		}

		results = append(results, Result{
			Title:     item.Title,
			URL:       item.Link,
			Snippet:   item.Snippet,
			Relevance: relevance,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}

	c.logger.Info("web search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(results),
	})

	return results, nil
}

func (c *Client) buildSearchURL(query string, limit int) string {
	baseURL, _ := url.Parse(c.cfg.BaseURL)
	params := url.Values{}
	params.Add("key", c.cfg.APIKey)
	params.Add("cx", c.cfg.EngineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", limit))
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}
