// Package jsonextract locates a JSON object inside free-form LLM output.
//
// All agents share this single routine: a fenced ```json block wins, then
// any fenced block, then the outermost brace span. The result is tagged so
// callers handle parsed and unparsed output explicitly instead of probing
// for sentinel keys.
package jsonextract

import (
	"encoding/json"
	"strings"
)

// Extraction is the tagged result of Extract.
type Extraction struct {
	// Raw holds the extracted JSON object when OK is true.
	Raw json.RawMessage
	// Reason describes why extraction failed when OK is false.
	Reason string
	OK     bool
}

// Extract attempts to locate a JSON object in model output.
func Extract(text string) Extraction {
	candidate := fencedBlock(text)
	if candidate == "" {
		candidate = braceSpan(text)
	}
	if candidate == "" {
		return Extraction{Reason: "no JSON object found in response"}
	}

	candidate = strings.TrimSpace(candidate)
	if !json.Valid([]byte(candidate)) {
		// A fenced block can still carry prose around the object.
		if inner := braceSpan(candidate); inner != "" && json.Valid([]byte(inner)) {
			candidate = inner
		} else {
			return Extraction{Reason: "extracted span is not valid JSON"}
		}
	}
	if !strings.HasPrefix(candidate, "{") {
		return Extraction{Reason: "extracted JSON is not an object"}
	}

	return Extraction{Raw: json.RawMessage(candidate), OK: true}
}

// Unmarshal extracts and decodes in one step. The bool reports whether a
// JSON object was found and decoded; decoding errors count as failure.
func Unmarshal(text string, target interface{}) (string, bool) {
	ext := Extract(text)
	if !ext.OK {
		return ext.Reason, false
	}
	if err := json.Unmarshal(ext.Raw, target); err != nil {
		return "JSON decoding failed: " + err.Error(), false
	}
	return "", true
}

func fencedBlock(text string) string {
	for _, marker := range []string{"```json", "```"} {
		idx := strings.Index(text, marker)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		return rest[:end]
	}
	return ""
}

func braceSpan(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
