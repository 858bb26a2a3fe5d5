// Package export renders stored scripts as downloadable documents.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/store"
)

// Format identifies an export renderer.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// Document is a rendered export.
type Document struct {
	Content     []byte
	ContentType string
	Filename    string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render exports the script in the requested format.
func Render(script *store.Script, format Format) (*Document, error) {
	switch format {
	case FormatText:
		return &Document{
			Content:     []byte(renderText(script)),
			ContentType: "text/plain; charset=utf-8",
			Filename:    filename(script, "txt"),
		}, nil
	case FormatMarkdown:
		return &Document{
			Content:     []byte(renderMarkdown(script)),
			ContentType: "text/markdown; charset=utf-8",
			Filename:    filename(script, "md"),
		}, nil
	case FormatHTML:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(renderMarkdown(script)), &buf); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		return &Document{
			Content:     buf.Bytes(),
			ContentType: "text/html; charset=utf-8",
			Filename:    filename(script, "html"),
		}, nil
	default:
		return nil, commonerrors.NewExportFormatError(string(format))
	}
}

func renderText(script *store.Script) string {
	rule := strings.Repeat("=", 80)
	thinRule := strings.Repeat("-", 80)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(strings.ToUpper(title(script)) + "\n")
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(&b, "Topic: %s\n", orNA(script.Topic))
	fmt.Fprintf(&b, "Style: %s\n", orNA(script.Tone))
	fmt.Fprintf(&b, "Duration: %s\n\n", orNA(script.EstimatedDuration))

	if script.Description != "" {
		b.WriteString("DESCRIPTION\n" + thinRule + "\n")
		b.WriteString(script.Description + "\n\n")
	}

	if keywords := decodeKeywords(script.Keywords); len(keywords) > 0 {
		b.WriteString("KEYWORDS\n" + thinRule + "\n")
		b.WriteString(strings.Join(keywords, ", ") + "\n\n")
	}

	b.WriteString("SCRIPT\n" + rule + "\n\n")
	b.WriteString(script.FullScript)
	return b.String()
}

func renderMarkdown(script *store.Script) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title(script))

	fmt.Fprintf(&b, "- **Topic:** %s\n", orNA(script.Topic))
	fmt.Fprintf(&b, "- **Style:** %s\n", orNA(script.Tone))
	fmt.Fprintf(&b, "- **Duration:** %s\n\n", orNA(script.EstimatedDuration))

	if script.Description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(script.Description + "\n\n")
	}

	if keywords := decodeKeywords(script.Keywords); len(keywords) > 0 {
		b.WriteString("## Keywords\n\n")
		b.WriteString(strings.Join(keywords, ", ") + "\n\n")
	}

	b.WriteString("## Script\n\n")
	b.WriteString(script.FullScript + "\n")
	return b.String()
}

func title(script *store.Script) string {
	if script.Title != "" {
		return script.Title
	}
	return "YouTube Script"
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func decodeKeywords(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal(raw, &keywords); err != nil {
		return nil
	}
	return keywords
}

func filename(script *store.Script, ext string) string {
	base := script.ScriptID
	if base == "" {
		base = "script"
	}
	return fmt.Sprintf("script_%s.%s", base, ext)
}
