package jsonextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFencedJSONBlock(t *testing.T) {
	text := "Here is the research you asked for:\n```json\n{\"topic\": \"solar power\", \"key_findings\": [\"a\", \"b\"]}\n```\nLet me know if you need more."

	ext := Extract(text)
	require.True(t, ext.OK)
	assert.JSONEq(t, `{"topic": "solar power", "key_findings": ["a", "b"]}`, string(ext.Raw))
}

func TestExtractPlainFence(t *testing.T) {
	text := "```\n{\"title\": \"Why Rust\"}\n```"

	ext := Extract(text)
	require.True(t, ext.OK)
	assert.JSONEq(t, `{"title": "Why Rust"}`, string(ext.Raw))
}

func TestExtractBraceSpan(t *testing.T) {
	text := `Sure! {"topic": "coffee", "summary": "short"} hope that helps`

	ext := Extract(text)
	require.True(t, ext.OK)
	assert.JSONEq(t, `{"topic": "coffee", "summary": "short"}`, string(ext.Raw))
}

func TestExtractFenceWithSurroundingProse(t *testing.T) {
	text := "```json\nThe object follows: {\"ok\": true} done\n```"

	ext := Extract(text)
	require.True(t, ext.OK)
	assert.JSONEq(t, `{"ok": true}`, string(ext.Raw))
}

func TestExtractNoJSON(t *testing.T) {
	ext := Extract("I could not produce structured output for that topic.")
	assert.False(t, ext.OK)
	assert.NotEmpty(t, ext.Reason)
}

func TestExtractInvalidJSON(t *testing.T) {
	ext := Extract(`{"topic": "broken",`)
	assert.False(t, ext.OK)
}

func TestExtractArrayRejected(t *testing.T) {
	ext := Extract(`["not", "an", "object"]`)
	assert.False(t, ext.OK)
}

func TestUnmarshal(t *testing.T) {
	var got struct {
		Topic string `json:"topic"`
	}

	reason, ok := Unmarshal("```json\n{\"topic\": \"ev batteries\"}\n```", &got)
	require.True(t, ok, reason)
	assert.Equal(t, "ev batteries", got.Topic)
}

func TestUnmarshalTypeMismatch(t *testing.T) {
	var got struct {
		Count int `json:"count"`
	}

	_, ok := Unmarshal(`{"count": "twelve"}`, &got)
	assert.False(t, ok)
}
