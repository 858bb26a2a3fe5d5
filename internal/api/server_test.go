package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptforge/internal/agents/scriptwriter"
	"scriptforge/internal/analytics"
	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/common/logger"
	"scriptforge/internal/generation"
	"scriptforge/internal/store"
)

type stubGenerator struct {
	response *generation.Response
	events   []generation.Event
	refined  *scriptwriter.Result
	err      error
}

func (s *stubGenerator) Generate(context.Context, *generation.Request) (*generation.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubGenerator) GenerateStream(context.Context, *generation.Request) <-chan generation.Event {
	ch := make(chan generation.Event, len(s.events))
	for _, e := range s.events {
		ch <- e
	}
	close(ch)
	return ch
}

func (s *stubGenerator) Refine(context.Context, string, string) (*scriptwriter.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.refined, nil
}

type stubScripts struct {
	script  *store.Script
	scripts []*store.Script
	total   int
	deleted bool
	err     error
}

func (s *stubScripts) Get(context.Context, string) (*store.Script, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.script, nil
}

func (s *stubScripts) List(context.Context, int, int) (int, []*store.Script, error) {
	if s.err != nil {
		return 0, nil, s.err
	}
	return s.total, s.scripts, nil
}

func (s *stubScripts) Delete(context.Context, string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.deleted, nil
}

type stubDashboard struct {
	stats  *analytics.DashboardStats
	recent []analytics.RecentScript
	err    error
}

func (s *stubDashboard) Dashboard(context.Context) (*analytics.DashboardStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func (s *stubDashboard) Recent(context.Context, int) ([]analytics.RecentScript, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recent, nil
}

func newTestServer(t *testing.T, gen *stubGenerator, scripts *stubScripts, dash *stubDashboard) *httptest.Server {
	t.Helper()
	if gen == nil {
		gen = &stubGenerator{}
	}
	if scripts == nil {
		scripts = &stubScripts{}
	}
	if dash == nil {
		dash = &stubDashboard{}
	}

	server := NewServer(gen, scripts, dash, nil, logger.NewTestLogger(t), "1.0.0")
	ts := httptest.NewServer(server.Routes())
	t.Cleanup(ts.Close)
	return ts
}

const validGenerateBody = `{
	"topic": "How AI is changing software engineering",
	"style": "educational",
	"duration": "10-15 minutes",
	"research_depth": "medium"
}`

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.0.0", body["version"])
}

func TestGenerate(t *testing.T) {
	gen := &stubGenerator{response: &generation.Response{
		ScriptID:   "abc-123",
		Topic:      "How AI is changing software engineering",
		FullScript: "full script text",
		TokensUsed: 1000,
	}}
	ts := newTestServer(t, gen, nil, nil)

	resp, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(validGenerateBody))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body generation.Response
	decodeBody(t, resp, &body)
	assert.Equal(t, "abc-123", body.ScriptID)
	assert.Equal(t, "full script text", body.FullScript)
}

func TestGenerateSchemaViolation(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(`{"style": "educational"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body["detail"])
}

func TestGenerateMalformedBody(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(`{"topic": `))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateSemanticValidationError(t *testing.T) {
	gen := &stubGenerator{err: commonerrors.NewValidationError("Topic must be at least 5 characters long")}
	ts := newTestServer(t, gen, nil, nil)

	resp, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(`{"topic": "abcde"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGeneratePipelineFailure(t *testing.T) {
	gen := &stubGenerator{err: commonerrors.NewResearchError("Failed to gather sufficient research data", nil)}
	ts := newTestServer(t, gen, nil, nil)

	resp, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(validGenerateBody))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["detail"], "Research phase failed")
}

func TestGenerateStreamEvents(t *testing.T) {
	gen := &stubGenerator{events: []generation.Event{
		{Type: "progress", Step: "research", Message: "Researching topic...", Progress: 10},
		{Type: "progress", Step: "writing", Message: "Writing script...", Progress: 66},
		{Type: "complete", Step: "complete", Progress: 100, Data: &generation.Response{ScriptID: "abc"}},
	}}
	ts := newTestServer(t, gen, nil, nil)

	resp, err := http.Post(ts.URL+"/api/generate-stream", "application/json", strings.NewReader(validGenerateBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var events []generation.Event
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var e generation.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e))
		events = append(events, e)
	}

	require.Len(t, events, 3)
	assert.Equal(t, "progress", events[0].Type)
	assert.Equal(t, 10, events[0].Progress)
	assert.Equal(t, "complete", events[2].Type)
	require.NotNil(t, events[2].Data)
	assert.Equal(t, "abc", events[2].Data.ScriptID)
}

func TestGenerateStreamRejectsBadBody(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, err := http.Post(ts.URL+"/api/generate-stream", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetScript(t *testing.T) {
	scripts := &stubScripts{script: &store.Script{
		ScriptID:   "abc-123",
		Topic:      "topic",
		FullScript: "text",
		CreatedAt:  time.Now().UTC(),
	}}
	ts := newTestServer(t, nil, scripts, nil)

	resp, err := http.Get(ts.URL + "/api/scripts/abc-123")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body store.Script
	decodeBody(t, resp, &body)
	assert.Equal(t, "abc-123", body.ScriptID)
}

func TestGetScriptNotFound(t *testing.T) {
	scripts := &stubScripts{err: commonerrors.NewScriptNotFoundError("missing")}
	ts := newTestServer(t, nil, scripts, nil)

	resp, err := http.Get(ts.URL + "/api/scripts/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["detail"], "missing")
}

func TestListScripts(t *testing.T) {
	scripts := &stubScripts{
		total:   3,
		scripts: []*store.Script{{ScriptID: "y"}},
	}
	ts := newTestServer(t, nil, scripts, nil)

	resp, err := http.Get(ts.URL + "/api/scripts?skip=1&limit=1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Total   int            `json:"total"`
		Scripts []store.Script `json:"scripts"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Scripts, 1)
	assert.Equal(t, "y", body.Scripts[0].ScriptID)
}

func TestListScriptsEmpty(t *testing.T) {
	ts := newTestServer(t, nil, &stubScripts{}, nil)

	resp, err := http.Get(ts.URL + "/api/scripts")
	require.NoError(t, err)

	var body struct {
		Total   int              `json:"total"`
		Scripts []map[string]any `json:"scripts"`
	}
	decodeBody(t, resp, &body)
	assert.Zero(t, body.Total)
	assert.NotNil(t, body.Scripts)
}

func TestDeleteScript(t *testing.T) {
	ts := newTestServer(t, nil, &stubScripts{deleted: true}, nil)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/scripts/abc-123", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteScriptMissing(t *testing.T) {
	ts := newTestServer(t, nil, &stubScripts{deleted: false}, nil)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/scripts/missing", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRefineScript(t *testing.T) {
	gen := &stubGenerator{refined: &scriptwriter.Result{Title: "Refined", FullScript: "refined text"}}
	ts := newTestServer(t, gen, nil, nil)

	resp, err := http.Post(ts.URL+"/api/scripts/abc/refine", "application/json",
		strings.NewReader(`{"feedback": "tighten the hook"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body scriptwriter.Result
	decodeBody(t, resp, &body)
	assert.Equal(t, "Refined", body.Title)
}

func TestRefineScriptMissingFeedback(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, err := http.Post(ts.URL+"/api/scripts/abc/refine", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportScript(t *testing.T) {
	scripts := &stubScripts{script: &store.Script{
		ScriptID:   "abc-123",
		Topic:      "topic",
		Title:      "My Script",
		FullScript: "script body",
	}}
	ts := newTestServer(t, nil, scripts, nil)

	resp, err := http.Get(ts.URL + "/api/scripts/abc-123/export?format=md")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/markdown; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "script_abc-123.md")
}

func TestExportScriptInvalidFormat(t *testing.T) {
	scripts := &stubScripts{script: &store.Script{ScriptID: "abc-123", FullScript: "x"}}
	ts := newTestServer(t, nil, scripts, nil)

	resp, err := http.Get(ts.URL + "/api/scripts/abc-123/export?format=pdf")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListTemplates(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, err := http.Get(ts.URL + "/api/templates")
	require.NoError(t, err)

	var body struct {
		Templates []map[string]any `json:"templates"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Templates, 6)
}

func TestGetTemplateNotFound(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, err := http.Get(ts.URL + "/api/templates/podcast")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApplyTemplate(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, err := http.Post(ts.URL+"/api/templates/tutorial/apply", "application/json",
		strings.NewReader(`{"topic": "How to roast coffee"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body generation.Request
	decodeBody(t, resp, &body)
	assert.Equal(t, "How to roast coffee", body.Topic)
	assert.Equal(t, "educational", body.Style)
}

func TestDashboardEndpoint(t *testing.T) {
	dash := &stubDashboard{stats: &analytics.DashboardStats{
		TotalScripts:  10,
		MostUsedStyle: "educational",
	}}
	ts := newTestServer(t, nil, nil, dash)

	resp, err := http.Get(ts.URL + "/api/analytics/dashboard")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body analytics.DashboardStats
	decodeBody(t, resp, &body)
	assert.Equal(t, 10, body.TotalScripts)
}

func TestRecentEndpoint(t *testing.T) {
	dash := &stubDashboard{recent: []analytics.RecentScript{{ScriptID: "r1", Topic: "t"}}}
	ts := newTestServer(t, nil, nil, dash)

	resp, err := http.Get(ts.URL + "/api/analytics/recent?limit=1")
	require.NoError(t, err)

	var body struct {
		Scripts []analytics.RecentScript `json:"scripts"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Scripts, 1)
	assert.Equal(t, "r1", body.Scripts[0].ScriptID)
}
