// internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/common/validation"
	"scriptforge/internal/export"
	"scriptforge/internal/generation"
	"scriptforge/internal/store"
	"scriptforge/internal/templates"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readGenerateRequest(w http.ResponseWriter, r *http.Request) (*generation.Request, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, commonerrors.NewValidationError("could not read request body"))
		return nil, false
	}
	if err := validation.GenerateRequestSchema.ValidateBytes(body); err != nil {
		writeError(w, err)
		return nil, false
	}

	var req generation.Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, commonerrors.NewValidationError("request body could not be decoded"))
		return nil, false
	}
	return &req, true
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readGenerateRequest(w, r)
	if !ok {
		return
	}

	resp, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetScript(w http.ResponseWriter, r *http.Request) {
	script, err := s.scripts.Get(r.Context(), r.PathValue("script_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, script)
}

func (s *Server) handleListScripts(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 10)

	total, scripts, err := s.scripts.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if scripts == nil {
		scripts = []*store.Script{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":   total,
		"scripts": scripts,
	})
}

func (s *Server) handleDeleteScript(w http.ResponseWriter, r *http.Request) {
	scriptID := r.PathValue("script_id")

	deleted, err := s.scripts.Delete(r.Context(), scriptID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, commonerrors.NewScriptNotFoundError(scriptID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Script %s deleted", scriptID),
	})
}

func (s *Server) handleRefineScript(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, commonerrors.NewValidationError("could not read request body"))
		return
	}
	if err := validation.RefineRequestSchema.ValidateBytes(body); err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, commonerrors.NewValidationError("request body could not be decoded"))
		return
	}

	result, err := s.generator.Refine(r.Context(), r.PathValue("script_id"), req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExportScript(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(export.FormatText)
	}

	script, err := s.scripts.Get(r.Context(), r.PathValue("script_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := export.Render(script, export.Format(format))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Content)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"templates": templates.All(),
	})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := templates.Get(r.PathValue("template_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	// Body is optional; an empty body applies the template verbatim.
	if body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes)); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, commonerrors.NewValidationError("request body could not be decoded"))
			return
		}
	}

	request, err := templates.Apply(r.PathValue("template_id"), req.Topic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboard.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRecentScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := s.dashboard.Recent(r.Context(), queryInt(r, "limit", 5))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scripts": scripts,
	})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
