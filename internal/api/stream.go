// internal/api/stream.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleGenerateStream runs the pipeline and pushes progress events as
// server-sent events. The pipeline is bound to the request context, so
// a client disconnect cancels in-flight provider calls.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readGenerateRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, fmt.Errorf("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range s.generator.GenerateStream(r.Context(), req) {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.WithError(err).Error("failed to encode stream event", nil)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}
