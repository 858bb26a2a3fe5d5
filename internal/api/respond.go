// internal/api/respond.go
package api

import (
	"encoding/json"
	"net/http"

	commonerrors "scriptforge/internal/common/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error through the standard taxonomy and emits the
// FastAPI-style {"detail": "..."} body clients expect.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, commonerrors.HTTPStatus(err), map[string]string{"detail": err.Error()})
}
