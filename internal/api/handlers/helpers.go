package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(l *zap.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && l != nil {
		l.Warn("encode response",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

func writeError(l *zap.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(l, w, r, status, map[string]string{"error": msg})
}
