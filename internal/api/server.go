// Package api exposes the educator assistant over HTTP: task generation,
// chat, file/URL ingestion, per-user memory management, and interaction
// history.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studymind/studymind/internal/composer"
	"github.com/studymind/studymind/internal/memory"
	"github.com/studymind/studymind/internal/storage"
)

const (
	maxRequestBodySize = 1 << 20  // 1MB
	maxUploadBodySize  = 10 << 20 // 10MB
)

// Deps holds the wired collaborators for the HTTP handlers.
type Deps struct {
	Composer *composer.Composer
	Memory   *memory.Manager
	History  *storage.Store
	// Token guards memory and history routes when non-empty.
	Token      string
	HTTPClient *http.Client
	UploadDir  string
}

// NewHandler builds the service router. Task and chat routes are open;
// memory and history management routes require the bearer token when one
// is configured.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Post("/generate", handleGenerate(deps))
	r.Post("/chat", handleChat(deps))
	r.Post("/upload", handleUpload(deps))
	r.Post("/ingest-url", handleIngestURL(deps))
	r.Get("/tones", handleListTones())

	r.Group(func(g chi.Router) {
		if deps.Token != "" {
			g.Use(BearerAuth(deps.Token))
		}

		g.Route("/memory/{userID}", func(mr chi.Router) {
			mr.Get("/", handleGetMemory(deps))
			mr.Get("/context", handleGetContext(deps))
			mr.Get("/stats", handleGetStats(deps))
			mr.Patch("/", handlePatchMemory(deps))
			mr.Post("/tone", handleSetTone(deps))
			mr.Delete("/", handleClearMemory(deps))
		})

		g.Get("/history", handleListHistory(deps))
		g.Get("/history/{id}", handleGetHistory(deps))
		g.Delete("/history/{id}", handleDeleteHistory(deps))
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
