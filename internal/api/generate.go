package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/studymind/studymind/internal/composer"
	"github.com/studymind/studymind/internal/docs"
	"github.com/studymind/studymind/internal/prompts"
	"github.com/studymind/studymind/internal/storage"
)

func handleGenerate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req composer.TaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		if req.Task == "grading" {
			if req.Question == "" || req.Answer == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "grading requires question and answer")
				return
			}
		} else if req.Text == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "text is required")
			return
		}

		result, err := deps.Composer.RunTask(r.Context(), req)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "task failed: %v", err)
			return
		}

		recordInteraction(deps, req.UserID, req.Task, taskInput(req), result.Output)
		writeJSON(w, result)
	}
}

func taskInput(req composer.TaskRequest) string {
	if req.Task == "grading" {
		return req.Question
	}
	return req.Text
}

type chatRequest struct {
	UserID  string                 `json:"user_id"`
	Message string                 `json:"message"`
	History []prompts.HistoryEntry `json:"history"`
}

type chatResponse struct {
	Output        string `json:"output"`
	Memory        any    `json:"memory,omitempty"`
	MemoryWarning string `json:"memory_warning,omitempty"`
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		var resp chatResponse

		// Update memory before composing so this turn's extracted facts
		// personalize the reply. Extraction failures degrade silently; a
		// failed save is reported alongside the chat output, never instead
		// of it.
		if req.UserID != "" && deps.Memory != nil {
			profile, err := deps.Memory.ProcessInteraction(r.Context(), req.UserID, req.Message)
			if err != nil {
				slog.Error("memory save failed", "user_id", req.UserID, "error", err)
				resp.MemoryWarning = "memory could not be saved for this interaction"
			}
			resp.Memory = profile
		}

		output, err := deps.Composer.Chat(r.Context(), req.UserID, req.Message, req.History)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "chat failed: %v", err)
			return
		}
		resp.Output = output

		recordInteraction(deps, req.UserID, "chat", req.Message, output)
		writeJSON(w, resp)
	}
}

func handleUpload(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
		defer r.Body.Close()

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "file field is required: %v", err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reading upload: %v", err)
			return
		}

		stored, err := docs.SaveUpload(deps.UploadDir, header.Filename, data)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "saving upload: %v", err)
			return
		}

		text, err := docs.ExtractText(stored, data)
		if err != nil {
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "extracting text: %v", err)
			return
		}

		writeJSON(w, map[string]string{
			"id":       uuid.New().String(),
			"filename": stored,
			"text":     text,
		})
	}
}

type ingestURLRequest struct {
	URL string `json:"url"`
}

func handleIngestURL(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ingestURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.URL == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "url is required")
			return
		}

		text, err := docs.FetchURL(r.Context(), deps.HTTPClient, req.URL)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "fetching url: %v", err)
			return
		}

		writeJSON(w, map[string]string{
			"url":  req.URL,
			"text": text,
		})
	}
}

// recordInteraction persists one request/response pair to the history
// store. History is best-effort: a write failure is logged, never surfaced,
// because losing a history row must not fail the primary response.
func recordInteraction(deps Deps, userID, task, input, output string) {
	if deps.History == nil {
		return
	}
	err := deps.History.SaveInteraction(storage.Interaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Task:      task,
		Input:     input,
		Output:    output,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("failed to record interaction", "task", task, "error", err)
	}
}
