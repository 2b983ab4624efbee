package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studymind/studymind/internal/memory"
	"github.com/studymind/studymind/internal/storage"
)

func handleGetMemory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Memory.Get(chi.URLParam(r, "userID")))
	}
}

func handleGetContext(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{
			"context": deps.Memory.Context(chi.URLParam(r, "userID")),
		})
	}
}

func handleGetStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Memory.Stats(chi.URLParam(r, "userID")))
	}
}

func handlePatchMemory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var partial memory.PartialProfile
		if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		profile, err := deps.Memory.UpdateFields(chi.URLParam(r, "userID"), partial)
		if errors.Is(err, memory.ErrUnknownTone) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "updating memory: %v", err)
			return
		}
		writeJSON(w, profile)
	}
}

type setToneRequest struct {
	Tone string `json:"tone"`
}

func handleSetTone(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req setToneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		profile, err := deps.Memory.SetTone(chi.URLParam(r, "userID"), req.Tone)
		if errors.Is(err, memory.ErrUnknownTone) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "setting tone: %v", err)
			return
		}
		writeJSON(w, profile)
	}
}

func handleClearMemory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Memory.Clear(chi.URLParam(r, "userID")); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "clearing memory: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "cleared"})
	}
}

func handleListTones() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, memory.AvailableTones())
	}
}

func handleListHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)
		offset := parseIntParam(r, "offset", 0, 0)
		userID := r.URL.Query().Get("user_id")

		interactions, err := deps.History.ListInteractions(userID, limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing history: %v", err)
			return
		}
		if interactions == nil {
			interactions = []storage.Interaction{}
		}
		writeJSON(w, interactions)
	}
}

func handleGetHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		interaction, err := deps.History.GetInteraction(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "interaction not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "getting interaction: %v", err)
			return
		}
		writeJSON(w, interaction)
	}
}

func handleDeleteHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.History.DeleteInteraction(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "interaction not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "deleting interaction: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}
