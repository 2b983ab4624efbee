package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/studymind/studymind/internal/composer"
	"github.com/studymind/studymind/internal/memory"
	"github.com/studymind/studymind/internal/ollama"
	"github.com/studymind/studymind/internal/prompts"
	"github.com/studymind/studymind/internal/storage"
)

type fakeGenerator struct {
	response   string
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, model, prompt string, opts *ollama.GenerateOptions) (string, error) {
	f.lastPrompt = prompt
	return f.response, nil
}

type fakeExtractor struct {
	partial memory.PartialProfile
}

func (f *fakeExtractor) Extract(ctx context.Context, message string) memory.PartialProfile {
	return f.partial
}

type testEnv struct {
	handler http.Handler
	gen     *fakeGenerator
	memory  *memory.Manager
	history *storage.Store
}

func newTestEnv(t *testing.T, token string, partial memory.PartialProfile) *testEnv {
	t.Helper()

	gen := &fakeGenerator{response: "model output"}
	mem := memory.NewManager(
		memory.NewStore(filepath.Join(t.TempDir(), "memory.json")),
		&fakeExtractor{partial: partial},
	)
	history, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening history store: %v", err)
	}
	t.Cleanup(func() { history.Close() })

	comp := composer.New(gen, "mistral", mem, time.Minute)
	handler := NewHandler(Deps{
		Composer:   comp,
		Memory:     mem,
		History:    history,
		Token:      token,
		HTTPClient: http.DefaultClient,
		UploadDir:  filepath.Join(t.TempDir(), "uploads"),
	})
	return &testEnv{handler: handler, gen: gen, memory: mem, history: history}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})
	rr := doJSON(t, env.handler, http.MethodGet, "/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := decodeBody[map[string]string](t, rr); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})

	rr := doJSON(t, env.handler, http.MethodPost, "/generate", map[string]any{
		"user_id": "alice",
		"task":    "summarize",
		"text":    "the cell cycle",
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	got := decodeBody[composer.TaskResult](t, rr)
	if got.Output != "model output" {
		t.Errorf("output = %q", got.Output)
	}
	if !strings.Contains(env.gen.lastPrompt, "the cell cycle") {
		t.Error("prompt missing request text")
	}

	// The interaction lands in history.
	if n, err := env.history.CountInteractions(); err != nil || n != 1 {
		t.Errorf("CountInteractions = %d, %v; want 1", n, err)
	}
}

func TestGenerate_Validation(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing text", map[string]any{"task": "summarize"}},
		{"grading without answer", map[string]any{"task": "grading", "question": "Q"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, env.handler, http.MethodPost, "/generate", tt.body, nil)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
			body := decodeBody[map[string]map[string]string](t, rr)
			if body["error"]["type"] != "invalid_request_error" {
				t.Errorf("error type = %q", body["error"]["type"])
			}
		})
	}
}

func TestGenerate_GradingParsesGrade(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})
	env.gen.response = `{"grade": 95, "feedback": "excellent"}`

	rr := doJSON(t, env.handler, http.MethodPost, "/generate", map[string]any{
		"task":     "grading",
		"question": "Explain recursion.",
		"answer":   "A function calling itself.",
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	got := decodeBody[composer.TaskResult](t, rr)
	if got.Grade == nil || got.Grade.Grade != 95 {
		t.Errorf("grade = %+v", got.Grade)
	}
}

func TestChat_UpdatesMemory(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{
		TeachingSubjects: []string{"Biology"},
		PreferredTone:    "casual",
	})

	rr := doJSON(t, env.handler, http.MethodPost, "/chat", map[string]any{
		"user_id": "alice",
		"message": "I teach biology, keep it casual",
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}

	var resp struct {
		Output string         `json:"output"`
		Memory memory.Profile `json:"memory"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Output != "model output" {
		t.Errorf("output = %q", resp.Output)
	}
	if resp.Memory.InteractionCount != 1 || resp.Memory.PreferredTone != "casual" {
		t.Errorf("memory = %+v", resp.Memory)
	}

	// This turn's extracted facts personalize the reply.
	if !strings.Contains(env.gen.lastPrompt, "EDUCATOR CONTEXT") {
		t.Error("chat prompt missing memory context")
	}
	if !strings.Contains(env.gen.lastPrompt, "TONE:") {
		t.Error("chat prompt missing tone instruction")
	}

	// And persist across requests.
	if got := env.memory.Get("alice").InteractionCount; got != 1 {
		t.Errorf("stored count = %d", got)
	}
}

func TestChat_MissingMessage(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})
	rr := doJSON(t, env.handler, http.MethodPost, "/chat", map[string]any{"user_id": "alice"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestChat_WithHistory(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})
	rr := doJSON(t, env.handler, http.MethodPost, "/chat", map[string]any{
		"message": "and what about meiosis?",
		"history": []prompts.HistoryEntry{
			{Role: "user", Content: "what is mitosis?"},
			{Role: "assistant", Content: "Cell division."},
		},
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	if !strings.Contains(env.gen.lastPrompt, "what is mitosis?") {
		t.Error("prompt missing conversation history")
	}
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes v1.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("mitosis has four phases"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	got := decodeBody[map[string]string](t, rr)
	if got["filename"] != "notesv1.txt" {
		t.Errorf("filename = %q", got["filename"])
	}
	if got["text"] != "mitosis has four phases" {
		t.Errorf("text = %q", got["text"])
	}
	if got["id"] == "" {
		t.Error("missing upload id")
	}
}

func TestIngestURL(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>Krebs cycle notes</p></body></html>"))
	}))
	defer page.Close()

	env := newTestEnv(t, "", memory.PartialProfile{})
	rr := doJSON(t, env.handler, http.MethodPost, "/ingest-url", map[string]string{"url": page.URL}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	got := decodeBody[map[string]string](t, rr)
	if !strings.Contains(got["text"], "Krebs cycle notes") {
		t.Errorf("text = %q", got["text"])
	}
}

func TestListTones(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})
	rr := doJSON(t, env.handler, http.MethodGet, "/tones", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decodeBody[[]memory.Tone](t, rr)
	if len(got) != 8 || got[0].Name != "professional" {
		t.Errorf("tones = %+v", got)
	}
}

func TestMemoryEndpoints(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{TeachingSubjects: []string{"Physics"}})

	// Seed via a chat turn.
	rr := doJSON(t, env.handler, http.MethodPost, "/chat", map[string]any{
		"user_id": "alice", "message": "I mostly teach physics",
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rr.Code)
	}

	rr = doJSON(t, env.handler, http.MethodGet, "/memory/alice/", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get memory status = %d", rr.Code)
	}
	if got := decodeBody[memory.Profile](t, rr); len(got.TeachingSubjects) != 1 {
		t.Errorf("profile = %+v", got)
	}

	rr = doJSON(t, env.handler, http.MethodGet, "/memory/alice/context", nil, nil)
	ctx := decodeBody[map[string]string](t, rr)
	if !strings.Contains(ctx["context"], "Physics") {
		t.Errorf("context = %q", ctx["context"])
	}

	rr = doJSON(t, env.handler, http.MethodGet, "/memory/alice/stats", nil, nil)
	if got := decodeBody[memory.Stats](t, rr); !got.Exists || got.TotalSubjects != 1 {
		t.Errorf("stats = %+v", got)
	}

	rr = doJSON(t, env.handler, http.MethodPatch, "/memory/alice/", map[string]any{
		"goals": []string{"flip the classroom"},
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rr.Code, rr.Body)
	}
	if got := decodeBody[memory.Profile](t, rr); len(got.Goals) != 1 {
		t.Errorf("patched profile = %+v", got)
	}

	rr = doJSON(t, env.handler, http.MethodDelete, "/memory/alice/", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = doJSON(t, env.handler, http.MethodGet, "/memory/alice/stats", nil, nil)
	if got := decodeBody[memory.Stats](t, rr); got.Exists {
		t.Errorf("stats after clear = %+v", got)
	}
}

func TestSetTone(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})

	rr := doJSON(t, env.handler, http.MethodPost, "/memory/alice/tone", map[string]string{"tone": "socratic"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	if got := decodeBody[memory.Profile](t, rr); got.PreferredTone != "socratic" {
		t.Errorf("profile = %+v", got)
	}

	rr = doJSON(t, env.handler, http.MethodPost, "/memory/alice/tone", map[string]string{"tone": "pirate"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown tone", rr.Code)
	}
	body := decodeBody[map[string]map[string]string](t, rr)
	if body["error"]["type"] != "invalid_request_error" {
		t.Errorf("error type = %q", body["error"]["type"])
	}
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t, "", memory.PartialProfile{})

	for i := 0; i < 3; i++ {
		rr := doJSON(t, env.handler, http.MethodPost, "/generate", map[string]any{
			"user_id": "alice", "task": "summarize", "text": "topic",
		}, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("generate status = %d", rr.Code)
		}
	}

	rr := doJSON(t, env.handler, http.MethodGet, "/history?user_id=alice&limit=2", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	list := decodeBody[[]storage.Interaction](t, rr)
	if len(list) != 2 {
		t.Fatalf("got %d interactions, want 2", len(list))
	}

	rr = doJSON(t, env.handler, http.MethodGet, "/history/"+list[0].ID, nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	rr = doJSON(t, env.handler, http.MethodDelete, "/history/"+list[0].ID, nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = doJSON(t, env.handler, http.MethodGet, "/history/"+list[0].ID, nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rr.Code)
	}
}

func TestBearerAuthGuardsManagementRoutes(t *testing.T) {
	env := newTestEnv(t, "sekrit", memory.PartialProfile{})

	// Open routes stay open.
	if rr := doJSON(t, env.handler, http.MethodGet, "/tones", nil, nil); rr.Code != http.StatusOK {
		t.Errorf("/tones status = %d, want open", rr.Code)
	}

	rr := doJSON(t, env.handler, http.MethodGet, "/memory/alice/", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rr.Code)
	}

	rr = doJSON(t, env.handler, http.MethodGet, "/memory/alice/", nil, map[string]string{
		"Authorization": "Bearer wrong",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", rr.Code)
	}

	rr = doJSON(t, env.handler, http.MethodGet, "/memory/alice/", nil, map[string]string{
		"Authorization": "Bearer sekrit",
	})
	if rr.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", rr.Code)
	}

	if rr := doJSON(t, env.handler, http.MethodGet, "/history", nil, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("/history without token status = %d, want 401", rr.Code)
	}
}
