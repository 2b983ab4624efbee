package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeOllama serves just enough of the Ollama API for EnsureReady.
func fakeOllama(t *testing.T, available []string) (*Client, *[]string) {
	t.Helper()
	var pulled []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			models := make([]map[string]string, 0, len(available))
			for _, name := range available {
				models = append(models, map[string]string{"name": name})
			}
			for _, name := range pulled {
				models = append(models, map[string]string{"name": name})
			}
			json.NewEncoder(w).Encode(map[string]any{"models": models})
		case "/api/pull":
			var req map[string]any
			json.NewDecoder(r.Body).Decode(&req)
			pulled = append(pulled, req["name"].(string))
			json.NewEncoder(w).Encode(PullProgress{Status: "success"})
		case "/api/generate":
			json.NewEncoder(w).Encode(map[string]string{"response": "pong"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(404)
		}
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL), &pulled
}

func TestEnsureReady_AllModelsPresent(t *testing.T) {
	c, pulled := fakeOllama(t, []string{"mistral:latest"})

	var out bytes.Buffer
	if err := EnsureReady(context.Background(), c, "mistral", "mistral", &out); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	if len(*pulled) != 0 {
		t.Errorf("pulled %v, want nothing", *pulled)
	}
	if !strings.Contains(out.String(), "model mistral: ready") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "model mistral: warm") {
		t.Errorf("output missing warm-up confirmation: %q", out.String())
	}
}

func TestEnsureReady_PullsMissingModels(t *testing.T) {
	c, pulled := fakeOllama(t, []string{"mistral:latest"})

	var out bytes.Buffer
	if err := EnsureReady(context.Background(), c, "mistral", "llama3.2", &out); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	if len(*pulled) != 1 || (*pulled)[0] != "llama3.2" {
		t.Errorf("pulled = %v, want [llama3.2]", *pulled)
	}
	if !strings.Contains(out.String(), "model llama3.2: pulling...") {
		t.Errorf("output = %q", out.String())
	}
}

func TestEnsureReady_OllamaDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	var out bytes.Buffer
	err := EnsureReady(context.Background(), New(srv.URL), "mistral", "mistral", &out)
	if err == nil {
		t.Fatal("EnsureReady against dead server succeeded, want error")
	}
	if !strings.Contains(err.Error(), "not running") {
		t.Errorf("error = %v", err)
	}
}
