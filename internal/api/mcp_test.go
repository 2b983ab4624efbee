package api

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/studymind/studymind/internal/memory"
)

func newTestMCPDeps(t *testing.T, partial memory.PartialProfile) MCPDeps {
	t.Helper()
	mem := memory.NewManager(
		memory.NewStore(filepath.Join(t.TempDir(), "memory.json")),
		&fakeExtractor{partial: partial},
	)
	return MCPDeps{Memory: mem}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_Remember(t *testing.T) {
	deps := newTestMCPDeps(t, memory.PartialProfile{
		TeachingSubjects: []string{"Biology"},
	})
	handler := mcpRemember(deps)

	req := makeCallToolRequest("remember", map[string]interface{}{
		"user_id": "alice",
		"message": "I teach biology to 9th graders",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	var profile memory.Profile
	if err := json.Unmarshal([]byte(toolText(t, result)), &profile); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if profile.InteractionCount != 1 || len(profile.TeachingSubjects) != 1 {
		t.Fatalf("profile = %+v", profile)
	}

	// Verify the merge was persisted.
	if got := deps.Memory.Get("alice").InteractionCount; got != 1 {
		t.Fatalf("stored count = %d, want 1", got)
	}
}

func TestMCPTool_Remember_MissingArgs(t *testing.T) {
	deps := newTestMCPDeps(t, memory.PartialProfile{})
	handler := mcpRemember(deps)

	result, err := handler(context.Background(), makeCallToolRequest("remember", map[string]interface{}{
		"user_id": "alice",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing message")
	}
}

func TestMCPTool_GetContext(t *testing.T) {
	deps := newTestMCPDeps(t, memory.PartialProfile{
		TeachingSubjects: []string{"Physics"},
	})

	result, err := mcpGetContext(deps)(context.Background(), makeCallToolRequest("get_context", map[string]interface{}{
		"user_id": "alice",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := toolText(t, result); got != "No stored context for this user." {
		t.Fatalf("empty-memory context = %q", got)
	}

	if _, err := deps.Memory.ProcessInteraction(context.Background(), "alice", "I teach physics mostly"); err != nil {
		t.Fatal(err)
	}

	result, err = mcpGetContext(deps)(context.Background(), makeCallToolRequest("get_context", map[string]interface{}{
		"user_id": "alice",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := toolText(t, result); !strings.Contains(got, "Physics") {
		t.Fatalf("context = %q", got)
	}
}

func TestMCPTool_SetTone(t *testing.T) {
	deps := newTestMCPDeps(t, memory.PartialProfile{})
	handler := mcpSetTone(deps)

	result, err := handler(context.Background(), makeCallToolRequest("set_tone", map[string]interface{}{
		"user_id": "alice",
		"tone":    "socratic",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if got := deps.Memory.Get("alice").PreferredTone; got != "socratic" {
		t.Fatalf("stored tone = %q", got)
	}

	result, err = handler(context.Background(), makeCallToolRequest("set_tone", map[string]interface{}{
		"user_id": "alice",
		"tone":    "pirate",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for unknown tone")
	}
	if !strings.Contains(toolText(t, result), "valid tones") {
		t.Fatalf("error text = %q, want the tone catalog listed", toolText(t, result))
	}
}

func TestMCPTool_ListTones(t *testing.T) {
	result, err := mcpListTones()(context.Background(), makeCallToolRequest("list_tones", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tones []memory.Tone
	if err := json.Unmarshal([]byte(toolText(t, result)), &tones); err != nil {
		t.Fatalf("decoding tones: %v", err)
	}
	if len(tones) != 8 {
		t.Fatalf("got %d tones, want 8", len(tones))
	}
}

func TestMCPResource_Profiles(t *testing.T) {
	deps := newTestMCPDeps(t, memory.PartialProfile{Goals: []string{"flip the classroom"}})
	if _, err := deps.Memory.ProcessInteraction(context.Background(), "alice", "help me flip the classroom"); err != nil {
		t.Fatal(err)
	}

	contents, err := mcpResourceProfiles(deps)(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "memory://profiles"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var summaries []struct {
		UserID string       `json:"user_id"`
		Stats  memory.Stats `json:"stats"`
	}
	if err := json.Unmarshal([]byte(text.Text), &summaries); err != nil {
		t.Fatalf("decoding summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].UserID != "alice" || !summaries[0].Stats.HasGoals {
		t.Fatalf("summaries = %+v", summaries)
	}
}
