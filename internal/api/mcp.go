package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/studymind/studymind/internal/memory"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Memory *memory.Manager
}

// NewMCPServer creates an MCP server exposing the memory subsystem as
// tools, so agent clients can remember and recall educator context.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"studymind",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("studymind — educator assistant memory: teaching preferences, tone, and context."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("remember",
			mcp.WithDescription("Process a teacher's message: extract teaching preferences and merge them into the stored profile."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
			mcp.WithString("message", mcp.Description("The teacher's message to learn from"), mcp.Required()),
		),
		mcpRemember(deps),
	)

	s.AddTool(
		mcp.NewTool("get_context",
			mcp.WithDescription("Return the natural-language educator context for a user, for injection into prompts."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
		),
		mcpGetContext(deps),
	)

	s.AddTool(
		mcp.NewTool("set_tone",
			mcp.WithDescription("Set a user's preferred response tone. The tone must be one of the fixed catalog entries."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
			mcp.WithString("tone", mcp.Description("Tone name from the catalog"), mcp.Required()),
		),
		mcpSetTone(deps),
	)

	s.AddTool(
		mcp.NewTool("list_tones",
			mcp.WithDescription("List the available response tones with descriptions."),
		),
		mcpListTones(),
	)

	s.AddResource(
		mcp.NewResource(
			"memory://profiles",
			"Educator Profiles",
			mcp.WithResourceDescription("Stored user ids with profile stats as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfiles(deps),
	)

	return s
}

func mcpRemember(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		profile, err := deps.Memory.ProcessInteraction(ctx, userID, message)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to save memory: %v", err)), nil
		}

		b, err := json.Marshal(profile)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetContext(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}

		memCtx := deps.Memory.Context(userID)
		if memCtx == "" {
			return mcpText("No stored context for this user."), nil
		}
		return mcpText(memCtx), nil
	}
}

func mcpSetTone(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}
		tone, err := req.RequireString("tone")
		if err != nil {
			return mcpError("tone is required"), nil
		}

		if _, err := deps.Memory.SetTone(userID, tone); err != nil {
			if errors.Is(err, memory.ErrUnknownTone) {
				return mcpError(fmt.Sprintf("unknown tone %q; valid tones: %s", tone, strings.Join(memory.ToneNames(), ", "))), nil
			}
			return mcpError(fmt.Sprintf("failed to set tone: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Tone set to %s", tone)), nil
	}
}

func mcpListTones() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(memory.AvailableTones())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal tones: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceProfiles(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type profileSummary struct {
			UserID string       `json:"user_id"`
			Stats  memory.Stats `json:"stats"`
		}

		var summaries []profileSummary
		for _, id := range deps.Memory.UserIDs() {
			summaries = append(summaries, profileSummary{
				UserID: id,
				Stats:  deps.Memory.Stats(id),
			})
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profiles: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
