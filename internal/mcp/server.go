// Package mcp provides the stdio MCP server exposing the context tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Rev4nchist/FastMCP/internal/buildinfo"
	"github.com/Rev4nchist/FastMCP/internal/models"
	"github.com/Rev4nchist/FastMCP/internal/service"
)

const addDescription = `Add a new context item to the personal context store. Use it to capture conversations, decisions, projects, tasks, insights, and relationships worth remembering across sessions.`

const searchDescription = `Search stored contexts. Matches the query as a case-insensitive substring of title, content, or any tag; results come back most recently updated first.`

const recentDescription = `List recently added or updated contexts, most recently updated first, optionally filtered by type.`

const detailsDescription = `Get the full stored record for one context item by ID, including connections and metadata.`

const updateDescription = `Update an existing context item. Only the provided fields change; metadata merges key-by-key into the existing mapping instead of replacing it.`

const statsDescription = `Get statistics about the context store: total count, counts per type and priority, and the three most recently updated items.`

// NewServer creates and registers all context tools on a new MCP server.
// It is intentionally separate from Serve so that tests and other callers can
// obtain a fully configured server without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("contextman", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context) error {
	svc, err := service.New("")
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}

	return mcpserver.ServeStdio(NewServer(svc))
}

// registerTools wires all six MCP tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	typeNames := models.ContextTypeNames()
	priorityNames := models.PriorityNames()

	s.AddTool(mcp.NewTool("context_add",
		mcp.WithDescription(addDescription),
		mcp.WithString("title",
			mcp.Description("Brief title for the context."),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Detailed content/description."),
			mcp.Required(),
		),
		mcp.WithString("type",
			mcp.Description("Type of context (default conversation)."),
			mcp.Enum(typeNames...),
		),
		mcp.WithString("priority",
			mcp.Description("Priority level (default medium)."),
			mcp.Enum(priorityNames...),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags for categorization."),
			mcp.WithStringItems(),
		),
		mcp.WithArray("connections",
			mcp.Description("IDs of related context items (not validated; dangling references are allowed)."),
			mcp.WithStringItems(),
		),
		mcp.WithObject("metadata",
			mcp.Description("Additional metadata as key-value pairs."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdd(svc, req)
	})

	s.AddTool(mcp.NewTool("context_search",
		mcp.WithDescription(searchDescription),
		mcp.WithString("query",
			mcp.Description("Search terms (substring of title, content, or tags)."),
			mcp.Required(),
		),
		mcp.WithString("type",
			mcp.Description("Filter by context type."),
			mcp.Enum(typeNames...),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default 10)."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearch(svc, req)
	})

	s.AddTool(mcp.NewTool("context_recent",
		mcp.WithDescription(recentDescription),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default 10)."),
		),
		mcp.WithString("type",
			mcp.Description("Filter by context type."),
			mcp.Enum(typeNames...),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRecent(svc, req)
	})

	s.AddTool(mcp.NewTool("context_details",
		mcp.WithDescription(detailsDescription),
		mcp.WithString("id",
			mcp.Description("ID of the context to retrieve."),
			mcp.Required(),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDetails(svc, req)
	})

	s.AddTool(mcp.NewTool("context_update",
		mcp.WithDescription(updateDescription),
		mcp.WithString("id",
			mcp.Description("ID of the context to update."),
			mcp.Required(),
		),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("content", mcp.Description("New content.")),
		mcp.WithString("priority",
			mcp.Description("New priority."),
			mcp.Enum(priorityNames...),
		),
		mcp.WithArray("tags",
			mcp.Description("New tags list (replaces the existing list)."),
			mcp.WithStringItems(),
		),
		mcp.WithArray("connections",
			mcp.Description("New connections list (replaces the existing list)."),
			mcp.WithStringItems(),
		),
		mcp.WithObject("metadata",
			mcp.Description("Metadata keys to add or overwrite; existing keys not named are kept."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUpdate(svc, req)
	})

	s.AddTool(mcp.NewTool("context_stats",
		mcp.WithDescription(statsDescription),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStats(svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleAdd(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := &service.AddInput{
		Title:       req.GetString("title", ""),
		Content:     req.GetString("content", ""),
		Type:        req.GetString("type", ""),
		Priority:    req.GetString("priority", ""),
		Tags:        req.GetStringSlice("tags", make([]string, 0)),
		Connections: req.GetStringSlice("connections", make([]string, 0)),
		Metadata:    getObject(req, "metadata"),
	}

	rec, err := svc.Add(in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"id":         rec.ID,
		"title":      rec.Title,
		"created_at": rec.CreatedAt.Format(time.RFC3339),
	})
}

func handleSearch(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	typeFilter := req.GetString("type", "")
	limit := req.GetInt("limit", 0)

	results, err := svc.Search(query, typeFilter, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"query":   query,
		"total":   len(results),
		"results": summarize(results),
	})
}

func handleRecent(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 0)
	typeFilter := req.GetString("type", "")

	results, err := svc.Recent(limit, typeFilter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"total":   len(results),
		"results": summarize(results),
	})
}

func handleDetails(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")

	rec, err := svc.Details(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec)
}

func handleUpdate(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")

	patch, err := patchFromArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := svc.Update(id, patch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"id":         rec.ID,
		"title":      rec.Title,
		"updated_at": rec.UpdatedAt.Format(time.RFC3339),
	})
}

func handleStats(svc *service.Service, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(svc.Stats())
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// patchFromArgs builds a Patch from the request arguments. Presence in the
// argument map decides whether a field is part of the patch, so "not provided"
// and "set to empty" stay distinguishable.
func patchFromArgs(req mcp.CallToolRequest) (*models.Patch, error) {
	args := req.GetArguments()
	patch := &models.Patch{}

	if v, ok := args["title"]; ok {
		s, _ := v.(string)
		patch.Title = &s
	}
	if v, ok := args["content"]; ok {
		s, _ := v.(string)
		patch.Content = &s
	}
	if v, ok := args["priority"]; ok {
		s, _ := v.(string)
		priority, err := models.ParsePriority(s)
		if err != nil {
			return nil, err
		}
		patch.Priority = &priority
	}
	if _, ok := args["tags"]; ok {
		patch.Tags = req.GetStringSlice("tags", make([]string, 0))
		if patch.Tags == nil {
			patch.Tags = make([]string, 0)
		}
	}
	if _, ok := args["connections"]; ok {
		patch.Connections = req.GetStringSlice("connections", make([]string, 0))
		if patch.Connections == nil {
			patch.Connections = make([]string, 0)
		}
	}
	if m, ok := args["metadata"].(map[string]any); ok {
		patch.Metadata = m
	}

	return patch, nil
}

// getObject reads an object-typed argument, returning nil when absent.
func getObject(req mcp.CallToolRequest, key string) map[string]any {
	if m, ok := req.GetArguments()[key].(map[string]any); ok {
		return m
	}
	return nil
}

// summarize converts records into the compact list shape shared by the
// search and recent tools.
func summarize(recs []*models.ContextRecord) []map[string]any {
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, map[string]any{
			"id":         rec.ID,
			"title":      rec.Title,
			"type":       rec.Type,
			"priority":   rec.Priority,
			"updated_at": rec.UpdatedAt.Format(time.RFC3339),
			"content":    snippet(rec.Content, 100),
			"tags":       rec.Tags,
		})
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// snippet truncates s to maxLen runes, appending an ellipsis when trimmed.
func snippet(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
