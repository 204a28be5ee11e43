package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/search"
	"github.com/codescope/mcp-codescope-server/internal/service"
)

// SearchArgument defines search_code parameters.
type SearchArgument struct {
	Query         string   `json:"query" jsonschema_description:"Literal text to search for"`
	Repositories  []string `json:"repositories,omitempty" jsonschema_description:"Repository keys to search (e.g., github/org/repo@main). Omit to search all indexed repositories"`
	FilePattern   string   `json:"filePattern,omitempty" jsonschema_description:"Regular expression filter on file paths"`
	CaseSensitive bool     `json:"caseSensitive,omitempty" jsonschema_description:"Match case exactly"`
	Limit         int      `json:"limit,omitempty" jsonschema_description:"Maximum number of results (default 50, max 100)"`
	ResultFormat  string   `json:"resultFormat,omitempty" jsonschema_description:"Output format: markdown (default) or json"`
}

// SearchHandler handles the search_code MCP tool.
type SearchHandler struct {
	service *service.Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(svc *service.Service) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Handle executes the literal search and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Query) == "" {
		return errorResult("Query cannot be empty"), nil, nil
	}

	opts := search.Options{
		FilePattern:   args.FilePattern,
		CaseSensitive: args.CaseSensitive,
		Limit:         args.Limit,
	}

	results, err := h.service.Search(args.Repositories, args.Query, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRepositoryNotFound):
			return errorResult(fmt.Sprintf("Repository not found: %s", err)), nil, nil
		case errors.Is(err, domain.ErrRepositoryNotIndexed):
			return errorResult("Repository is not indexed yet. Use repository_status to check progress."), nil, nil
		case errors.Is(err, domain.ErrInvalidPattern):
			return errorResult(fmt.Sprintf("Invalid file pattern: %s", err)), nil, nil
		}
		return errorResult(fmt.Sprintf("Search failed: %s", err)), nil, nil
	}

	if args.ResultFormat == "json" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to encode results: %s", err)), nil, nil
		}
		return textResult(string(data)), nil, nil
	}

	return textResult(formatSearchResults(results, args.Query)), nil, nil
}

// formatSearchResults renders results as markdown.
func formatSearchResults(results []domain.SearchResult, queryStr string) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for query: %s", queryStr)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d results for '%s':\n\n", len(results), queryStr))

	for i, result := range results {
		sb.WriteString(fmt.Sprintf("### %d. %s:%s:%d\n", i+1, result.Repository, result.FilePath, result.Line))
		sb.WriteString("```\n")
		sb.WriteString(result.Content)
		sb.WriteString("\n```\n\n")
	}

	return sb.String()
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_code",
		Description: "Search for literal text across indexed repositories, line by line",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, svc *service.Service) {
	handler := NewSearchHandler(svc)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
