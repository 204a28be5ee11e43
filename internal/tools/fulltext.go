package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/index"
	"github.com/codescope/mcp-codescope-server/internal/service"
)

// FullTextArgument defines fulltext_search parameters.
type FullTextArgument struct {
	Query        string   `json:"query" jsonschema_description:"Full-text query (analyzed, ranked by relevance)"`
	Repositories []string `json:"repositories,omitempty" jsonschema_description:"Repository keys to search. Omit to search all indexed repositories"`
	Extension    string   `json:"extension,omitempty" jsonschema_description:"Filter by file extension (e.g., go, py, js)"`
	Limit        int      `json:"limit,omitempty" jsonschema_description:"Maximum number of hits"`
}

// FullTextHandler handles the fulltext_search MCP tool.
type FullTextHandler struct {
	service *service.Service
}

// NewFullTextHandler creates a new full-text search handler.
func NewFullTextHandler(svc *service.Service) *FullTextHandler {
	return &FullTextHandler{service: svc}
}

// Handle executes a ranked full-text query across repositories.
func (h *FullTextHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FullTextArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Query) == "" {
		return errorResult("Query cannot be empty"), nil, nil
	}

	extension := strings.TrimPrefix(args.Extension, ".")

	hits, err := h.service.FullTextSearch(args.Repositories, args.Query, extension, args.Limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRepositoryNotFound):
			return errorResult(fmt.Sprintf("Repository not found: %s", err)), nil, nil
		case errors.Is(err, domain.ErrRepositoryNotIndexed):
			return errorResult("Repository is not indexed yet. Use repository_status to check progress."), nil, nil
		}
		return errorResult(fmt.Sprintf("Search failed: %s", err)), nil, nil
	}

	return textResult(formatFullTextHits(hits, args.Query)), nil, nil
}

// formatFullTextHits renders ranked hits with highlighted fragments.
func formatFullTextHits(hits []index.FullTextHit, queryStr string) string {
	if len(hits) == 0 {
		return fmt.Sprintf("No results found for query: %s", queryStr)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d results for '%s':\n\n", len(hits), queryStr))

	for i, hit := range hits {
		sb.WriteString(fmt.Sprintf("### %d. %s:%s\n", i+1, hit.Repository, hit.FilePath))
		sb.WriteString(fmt.Sprintf("**Score**: %.4f\n\n", hit.Score))

		if len(hit.Fragments) > 0 {
			sb.WriteString("```\n")
			for _, fragment := range hit.Fragments {
				sb.WriteString(fragment)
				sb.WriteString("\n")
			}
			sb.WriteString("```\n")
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// GetToolDefinition returns the MCP tool definition.
func (h *FullTextHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "fulltext_search",
		Description: "Relevance-ranked full-text search across indexed repositories",
	}
}

// RegisterFullTextTool registers the full-text search tool with an MCP server.
func RegisterFullTextTool(server *mcp.Server, svc *service.Service) {
	handler := NewFullTextHandler(svc)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
