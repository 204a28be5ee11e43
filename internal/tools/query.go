package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/service"
)

// QueryArgument defines query parameters.
type QueryArgument struct {
	Question     string   `json:"question" jsonschema_description:"Natural-language question about the code"`
	Repositories []string `json:"repositories,omitempty" jsonschema_description:"Repository keys to search. Omit to search all indexed repositories"`
}

// QueryHandler handles the query MCP tool.
type QueryHandler struct {
	service *service.Service
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(svc *service.Service) *QueryHandler {
	return &QueryHandler{service: svc}
}

// Handle routes the question as a keyword search and groups hits per file.
func (h *QueryHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args QueryArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Question) == "" {
		return errorResult("Question cannot be empty"), nil, nil
	}

	groups, keywords, err := h.service.Query(args.Question, args.Repositories)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRepositoryNotFound):
			return errorResult(fmt.Sprintf("Repository not found: %s", err)), nil, nil
		case errors.Is(err, domain.ErrRepositoryNotIndexed):
			return errorResult("Repository is not indexed yet. Use repository_status to check progress."), nil, nil
		}
		return errorResult(fmt.Sprintf("Query failed: %s", err)), nil, nil
	}

	if len(keywords) == 0 {
		return textResult("The question contains no searchable keywords."), nil, nil
	}
	if len(groups) == 0 {
		return textResult(fmt.Sprintf("No matches for keywords: %s", strings.Join(keywords, ", "))), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Keywords: %s\n\n", strings.Join(keywords, ", ")))
	for _, group := range groups {
		sb.WriteString(fmt.Sprintf("### %s:%s\n", group.Repository, group.FilePath))
		for _, result := range group.Results {
			sb.WriteString(fmt.Sprintf("- line %d: `%s`\n", result.Line, result.Content))
		}
		sb.WriteString("\n")
	}

	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *QueryHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "query",
		Description: "Answer a natural-language question by keyword search over indexed repositories",
	}
}

// RegisterQueryTool registers the query tool with an MCP server.
func RegisterQueryTool(server *mcp.Server, svc *service.Service) {
	handler := NewQueryHandler(svc)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
