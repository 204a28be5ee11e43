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

// LookupArgument defines lookup_function parameters.
type LookupArgument struct {
	Repository string `json:"repository" jsonschema_description:"Repository key (e.g., github/org/repo@main)"`
	Name       string `json:"name" jsonschema_description:"Exact function name to look up"`
	FilePath   string `json:"filePath,omitempty" jsonschema_description:"Restrict the lookup to one file when the name is ambiguous"`
}

// LookupHandler handles the lookup_function MCP tool.
type LookupHandler struct {
	service *service.Service
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(svc *service.Service) *LookupHandler {
	return &LookupHandler{service: svc}
}

// Handle finds functions by exact name, or suggests near-miss names.
func (h *LookupHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args LookupArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Repository) == "" {
		return errorResult("Repository cannot be empty"), nil, nil
	}
	if strings.TrimSpace(args.Name) == "" {
		return errorResult("Function name cannot be empty"), nil, nil
	}

	records, suggestions, err := h.service.LookupFunction(args.Repository, args.Name, args.FilePath)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRepositoryNotFound):
			return errorResult(fmt.Sprintf("Repository not found: %s", args.Repository)), nil, nil
		case errors.Is(err, domain.ErrRepositoryNotIndexed):
			return errorResult("Repository is not indexed yet. Use repository_status to check progress."), nil, nil
		}
		return errorResult(fmt.Sprintf("Lookup failed: %s", err)), nil, nil
	}

	if len(records) == 0 {
		if len(suggestions) == 0 {
			return textResult(fmt.Sprintf("No function named '%s' found.", args.Name)), nil, nil
		}
		return textResult(fmt.Sprintf(
			"No function named '%s' found. Did you mean: %s?",
			args.Name, strings.Join(suggestions, ", "),
		)), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d definitions of '%s':\n\n", len(records), args.Name))
	for _, record := range records {
		sb.WriteString(fmt.Sprintf("### %s:%d-%d\n", record.FilePath, record.StartLine, record.EndLine))
		sb.WriteString(fmt.Sprintf("```\n%s\n```\n\n", record.Signature))
	}

	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *LookupHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lookup_function",
		Description: "Find function definitions by exact name in an indexed repository",
	}
}

// RegisterLookupTool registers the lookup tool with an MCP server.
func RegisterLookupTool(server *mcp.Server, svc *service.Service) {
	handler := NewLookupHandler(svc)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
