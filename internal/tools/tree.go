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

// TreeArgument defines file_tree parameters.
type TreeArgument struct {
	Repository string `json:"repository" jsonschema_description:"Repository key (e.g., github/org/repo@main)"`
}

// TreeHandler handles the file_tree MCP tool.
type TreeHandler struct {
	service *service.Service
}

// NewTreeHandler creates a new tree handler.
func NewTreeHandler(svc *service.Service) *TreeHandler {
	return &TreeHandler{service: svc}
}

// Handle lists the indexed file paths of a repository.
func (h *TreeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TreeArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Repository) == "" {
		return errorResult("Repository cannot be empty"), nil, nil
	}

	paths, err := h.service.FileTree(args.Repository)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRepositoryNotFound):
			return errorResult(fmt.Sprintf("Repository not found: %s", args.Repository)), nil, nil
		case errors.Is(err, domain.ErrRepositoryNotIndexed):
			return errorResult("Repository is not indexed yet. Use repository_status to check progress."), nil, nil
		}
		return errorResult(fmt.Sprintf("Failed to list files: %s", err)), nil, nil
	}

	if len(paths) == 0 {
		return textResult("The repository index contains no files."), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d indexed files in %s:\n\n", len(paths), args.Repository))
	for _, path := range paths {
		sb.WriteString(path)
		sb.WriteString("\n")
	}

	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *TreeHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "file_tree",
		Description: "List the indexed files of a repository",
	}
}

// RegisterTreeTool registers the tree tool with an MCP server.
func RegisterTreeTool(server *mcp.Server, svc *service.Service) {
	handler := NewTreeHandler(svc)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
