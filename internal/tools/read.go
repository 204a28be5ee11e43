package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/service"
)

// ReadArgument defines read_file parameters.
type ReadArgument struct {
	Repository string `json:"repository" jsonschema_description:"Repository key (e.g., github/org/repo@main)"`
	Path       string `json:"path" jsonschema_description:"File path relative to the repository root"`
}

// ReadHandler handles the read_file MCP tool.
type ReadHandler struct {
	service *service.Service
}

// NewReadHandler creates a new read handler.
func NewReadHandler(svc *service.Service) *ReadHandler {
	return &ReadHandler{service: svc}
}

// Handle returns the indexed content of one file.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Repository) == "" {
		return errorResult("Repository cannot be empty"), nil, nil
	}
	if strings.TrimSpace(args.Path) == "" {
		return errorResult("Path cannot be empty"), nil, nil
	}
	if err := validatePath(args.Path); err != nil {
		return errorResult(fmt.Sprintf("Invalid path: %s", err)), nil, nil
	}

	content, err := h.service.ReadFile(args.Repository, args.Path)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRepositoryNotFound):
			return errorResult(fmt.Sprintf("Repository not found: %s", args.Repository)), nil, nil
		case errors.Is(err, domain.ErrRepositoryNotIndexed):
			return errorResult("Repository is not indexed yet. Use repository_status to check progress."), nil, nil
		case errors.Is(err, domain.ErrFileNotFound):
			return errorResult(fmt.Sprintf("File not found in index: %s", args.Path)), nil, nil
		}
		return errorResult(fmt.Sprintf("Error reading file: %s", err)), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**File**: `%s`\n", args.Path))
	sb.WriteString(fmt.Sprintf("**Repository**: %s\n", args.Repository))
	sb.WriteString(fmt.Sprintf("**Size**: %d bytes\n\n", len(content)))
	sb.WriteString(fmt.Sprintf("```\n%s\n```", content))

	return textResult(sb.String()), nil, nil
}

// validatePath performs security validation on the path.
func validatePath(path string) error {
	cleaned := filepath.Clean(path)

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("absolute paths are not allowed")
	}
	if strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, "/..") || strings.Contains(cleaned, "\\..") {
		return fmt.Errorf("path traversal is not allowed")
	}

	return nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ReadHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "read_file",
		Description: "Read a file from an indexed repository",
	}
}

// RegisterReadTool registers the read tool with an MCP server.
func RegisterReadTool(server *mcp.Server, svc *service.Service) {
	handler := NewReadHandler(svc)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
