package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/service"
)

// StatusArgument defines repository_status parameters.
type StatusArgument struct {
	Repository string `json:"repository,omitempty" jsonschema_description:"Repository key (e.g., github/org/repo@main). Omit to list all registered repositories"`
}

// StatusHandler handles the repository_status MCP tool.
type StatusHandler struct {
	service *service.Service
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(svc *service.Service) *StatusHandler {
	return &StatusHandler{service: svc}
}

// Handle reports the lifecycle state of one or all repositories.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Repository) == "" {
		repos := h.service.Repositories()
		if len(repos) == 0 {
			return textResult("No repositories registered. Use index_repository to add one."), nil, nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d registered repositories:\n\n", len(repos)))
		for _, rec := range repos {
			sb.WriteString(formatStatus(rec))
			sb.WriteString("\n")
		}
		return textResult(sb.String()), nil, nil
	}

	key, err := domain.ParseDisplayKey(args.Repository)
	if err != nil {
		return errorResult(fmt.Sprintf("Invalid repository key %q: %s", args.Repository, err)), nil, nil
	}

	rec, err := h.service.Status(key)
	if err != nil {
		return errorResult(fmt.Sprintf("Repository not found: %s", key.Display())), nil, nil
	}

	return textResult(formatStatus(rec)), nil, nil
}

// formatStatus renders one lifecycle record.
func formatStatus(rec domain.Repository) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**: %s", rec.Key.Display(), rec.Status))

	switch rec.Status {
	case domain.StatusIndexing:
		sb.WriteString(fmt.Sprintf(" (%d/%d files)", rec.FilesProcessed, rec.TotalFiles))
	case domain.StatusReady:
		sb.WriteString(fmt.Sprintf(" (%d files, indexed %s)", rec.FilesProcessed, rec.LastIndexed.Format("2006-01-02 15:04:05")))
	case domain.StatusError:
		sb.WriteString(fmt.Sprintf(" (%s)", rec.LastError))
	}

	return sb.String()
}

// GetToolDefinition returns the MCP tool definition.
func (h *StatusHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "repository_status",
		Description: "Check the indexing status of repositories",
	}
}

// RegisterStatusTool registers the status tool with an MCP server.
func RegisterStatusTool(server *mcp.Server, svc *service.Service) {
	handler := NewStatusHandler(svc)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
