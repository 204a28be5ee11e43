package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codescope/mcp-codescope-server/internal/domain"
	"github.com/codescope/mcp-codescope-server/internal/service"
)

// IndexArgument defines index_repository parameters.
type IndexArgument struct {
	Remote      string `json:"remote" jsonschema_description:"Remote host kind: github, gitlab or bitbucket"`
	Owner       string `json:"owner" jsonschema_description:"Repository owner or organization"`
	Name        string `json:"name" jsonschema_description:"Repository name"`
	Branch      string `json:"branch,omitempty" jsonschema_description:"Branch to index (defaults to main)"`
	ForceReload bool   `json:"forceReload,omitempty" jsonschema_description:"Re-index even if the repository is already indexed"`
}

// IndexHandler handles the index_repository MCP tool.
type IndexHandler struct {
	service *service.Service
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(svc *service.Service) *IndexHandler {
	return &IndexHandler{service: svc}
}

// Handle registers the repository and kicks off a background indexing pass.
func (h *IndexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args IndexArgument) (*mcp.CallToolResult, any, error) {
	remote, err := domain.ParseRemoteKind(args.Remote)
	if err != nil {
		return errorResult(fmt.Sprintf("Invalid remote %q: must be github, gitlab or bitbucket", args.Remote)), nil, nil
	}
	if strings.TrimSpace(args.Owner) == "" || strings.TrimSpace(args.Name) == "" {
		return errorResult("Owner and name cannot be empty"), nil, nil
	}

	branch := strings.TrimSpace(args.Branch)
	if branch == "" {
		branch = "main"
	}

	key := domain.RepoKey{Remote: remote, Owner: args.Owner, Name: args.Name, Branch: branch}
	rec, started := h.service.IndexRepository(key, args.ForceReload)

	if !started {
		if rec.Status == domain.StatusIndexing {
			return textResult(fmt.Sprintf(
				"Indexing of %s is already in progress (%d/%d files). Use repository_status to track progress.",
				key.Display(), rec.FilesProcessed, rec.TotalFiles,
			)), nil, nil
		}
		return textResult(fmt.Sprintf(
			"Repository %s is already indexed (%d files, last indexed %s). Pass forceReload to re-index.",
			key.Display(), rec.FilesProcessed, rec.LastIndexed.Format("2006-01-02 15:04:05"),
		)), nil, nil
	}

	return textResult(fmt.Sprintf(
		"Indexing of %s started in the background. Use repository_status to track progress.",
		key.Display(),
	)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *IndexHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "index_repository",
		Description: "Clone a git repository and index its source files for searching",
	}
}

// RegisterIndexTool registers the index tool with an MCP server.
func RegisterIndexTool(server *mcp.Server, svc *service.Service) {
	handler := NewIndexHandler(svc)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
