// Package tools implements the MCP tool handlers exposed by the server.
// Each handler validates its arguments, delegates to the service layer and
// formats the outcome as tool content. Failures surface as IsError results
// rather than protocol errors.
package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codescope/mcp-codescope-server/internal/service"
)

// errorResult wraps a message as a failed tool call.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

// textResult wraps a message as a successful tool call.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// RegisterAll registers every tool with the MCP server.
func RegisterAll(server *mcp.Server, svc *service.Service) {
	RegisterIndexTool(server, svc)
	RegisterStatusTool(server, svc)
	RegisterSearchTool(server, svc)
	RegisterQueryTool(server, svc)
	RegisterLookupTool(server, svc)
	RegisterTreeTool(server, svc)
	RegisterReadTool(server, svc)
	RegisterFullTextTool(server, svc)
}
