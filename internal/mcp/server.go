package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codescope/mcp-codescope-server/internal/service"
	"github.com/codescope/mcp-codescope-server/internal/tools"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string
	Service *service.Service
}

// CreateServer creates the MCP server and registers the code tools.
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.Service != nil {
		tools.RegisterAll(s, cfg.Service)
	}

	return s
}
