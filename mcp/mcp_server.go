package mcp

import (
	"fmt"
	"strings"

	"github.com/CodeDreamer06/LinkVault/db"
	"github.com/CodeDreamer06/LinkVault/models"
	"github.com/CodeDreamer06/LinkVault/services"

	"github.com/mark3labs/mcp-go/server"
)

// MCPServer exposes the link vault to MCP clients. Every tool takes an
// explicit owner argument; the MCP surface has no session of its own.
type MCPServer struct {
	linkRepo       *db.LinkRepository
	scraperService *services.ScraperService
	mcpServer      *server.MCPServer
}

// NewMCPServer creates an MCP server over the vault repositories.
func NewMCPServer(linkRepo *db.LinkRepository, scraperService *services.ScraperService) *MCPServer {
	s := &MCPServer{
		linkRepo:       linkRepo,
		scraperService: scraperService,
	}

	s.mcpServer = server.NewMCPServer(
		"link-vault",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()

	return s
}

// Server returns the underlying MCP server.
func (s *MCPServer) Server() *server.MCPServer {
	return s.mcpServer
}

// formatLinks renders links as markdown.
func formatLinks(links []*models.Link, title string) string {
	if len(links) == 0 {
		return fmt.Sprintf("# %s\n\nNo links found.", title)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("# %s\n\n", title))
	result.WriteString(fmt.Sprintf("%d links\n", len(links)))

	for _, link := range links {
		heading := link.Title
		if heading == "" {
			heading = link.URL
		}
		result.WriteString(fmt.Sprintf("\n## %s\n", heading))
		result.WriteString(fmt.Sprintf("- **URL**: %s\n", link.URL))

		if link.Description != "" {
			result.WriteString(fmt.Sprintf("- **Description**: %s\n", link.Description))
		}

		if link.Category != "" {
			result.WriteString(fmt.Sprintf("- **Category**: %s\n", link.Category))
		}

		if len(link.Tags) > 0 {
			result.WriteString(fmt.Sprintf("- **Tags**: %s\n", strings.Join(link.Tags, ", ")))
		}
	}

	return result.String()
}

// formatNames renders a derived name list (tags or categories) as markdown.
func formatNames(names []string, title string) string {
	if len(names) == 0 {
		return fmt.Sprintf("# %s\n\nNone yet.", title)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("# %s\n\n", title))
	for _, name := range names {
		result.WriteString(fmt.Sprintf("- %s\n", name))
	}
	return result.String()
}
