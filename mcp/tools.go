package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/CodeDreamer06/LinkVault/models"
	"github.com/CodeDreamer06/LinkVault/services"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the vault tools.
func (s *MCPServer) registerTools() {
	searchTool := mcp.NewTool("search_links",
		mcp.WithDescription("Search an owner's links by title, URL, description, category or tags"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Owner id whose vault to search"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchLinks)

	tagsTool := mcp.NewTool("get_tags",
		mcp.WithDescription("List the distinct tags across an owner's links"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Owner id"),
		),
	)
	s.mcpServer.AddTool(tagsTool, s.handleGetTags)

	categoriesTool := mcp.NewTool("get_categories",
		mcp.WithDescription("List the distinct categories across an owner's links"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Owner id"),
		),
	)
	s.mcpServer.AddTool(categoriesTool, s.handleGetCategories)

	byTagTool := mcp.NewTool("get_links_by_tag",
		mcp.WithDescription("List an owner's links carrying an exact tag"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Owner id"),
		),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Tag name"),
		),
	)
	s.mcpServer.AddTool(byTagTool, s.handleGetLinksByTag)

	byCategoryTool := mcp.NewTool("get_links_by_category",
		mcp.WithDescription("List an owner's links in an exact category"),
		mcp.WithString("owner",
			mcp.Required(),
			mcp.Description("Owner id"),
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category name"),
		),
	)
	s.mcpServer.AddTool(byCategoryTool, s.handleGetLinksByCategory)

	fetchContentTool := mcp.NewTool("fetch_link_content",
		mcp.WithDescription("Fetch a page's metadata (title, description, favicon). May be slow."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL to fetch"),
		),
	)
	s.mcpServer.AddTool(fetchContentTool, s.handleFetchLinkContent)
}

func (s *MCPServer) handleSearchLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := request.GetString("owner", "")
	query := request.GetString("query", "")
	if owner == "" || query == "" {
		return mcp.NewToolResultError("owner and query parameters required"), nil
	}

	links, err := s.linkRepo.ListByOwner(owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list links: %v", err)), nil
	}

	matched := services.Filter(links, models.SearchFilter(query))
	return mcp.NewToolResultText(formatLinks(matched, fmt.Sprintf("Search results: %q", query))), nil
}

func (s *MCPServer) handleGetTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := request.GetString("owner", "")
	if owner == "" {
		return mcp.NewToolResultError("owner parameter required"), nil
	}

	links, err := s.linkRepo.ListByOwner(owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list links: %v", err)), nil
	}

	return mcp.NewToolResultText(formatNames(services.TagNames(links), "Tags")), nil
}

func (s *MCPServer) handleGetCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := request.GetString("owner", "")
	if owner == "" {
		return mcp.NewToolResultError("owner parameter required"), nil
	}

	links, err := s.linkRepo.ListByOwner(owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list links: %v", err)), nil
	}

	return mcp.NewToolResultText(formatNames(services.Categories(links), "Categories")), nil
}

func (s *MCPServer) handleGetLinksByTag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := request.GetString("owner", "")
	tag := request.GetString("tag", "")
	if owner == "" || tag == "" {
		return mcp.NewToolResultError("owner and tag parameters required"), nil
	}

	links, err := s.linkRepo.ListByOwner(owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list links: %v", err)), nil
	}

	matched := services.Filter(links, models.TagFilter(tag))
	return mcp.NewToolResultText(formatLinks(matched, "Tag: "+tag)), nil
}

func (s *MCPServer) handleGetLinksByCategory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := request.GetString("owner", "")
	category := request.GetString("category", "")
	if owner == "" || category == "" {
		return mcp.NewToolResultError("owner and category parameters required"), nil
	}

	links, err := s.linkRepo.ListByOwner(owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list links: %v", err)), nil
	}

	matched := services.Filter(links, models.CategoryFilter(category))
	return mcp.NewToolResultText(formatLinks(matched, "Category: "+category)), nil
}

func (s *MCPServer) handleFetchLinkContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url parameter required"), nil
	}

	metadata, err := s.scraperService.ScrapePage(url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch content: %v", err)), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("# %s\n\n", metadata.Title))
	result.WriteString(fmt.Sprintf("**URL**: %s\n\n", url))

	if metadata.Description != "" {
		result.WriteString(fmt.Sprintf("**Description**: %s\n\n", metadata.Description))
	}

	if metadata.Favicon != "" {
		result.WriteString(fmt.Sprintf("**Favicon**: %s\n", metadata.Favicon))
	}

	return mcp.NewToolResultText(result.String()), nil
}
