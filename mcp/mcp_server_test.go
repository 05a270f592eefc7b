package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodeDreamer06/LinkVault/models"
)

func TestFormatLinks(t *testing.T) {
	tests := []struct {
		name     string
		links    []*models.Link
		title    string
		contains []string
	}{
		{
			name:     "empty vault",
			links:    []*models.Link{},
			title:    "Search results",
			contains: []string{"# Search results", "No links found"},
		},
		{
			name: "single link",
			links: []*models.Link{
				{
					ID:          1,
					Title:       "Example",
					URL:         "https://example.com",
					Description: "Test description",
					Category:    "dev",
					Tags:        []string{"test", "example"},
				},
			},
			title: "One link",
			contains: []string{
				"# One link",
				"1 links",
				"## Example",
				"https://example.com",
				"Test description",
				"dev",
				"test, example",
			},
		},
		{
			name: "untitled link falls back to URL heading",
			links: []*models.Link{
				{ID: 1, URL: "https://untitled.com"},
			},
			title:    "Links",
			contains: []string{"## https://untitled.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatLinks(tt.links, tt.title)
			for _, want := range tt.contains {
				assert.Contains(t, result, want)
			}
		})
	}
}

func TestFormatNames(t *testing.T) {
	assert.Contains(t, formatNames(nil, "Tags"), "None yet")

	result := formatNames([]string{"dev", "news"}, "Categories")
	assert.Contains(t, result, "# Categories")
	assert.Contains(t, result, "- dev")
	assert.Contains(t, result, "- news")
}
