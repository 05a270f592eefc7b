package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/CodeDreamer06/LinkVault/models"
)

// ExportedLink is one element of an export document. Identity, owner and the
// modification timestamp stay out of the file.
type ExportedLink struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category,omitempty"`
	FaviconURL  string    `json:"favicon_url,omitempty"`
	DateAdded   time.Time `json:"date_added"`
}

// ExportFilename names a download after the export date,
// e.g. link-vault-export-2026-08-30.json.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("link-vault-export-%s.json", now.UTC().Format("2006-01-02"))
}

// ExportLinks serializes the full record set as a JSON array. An empty set
// marshals to [], which is a valid "nothing to export" document.
func ExportLinks(links []*models.Link) ([]byte, error) {
	exported := make([]ExportedLink, 0, len(links))
	for _, link := range links {
		tags := link.Tags
		if tags == nil {
			tags = []string{}
		}
		exported = append(exported, ExportedLink{
			URL:         link.URL,
			Title:       link.Title,
			Description: link.Description,
			Tags:        tags,
			Category:    link.Category,
			FaviconURL:  link.FaviconURL,
			DateAdded:   link.DateAdded,
		})
	}

	return json.MarshalIndent(exported, "", "  ")
}

// ParseImport validates an import document and returns insertable records.
// The root must be a JSON array and every element must carry a string url;
// everything else is coerced, never rejected.
func ParseImport(data []byte) ([]*models.LinkCreate, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, models.NewFormatError("document is not a JSON array")
	}

	records := make([]*models.LinkCreate, 0, len(raw))
	for i, msg := range raw {
		var elem map[string]any
		if err := json.Unmarshal(msg, &elem); err != nil {
			return nil, models.NewElementFormatError(i, "not a JSON object")
		}

		url, ok := elem["url"].(string)
		if !ok || url == "" {
			return nil, models.NewElementFormatError(i, "missing or non-string url")
		}

		records = append(records, &models.LinkCreate{
			URL:         url,
			Title:       stringOrEmpty(elem["title"]),
			Description: stringOrEmpty(elem["description"]),
			Category:    stringOrEmpty(elem["category"]),
			FaviconURL:  stringOrEmpty(elem["favicon_url"]),
			Tags:        coerceTags(elem["tags"]),
		})
	}

	return records, nil
}

// stringOrEmpty coerces a decoded JSON value to string-or-absent. Non-string
// values become absent rather than an error.
func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}

// coerceTags keeps only string-typed, non-empty entries, each trimmed.
// Anything that is not an array yields an empty tag sequence.
func coerceTags(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return []string{}
	}

	tags := []string{}
	for _, entry := range raw {
		s, ok := entry.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		tags = append(tags, s)
	}
	return tags
}
