package models

import "time"

// Link is a saved bookmark belonging to exactly one owner.
type Link struct {
	ID           int       `json:"id"`
	OwnerID      string    `json:"owner_id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	FaviconURL   string    `json:"favicon_url"`
	Tags         []string  `json:"tags"`
	DateAdded    time.Time `json:"date_added"`
	DateModified time.Time `json:"date_modified"`
}

// LinkCreate carries the mutable fields for create, update and import.
// URL is the only required field; empty strings mean absent.
type LinkCreate struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	FaviconURL  string   `json:"favicon_url"`
	Tags        []string `json:"tags"`
}

// HasTag reports whether the link carries the exact tag.
func (l *Link) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
