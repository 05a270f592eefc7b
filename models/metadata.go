package models

// PageMetadata holds what the scraper extracted from a page.
type PageMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	OGTitle     string `json:"-"`
	OGDesc      string `json:"-"`
}

// BestTitle prefers the Open Graph title over the <title> tag.
func (m *PageMetadata) BestTitle() string {
	if m.OGTitle != "" {
		return m.OGTitle
	}
	return m.Title
}

// BestDescription prefers the Open Graph description over the meta tag.
func (m *PageMetadata) BestDescription() string {
	if m.OGDesc != "" {
		return m.OGDesc
	}
	return m.Description
}
