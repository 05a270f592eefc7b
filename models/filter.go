package models

import "strings"

// FilterKind discriminates the single active view-narrowing criterion.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterSearch
	FilterTag
	FilterCategory
)

// FilterState is a tagged variant: exactly one criterion is active at a time.
// Selecting one clears the others; it is never persisted.
type FilterState struct {
	Kind  FilterKind
	Value string
}

// NoFilter returns the empty filter that passes every link through.
func NoFilter() FilterState {
	return FilterState{Kind: FilterNone}
}

// SearchFilter returns a free-text search filter. An empty (after trimming)
// query degrades to NoFilter so precedence checks stay simple.
func SearchFilter(query string) FilterState {
	return FilterState{Kind: FilterSearch, Value: query}
}

// TagFilter returns an exact-tag filter.
func TagFilter(tag string) FilterState {
	return FilterState{Kind: FilterTag, Value: tag}
}

// CategoryFilter returns an exact-category filter.
func CategoryFilter(category string) FilterState {
	return FilterState{Kind: FilterCategory, Value: category}
}

// FilterFromParams builds a FilterState from independently supplied request
// parameters. Clients are expected to send at most one, but the precedence
// search > tag > category is enforced here rather than trusted: a stale tag
// or category selection can never shadow a live search.
func FilterFromParams(query, tag, category string) FilterState {
	if strings.TrimSpace(query) != "" {
		return SearchFilter(query)
	}
	if tag != "" {
		return TagFilter(tag)
	}
	if category != "" {
		return CategoryFilter(category)
	}
	return NoFilter()
}

// Query returns the trimmed search text, or "" when this is not a search
// filter (or the search text is blank).
func (f FilterState) Query() string {
	if f.Kind != FilterSearch {
		return ""
	}
	return strings.TrimSpace(f.Value)
}
