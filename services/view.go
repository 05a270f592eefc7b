package services

import (
	"sort"
	"strings"

	"github.com/CodeDreamer06/LinkVault/models"
)

// Derived views over an owner's full record set. All functions here are pure:
// no stored state, recomputed from scratch on every call.

// Categories returns every distinct non-empty category, sorted ascending.
func Categories(links []*models.Link) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, link := range links {
		if link.Category == "" || seen[link.Category] {
			continue
		}
		seen[link.Category] = true
		categories = append(categories, link.Category)
	}
	sort.Strings(categories)
	return categories
}

// TagNames returns every distinct tag across all links, sorted ascending.
func TagNames(links []*models.Link) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, link := range links {
		for _, tag := range link.Tags {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// Filter selects the subsequence of links matching the active criterion,
// preserving input order. Precedence is strict: a non-blank search query wins
// over a tag or category selection even if state for both somehow arrived
// together, so a stale selection can never shadow a live search.
func Filter(links []*models.Link, state models.FilterState) []*models.Link {
	if query := state.Query(); query != "" {
		return filterBySearch(links, query)
	}

	switch state.Kind {
	case models.FilterTag:
		return filterByTag(links, state.Value)
	case models.FilterCategory:
		return filterByCategory(links, state.Value)
	default:
		out := make([]*models.Link, len(links))
		copy(out, links)
		return out
	}
}

func filterBySearch(links []*models.Link, query string) []*models.Link {
	query = strings.ToLower(query)

	matched := []*models.Link{}
	for _, link := range links {
		if matchesQuery(link, query) {
			matched = append(matched, link)
		}
	}
	return matched
}

// matchesQuery reports whether the lowercased query is a substring of the
// URL, title, description, category, or any one tag.
func matchesQuery(link *models.Link, query string) bool {
	if strings.Contains(strings.ToLower(link.URL), query) ||
		strings.Contains(strings.ToLower(link.Title), query) ||
		strings.Contains(strings.ToLower(link.Description), query) ||
		strings.Contains(strings.ToLower(link.Category), query) {
		return true
	}
	for _, tag := range link.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func filterByTag(links []*models.Link, tag string) []*models.Link {
	matched := []*models.Link{}
	for _, link := range links {
		if link.HasTag(tag) {
			matched = append(matched, link)
		}
	}
	return matched
}

func filterByCategory(links []*models.Link, category string) []*models.Link {
	matched := []*models.Link{}
	for _, link := range links {
		if link.Category == category {
			matched = append(matched, link)
		}
	}
	return matched
}
