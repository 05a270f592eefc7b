package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/CodeDreamer06/LinkVault/models"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// ValidateLinkCreate checks a submitted link and normalizes it in place.
func ValidateLinkCreate(lc *models.LinkCreate) error {
	if strings.TrimSpace(lc.URL) == "" {
		return &models.ValidationError{Field: "url", Message: "must not be empty"}
	}

	normalizedURL, err := NormalizeURL(lc.URL)
	if err != nil {
		return &models.ValidationError{Field: "url", Message: fmt.Sprintf("invalid: %v", err)}
	}
	lc.URL = normalizedURL

	if len(lc.Title) > 200 {
		return &models.ValidationError{Field: "title", Message: "too long (max 200 characters)"}
	}

	if len(lc.Description) > 1000 {
		return &models.ValidationError{Field: "description", Message: "too long (max 1000 characters)"}
	}

	if len(lc.Category) > 100 {
		return &models.ValidationError{Field: "category", Message: "too long (max 100 characters)"}
	}

	if len(lc.Tags) > 50 {
		return &models.ValidationError{Field: "tags", Message: "too many (max 50)"}
	}

	// Empty fields normalize to absent, tag entries get trimmed
	lc.Title = strings.TrimSpace(lc.Title)
	lc.Description = strings.TrimSpace(lc.Description)
	lc.Category = strings.TrimSpace(lc.Category)
	lc.FaviconURL = strings.TrimSpace(lc.FaviconURL)

	tags := lc.Tags[:0]
	for _, tag := range lc.Tags {
		if len(tag) > 100 {
			return &models.ValidationError{Field: "tags", Message: fmt.Sprintf("tag too long: %q (max 100 characters)", tag)}
		}
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	lc.Tags = tags

	return nil
}

// NormalizeURL trims the input and prefixes http:// when no scheme is given.
func NormalizeURL(urlStr string) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", fmt.Errorf("URL must not be empty")
	}

	if !schemePattern.MatchString(urlStr) {
		urlStr = "http://" + urlStr
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme: %s (only http and https)", u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("URL has no host")
	}

	return u.String(), nil
}
