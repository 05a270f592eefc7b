package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/CodeDreamer06/LinkVault/config"
	"github.com/CodeDreamer06/LinkVault/utils"
)

const suggestPrompt = `Suggest 3-5 short tags for the web page at this URL.

URL: %s
Page title: %s

Reply with a single comma-separated list of tags and nothing else.`

// SuggestService asks a chat-completion endpoint for tag suggestions.
type SuggestService struct {
	config  *config.Config
	scraper *ScraperService
	client  *http.Client
}

// NewSuggestService creates a suggestion client.
func NewSuggestService(cfg *config.Config, scraper *ScraperService) *SuggestService {
	return &SuggestService{
		config:  cfg,
		scraper: scraper,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Suggest returns tag suggestions for the URL. Misconfiguration and every
// kind of failure degrade to an empty list; suggestions are never worth
// blocking the caller over.
func (s *SuggestService) Suggest(pageURL string) []string {
	tags, err := s.fetchSuggestions(pageURL)
	if err != nil {
		log.Printf("⚠️ tag suggestion failed for %s: %v", utils.SanitizeURL(pageURL), err)
		return []string{}
	}
	return tags
}

func (s *SuggestService) fetchSuggestions(pageURL string) ([]string, error) {
	if !s.config.AIEnabled || s.config.AIAPIKey == "" || s.config.AIEndpoint == "" {
		return nil, fmt.Errorf("suggestions not configured")
	}

	// Scraped title sharpens the prompt; a failed scrape just means less context
	pageTitle := ""
	if metadata, err := s.scraper.ScrapePage(pageURL); err == nil {
		pageTitle = metadata.Title
	}

	reqBody := map[string]any{
		"model": s.config.AIModel,
		"messages": []map[string]string{
			{"role": "user", "content": fmt.Sprintf(suggestPrompt, pageURL, pageTitle)},
		},
		"temperature": 0.7,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequest("POST", s.config.AIEndpoint, bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.AIAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endpoint status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	// 1MB cap, oversized responses are gibberish anyway
	limitedReader := io.LimitReader(resp.Body, 1024*1024)
	if err := json.NewDecoder(limitedReader).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	return parseTagList(result.Choices[0].Message.Content), nil
}

// parseTagList splits a comma-separated reply into lowercased, trimmed tags.
func parseTagList(content string) []string {
	tags := []string{}
	for _, part := range strings.Split(content, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
