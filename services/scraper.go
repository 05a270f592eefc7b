package services

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/CodeDreamer06/LinkVault/models"
)

// ScraperService fetches a page and extracts its metadata.
type ScraperService struct {
	timeout time.Duration
	client  *http.Client
}

// NewScraperService creates a scraper with the given fetch timeout. The
// timeout is a hard deadline: a slow page fails instead of hanging the caller.
func NewScraperService(timeout time.Duration) *ScraperService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ScraperService{
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// ScrapePage fetches pageURL and extracts title, description and favicon.
// Failures come back as *models.NetworkError so callers can map timeout and
// upstream-status cases to distinct responses.
func (s *ScraperService) ScrapePage(pageURL string) (*models.PageMetadata, error) {
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return nil, &models.NetworkError{URL: pageURL, Err: err}
	}

	// Browser-like headers so metadata-hostile sites still answer
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &models.NetworkError{URL: pageURL, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.NetworkError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	// Metadata lives in <head>; 128KB is plenty and bounds hostile responses
	limitedReader := io.LimitReader(resp.Body, 128*1024)

	doc, err := html.Parse(limitedReader)
	if err != nil {
		return nil, &models.NetworkError{URL: pageURL, Err: err}
	}

	metadata := extractMetadata(doc)
	metadata.Title = metadata.BestTitle()
	metadata.Description = metadata.BestDescription()
	metadata.Favicon = resolveFavicon(pageURL, metadata.Favicon)

	return metadata, nil
}

// extractMetadata walks the parsed document for title, meta and icon tags.
func extractMetadata(doc *html.Node) *models.PageMetadata {
	metadata := &models.PageMetadata{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if metadata.Title == "" && n.FirstChild != nil {
					metadata.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				var name, property, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "name":
						name = attr.Val
					case "property":
						property = attr.Val
					case "content":
						content = attr.Val
					}
				}

				if name == "description" && metadata.Description == "" {
					metadata.Description = content
				}
				if property == "og:title" {
					metadata.OGTitle = content
				}
				if property == "og:description" {
					metadata.OGDesc = content
				}
			case "link":
				var rel, href string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "rel":
						rel = strings.ToLower(attr.Val)
					case "href":
						href = attr.Val
					}
				}

				if href != "" && metadata.Favicon == "" &&
					(rel == "icon" || rel == "shortcut icon" || rel == "apple-touch-icon") {
					metadata.Favicon = href
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return metadata
}

// resolveFavicon makes the favicon reference absolute, falling back to the
// conventional /favicon.ico when the page declares none.
func resolveFavicon(pageURL, favicon string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return favicon
	}

	if favicon == "" {
		return base.Scheme + "://" + base.Host + "/favicon.ico"
	}

	ref, err := url.Parse(favicon)
	if err != nil {
		return favicon
	}
	return base.ResolveReference(ref).String()
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
