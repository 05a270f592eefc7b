package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeDreamer06/LinkVault/models"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Sample Page</title>
	<meta name="description" content="A sample page for testing">
	<link rel="icon" href="/static/icon.png">
</head>
<body><p>hello</p></body>
</html>`

func TestScrapePageExtractsMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer ts.Close()

	scraper := NewScraperService(5 * time.Second)
	metadata, err := scraper.ScrapePage(ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "Sample Page", metadata.Title)
	assert.Equal(t, "A sample page for testing", metadata.Description)
	assert.Equal(t, ts.URL+"/static/icon.png", metadata.Favicon)
}

func TestScrapePagePrefersOpenGraph(t *testing.T) {
	page := `<html><head>
		<title>Plain Title</title>
		<meta property="og:title" content="OG Title">
		<meta name="description" content="plain desc">
		<meta property="og:description" content="og desc">
	</head><body></body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer ts.Close()

	scraper := NewScraperService(5 * time.Second)
	metadata, err := scraper.ScrapePage(ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "OG Title", metadata.Title)
	assert.Equal(t, "og desc", metadata.Description)
}

func TestScrapePageFaviconFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>No Icon</title></head><body></body></html>`))
	}))
	defer ts.Close()

	scraper := NewScraperService(5 * time.Second)
	metadata, err := scraper.ScrapePage(ts.URL)
	require.NoError(t, err)

	assert.Equal(t, ts.URL+"/favicon.ico", metadata.Favicon)
}

func TestScrapePageUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	scraper := NewScraperService(5 * time.Second)
	_, err := scraper.ScrapePage(ts.URL)

	var netErr *models.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusServiceUnavailable, netErr.StatusCode)
	assert.False(t, netErr.Timeout)
}

func TestScrapePageTimesOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(samplePage))
	}))
	defer ts.Close()

	scraper := NewScraperService(50 * time.Millisecond)
	_, err := scraper.ScrapePage(ts.URL)

	var netErr *models.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout)
}

func TestScrapePageUnreachableHost(t *testing.T) {
	scraper := NewScraperService(2 * time.Second)
	_, err := scraper.ScrapePage("http://127.0.0.1:1")

	var netErr *models.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.StatusCode)
}
