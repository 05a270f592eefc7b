package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeDreamer06/LinkVault/api"
	"github.com/CodeDreamer06/LinkVault/config"
	"github.com/CodeDreamer06/LinkVault/db"
	"github.com/CodeDreamer06/LinkVault/models"
	"github.com/CodeDreamer06/LinkVault/services"
)

func setupApp(t *testing.T) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "app_test.db")
	require.NoError(t, db.Init(dbPath))
	t.Cleanup(func() { db.Close() })

	cfg = &config.Config{
		APITokens:            map[string]string{"test-token": "alice"},
		ScrapeTimeoutSeconds: 5,
		EnableAsyncEnrich:    false,
	}

	linkRepo = db.NewLinkRepository()
	tagRepo = db.NewTagRepository()
	scraperService = services.NewScraperService(5 * time.Second)
	suggestService = services.NewSuggestService(cfg, scraperService)
	enrichPool = services.NewEnrichWorkerPool(1, enrichLinkAsync)
	api.SetLinkRepository(linkRepo)
}

func ownerRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(api.WithSession(req.Context(), api.Session{OwnerID: "alice"}))
}

func TestMetadataResolvesSchemelessURL(t *testing.T) {
	setupApp(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// reached only if the handler prefixed http:// before fetching
		w.Write([]byte(`<html><head><title>Resolved</title></head></html>`))
	}))
	defer ts.Close()

	hostOnly := strings.TrimPrefix(ts.URL, "http://")

	rec := httptest.NewRecorder()
	handleMetadata(rec, ownerRequest("GET", "/api/metadata?url="+hostOnly, ""))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metadata))
	assert.Equal(t, "Resolved", metadata["title"])
}

func TestMetadataMissingURL(t *testing.T) {
	setupApp(t)

	rec := httptest.NewRecorder()
	handleMetadata(rec, ownerRequest("GET", "/api/metadata", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetadataMalformedURL(t *testing.T) {
	setupApp(t)

	rec := httptest.NewRecorder()
	handleMetadata(rec, ownerRequest("GET", "/api/metadata?url=ftp%3A%2F%2Fexample.com", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetadataUpstreamStatusPassedThrough(t *testing.T) {
	setupApp(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	rec := httptest.NewRecorder()
	handleMetadata(rec, ownerRequest("GET", "/api/metadata?url="+ts.URL, ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetadataTimeoutMapsTo504(t *testing.T) {
	setupApp(t)
	scraperService = services.NewScraperService(50 * time.Millisecond)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	rec := httptest.NewRecorder()
	handleMetadata(rec, ownerRequest("GET", "/api/metadata?url="+ts.URL, ""))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestCreateListDeleteFlow(t *testing.T) {
	setupApp(t)

	rec := httptest.NewRecorder()
	createLink(rec, ownerRequest("POST", "/api/links", `{"url": "https://x.com", "tags": ["go"]}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)

	rec = httptest.NewRecorder()
	createLink(rec, ownerRequest("POST", "/api/links", `{"url": "https://y.com", "tags": ["rust"]}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	// full listing
	rec = httptest.NewRecorder()
	listLinks(rec, ownerRequest("GET", "/api/links", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Count   int            `json:"count"`
		Results []*models.Link `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, 2, listing.Count)

	// tag filter selects exactly the first record
	rec = httptest.NewRecorder()
	listLinks(rec, ownerRequest("GET", "/api/links?tag=go", ""))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "https://x.com", listing.Results[0].URL)

	// search overrides a tag selection still present in the query
	rec = httptest.NewRecorder()
	listLinks(rec, ownerRequest("GET", "/api/links?tag=go&q=y.com", ""))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "https://y.com", listing.Results[0].URL)

	// delete and verify
	rec = httptest.NewRecorder()
	deleteLink(rec, api.Session{OwnerID: "alice"}, created.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	listLinks(rec, ownerRequest("GET", "/api/links", ""))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)
}

func TestCreateLinkValidation(t *testing.T) {
	setupApp(t)

	rec := httptest.NewRecorder()
	createLink(rec, ownerRequest("POST", "/api/links", `{"url": ""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLinkFlow(t *testing.T) {
	setupApp(t)

	created, err := linkRepo.Create("alice", &models.LinkCreate{URL: "https://old.com", Tags: []string{"old"}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	updateLink(rec, ownerRequest("PUT", "/api/links/1", `{"url": "https://new.com", "tags": ["new"]}`),
		api.Session{OwnerID: "alice"}, created.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "https://new.com", updated.URL)
	assert.Equal(t, []string{"new"}, updated.Tags)

	// the replaced tag is orphaned and pruned
	count, err := tagRepo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdateMissingLinkReturns404(t *testing.T) {
	setupApp(t)

	rec := httptest.NewRecorder()
	updateLink(rec, ownerRequest("PUT", "/api/links/99", `{"url": "https://x.com"}`),
		api.Session{OwnerID: "alice"}, 99)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	deleteLink(rec, api.Session{OwnerID: "alice"}, 99)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuggestTagsNeverErrors(t *testing.T) {
	setupApp(t)

	rec := httptest.NewRecorder()
	handleSuggestTags(rec, ownerRequest("GET", "/api/links/suggest?url=example.com", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp["tags"])
}
