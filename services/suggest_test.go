package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CodeDreamer06/LinkVault/config"
)

func suggestTestService(endpoint string, enabled bool) *SuggestService {
	cfg := &config.Config{
		AIEnabled:  enabled,
		AIAPIKey:   "test-key",
		AIEndpoint: endpoint,
		AIModel:    "test-model",
	}
	scraper := NewScraperService(200 * time.Millisecond)
	return NewSuggestService(cfg, scraper)
}

func chatCompletionResponse(content string) []byte {
	body := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	data, _ := json.Marshal(body)
	return data
}

func TestSuggestParsesCommaSeparatedList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write(chatCompletionResponse("Go, Web Development ,  , Databases"))
	}))
	defer ts.Close()

	svc := suggestTestService(ts.URL, true)
	tags := svc.Suggest("http://127.0.0.1:1/unreachable")

	assert.Equal(t, []string{"go", "web development", "databases"}, tags)
}

func TestSuggestDisabledReturnsEmpty(t *testing.T) {
	svc := suggestTestService("http://127.0.0.1:1", false)

	tags := svc.Suggest("https://example.com")
	assert.Empty(t, tags)
}

func TestSuggestMissingKeyReturnsEmpty(t *testing.T) {
	cfg := &config.Config{AIEnabled: true, AIAPIKey: "", AIEndpoint: "http://127.0.0.1:1"}
	svc := NewSuggestService(cfg, NewScraperService(time.Second))

	tags := svc.Suggest("https://example.com")
	assert.Empty(t, tags)
}

func TestSuggestUpstreamErrorReturnsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	svc := suggestTestService(ts.URL, true)
	tags := svc.Suggest("http://127.0.0.1:1/unreachable")

	assert.Empty(t, tags)
}

func TestSuggestEmptyChoicesReturnsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	svc := suggestTestService(ts.URL, true)
	tags := svc.Suggest("http://127.0.0.1:1/unreachable")

	assert.Empty(t, tags)
}

func TestSuggestUnreachableEndpointReturnsEmpty(t *testing.T) {
	svc := suggestTestService("http://127.0.0.1:1", true)

	tags := svc.Suggest("http://127.0.0.1:1/unreachable")
	assert.Empty(t, tags)
}

func TestParseTagList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "simple list", content: "go,web,db", want: []string{"go", "web", "db"}},
		{name: "mixed case and spacing", content: " Go , WEB ,db ", want: []string{"go", "web", "db"}},
		{name: "empty entries dropped", content: "go,,db,", want: []string{"go", "db"}},
		{name: "empty content", content: "", want: []string{}},
		{name: "single tag", content: "golang", want: []string{"golang"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTagList(tt.content))
		})
	}
}
