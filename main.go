package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CodeDreamer06/LinkVault/api"
	"github.com/CodeDreamer06/LinkVault/config"
	"github.com/CodeDreamer06/LinkVault/db"
	"github.com/CodeDreamer06/LinkVault/mcp"
	"github.com/CodeDreamer06/LinkVault/models"
	"github.com/CodeDreamer06/LinkVault/services"
	"github.com/CodeDreamer06/LinkVault/utils"

	"github.com/mark3labs/mcp-go/server"
)

var (
	cfg            *config.Config
	linkRepo       *db.LinkRepository
	tagRepo        *db.TagRepository
	scraperService *services.ScraperService
	suggestService *services.SuggestService
	rateLimiter    *api.RateLimiter
	enrichPool     *services.EnrichWorkerPool
)

func main() {
	// 1. Load configuration
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("❌ failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ configuration invalid: %v", err)
	}

	log.Printf("✅ configuration loaded")
	log.Printf("📊 AI suggestions: %v", cfg.AIEnabled)
	log.Printf("📊 async enrichment: %v", cfg.EnableAsyncEnrich)
	log.Printf("📊 rate limiting: %v", cfg.RateLimitEnabled)

	// 2. Initialize the database
	if err := db.Init(cfg.DBPath); err != nil {
		log.Fatalf("❌ database init failed: %v", err)
	}
	defer db.Close()

	// 3. Repositories
	linkRepo = db.NewLinkRepository()
	tagRepo = db.NewTagRepository()

	// 4. Services
	scraperService = services.NewScraperService(time.Duration(cfg.ScrapeTimeoutSeconds) * time.Second)
	suggestService = services.NewSuggestService(cfg, scraperService)

	// 5. Handler dependencies
	api.SetLinkRepository(linkRepo)

	// 6. Rate limiter
	if cfg.RateLimitEnabled {
		rateLimiter = api.NewRateLimiter(cfg.RateLimitPerIP, cfg.RateLimitBurst)
	}

	// 7. Enrichment worker pool
	enrichPool = services.NewEnrichWorkerPool(cfg.EnrichWorkerCount, enrichLinkAsync)
	if cfg.EnableAsyncEnrich {
		enrichPool.Start()
		defer enrichPool.Stop()
	}

	// 8. MCP server
	mcpSrv := mcp.NewMCPServer(linkRepo, scraperService)
	httpServer := server.NewStreamableHTTPServer(mcpSrv.Server())
	log.Printf("✅ MCP server ready")

	// 9. Routes
	mux := http.NewServeMux()

	mux.Handle("/mcp/", http.StripPrefix("/mcp", httpServer))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	mux.HandleFunc("/api/system/status", handleSystemStatus)
	mux.HandleFunc("/api/metadata", handleMetadata)

	mux.HandleFunc("/api/links", handleLinks)
	mux.HandleFunc("/api/links/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/links/":
			handleLinks(w, r)
		case r.URL.Path == "/api/links/import":
			api.HandleImportLinks(w, r)
		case r.URL.Path == "/api/links/export":
			api.HandleExportLinks(w, r)
		case r.URL.Path == "/api/links/suggest":
			handleSuggestTags(w, r)
		default:
			handleLinkByID(w, r)
		}
	})

	mux.HandleFunc("/api/categories", api.HandleGetCategories)
	mux.HandleFunc("/api/tags", api.HandleGetTags)

	// 10. Middleware chain
	handler := api.LoggingMiddleware(mux)
	handler = api.AuthMiddleware(cfg.APITokens)(handler)
	handler = api.RateLimitMiddleware(rateLimiter)(handler)
	handler = api.CORSMiddleware(handler) // CORS stays outermost before recovery
	handler = api.RecoveryMiddleware(handler)

	// 11. Serve
	log.Printf("🚀 server listening: http://localhost:%s", cfg.Port)
	log.Printf("📚 REST API: http://localhost:%s/api/links", cfg.Port)
	log.Printf("🔗 MCP endpoint: http://localhost:%s/mcp", cfg.Port)
	// plain return, not Fatalf: the deferred db.Close and pool Stop must run
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Printf("❌ server failed: %v", err)
	}
}

// handleSystemStatus reports service health for dashboards.
func handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := api.SessionFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dbStatus := "connected"
	linkCount, err := linkRepo.CountByOwner(session.OwnerID)
	if err != nil {
		dbStatus = "error"
	}
	tagCount, _ := tagRepo.Count()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"database":    dbStatus,
		"links_count": linkCount,
		"tags_count":  tagCount,
		"ai_enabled":  cfg.AIEnabled,
	})
}

// handleMetadata fetches title/description/favicon for a URL.
// GET /api/metadata?url=<string>
func handleMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	urlStr := r.URL.Query().Get("url")
	if urlStr == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	normalizedURL, err := utils.NormalizeURL(urlStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed url: "+err.Error())
		return
	}

	metadata, err := scraperService.ScrapePage(normalizedURL)
	if err != nil {
		var netErr *models.NetworkError
		if errors.As(err, &netErr) {
			switch {
			case netErr.Timeout:
				writeError(w, http.StatusGatewayTimeout, "upstream fetch timed out")
			case netErr.StatusCode != 0:
				writeError(w, netErr.StatusCode, "upstream returned an error")
			default:
				writeError(w, http.StatusInternalServerError, "upstream fetch failed")
			}
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metadata)
}

// handleSuggestTags returns AI tag suggestions for a URL. Failures come back
// as an empty list, never as an error response.
// GET /api/links/suggest?url=<string>
func handleSuggestTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tags := []string{}
	if urlStr := r.URL.Query().Get("url"); urlStr != "" {
		if normalizedURL, err := utils.NormalizeURL(urlStr); err == nil {
			tags = suggestService.Suggest(normalizedURL)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"tags": tags})
}

// handleLinks handles listing and creation.
func handleLinks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		listLinks(w, r)
	case "POST":
		createLink(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// listLinks returns the owner's links, narrowed by at most one filter.
// GET /api/links?q=... | ?tag=... | ?category=...
func listLinks(w http.ResponseWriter, r *http.Request) {
	session, ok := api.SessionFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	links, err := linkRepo.ListByOwner(session.OwnerID)
	if err != nil {
		log.Printf("❌ list links failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Precedence lives in FilterFromParams, so passing every parameter
	// through is safe even when a client sets several at once
	query := r.URL.Query()
	state := models.FilterFromParams(query.Get("q"), query.Get("tag"), query.Get("category"))

	filtered := services.Filter(links, state)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":   len(filtered),
		"results": filtered,
	})
}

// createLink stores a new link for the session owner.
func createLink(w http.ResponseWriter, r *http.Request) {
	session, ok := api.SessionFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var lc models.LinkCreate
	if err := json.NewDecoder(r.Body).Decode(&lc); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateLinkCreate(&lc); err != nil {
		log.Printf("⚠️ validation failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := linkRepo.Create(session.OwnerID, &lc)
	if err != nil {
		log.Printf("❌ create link failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if cfg.EnableAsyncEnrich {
		enrichPool.Submit(services.EnrichTask{OwnerID: session.OwnerID, LinkID: created.ID})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// handleLinkByID handles GET/PUT/PATCH/DELETE on /api/links/{id}.
func handleLinkByID(w http.ResponseWriter, r *http.Request) {
	session, ok := api.SessionFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := strings.TrimSuffix(r.URL.Path[len("/api/links/"):], "/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid link id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "GET":
		getLink(w, session, id)
	case "PUT", "PATCH":
		updateLink(w, r, session, id)
	case "DELETE":
		deleteLink(w, session, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func getLink(w http.ResponseWriter, session api.Session, id int) {
	link, err := linkRepo.GetByID(session.OwnerID, id)
	if err != nil {
		http.Error(w, "link not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(link)
}

// updateLink replaces all mutable fields of the link.
func updateLink(w http.ResponseWriter, r *http.Request, session api.Session, id int) {
	var lc models.LinkCreate
	if err := json.NewDecoder(r.Body).Decode(&lc); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateLinkCreate(&lc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := linkRepo.Update(session.OwnerID, id, &lc)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "link not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("❌ update link failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := tagRepo.PruneOrphans(); err != nil {
		log.Printf("⚠️ tag prune failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func deleteLink(w http.ResponseWriter, session api.Session, id int) {
	err := linkRepo.Delete(session.OwnerID, id)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "link not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("❌ delete link failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := tagRepo.PruneOrphans(); err != nil {
		log.Printf("⚠️ tag prune failed: %v", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// enrichLinkAsync fills in missing metadata and tags in the background.
func enrichLinkAsync(task services.EnrichTask) {
	log.Printf("🔄 enrichment started: link %d", task.LinkID)

	link, err := linkRepo.GetByID(task.OwnerID, task.LinkID)
	if err != nil {
		log.Printf("❌ enrichment: link %d not found: %v", task.LinkID, err)
		return
	}

	update := &models.LinkCreate{
		URL:         link.URL,
		Title:       link.Title,
		Description: link.Description,
		Category:    link.Category,
		FaviconURL:  link.FaviconURL,
		Tags:        link.Tags,
	}

	needsUpdate := false

	if link.Title == "" || link.FaviconURL == "" || link.Description == "" {
		if metadata, err := scraperService.ScrapePage(link.URL); err == nil {
			if link.Title == "" && metadata.Title != "" {
				update.Title = metadata.Title
				needsUpdate = true
			}
			if link.Description == "" && metadata.Description != "" {
				update.Description = metadata.Description
				needsUpdate = true
			}
			if link.FaviconURL == "" && metadata.Favicon != "" {
				update.FaviconURL = metadata.Favicon
				needsUpdate = true
			}
		} else {
			log.Printf("⚠️ enrichment scrape failed: %v", err)
		}
	}

	if len(link.Tags) == 0 && cfg.AIEnabled {
		if suggested := suggestService.Suggest(link.URL); len(suggested) > 0 {
			update.Tags = suggested
			needsUpdate = true
			log.Printf("✨ suggested tags: %v", suggested)
		}
	}

	if !needsUpdate {
		log.Printf("ℹ️ enrichment: nothing to add for link %d", task.LinkID)
		return
	}

	if _, err := linkRepo.Update(task.OwnerID, task.LinkID, update); err != nil {
		log.Printf("❌ enrichment update failed: %v", err)
		return
	}
	log.Printf("✅ enrichment finished: link %d", task.LinkID)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
