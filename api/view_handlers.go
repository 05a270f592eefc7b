package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/CodeDreamer06/LinkVault/db"
	"github.com/CodeDreamer06/LinkVault/services"
)

// Derived-view endpoints: categories and tags are computed from the owner's
// record set, not read from a table of their own.

var linkRepo *db.LinkRepository

// SetLinkRepository sets the link repository used by the api handlers.
func SetLinkRepository(repo *db.LinkRepository) {
	linkRepo = repo
}

// GET /api/categories - distinct categories across the owner's links
func HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r)
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

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(services.Categories(links))
}

// GET /api/tags - distinct tags across the owner's links
func HandleGetTags(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r)
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

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(services.TagNames(links))
}
