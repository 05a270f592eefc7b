package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/CodeDreamer06/LinkVault/models"
	"github.com/CodeDreamer06/LinkVault/services"
	"github.com/CodeDreamer06/LinkVault/utils"
)

// POST /api/links/import - validate a JSON document and bulk-insert it
func HandleImportLinks(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "only application/json imports are accepted", http.StatusUnsupportedMediaType)
		return
	}

	// 8MB cap keeps runaway uploads out of memory
	data, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	records, err := services.ParseImport(data)
	if err != nil {
		var formatErr *models.FormatError
		if errors.As(err, &formatErr) {
			log.Printf("⚠️ import rejected: %v", formatErr)
			http.Error(w, formatErr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Normalize each record the same way the form flow does
	for i, record := range records {
		if err := utils.ValidateLinkCreate(record); err != nil {
			http.Error(w, fmt.Sprintf("element %d: %v", i, err), http.StatusBadRequest)
			return
		}
	}

	// One transaction: the store either takes the whole document or none of it
	if err := linkRepo.BulkInsert(session.OwnerID, records); err != nil {
		log.Printf("❌ import failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("📥 imported %d links for owner %s", len(records), session.OwnerID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"imported": len(records),
	})
}

// GET /api/links/export - download the owner's full set as a JSON attachment
func HandleExportLinks(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	links, err := linkRepo.ListByOwner(session.OwnerID)
	if err != nil {
		log.Printf("❌ export fetch failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// An empty set is still a valid export, the document is just []
	data, err := services.ExportLinks(links)
	if err != nil {
		log.Printf("❌ export encode failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := services.ExportFilename(time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}
