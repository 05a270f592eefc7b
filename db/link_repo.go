package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/CodeDreamer06/LinkVault/models"
)

// LinkRepository performs link CRUD scoped to an owner. Ownership is applied
// with WHERE owner_id on every statement; matching the owner to the
// authenticated identity is the caller's job.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a link repository on the shared handle.
func NewLinkRepository() *LinkRepository {
	return &LinkRepository{db: DB}
}

// Fixed-width timestamp: trailing fractional zeros are kept so the stored
// text sorts chronologically, and the numeric offset keeps the value inside
// the driver's parseable formats.
const timeLayout = "2006-01-02 15:04:05.000000000-07:00"

const linkSelect = `
	SELECT id, owner_id, url, title, description, category, favicon_url,
		date_added, date_modified
	FROM links
`

// ListByOwner returns the owner's full record set, newest first.
func (r *LinkRepository) ListByOwner(ownerID string) ([]*models.Link, error) {
	query := linkSelect + `
		WHERE owner_id = ?
		ORDER BY date_added DESC, id DESC
	`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, models.NewStoreError("list links", err)
	}
	defer rows.Close()

	links := []*models.Link{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, models.NewStoreError("list links", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStoreError("list links", err)
	}

	if err := r.attachOwnerTags(ownerID, links); err != nil {
		return nil, err
	}

	return links, nil
}

// GetByID returns one of the owner's links.
func (r *LinkRepository) GetByID(ownerID string, id int) (*models.Link, error) {
	row := r.db.QueryRow(linkSelect+" WHERE id = ? AND owner_id = ?", id, ownerID)
	link, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, models.NewStoreError("get link", fmt.Errorf("link %d: %w", id, models.ErrNotFound))
	}
	if err != nil {
		return nil, models.NewStoreError("get link", err)
	}

	link.Tags, err = r.tagsForLink(id)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// Create inserts a new link with its tags in one transaction and returns the
// stored record.
func (r *LinkRepository) Create(ownerID string, lc *models.LinkCreate) (*models.Link, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, models.NewStoreError("create link", err)
	}
	defer tx.Rollback()

	id, err := insertLinkTx(tx, ownerID, lc)
	if err != nil {
		return nil, models.NewStoreError("create link", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, models.NewStoreError("create link", err)
	}

	return r.GetByID(ownerID, int(id))
}

// Update replaces all mutable fields of the owner's link. Not a partial patch:
// the caller supplies the complete new state, tags included.
func (r *LinkRepository) Update(ownerID string, id int, lc *models.LinkCreate) (*models.Link, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, models.NewStoreError("update link", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeLayout)

	res, err := tx.Exec(
		"UPDATE links SET url=?, title=?, description=?, category=?, favicon_url=?, date_modified=? WHERE id=? AND owner_id=?",
		lc.URL, lc.Title, lc.Description, lc.Category, lc.FaviconURL, now, id, ownerID,
	)
	if err != nil {
		return nil, models.NewStoreError("update link", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, models.NewStoreError("update link", fmt.Errorf("link %d: %w", id, models.ErrNotFound))
	}

	// Full tag replacement: drop the old set, attach the new one
	if _, err := tx.Exec("DELETE FROM link_tags WHERE link_id = ?", id); err != nil {
		return nil, models.NewStoreError("update link", err)
	}
	if err := attachTagsTx(tx, int64(id), lc.Tags); err != nil {
		return nil, models.NewStoreError("update link", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, models.NewStoreError("update link", err)
	}

	return r.GetByID(ownerID, id)
}

// Delete removes the owner's link.
func (r *LinkRepository) Delete(ownerID string, id int) error {
	result, err := r.db.Exec("DELETE FROM links WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return models.NewStoreError("delete link", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return models.NewStoreError("delete link", fmt.Errorf("link %d: %w", id, models.ErrNotFound))
	}

	return nil
}

// BulkInsert inserts all records in a single transaction, so an import is
// stored fully or not at all.
func (r *LinkRepository) BulkInsert(ownerID string, lcs []*models.LinkCreate) error {
	if len(lcs) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return models.NewStoreError("bulk insert", err)
	}
	defer tx.Rollback()

	for _, lc := range lcs {
		if _, err := insertLinkTx(tx, ownerID, lc); err != nil {
			return models.NewStoreError("bulk insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.NewStoreError("bulk insert", err)
	}

	return nil
}

// CountByOwner reports how many links the owner has stored.
func (r *LinkRepository) CountByOwner(ownerID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM links WHERE owner_id = ?", ownerID).Scan(&count)
	if err != nil {
		return 0, models.NewStoreError("count links", err)
	}
	return count, nil
}

// tagsForLink returns one link's tag names in stored order. Tags travel as
// rows, never joined into a delimited string, so any character a tag carries
// survives the round-trip.
func (r *LinkRepository) tagsForLink(id int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT t.name
		FROM link_tags lt
		JOIN tags t ON t.id = lt.tag_id
		WHERE lt.link_id = ?
		ORDER BY lt.position
	`, id)
	if err != nil {
		return nil, models.NewStoreError("list tags", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, models.NewStoreError("list tags", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStoreError("list tags", err)
	}

	return tags, nil
}

// attachOwnerTags fills in Tags for every listed link with one query over the
// owner's whole join table.
func (r *LinkRepository) attachOwnerTags(ownerID string, links []*models.Link) error {
	if len(links) == 0 {
		return nil
	}

	rows, err := r.db.Query(`
		SELECT lt.link_id, t.name
		FROM link_tags lt
		JOIN tags t ON t.id = lt.tag_id
		JOIN links l ON l.id = lt.link_id
		WHERE l.owner_id = ?
		ORDER BY lt.link_id, lt.position
	`, ownerID)
	if err != nil {
		return models.NewStoreError("list tags", err)
	}
	defer rows.Close()

	byLink := map[int][]string{}
	for rows.Next() {
		var linkID int
		var name string
		if err := rows.Scan(&linkID, &name); err != nil {
			return models.NewStoreError("list tags", err)
		}
		byLink[linkID] = append(byLink[linkID], name)
	}
	if err := rows.Err(); err != nil {
		return models.NewStoreError("list tags", err)
	}

	for _, link := range links {
		if tags, ok := byLink[link.ID]; ok {
			link.Tags = tags
		}
	}
	return nil
}

// insertLinkTx inserts one link and its tags inside an open transaction.
func insertLinkTx(tx *sql.Tx, ownerID string, lc *models.LinkCreate) (int64, error) {
	now := time.Now().UTC().Format(timeLayout)

	result, err := tx.Exec(
		"INSERT INTO links (owner_id, url, title, description, category, favicon_url, date_added, date_modified) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		ownerID, lc.URL, lc.Title, lc.Description, lc.Category, lc.FaviconURL, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert link: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert link id: %w", err)
	}

	if err := attachTagsTx(tx, id, lc.Tags); err != nil {
		return 0, err
	}

	return id, nil
}

// attachTagsTx links the tag names to the link, preserving their order via
// the position column.
func attachTagsTx(tx *sql.Tx, linkID int64, tags []string) error {
	for pos, name := range tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tagID, err := getOrCreateTagTx(tx, name)
		if err != nil {
			return fmt.Errorf("tag %q: %w", name, err)
		}

		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO link_tags (link_id, tag_id, position) VALUES (?, ?, ?)",
			linkID, tagID, pos,
		); err != nil {
			return fmt.Errorf("attach tag %q: %w", name, err)
		}
	}
	return nil
}

// getOrCreateTagTx resolves a tag name to its id inside a transaction.
func getOrCreateTagTx(tx *sql.Tx, name string) (int, error) {
	var tagID int
	err := tx.QueryRow("SELECT id FROM tags WHERE name = ?", name).Scan(&tagID)
	if err == nil {
		return tagID, nil
	}

	result, err := tx.Exec("INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("create tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tag id: %w", err)
	}

	return int(id), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*models.Link, error) {
	var link models.Link

	err := row.Scan(
		&link.ID, &link.OwnerID, &link.URL, &link.Title, &link.Description,
		&link.Category, &link.FaviconURL,
		&link.DateAdded, &link.DateModified,
	)
	if err != nil {
		return nil, err
	}

	link.Tags = []string{}
	return &link, nil
}
