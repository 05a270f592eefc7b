package db

import (
	"database/sql"

	"github.com/CodeDreamer06/LinkVault/models"
)

// TagRepository manages the normalized tag table. The tag names an owner
// actually sees come from the derived view over their links; this repository
// only keeps the shared table from accumulating dead rows.
type TagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a tag repository on the shared handle.
func NewTagRepository() *TagRepository {
	return &TagRepository{db: DB}
}

// Count reports how many distinct tag names exist across all owners.
func (r *TagRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM tags").Scan(&count)
	if err != nil {
		return 0, models.NewStoreError("count tags", err)
	}
	return count, nil
}

// PruneOrphans deletes tags no link references anymore and returns how many
// were removed. Called after deletes and tag-replacing updates.
func (r *TagRepository) PruneOrphans() (int, error) {
	result, err := r.db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT DISTINCT tag_id FROM link_tags)
	`)
	if err != nil {
		return 0, models.NewStoreError("prune tags", err)
	}

	affected, _ := result.RowsAffected()
	return int(affected), nil
}
