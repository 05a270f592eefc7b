package db

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB is the shared database handle.
var DB *sql.DB

// Init opens the database and creates the schema.
func Init(dbPath string) error {
	var err error
	// DSN pragmas so every pooled connection gets WAL mode and a busy timeout
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	DB, err = sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	// Cap connections to avoid SQLite lock contention under load
	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(time.Hour)

	schema := `
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT DEFAULT '',
		description TEXT DEFAULT '',
		category TEXT DEFAULT '',
		favicon_url TEXT DEFAULT '',
		date_added DATETIME DEFAULT CURRENT_TIMESTAMP,
		date_modified DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		date_added DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS link_tags (
		link_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (link_id) REFERENCES links(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (link_id, tag_id)
	);

	CREATE INDEX IF NOT EXISTS idx_links_owner ON links(owner_id);
	CREATE INDEX IF NOT EXISTS idx_links_owner_date ON links(owner_id, date_added DESC);
	CREATE INDEX IF NOT EXISTS idx_links_category ON links(category);
	CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name);
	CREATE INDEX IF NOT EXISTS idx_link_tags_link ON link_tags(link_id);
	CREATE INDEX IF NOT EXISTS idx_link_tags_tag ON link_tags(tag_id);
	`

	_, err = DB.Exec(schema)
	if err != nil {
		return err
	}

	log.Printf("✅ database ready (WAL mode): %s", dbPath)
	return nil
}

// Close closes the database handle.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
