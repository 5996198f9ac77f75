package repository

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB creates and initializes a SQLite database
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
	-- Photos table
	CREATE TABLE IF NOT EXISTS photos (
		id TEXT PRIMARY KEY,
		storage_path TEXT NOT NULL,
		thumb_path TEXT,
		original_name TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT '',
		file_size INTEGER NOT NULL DEFAULT 0,
		caption TEXT NOT NULL,
		alt TEXT NOT NULL,
		taken_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		visibility TEXT NOT NULL DEFAULT 'family',
		is_featured INTEGER NOT NULL DEFAULT 0,
		featured_rank INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_photos_taken_at ON photos(taken_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_photos_visibility ON photos(visibility);
	CREATE INDEX IF NOT EXISTS idx_photos_featured ON photos(is_featured, featured_rank);

	-- Event labels
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE
	);

	-- Photo/event join table
	CREATE TABLE IF NOT EXISTS photo_events (
		photo_id TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		PRIMARY KEY (photo_id, event_id)
	);

	CREATE INDEX IF NOT EXISTS idx_photo_events_event ON photo_events(event_id);

	-- Per-photo comments
	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		photo_id TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		nickname TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comments_photo ON comments(photo_id, created_at);

	-- Guestbook
	CREATE TABLE IF NOT EXISTS guestbook_entries (
		id TEXT PRIMARY KEY,
		nickname TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_guestbook_created ON guestbook_entries(created_at);

	-- Web Push subscriptions
	CREATE TABLE IF NOT EXISTS push_subscriptions (
		id TEXT PRIMARY KEY,
		endpoint TEXT NOT NULL UNIQUE,
		p256dh TEXT NOT NULL,
		auth TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	-- Single-row app settings (PWA branding)
	CREATE TABLE IF NOT EXISTS app_settings (
		id INTEGER PRIMARY KEY DEFAULT 1,
		logo_path TEXT NOT NULL,
		icon_192_path TEXT NOT NULL,
		icon_512_path TEXT NOT NULL,
		maskable_192_path TEXT NOT NULL,
		maskable_512_path TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		CHECK (id = 1)
	);
	`

	_, err := db.Exec(schema)
	return err
}
