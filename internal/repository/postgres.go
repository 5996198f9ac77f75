package repository

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// NewPostgresDB creates and initializes a PostgreSQL database connection
func NewPostgresDB(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createPostgresTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS photos (
		id TEXT PRIMARY KEY,
		storage_path TEXT NOT NULL,
		thumb_path TEXT,
		original_name TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT '',
		file_size BIGINT NOT NULL DEFAULT 0,
		caption TEXT NOT NULL,
		alt TEXT NOT NULL,
		taken_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		visibility TEXT NOT NULL DEFAULT 'family',
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		featured_rank INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_photos_taken_at ON photos(taken_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_photos_visibility ON photos(visibility);
	CREATE INDEX IF NOT EXISTS idx_photos_featured ON photos(is_featured, featured_rank);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS photo_events (
		photo_id TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		PRIMARY KEY (photo_id, event_id)
	);

	CREATE INDEX IF NOT EXISTS idx_photo_events_event ON photo_events(event_id);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		photo_id TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		nickname TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comments_photo ON comments(photo_id, created_at);

	CREATE TABLE IF NOT EXISTS guestbook_entries (
		id TEXT PRIMARY KEY,
		nickname TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_guestbook_created ON guestbook_entries(created_at);

	CREATE TABLE IF NOT EXISTS push_subscriptions (
		id TEXT PRIMARY KEY,
		endpoint TEXT NOT NULL UNIQUE,
		p256dh TEXT NOT NULL,
		auth TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS app_settings (
		id INTEGER PRIMARY KEY DEFAULT 1,
		logo_path TEXT NOT NULL,
		icon_192_path TEXT NOT NULL,
		icon_512_path TEXT NOT NULL,
		maskable_192_path TEXT NOT NULL,
		maskable_512_path TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CHECK (id = 1)
	);
	`

	_, err := db.Exec(schema)
	return err
}
