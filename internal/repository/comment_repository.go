package repository

import (
	"context"

	"github.com/familyalbum/server/internal/models"
)

// CommentRepository persists per-photo comments in SQL
type CommentRepository struct {
	db      DB
	dialect Dialect
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db DB, dialect Dialect) *CommentRepository {
	return &CommentRepository{db: db, dialect: dialect}
}

// ListForPhoto returns a photo's comments oldest-first
func (r *CommentRepository) ListForPhoto(ctx context.Context, photoID string) ([]*models.Comment, error) {
	query := `SELECT id, photo_id, nickname, message, created_at
		FROM comments WHERE photo_id = ? ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), photoID)
	if err != nil {
		return nil, models.UpstreamError("failed to query comments", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PhotoID, &c.Nickname, &c.Message, &c.CreatedAt); err != nil {
			return nil, models.UpstreamError("failed to scan comment", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, models.UpstreamError("failed to read comments", err)
	}
	return comments, nil
}

// Add inserts a comment
func (r *CommentRepository) Add(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (id, photo_id, nickname, message, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.dialect.rebind(query),
		comment.ID, comment.PhotoID, comment.Nickname, comment.Message, comment.CreatedAt)
	if err != nil {
		return models.UpstreamError("failed to insert comment", err)
	}
	return nil
}

// GuestbookRepository persists guestbook entries in SQL
type GuestbookRepository struct {
	db      DB
	dialect Dialect
}

// NewGuestbookRepository creates a new GuestbookRepository
func NewGuestbookRepository(db DB, dialect Dialect) *GuestbookRepository {
	return &GuestbookRepository{db: db, dialect: dialect}
}

// List returns the newest entries first
func (r *GuestbookRepository) List(ctx context.Context, limit int) ([]*models.GuestbookEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	query := `SELECT id, nickname, message, created_at
		FROM guestbook_entries ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), limit)
	if err != nil {
		return nil, models.UpstreamError("failed to query guestbook", err)
	}
	defer rows.Close()

	entries := []*models.GuestbookEntry{}
	for rows.Next() {
		var e models.GuestbookEntry
		if err := rows.Scan(&e.ID, &e.Nickname, &e.Message, &e.CreatedAt); err != nil {
			return nil, models.UpstreamError("failed to scan guestbook entry", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, models.UpstreamError("failed to read guestbook", err)
	}
	return entries, nil
}

// Add inserts a guestbook entry
func (r *GuestbookRepository) Add(ctx context.Context, entry *models.GuestbookEntry) error {
	query := `INSERT INTO guestbook_entries (id, nickname, message, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.dialect.rebind(query),
		entry.ID, entry.Nickname, entry.Message, entry.CreatedAt)
	if err != nil {
		return models.UpstreamError("failed to insert guestbook entry", err)
	}
	return nil
}
