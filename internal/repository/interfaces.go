package repository

import (
	"context"

	"github.com/familyalbum/server/internal/gallery"
	"github.com/familyalbum/server/internal/models"
)

// Page limits for the gallery feed
const (
	MinPageLimit          = 1
	MaxPageLimit          = 96
	DefaultPageLimit      = 36
	DefaultMonthPageLimit = 24
)

// ClampLimit forces a requested page size into [MinPageLimit, MaxPageLimit].
// Defaults are a handler concern; a zero limit clamps to the minimum.
func ClampLimit(limit int) int {
	if limit < MinPageLimit {
		return MinPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// ListPageOptions selects one page of the feed
type ListPageOptions struct {
	Cursor     *gallery.Cursor
	Limit      int
	Range      gallery.DateRange
	Visibility models.Visibility
}

// Page is one slice of the feed. NextCursor is nil on the last page.
type Page struct {
	Items      []*models.Photo
	NextCursor *string
}

// Highlights is the curated landing set
type Highlights struct {
	Featured   []*models.Photo
	Highlights []*models.Photo
}

// GallerySummary pairs the total count with per-month statistics
type GallerySummary struct {
	TotalCount int                     `json:"totalCount"`
	Months     []gallery.YearMonthStat `json:"months"`
}

// DeletedPhoto carries the blob paths a caller must garbage-collect after a
// record is removed.
type DeletedPhoto struct {
	StoragePath string
	ThumbPath   *string
}

// PhotoRepo is the gallery repository contract
type PhotoRepo interface {
	ListPage(ctx context.Context, opts ListPageOptions) (*Page, error)
	ListSummary(ctx context.Context, rng gallery.DateRange, visibility models.Visibility) (*GallerySummary, error)
	ListHighlights(ctx context.Context, featuredLimit, highlightLimit int, visibility models.Visibility) (*Highlights, error)
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	Add(ctx context.Context, photo *models.Photo) error
	UpdateMetadata(ctx context.Context, id string, update models.PhotoUpdate) (*models.Photo, error)
	Delete(ctx context.Context, id string) (*DeletedPhoto, error)
}

// CommentStore persists per-photo comments
type CommentStore interface {
	ListForPhoto(ctx context.Context, photoID string) ([]*models.Comment, error)
	Add(ctx context.Context, comment *models.Comment) error
}

// GuestbookStore persists guestbook entries
type GuestbookStore interface {
	List(ctx context.Context, limit int) ([]*models.GuestbookEntry, error)
	Add(ctx context.Context, entry *models.GuestbookEntry) error
}

// SubscriptionRepo persists Web Push subscriptions
type SubscriptionRepo interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	Remove(ctx context.Context, endpoint string) error
	Deactivate(ctx context.Context, endpoint string) error
	ListActive(ctx context.Context) ([]*models.PushSubscription, error)
}

// BrandingRepo persists the single-row PWA branding settings
type BrandingRepo interface {
	Get(ctx context.Context) (*models.Branding, error)
	Save(ctx context.Context, branding *models.Branding) error
	Delete(ctx context.Context) (*models.Branding, error)
}
