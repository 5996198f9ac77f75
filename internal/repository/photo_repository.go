package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/familyalbum/server/internal/gallery"
	"github.com/familyalbum/server/internal/models"
)

const photoColumns = "id, storage_path, thumb_path, original_name, content_type, file_size, caption, alt, taken_at, updated_at, visibility, is_featured, featured_rank"

// PhotoStore handles photo persistence for both SQLite and PostgreSQL
type PhotoStore struct {
	db        DB
	dialect   Dialect
	mediaBase string
}

// NewPhotoStore creates a new PhotoStore. mediaBase is the URL prefix under
// which stored blobs are served.
func NewPhotoStore(db DB, dialect Dialect, mediaBase string) *PhotoStore {
	return &PhotoStore{db: db, dialect: dialect, mediaBase: strings.TrimSuffix(mediaBase, "/")}
}

// ListPage fetches one feed page ordered taken_at DESC, id DESC. It reads
// limit+1 rows to detect whether a next page exists.
//
// The cursor bound is the keyset predicate for that order: strictly older, or
// same instant with a smaller id (gallery.Cursor.Before in SQL form). Records
// persist taken_at at the millisecond precision the cursor token encodes, so
// the boundary comparison is exact and same-instant photos page without skips
// or repeats.
func (s *PhotoStore) ListPage(ctx context.Context, opts ListPageOptions) (*Page, error) {
	limit := ClampLimit(opts.Limit)

	where, args := s.filterClauses(opts.Visibility, opts.Range)
	if opts.Cursor != nil {
		where = append(where, "(taken_at < ? OR (taken_at = ? AND id < ?))")
		args = append(args, opts.Cursor.TakenAt, opts.Cursor.TakenAt, opts.Cursor.ID)
	}

	query := "SELECT " + photoColumns + " FROM photos" + whereSQL(where) +
		" ORDER BY taken_at DESC, id DESC LIMIT ?"
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, models.UpstreamError("failed to query photo page", err)
	}
	defer rows.Close()

	photos, err := scanPhotos(rows)
	if err != nil {
		return nil, models.UpstreamError("failed to scan photo page", err)
	}

	page := &Page{}
	if len(photos) > limit {
		photos = photos[:limit]
		last := photos[len(photos)-1]
		cursor := gallery.EncodeCursor(last.TakenAt, last.ID)
		page.NextCursor = &cursor
	}

	if err := s.attachEvents(ctx, photos); err != nil {
		return nil, err
	}
	for _, p := range photos {
		s.resolveURLs(p)
	}

	page.Items = photos
	return page, nil
}

// ListSummary aggregates all matching records into per-month statistics.
// Only the two timestamps are fetched; bucketing happens in-process.
func (s *PhotoStore) ListSummary(ctx context.Context, rng gallery.DateRange, visibility models.Visibility) (*GallerySummary, error) {
	where, args := s.filterClauses(visibility, rng)
	query := "SELECT taken_at, updated_at FROM photos" + whereSQL(where)

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, models.UpstreamError("failed to query photo summary", err)
	}
	defer rows.Close()

	var stamps []gallery.Stamped
	for rows.Next() {
		var stamp gallery.Stamped
		if err := rows.Scan(&stamp.TakenAt, &stamp.UpdatedAt); err != nil {
			return nil, models.UpstreamError("failed to scan photo summary", err)
		}
		stamps = append(stamps, stamp)
	}
	if err := rows.Err(); err != nil {
		return nil, models.UpstreamError("failed to read photo summary", err)
	}

	months := gallery.AggregateMonths(stamps, time.Now().UTC())
	if months == nil {
		months = []gallery.YearMonthStat{}
	}

	return &GallerySummary{TotalCount: len(stamps), Months: months}, nil
}

// ListHighlights returns the curated landing set. Featured photos come first,
// ordered by rank; when fewer than featuredLimit are flagged the set is
// backfilled with the most recent photos. Highlights are the most recent
// photos excluding whatever ended up featured.
func (s *PhotoStore) ListHighlights(ctx context.Context, featuredLimit, highlightLimit int, visibility models.Visibility) (*Highlights, error) {
	if featuredLimit < 0 || featuredLimit > 2 {
		featuredLimit = 2
	}
	if highlightLimit < 1 || highlightLimit > 12 {
		highlightLimit = 12
	}

	where, args := s.filterClauses(visibility, gallery.DateRange{})

	flaggedWhere := append(append([]string{}, where...), "is_featured = TRUE")
	flaggedQuery := "SELECT " + photoColumns + " FROM photos" + whereSQL(flaggedWhere) +
		" ORDER BY CASE WHEN featured_rank IS NULL THEN 1 ELSE 0 END, featured_rank ASC, taken_at DESC, id DESC LIMIT ?"
	flaggedArgs := append(append([]interface{}{}, args...), featuredLimit)

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(flaggedQuery), flaggedArgs...)
	if err != nil {
		return nil, models.UpstreamError("failed to query featured photos", err)
	}
	featured, err := scanPhotos(rows)
	rows.Close()
	if err != nil {
		return nil, models.UpstreamError("failed to scan featured photos", err)
	}

	// Enough recent rows to backfill featured and fill highlights even when
	// every flagged photo also appears among the most recent.
	recentQuery := "SELECT " + photoColumns + " FROM photos" + whereSQL(where) +
		" ORDER BY taken_at DESC, id DESC LIMIT ?"
	recentArgs := append(append([]interface{}{}, args...), highlightLimit+2*featuredLimit)

	rows, err = s.db.QueryContext(ctx, s.dialect.rebind(recentQuery), recentArgs...)
	if err != nil {
		return nil, models.UpstreamError("failed to query recent photos", err)
	}
	recent, err := scanPhotos(rows)
	rows.Close()
	if err != nil {
		return nil, models.UpstreamError("failed to scan recent photos", err)
	}

	inFeatured := make(map[string]bool, featuredLimit)
	for _, p := range featured {
		inFeatured[p.ID] = true
	}
	for _, p := range recent {
		if len(featured) >= featuredLimit {
			break
		}
		if inFeatured[p.ID] {
			continue
		}
		featured = append(featured, p)
		inFeatured[p.ID] = true
	}

	highlights := make([]*models.Photo, 0, highlightLimit)
	for _, p := range recent {
		if inFeatured[p.ID] {
			continue
		}
		highlights = append(highlights, p)
		if len(highlights) >= highlightLimit {
			break
		}
	}

	all := append(append([]*models.Photo{}, featured...), highlights...)
	if err := s.attachEvents(ctx, all); err != nil {
		return nil, err
	}
	for _, p := range all {
		s.resolveURLs(p)
	}

	if featured == nil {
		featured = []*models.Photo{}
	}
	return &Highlights{Featured: featured, Highlights: highlights}, nil
}

// GetByID retrieves a photo by its ID, nil when absent
func (s *PhotoStore) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := "SELECT " + photoColumns + " FROM photos WHERE id = ?"

	photo, err := scanPhoto(s.db.QueryRowContext(ctx, s.dialect.rebind(query), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, models.UpstreamError("failed to query photo", err)
	}

	if err := s.attachEvents(ctx, []*models.Photo{photo}); err != nil {
		return nil, err
	}
	s.resolveURLs(photo)
	return photo, nil
}

// Add inserts a photo record and its event associations in one transaction
func (s *PhotoStore) Add(ctx context.Context, photo *models.Photo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.UpstreamError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO photos (` + photoColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, s.dialect.rebind(query),
		photo.ID,
		photo.StoragePath,
		photo.ThumbPath,
		photo.OriginalName,
		photo.ContentType,
		photo.FileSize,
		photo.Caption,
		photo.Alt,
		photo.TakenAt,
		photo.UpdatedAt,
		string(photo.Visibility),
		photo.IsFeatured,
		photo.FeaturedRank,
	)
	if err != nil {
		return models.UpstreamError("failed to insert photo", err)
	}

	if err := s.replaceEvents(ctx, tx, photo.ID, photo.EventNames); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return models.UpstreamError("failed to commit photo insert", err)
	}

	s.resolveURLs(photo)
	return nil
}

// UpdateMetadata applies a partial update and returns the updated record.
// Clearing isFeatured forces featured_rank to NULL, a rank sent for a record
// that stays non-featured is dropped, and event-name replacement is
// replace-all, not additive.
func (s *PhotoStore) UpdateMetadata(ctx context.Context, id string, update models.PhotoUpdate) (*models.Photo, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, models.ErrPhotoNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, models.UpstreamError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var sets []string
	var args []interface{}

	if update.Caption != nil {
		caption := strings.TrimSpace(*update.Caption)
		sets = append(sets, "caption = ?", "alt = ?")
		args = append(args, caption, caption+" 사진")
	}
	if update.TakenAt != nil {
		sets = append(sets, "taken_at = ?")
		args = append(args, update.TakenAt.UTC().Truncate(time.Millisecond))
	}
	if update.IsFeatured != nil {
		sets = append(sets, "is_featured = ?")
		args = append(args, *update.IsFeatured)
	}

	// a rank is only meaningful on a featured record: clearing the flag wipes
	// it, and a rank sent for a record that is not (and does not become)
	// featured is ignored
	featuredOff := update.IsFeatured != nil && !*update.IsFeatured
	featuredAfter := existing.IsFeatured
	if update.IsFeatured != nil {
		featuredAfter = *update.IsFeatured
	}
	switch {
	case featuredOff:
		sets = append(sets, "featured_rank = NULL")
	case update.SetFeaturedRank && featuredAfter:
		sets = append(sets, "featured_rank = ?")
		args = append(args, update.FeaturedRank)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := "UPDATE photos SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := tx.ExecContext(ctx, s.dialect.rebind(query), args...); err != nil {
		return nil, models.UpstreamError("failed to update photo", err)
	}

	if update.SetEventNames {
		names, err := models.NormalizeEventNames(update.EventNames)
		if err != nil {
			return nil, err
		}
		if err := s.replaceEvents(ctx, tx, id, names); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, models.UpstreamError("failed to commit photo update", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a photo and returns its blob paths for the caller to
// garbage-collect.
func (s *PhotoStore) Delete(ctx context.Context, id string) (*DeletedPhoto, error) {
	query := "SELECT storage_path, thumb_path FROM photos WHERE id = ?"

	var deleted DeletedPhoto
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(query), id).Scan(&deleted.StoragePath, &deleted.ThumbPath)
	if err == sql.ErrNoRows {
		return nil, models.ErrPhotoNotFound
	}
	if err != nil {
		return nil, models.UpstreamError("failed to query photo for deletion", err)
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.rebind("DELETE FROM photos WHERE id = ?"), id); err != nil {
		return nil, models.UpstreamError("failed to delete photo", err)
	}

	return &deleted, nil
}

// filterClauses builds the shared visibility and date-range WHERE parts.
// The admin tier sees every record; family sees only family photos.
func (s *PhotoStore) filterClauses(visibility models.Visibility, rng gallery.DateRange) ([]string, []interface{}) {
	var where []string
	var args []interface{}

	if visibility != models.VisibilityAdmin {
		where = append(where, "visibility = ?")
		args = append(args, string(models.VisibilityFamily))
	}
	if rng.From != nil {
		where = append(where, "taken_at >= ?")
		args = append(args, *rng.From)
	}
	if rng.To != nil {
		where = append(where, "taken_at < ?")
		args = append(args, *rng.To)
	}

	return where, args
}

func whereSQL(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPhoto(row rowScanner) (*models.Photo, error) {
	var photo models.Photo
	var visibility string
	err := row.Scan(
		&photo.ID,
		&photo.StoragePath,
		&photo.ThumbPath,
		&photo.OriginalName,
		&photo.ContentType,
		&photo.FileSize,
		&photo.Caption,
		&photo.Alt,
		&photo.TakenAt,
		&photo.UpdatedAt,
		&visibility,
		&photo.IsFeatured,
		&photo.FeaturedRank,
	)
	if err != nil {
		return nil, err
	}
	photo.TakenAt = photo.TakenAt.UTC()
	photo.UpdatedAt = photo.UpdatedAt.UTC()
	photo.Visibility = models.Visibility(visibility)
	return &photo, nil
}

func scanPhotos(rows *sql.Rows) ([]*models.Photo, error) {
	photos := []*models.Photo{}
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (s *PhotoStore) resolveURLs(photo *models.Photo) {
	photo.Src = s.mediaBase + "/" + photo.StoragePath
	if photo.ThumbPath != nil && *photo.ThumbPath != "" {
		thumb := s.mediaBase + "/" + *photo.ThumbPath
		photo.ThumbSrc = &thumb
	}
	if photo.EventNames == nil {
		photo.EventNames = []string{}
	}
}

// attachEvents loads event labels for a batch of photos in one query
func (s *PhotoStore) attachEvents(ctx context.Context, photos []*models.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	placeholders := make([]string, len(photos))
	args := make([]interface{}, len(photos))
	byID := make(map[string]*models.Photo, len(photos))
	for i, p := range photos {
		placeholders[i] = "?"
		args[i] = p.ID
		p.EventNames = []string{}
		byID[p.ID] = p
	}

	query := `SELECT pe.photo_id, e.name FROM photo_events pe
		JOIN events e ON e.id = pe.event_id
		WHERE pe.photo_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY e.name`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return models.UpstreamError("failed to query photo events", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photoID, name string
		if err := rows.Scan(&photoID, &name); err != nil {
			return models.UpstreamError("failed to scan photo events", err)
		}
		if p, ok := byID[photoID]; ok {
			p.EventNames = append(p.EventNames, name)
		}
	}
	if err := rows.Err(); err != nil {
		return models.UpstreamError("failed to read photo events", err)
	}
	return nil
}

// replaceEvents swaps a photo's event associations for the given set.
// Labels are matched case-insensitively; the first stored spelling wins.
func (s *PhotoStore) replaceEvents(ctx context.Context, tx *sql.Tx, photoID string, names []string) error {
	if _, err := tx.ExecContext(ctx, s.dialect.rebind("DELETE FROM photo_events WHERE photo_id = ?"), photoID); err != nil {
		return models.UpstreamError("failed to clear photo events", err)
	}

	for _, name := range names {
		key := strings.ToLower(strings.Join(strings.Fields(name), " "))

		var eventID string
		err := tx.QueryRowContext(ctx, s.dialect.rebind("SELECT id FROM events WHERE name_key = ?"), key).Scan(&eventID)
		if err == sql.ErrNoRows {
			eventID = uuid.New().String()
			insert := "INSERT INTO events (id, name, name_key) VALUES (?, ?, ?)"
			if _, err := tx.ExecContext(ctx, s.dialect.rebind(insert), eventID, name, key); err != nil {
				return models.UpstreamError("failed to insert event", err)
			}
		} else if err != nil {
			return models.UpstreamError("failed to query event", err)
		}

		join := "INSERT INTO photo_events (photo_id, event_id) VALUES (?, ?)"
		if _, err := tx.ExecContext(ctx, s.dialect.rebind(join), photoID, eventID); err != nil {
			return models.UpstreamError("failed to associate event", err)
		}
	}

	return nil
}
