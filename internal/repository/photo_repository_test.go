package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familyalbum/server/internal/gallery"
	"github.com/familyalbum/server/internal/models"
)

func newTestStore(t *testing.T) *PhotoStore {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	// the pool must stay on one connection or each conn gets its own :memory: db
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return NewPhotoStore(db, DialectSQLite, "/media")
}

func addPhoto(t *testing.T, store *PhotoStore, id string, takenAt time.Time, mutate ...func(*models.Photo)) *models.Photo {
	t.Helper()

	photo := &models.Photo{
		ID:          id,
		StoragePath: "2026/02/" + id + ".jpg",
		Caption:     id,
		Alt:         id + " 사진",
		TakenAt:     takenAt,
		UpdatedAt:   takenAt,
		Visibility:  models.VisibilityFamily,
		FileSize:    1024,
	}
	for _, fn := range mutate {
		fn(photo)
	}
	require.NoError(t, store.Add(context.Background(), photo))
	return photo
}

func TestPhotoStore_ListPage(t *testing.T) {
	ctx := context.Background()

	t.Run("pages through the feed with a stable cursor", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "p1", time.Date(2026, 2, 16, 8, 0, 0, 0, time.UTC))
		addPhoto(t, store, "p2", time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC))
		addPhoto(t, store, "p3", time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC))

		page, err := store.ListPage(ctx, ListPageOptions{Limit: 2})
		require.NoError(t, err)

		require.Len(t, page.Items, 2)
		assert.Equal(t, "p1", page.Items[0].ID)
		assert.Equal(t, "p2", page.Items[1].ID)
		require.NotNil(t, page.NextCursor)
		assert.Equal(t, "2026-02-15T08:00:00.000Z|p2", *page.NextCursor)

		cursor, ok := gallery.DecodeCursor(*page.NextCursor)
		require.True(t, ok)

		next, err := store.ListPage(ctx, ListPageOptions{Cursor: &cursor, Limit: 2})
		require.NoError(t, err)

		require.Len(t, next.Items, 1)
		assert.Equal(t, "p3", next.Items[0].ID)
		assert.Nil(t, next.NextCursor)
	})

	t.Run("walking every page yields each photo exactly once", func(t *testing.T) {
		store := newTestStore(t)
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		const total = 10
		for i := 0; i < total; i++ {
			addPhoto(t, store, string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour))
		}

		seen := make(map[string]int)
		var cursor *gallery.Cursor
		var prev *models.Photo
		for {
			page, err := store.ListPage(ctx, ListPageOptions{Cursor: cursor, Limit: 3})
			require.NoError(t, err)
			for _, p := range page.Items {
				seen[p.ID]++
				if prev != nil {
					assert.True(t, p.TakenAt.Before(prev.TakenAt) || p.TakenAt.Equal(prev.TakenAt))
				}
				prev = p
			}
			if page.NextCursor == nil {
				break
			}
			c, ok := gallery.DecodeCursor(*page.NextCursor)
			require.True(t, ok)
			cursor = &c
		}

		assert.Len(t, seen, total)
		for id, count := range seen {
			assert.Equal(t, 1, count, "photo %s", id)
		}
	})

	t.Run("same-instant photos page without skips or repeats", func(t *testing.T) {
		store := newTestStore(t)
		instant := time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC)
		addPhoto(t, store, "t1", instant)
		addPhoto(t, store, "t2", instant)
		addPhoto(t, store, "t3", instant.Add(-time.Hour))

		var got []string
		var cursor *gallery.Cursor
		for {
			page, err := store.ListPage(ctx, ListPageOptions{Cursor: cursor, Limit: 1})
			require.NoError(t, err)
			for _, p := range page.Items {
				got = append(got, p.ID)
			}
			if page.NextCursor == nil {
				break
			}
			c, ok := gallery.DecodeCursor(*page.NextCursor)
			require.True(t, ok)
			cursor = &c
		}

		assert.Equal(t, []string{"t2", "t1", "t3"}, got)
	})

	t.Run("clamps the limit", func(t *testing.T) {
		store := newTestStore(t)
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		addPhoto(t, store, "q1", base)
		addPhoto(t, store, "q2", base.Add(time.Hour))

		page, err := store.ListPage(ctx, ListPageOptions{Limit: 0})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)

		page, err = store.ListPage(ctx, ListPageOptions{Limit: 1000})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("family visibility hides admin-only photos", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "fam", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
		addPhoto(t, store, "adm", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), func(p *models.Photo) {
			p.Visibility = models.VisibilityAdmin
		})

		page, err := store.ListPage(ctx, ListPageOptions{Limit: 10, Visibility: models.VisibilityFamily})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "fam", page.Items[0].ID)

		page, err = store.ListPage(ctx, ListPageOptions{Limit: 10, Visibility: models.VisibilityAdmin})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("applies the date range filter", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "jan", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
		addPhoto(t, store, "feb", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))

		page, err := store.ListPage(ctx, ListPageOptions{
			Limit: 10,
			Range: gallery.BuildDateRange(2026, 2, 0),
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "feb", page.Items[0].ID)
	})

	t.Run("resolves media urls", func(t *testing.T) {
		store := newTestStore(t)
		thumb := "2026/02/.thumbs/r1.jpg"
		addPhoto(t, store, "r1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), func(p *models.Photo) {
			p.ThumbPath = &thumb
		})

		page, err := store.ListPage(ctx, ListPageOptions{Limit: 1})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "/media/2026/02/r1.jpg", page.Items[0].Src)
		require.NotNil(t, page.Items[0].ThumbSrc)
		assert.Equal(t, "/media/2026/02/.thumbs/r1.jpg", *page.Items[0].ThumbSrc)
	})
}

func TestPhotoStore_ListSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("month counts sum to the total", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "s1", time.Date(2026, 2, 16, 8, 0, 0, 0, time.UTC))
		addPhoto(t, store, "s2", time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC))
		addPhoto(t, store, "s3", time.Date(2026, 1, 3, 8, 0, 0, 0, time.UTC))

		summary, err := store.ListSummary(ctx, gallery.DateRange{}, models.VisibilityFamily)
		require.NoError(t, err)

		assert.Equal(t, 3, summary.TotalCount)
		total := 0
		for _, m := range summary.Months {
			total += m.Count
		}
		assert.Equal(t, summary.TotalCount, total)
	})

	t.Run("empty store yields an empty summary", func(t *testing.T) {
		store := newTestStore(t)

		summary, err := store.ListSummary(ctx, gallery.DateRange{}, models.VisibilityFamily)
		require.NoError(t, err)

		assert.Zero(t, summary.TotalCount)
		assert.Empty(t, summary.Months)
	})
}

func TestPhotoStore_ListHighlights(t *testing.T) {
	ctx := context.Background()

	t.Run("backfills featured with recent photos when none are flagged", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "h1", time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC))
		addPhoto(t, store, "h2", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
		addPhoto(t, store, "h3", time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))

		hl, err := store.ListHighlights(ctx, 2, 12, models.VisibilityFamily)
		require.NoError(t, err)

		require.Len(t, hl.Featured, 2)
		assert.Equal(t, "h1", hl.Featured[0].ID)
		assert.Equal(t, "h2", hl.Featured[1].ID)
		require.Len(t, hl.Highlights, 1)
		assert.Equal(t, "h3", hl.Highlights[0].ID)
	})

	t.Run("orders flagged photos by rank before recency", func(t *testing.T) {
		store := newTestStore(t)
		rank1, rank2 := 1, 2
		addPhoto(t, store, "old", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), func(p *models.Photo) {
			p.IsFeatured = true
			p.FeaturedRank = &rank1
		})
		addPhoto(t, store, "new", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), func(p *models.Photo) {
			p.IsFeatured = true
			p.FeaturedRank = &rank2
		})
		addPhoto(t, store, "recent", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

		hl, err := store.ListHighlights(ctx, 2, 12, models.VisibilityFamily)
		require.NoError(t, err)

		require.Len(t, hl.Featured, 2)
		assert.Equal(t, "old", hl.Featured[0].ID)
		assert.Equal(t, "new", hl.Featured[1].ID)
		require.Len(t, hl.Highlights, 1)
		assert.Equal(t, "recent", hl.Highlights[0].ID)
	})
}

func TestPhotoStore_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and reloads event names", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "e1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), func(p *models.Photo) {
			p.EventNames = []string{"설날", "가족모임"}
		})

		photo, err := store.GetByID(ctx, "e1")
		require.NoError(t, err)
		require.NotNil(t, photo)
		assert.ElementsMatch(t, []string{"설날", "가족모임"}, photo.EventNames)
	})

	t.Run("update replaces event names rather than merging", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "e2", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), func(p *models.Photo) {
			p.EventNames = []string{"설날"}
		})

		updated, err := store.UpdateMetadata(ctx, "e2", models.PhotoUpdate{
			EventNames:    []string{"생일"},
			SetEventNames: true,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"생일"}, updated.EventNames)
	})

	t.Run("rejects an empty update", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "e3", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

		_, err := store.UpdateMetadata(ctx, "e3", models.PhotoUpdate{})
		assert.ErrorIs(t, err, models.ErrEmptyUpdate)
	})

	t.Run("clearing featured also clears the rank", func(t *testing.T) {
		store := newTestStore(t)
		rank := 1
		addPhoto(t, store, "e4", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), func(p *models.Photo) {
			p.IsFeatured = true
			p.FeaturedRank = &rank
		})

		off := false
		updated, err := store.UpdateMetadata(ctx, "e4", models.PhotoUpdate{IsFeatured: &off})
		require.NoError(t, err)

		assert.False(t, updated.IsFeatured)
		assert.Nil(t, updated.FeaturedRank)
	})

	t.Run("drops a rank sent for a non-featured photo", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "e7", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

		rank := 1
		updated, err := store.UpdateMetadata(ctx, "e7", models.PhotoUpdate{
			FeaturedRank:    &rank,
			SetFeaturedRank: true,
		})
		require.NoError(t, err)

		assert.False(t, updated.IsFeatured)
		assert.Nil(t, updated.FeaturedRank)
	})

	t.Run("applies a rank when the same update turns featured on", func(t *testing.T) {
		store := newTestStore(t)
		addPhoto(t, store, "e8", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

		on := true
		rank := 2
		updated, err := store.UpdateMetadata(ctx, "e8", models.PhotoUpdate{
			IsFeatured:      &on,
			FeaturedRank:    &rank,
			SetFeaturedRank: true,
		})
		require.NoError(t, err)

		assert.True(t, updated.IsFeatured)
		require.NotNil(t, updated.FeaturedRank)
		assert.Equal(t, 2, *updated.FeaturedRank)
	})

	t.Run("caption update refreshes the alt text and updated_at", func(t *testing.T) {
		store := newTestStore(t)
		taken := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		addPhoto(t, store, "e5", taken)

		caption := "바닷가 나들이"
		updated, err := store.UpdateMetadata(ctx, "e5", models.PhotoUpdate{Caption: &caption})
		require.NoError(t, err)

		assert.Equal(t, caption, updated.Caption)
		assert.Equal(t, caption+" 사진", updated.Alt)
		assert.True(t, updated.UpdatedAt.After(taken))
	})

	t.Run("delete returns blob paths and 404s on a second attempt", func(t *testing.T) {
		store := newTestStore(t)
		thumb := "2026/02/.thumbs/e6.jpg"
		addPhoto(t, store, "e6", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), func(p *models.Photo) {
			p.ThumbPath = &thumb
		})

		deleted, err := store.Delete(ctx, "e6")
		require.NoError(t, err)
		assert.Equal(t, "2026/02/e6.jpg", deleted.StoragePath)
		require.NotNil(t, deleted.ThumbPath)

		_, err = store.Delete(ctx, "e6")
		assert.ErrorIs(t, err, models.ErrPhotoNotFound)
	})
}
