package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoto(t *testing.T) {
	t.Run("creates photo with valid parameters", func(t *testing.T) {
		takenAt := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)

		photo, err := NewPhoto(NewPhotoParams{
			StoragePath:  "2026/02/birthday.jpg",
			OriginalName: "birthday.jpg",
			ContentType:  "image/jpeg",
			FileSize:     1024,
			Caption:      "생일 파티",
			TakenAt:      &takenAt,
			EventNames:   []string{"생일"},
		})

		require.NoError(t, err)
		assert.NotEmpty(t, photo.ID)
		assert.Equal(t, "2026/02/birthday.jpg", photo.StoragePath)
		assert.Equal(t, "생일 파티", photo.Caption)
		assert.Equal(t, "생일 파티 사진", photo.Alt)
		assert.Equal(t, takenAt, photo.TakenAt)
		assert.Equal(t, VisibilityFamily, photo.Visibility)
		assert.Equal(t, []string{"생일"}, photo.EventNames)
		assert.WithinDuration(t, time.Now().UTC(), photo.UpdatedAt, time.Second*5)
	})

	t.Run("derives caption from filename when blank", func(t *testing.T) {
		photo, err := NewPhoto(NewPhotoParams{
			StoragePath:  "2026/02/x.jpg",
			OriginalName: "family-trip_day2.jpg",
			FileSize:     1024,
		})

		require.NoError(t, err)
		assert.Equal(t, "family trip day2", photo.Caption)
		assert.Equal(t, "family trip day2 사진", photo.Alt)
	})

	t.Run("defaults takenAt to now", func(t *testing.T) {
		photo, err := NewPhoto(NewPhotoParams{
			StoragePath: "2026/02/x.jpg",
			FileSize:    1024,
			Caption:     "사진",
		})

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), photo.TakenAt, time.Second*5)
	})

	t.Run("truncates takenAt to cursor precision", func(t *testing.T) {
		takenAt := time.Date(2026, 2, 14, 8, 0, 0, 123456789, time.UTC)

		photo, err := NewPhoto(NewPhotoParams{
			StoragePath: "2026/02/x.jpg",
			FileSize:    1024,
			Caption:     "사진",
			TakenAt:     &takenAt,
		})

		require.NoError(t, err)
		assert.True(t, photo.TakenAt.Equal(time.Date(2026, 2, 14, 8, 0, 0, 123000000, time.UTC)))
	})

	t.Run("rejects empty storage path", func(t *testing.T) {
		_, err := NewPhoto(NewPhotoParams{FileSize: 1024})
		assert.ErrorIs(t, err, ErrEmptyStoragePath)
	})

	t.Run("rejects zero file size", func(t *testing.T) {
		_, err := NewPhoto(NewPhotoParams{StoragePath: "a.jpg"})
		assert.ErrorIs(t, err, ErrInvalidFileSize)
	})

	t.Run("rejects caption over the limit", func(t *testing.T) {
		_, err := NewPhoto(NewPhotoParams{
			StoragePath: "a.jpg",
			FileSize:    1024,
			Caption:     strings.Repeat("가", MaxCaptionLength+1),
		})
		assert.ErrorIs(t, err, ErrCaptionTooLong)
	})

	t.Run("keeps admin visibility", func(t *testing.T) {
		photo, err := NewPhoto(NewPhotoParams{
			StoragePath: "a.jpg",
			FileSize:    1024,
			Caption:     "사진",
			Visibility:  VisibilityAdmin,
		})

		require.NoError(t, err)
		assert.Equal(t, VisibilityAdmin, photo.Visibility)
	})
}

func TestDeriveCaption(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"strips extension and separators", "family-trip_photo.jpg", "family trip photo"},
		{"strips camera prefix", "IMG_20260214-beach.heic", "beach"},
		{"camera-only name falls back", "IMG_1234.jpg", "가족 사진"},
		{"strips uuid prefix", "550e8400-e29b-41d4-a716-446655440000_picnic.png", "picnic"},
		{"empty falls back", "", "가족 사진"},
		{"dotfiles fall back", ".jpg", "가족 사진"},
		{"path components ignored", "/uploads/2026/summer_day.jpg", "summer day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveCaption(tt.filename))
		})
	}
}

func TestNormalizeEventNames(t *testing.T) {
	t.Run("trims and drops blanks", func(t *testing.T) {
		names, err := NormalizeEventNames([]string{" 생일 ", "", "  "})
		require.NoError(t, err)
		assert.Equal(t, []string{"생일"}, names)
	})

	t.Run("dedups case-insensitively keeping first spelling", func(t *testing.T) {
		names, err := NormalizeEventNames([]string{"Birthday", "birthday", "BIRTHDAY"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Birthday"}, names)
	})

	t.Run("rejects more than five names", func(t *testing.T) {
		_, err := NormalizeEventNames([]string{"a", "b", "c", "d", "e", "f"})
		assert.ErrorIs(t, err, ErrTooManyEventNames)
	})

	t.Run("rejects overly long names", func(t *testing.T) {
		_, err := NormalizeEventNames([]string{strings.Repeat("가", MaxEventNameLength+1)})
		assert.ErrorIs(t, err, ErrEventNameTooLong)
	})
}

func TestPhotoUpdateValidate(t *testing.T) {
	t.Run("rejects empty update", func(t *testing.T) {
		assert.ErrorIs(t, PhotoUpdate{}.Validate(), ErrEmptyUpdate)
	})

	t.Run("rejects blank caption", func(t *testing.T) {
		caption := "   "
		assert.ErrorIs(t, PhotoUpdate{Caption: &caption}.Validate(), ErrBlankCaption)
	})

	t.Run("rejects caption over the limit", func(t *testing.T) {
		caption := strings.Repeat("a", MaxCaptionLength+1)
		assert.ErrorIs(t, PhotoUpdate{Caption: &caption}.Validate(), ErrCaptionTooLong)
	})

	t.Run("accepts featured toggle alone", func(t *testing.T) {
		featured := false
		assert.NoError(t, PhotoUpdate{IsFeatured: &featured}.Validate())
	})

	t.Run("validates replacement event names", func(t *testing.T) {
		update := PhotoUpdate{
			EventNames:    []string{"a", "b", "c", "d", "e", "f"},
			SetEventNames: true,
		}
		assert.ErrorIs(t, update.Validate(), ErrTooManyEventNames)
	})
}
