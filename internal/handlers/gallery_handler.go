package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/familyalbum/server/internal/gallery"
	"github.com/familyalbum/server/internal/models"
	"github.com/familyalbum/server/internal/repository"
)

// GalleryHandler serves the public photo feed
type GalleryHandler struct {
	repo repository.PhotoRepo
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(repo repository.PhotoRepo) *GalleryHandler {
	return &GalleryHandler{repo: repo}
}

type photoPageResponse struct {
	Items      []*models.Photo            `json:"items"`
	NextCursor *string                    `json:"nextCursor"`
	Summary    *repository.GallerySummary `json:"summary"`
}

type monthPageResponse struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Key        string          `json:"key"`
	Items      []*models.Photo `json:"items"`
	NextCursor *string         `json:"nextCursor"`
}

type highlightsResponse struct {
	Featured   []*models.Photo `json:"featured"`
	Highlights []*models.Photo `json:"highlights"`
}

// List handles GET /api/photos
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month")
	if !ok {
		return
	}
	day, ok := queryInt(w, r, "day")
	if !ok {
		return
	}
	if month != 0 && (month < 1 || month > 12) {
		respondError(w, http.StatusBadRequest, "month는 1에서 12 사이여야 합니다.")
		return
	}
	if day != 0 && (day < 1 || day > 31) {
		respondError(w, http.StatusBadRequest, "day는 1에서 31 사이여야 합니다.")
		return
	}

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	if limit == 0 && r.URL.Query().Get("limit") == "" {
		limit = repository.DefaultPageLimit
	}

	cursor := decodeCursorParam(r)
	rng := gallery.BuildDateRange(year, month, day)
	opts := repository.ListPageOptions{
		Cursor:     cursor,
		Limit:      limit,
		Range:      rng,
		Visibility: models.VisibilityFamily,
	}

	page, err := h.repo.ListPage(r.Context(), opts)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	summary, err := h.repo.ListSummary(r.Context(), rng, models.VisibilityFamily)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, photoPageResponse{
		Items:      page.Items,
		NextCursor: page.NextCursor,
		Summary:    summary,
	})
}

// ListMonth handles GET /api/photos/month
func (h *GalleryHandler) ListMonth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("year") == "" || r.URL.Query().Get("month") == "" {
		respondError(w, http.StatusBadRequest, "year와 month를 모두 지정해 주세요.")
		return
	}
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month")
	if !ok {
		return
	}
	if month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "month는 1에서 12 사이여야 합니다.")
		return
	}

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	if limit == 0 && r.URL.Query().Get("limit") == "" {
		limit = repository.DefaultMonthPageLimit
	}

	page, err := h.repo.ListPage(r.Context(), repository.ListPageOptions{
		Cursor:     decodeCursorParam(r),
		Limit:      limit,
		Range:      gallery.BuildDateRange(year, month, 0),
		Visibility: models.VisibilityFamily,
	})
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, monthPageResponse{
		Year:       year,
		Month:      month,
		Key:        fmt.Sprintf("%04d-%02d", year, month),
		Items:      page.Items,
		NextCursor: page.NextCursor,
	})
}

// Highlights handles GET /api/photos/highlights
func (h *GalleryHandler) Highlights(w http.ResponseWriter, r *http.Request) {
	highlights, err := h.repo.ListHighlights(r.Context(), 2, 12, models.VisibilityFamily)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, highlightsResponse{
		Featured:   highlights.Featured,
		Highlights: highlights.Highlights,
	})
}

// Summary handles GET /api/photos/summary
func (h *GalleryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month")
	if !ok {
		return
	}
	day, ok := queryInt(w, r, "day")
	if !ok {
		return
	}

	summary, err := h.repo.ListSummary(r.Context(), gallery.BuildDateRange(year, month, day), models.VisibilityFamily)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// decodeCursorParam reads the cursor query parameter. Malformed cursors are
// treated as absent rather than rejected.
func decodeCursorParam(r *http.Request) *gallery.Cursor {
	if cursor, ok := gallery.DecodeCursor(r.URL.Query().Get("cursor")); ok {
		return &cursor
	}
	return nil
}

// queryInt parses an optional integer query parameter. A missing parameter
// yields zero; an unparseable one writes a 400 and returns ok=false.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, name+" 값이 올바른 숫자가 아닙니다.")
		return 0, false
	}
	return value, true
}
