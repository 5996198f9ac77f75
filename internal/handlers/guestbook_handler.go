package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/familyalbum/server/internal/models"
	"github.com/familyalbum/server/internal/observability"
	"github.com/familyalbum/server/internal/repository"
)

// GuestbookHandler handles the guestbook endpoints
type GuestbookHandler struct {
	guestbook repository.GuestbookStore
	metrics   *observability.AlbumMetrics
}

// NewGuestbookHandler creates a new GuestbookHandler
func NewGuestbookHandler(guestbook repository.GuestbookStore, metrics *observability.AlbumMetrics) *GuestbookHandler {
	return &GuestbookHandler{guestbook: guestbook, metrics: metrics}
}

// List handles GET /api/guestbook
func (h *GuestbookHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	entries, err := h.guestbook.List(r.Context(), limit)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*models.GuestbookEntry{}
	}

	respondJSON(w, http.StatusOK, models.GuestbookListResponse{Entries: entries})
}

// Create handles POST /api/guestbook
func (h *GuestbookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.GuestbookCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다.")
		return
	}

	entry, err := models.NewGuestbookEntry(req.Nickname, req.Message)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	if err := h.guestbook.Add(r.Context(), entry); err != nil {
		respondAppError(w, r, err)
		return
	}
	h.metrics.RecordCommentPost(r.Context(), "guestbook")

	respondJSON(w, http.StatusCreated, entry)
}
