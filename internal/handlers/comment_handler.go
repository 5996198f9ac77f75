package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/familyalbum/server/internal/models"
	"github.com/familyalbum/server/internal/observability"
	"github.com/familyalbum/server/internal/repository"
)

// CommentHandler handles per-photo comment endpoints
type CommentHandler struct {
	photos   repository.PhotoRepo
	comments repository.CommentStore
	metrics  *observability.AlbumMetrics
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(photos repository.PhotoRepo, comments repository.CommentStore, metrics *observability.AlbumMetrics) *CommentHandler {
	return &CommentHandler{photos: photos, comments: comments, metrics: metrics}
}

// List handles GET /api/photos/{photoId}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoId")
	if photoID == "" {
		respondError(w, http.StatusBadRequest, "사진 ID가 필요합니다.")
		return
	}

	comments, err := h.comments.ListForPhoto(r.Context(), photoID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	respondJSON(w, http.StatusOK, models.CommentListResponse{Comments: comments})
}

// Create handles POST /api/photos/{photoId}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoId")
	if photoID == "" {
		respondError(w, http.StatusBadRequest, "사진 ID가 필요합니다.")
		return
	}

	var req models.CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다.")
		return
	}

	photo, err := h.photos.GetByID(r.Context(), photoID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	if photo == nil {
		respondAppError(w, r, models.ErrPhotoNotFound)
		return
	}

	comment, err := models.NewComment(photoID, req.Nickname, req.Message)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	if err := h.comments.Add(r.Context(), comment); err != nil {
		respondAppError(w, r, err)
		return
	}
	h.metrics.RecordCommentPost(r.Context(), "comment")

	respondJSON(w, http.StatusCreated, comment)
}
