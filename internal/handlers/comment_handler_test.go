package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familyalbum/server/internal/models"
	"github.com/familyalbum/server/internal/repository"
)

func newCommentRouter(repo *fakePhotoRepo, store repository.CommentStore) *chi.Mux {
	handler := NewCommentHandler(repo, store, nil)
	r := chi.NewRouter()
	r.Get("/api/photos/{photoId}/comments", handler.List)
	r.Post("/api/photos/{photoId}/comments", handler.Create)
	return r
}

func TestCommentCreate(t *testing.T) {
	taken := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	repo := &fakePhotoRepo{photos: map[string]*models.Photo{
		"p1": testPhoto("p1", taken),
	}}

	t.Run("creates a comment", func(t *testing.T) {
		router := newCommentRouter(repo, repository.NewMemoryCommentStore())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/p1/comments",
			strings.NewReader(`{"nickname":"할머니","message":"너무 예쁘다!"}`)))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"photo_id":"p1"`)
		assert.Contains(t, rec.Body.String(), "할머니")
	})

	t.Run("rejects a 301-character message", func(t *testing.T) {
		router := newCommentRouter(repo, repository.NewMemoryCommentStore())

		body := `{"message":"` + strings.Repeat("가", 301) + `"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/p1/comments",
			strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"댓글은 300자 이하로 작성해 주세요."}`, rec.Body.String())
	})

	t.Run("rejects a blank message", func(t *testing.T) {
		router := newCommentRouter(repo, repository.NewMemoryCommentStore())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/p1/comments",
			strings.NewReader(`{"message":"   "}`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"댓글 내용을 입력해 주세요."}`, rec.Body.String())
	})

	t.Run("returns 404 for an unknown photo", func(t *testing.T) {
		router := newCommentRouter(repo, repository.NewMemoryCommentStore())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/nope/comments",
			strings.NewReader(`{"message":"안녕"}`)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCommentList(t *testing.T) {
	taken := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	repo := &fakePhotoRepo{photos: map[string]*models.Photo{
		"p1": testPhoto("p1", taken),
	}}
	store := repository.NewMemoryCommentStore()
	router := newCommentRouter(repo, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/p1/comments",
		strings.NewReader(`{"message":"첫 댓글"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos/p1/comments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "첫 댓글")
	assert.Contains(t, rec.Body.String(), models.DefaultGuestNickname)
}
