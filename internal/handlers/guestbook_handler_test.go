package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familyalbum/server/internal/repository"
)

func TestGuestbookCreate(t *testing.T) {
	t.Run("creates an entry with the default nickname", func(t *testing.T) {
		handler := NewGuestbookHandler(repository.NewMemoryGuestbookStore(), nil)

		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/guestbook",
			strings.NewReader(`{"message":"100일 축하해!"}`)))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "익명의 팬")
		assert.Contains(t, rec.Body.String(), "100일 축하해!")
	})

	t.Run("rejects a whitespace-only message", func(t *testing.T) {
		handler := NewGuestbookHandler(repository.NewMemoryGuestbookStore(), nil)

		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/guestbook",
			strings.NewReader(`{"message":"   "}`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"덕담 내용을 입력해 주세요."}`, rec.Body.String())
	})

	t.Run("rejects a message over 300 characters", func(t *testing.T) {
		handler := NewGuestbookHandler(repository.NewMemoryGuestbookStore(), nil)

		body := `{"nickname":"이모","message":"` + strings.Repeat("가", 301) + `"}`
		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/guestbook",
			strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"덕담은 300자 이하로 작성해 주세요."}`, rec.Body.String())
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		handler := NewGuestbookHandler(repository.NewMemoryGuestbookStore(), nil)

		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/guestbook",
			strings.NewReader(`not json`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGuestbookList(t *testing.T) {
	store := repository.NewMemoryGuestbookStore()
	handler := NewGuestbookHandler(store, nil)

	for _, msg := range []string{"첫 번째 덕담", "두 번째 덕담"} {
		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/guestbook",
			strings.NewReader(`{"message":"`+msg+`"}`)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/guestbook", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "첫 번째 덕담")
	assert.Contains(t, rec.Body.String(), "두 번째 덕담")
}
