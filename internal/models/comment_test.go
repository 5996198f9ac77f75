package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment(t *testing.T) {
	t.Run("creates comment with valid input", func(t *testing.T) {
		comment, err := NewComment("photo-1", "할머니", "우리 강아지 너무 귀엽다!")

		require.NoError(t, err)
		assert.NotEmpty(t, comment.ID)
		assert.Equal(t, "photo-1", comment.PhotoID)
		assert.Equal(t, "할머니", comment.Nickname)
		assert.Equal(t, "우리 강아지 너무 귀엽다!", comment.Message)
		assert.WithinDuration(t, time.Now().UTC(), comment.CreatedAt, time.Second*5)
	})

	t.Run("rejects blank message", func(t *testing.T) {
		_, err := NewComment("photo-1", "삼촌", "   ")
		assert.ErrorIs(t, err, ErrEmptyCommentMessage)
		assert.Equal(t, "댓글 내용을 입력해 주세요.", err.Error())
	})

	t.Run("rejects message over 300 characters", func(t *testing.T) {
		_, err := NewComment("photo-1", "삼촌", strings.Repeat("가", MaxMessageLength+1))
		assert.ErrorIs(t, err, ErrCommentTooLong)
		assert.Equal(t, "댓글은 300자 이하로 작성해 주세요.", err.Error())
	})

	t.Run("accepts message at exactly 300 characters", func(t *testing.T) {
		_, err := NewComment("photo-1", "삼촌", strings.Repeat("가", MaxMessageLength))
		assert.NoError(t, err)
	})

	t.Run("rejects missing photo id", func(t *testing.T) {
		_, err := NewComment("", "삼촌", "안녕")
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("defaults blank nickname", func(t *testing.T) {
		comment, err := NewComment("photo-1", "  ", "안녕")
		require.NoError(t, err)
		assert.Equal(t, DefaultGuestNickname, comment.Nickname)
	})

	t.Run("truncates overly long nickname", func(t *testing.T) {
		comment, err := NewComment("photo-1", strings.Repeat("가", MaxNicknameLength+10), "안녕")
		require.NoError(t, err)
		assert.Len(t, []rune(comment.Nickname), MaxNicknameLength)
	})
}

func TestNewGuestbookEntry(t *testing.T) {
	t.Run("creates entry with valid input", func(t *testing.T) {
		entry, err := NewGuestbookEntry("이모", "100일 축하해!")

		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "이모", entry.Nickname)
		assert.Equal(t, "100일 축하해!", entry.Message)
	})

	t.Run("rejects blank message", func(t *testing.T) {
		_, err := NewGuestbookEntry("이모", "   ")
		assert.ErrorIs(t, err, ErrEmptyGuestbookMessage)
		assert.Equal(t, "덕담 내용을 입력해 주세요.", err.Error())
	})

	t.Run("rejects message over 300 characters", func(t *testing.T) {
		_, err := NewGuestbookEntry("이모", strings.Repeat("가", MaxMessageLength+1))
		assert.ErrorIs(t, err, ErrGuestbookTooLong)
		assert.Equal(t, "덕담은 300자 이하로 작성해 주세요.", err.Error())
	})

	t.Run("defaults blank nickname to anonymous fan", func(t *testing.T) {
		entry, err := NewGuestbookEntry("", "축하해!")
		require.NoError(t, err)
		assert.Equal(t, "익명의 팬", entry.Nickname)
	})
}
