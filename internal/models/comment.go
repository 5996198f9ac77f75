package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxMessageLength caps comment and guestbook messages
	MaxMessageLength = 300
	// DefaultGuestNickname is used when a guestbook entry carries no name
	DefaultGuestNickname = "익명의 팬"
	// MaxNicknameLength caps display names on comments and guestbook entries
	MaxNicknameLength = 40
)

// Comment is one per-photo comment
type Comment struct {
	ID        string    `json:"id"`
	PhotoID   string    `json:"photo_id"`
	Nickname  string    `json:"nickname"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment validates and creates a photo comment
func NewComment(photoID, nickname, message string) (*Comment, error) {
	if strings.TrimSpace(photoID) == "" {
		return nil, ValidationError("photo id is required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyCommentMessage
	}
	if len([]rune(message)) > MaxMessageLength {
		return nil, ErrCommentTooLong
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = DefaultGuestNickname
	}
	if len([]rune(nickname)) > MaxNicknameLength {
		nickname = string([]rune(nickname)[:MaxNicknameLength])
	}

	return &Comment{
		ID:        uuid.New().String(),
		PhotoID:   photoID,
		Nickname:  nickname,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GuestbookEntry is one guestbook message
type GuestbookEntry struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGuestbookEntry validates and creates a guestbook entry
func NewGuestbookEntry(nickname, message string) (*GuestbookEntry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyGuestbookMessage
	}
	if len([]rune(message)) > MaxMessageLength {
		return nil, ErrGuestbookTooLong
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = DefaultGuestNickname
	}
	if len([]rune(nickname)) > MaxNicknameLength {
		nickname = string([]rune(nickname)[:MaxNicknameLength])
	}

	return &GuestbookEntry{
		ID:        uuid.New().String(),
		Nickname:  nickname,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// User-facing validation messages, surfaced verbatim by the HTTP layer
var (
	ErrEmptyCommentMessage   = ValidationError("댓글 내용을 입력해 주세요.")
	ErrCommentTooLong        = ValidationError("댓글은 300자 이하로 작성해 주세요.")
	ErrEmptyGuestbookMessage = ValidationError("덕담 내용을 입력해 주세요.")
	ErrGuestbookTooLong      = ValidationError("덕담은 300자 이하로 작성해 주세요.")
)
