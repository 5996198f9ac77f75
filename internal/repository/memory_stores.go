package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/familyalbum/server/internal/models"
)

// MemoryCommentStore is a process-local comment store. It backs the comment
// endpoints when no database is configured and serves as the fallback target
// when the SQL store is unreachable.
type MemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string][]*models.Comment
}

// NewMemoryCommentStore creates an empty in-memory comment store
func NewMemoryCommentStore() *MemoryCommentStore {
	return &MemoryCommentStore{comments: make(map[string][]*models.Comment)}
}

// ListForPhoto returns a photo's comments oldest-first
func (s *MemoryCommentStore) ListForPhoto(_ context.Context, photoID string) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.comments[photoID]
	out := make([]*models.Comment, len(stored))
	copy(out, stored)
	return out, nil
}

// Add appends a comment
func (s *MemoryCommentStore) Add(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments[comment.PhotoID] = append(s.comments[comment.PhotoID], comment)
	return nil
}

// MemoryGuestbookStore is the in-memory counterpart of GuestbookRepository
type MemoryGuestbookStore struct {
	mu      sync.RWMutex
	entries []*models.GuestbookEntry
}

// NewMemoryGuestbookStore creates an empty in-memory guestbook store
func NewMemoryGuestbookStore() *MemoryGuestbookStore {
	return &MemoryGuestbookStore{}
}

// List returns the newest entries first
func (s *MemoryGuestbookStore) List(_ context.Context, limit int) ([]*models.GuestbookEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.GuestbookEntry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Add appends a guestbook entry
func (s *MemoryGuestbookStore) Add(_ context.Context, entry *models.GuestbookEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

// FallbackCommentStore reads and writes through the primary store, switching
// to the in-memory fallback whenever the primary fails. Reads after a failed
// write favor the fallback for the affected photo so just-posted comments
// stay visible.
type FallbackCommentStore struct {
	primary  CommentStore
	fallback *MemoryCommentStore
}

// NewFallbackCommentStore wraps primary with an in-memory fallback
func NewFallbackCommentStore(primary CommentStore) *FallbackCommentStore {
	return &FallbackCommentStore{primary: primary, fallback: NewMemoryCommentStore()}
}

// ListForPhoto tries the primary store, merging in fallback-held comments
func (s *FallbackCommentStore) ListForPhoto(ctx context.Context, photoID string) ([]*models.Comment, error) {
	held, _ := s.fallback.ListForPhoto(ctx, photoID)

	primary, err := s.primary.ListForPhoto(ctx, photoID)
	if err != nil {
		return held, nil
	}
	return append(primary, held...), nil
}

// Add writes to the primary store, parking the comment in memory on failure
func (s *FallbackCommentStore) Add(ctx context.Context, comment *models.Comment) error {
	if err := s.primary.Add(ctx, comment); err != nil {
		return s.fallback.Add(ctx, comment)
	}
	return nil
}

// FallbackGuestbookStore is the guestbook counterpart of FallbackCommentStore
type FallbackGuestbookStore struct {
	primary  GuestbookStore
	fallback *MemoryGuestbookStore
}

// NewFallbackGuestbookStore wraps primary with an in-memory fallback
func NewFallbackGuestbookStore(primary GuestbookStore) *FallbackGuestbookStore {
	return &FallbackGuestbookStore{primary: primary, fallback: NewMemoryGuestbookStore()}
}

// List tries the primary store, merging in fallback-held entries
func (s *FallbackGuestbookStore) List(ctx context.Context, limit int) ([]*models.GuestbookEntry, error) {
	held, _ := s.fallback.List(ctx, 0)

	primary, err := s.primary.List(ctx, limit)
	if err != nil {
		return held, nil
	}

	merged := append(held, primary...)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// Add writes to the primary store, parking the entry in memory on failure
func (s *FallbackGuestbookStore) Add(ctx context.Context, entry *models.GuestbookEntry) error {
	if err := s.primary.Add(ctx, entry); err != nil {
		return s.fallback.Add(ctx, entry)
	}
	return nil
}
