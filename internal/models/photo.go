package models

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Visibility is the access tier of a photo record.
type Visibility string

const (
	// VisibilityFamily photos appear in the public family feed
	VisibilityFamily Visibility = "family"
	// VisibilityAdmin photos are only visible in the admin console
	VisibilityAdmin Visibility = "admin"
)

// ParseVisibility maps a raw string onto a known tier, defaulting to family.
func ParseVisibility(s string) Visibility {
	if Visibility(s) == VisibilityAdmin {
		return VisibilityAdmin
	}
	return VisibilityFamily
}

// Photo represents one album photo record
type Photo struct {
	ID           string     `json:"id"`
	Src          string     `json:"src"`
	ThumbSrc     *string    `json:"thumbSrc"`
	StoragePath  string     `json:"-"`
	ThumbPath    *string    `json:"-"`
	Caption      string     `json:"caption"`
	Alt          string     `json:"alt"`
	TakenAt      time.Time  `json:"takenAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Visibility   Visibility `json:"visibility"`
	IsFeatured   bool       `json:"isFeatured"`
	FeaturedRank *int       `json:"featuredRank"`
	EventNames   []string   `json:"eventNames"`
	OriginalName string     `json:"-"`
	ContentType  string     `json:"-"`
	FileSize     int64      `json:"-"`
}

const (
	// MaxCaptionLength caps captions on create and update
	MaxCaptionLength = 120
	// MaxEventNames is the per-photo event label limit
	MaxEventNames = 5
	// MaxEventNameLength caps each event label
	MaxEventNameLength = 30
)

// NewPhotoParams carries the inputs for creating a photo record
type NewPhotoParams struct {
	StoragePath  string
	ThumbPath    *string
	OriginalName string
	ContentType  string
	FileSize     int64
	Caption      string
	TakenAt      *time.Time
	EventNames   []string
	Visibility   Visibility
}

// NewPhoto creates a photo record with defaults applied and inputs validated
func NewPhoto(p NewPhotoParams) (*Photo, error) {
	if strings.TrimSpace(p.StoragePath) == "" {
		return nil, ErrEmptyStoragePath
	}
	if p.FileSize <= 0 {
		return nil, ErrInvalidFileSize
	}

	caption := strings.TrimSpace(p.Caption)
	if caption == "" {
		caption = DeriveCaption(p.OriginalName)
	}
	if len([]rune(caption)) > MaxCaptionLength {
		return nil, ErrCaptionTooLong
	}

	// taken_at is persisted at the millisecond precision the pagination
	// cursor token carries, so stored values round-trip through it exactly
	takenAt := time.Now().UTC().Truncate(time.Millisecond)
	if p.TakenAt != nil {
		takenAt = p.TakenAt.UTC().Truncate(time.Millisecond)
	}

	events, err := NormalizeEventNames(p.EventNames)
	if err != nil {
		return nil, err
	}

	visibility := p.Visibility
	if visibility == "" {
		visibility = VisibilityFamily
	}

	return &Photo{
		ID:           uuid.New().String(),
		StoragePath:  p.StoragePath,
		ThumbPath:    p.ThumbPath,
		Caption:      caption,
		Alt:          caption + " 사진",
		TakenAt:      takenAt,
		UpdatedAt:    time.Now().UTC(),
		Visibility:   visibility,
		EventNames:   events,
		OriginalName: p.OriginalName,
		ContentType:  p.ContentType,
		FileSize:     p.FileSize,
	}, nil
}

var (
	// leading UUIDs and camera-style numeric prefixes add nothing to a caption
	uuidPrefixPattern   = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}[-_]?`)
	cameraPrefixPattern = regexp.MustCompile(`(?i)^(IMG|DSC|DCIM|PXL|GOPR)[-_]?\d*[-_]?`)
	separatorPattern    = regexp.MustCompile(`[-_.]+`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// DeriveCaption builds a human-readable caption from an uploaded filename:
// extension stripped, UUID/camera prefixes removed, separators collapsed to spaces.
func DeriveCaption(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = uuidPrefixPattern.ReplaceAllString(name, "")
	name = cameraPrefixPattern.ReplaceAllString(name, "")
	name = separatorPattern.ReplaceAllString(name, " ")
	name = whitespacePattern.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "가족 사진"
	}
	if len([]rune(name)) > MaxCaptionLength {
		name = string([]rune(name)[:MaxCaptionLength])
	}
	return name
}

// NormalizeEventNames trims, dedups (case-insensitively, keeping the first
// spelling) and validates event labels.
func NormalizeEventNames(names []string) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if len([]rune(name)) > MaxEventNameLength {
			return nil, ErrEventNameTooLong
		}
		key := strings.ToLower(whitespacePattern.ReplaceAllString(name, " "))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	if len(out) > MaxEventNames {
		return nil, ErrTooManyEventNames
	}
	return out, nil
}

// PhotoUpdate is a partial metadata update. Pointer fields left nil are
// unchanged; SetFeaturedRank/SetEventNames distinguish "replace" from
// "untouched" because both targets accept empty values.
type PhotoUpdate struct {
	Caption         *string
	TakenAt         *time.Time
	IsFeatured      *bool
	FeaturedRank    *int
	SetFeaturedRank bool
	EventNames      []string
	SetEventNames   bool
}

// Empty reports whether the update would change nothing
func (u PhotoUpdate) Empty() bool {
	return u.Caption == nil &&
		u.TakenAt == nil &&
		u.IsFeatured == nil &&
		!u.SetFeaturedRank &&
		!u.SetEventNames
}

// Validate checks field constraints before any store call
func (u PhotoUpdate) Validate() error {
	if u.Empty() {
		return ErrEmptyUpdate
	}
	if u.Caption != nil {
		caption := strings.TrimSpace(*u.Caption)
		if caption == "" {
			return ErrBlankCaption
		}
		if len([]rune(caption)) > MaxCaptionLength {
			return ErrCaptionTooLong
		}
	}
	if u.SetEventNames {
		if _, err := NormalizeEventNames(u.EventNames); err != nil {
			return err
		}
	}
	return nil
}
