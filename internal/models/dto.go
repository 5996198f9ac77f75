package models

import "time"

// ErrorResponse is returned on errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by health check
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// CommentListResponse wraps a photo's comments
type CommentListResponse struct {
	Comments []*Comment `json:"comments"`
}

// GuestbookListResponse wraps the guestbook feed
type GuestbookListResponse struct {
	Entries []*GuestbookEntry `json:"entries"`
}

// SessionResponse reports the admin session state
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// UploadFailure describes one file an upload batch rejected
type UploadFailure struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// UploadBatchResponse reports per-file outcomes of a multipart upload
type UploadBatchResponse struct {
	Uploaded []*Photo        `json:"uploaded"`
	Failed   []UploadFailure `json:"failed"`
}

// SubscribeRequest is the Web Push subscription payload from the browser
type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// UnsubscribeRequest removes a Web Push subscription by endpoint
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// VapidKeyResponse exposes the public key clients subscribe with
type VapidKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

// AdminAuthRequest is the admin login payload
type AdminAuthRequest struct {
	Password string `json:"password"`
}

// CommentCreateRequest is the payload for posting a comment
type CommentCreateRequest struct {
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
}

// GuestbookCreateRequest is the payload for posting a guestbook entry
type GuestbookCreateRequest struct {
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
}

// PhotoUpdateRequest is the partial-update payload for photo metadata.
// Pointer fields distinguish "absent" from a provided zero value.
type PhotoUpdateRequest struct {
	Caption      *string    `json:"caption"`
	TakenAt      *time.Time `json:"takenAt"`
	IsFeatured   *bool      `json:"isFeatured"`
	FeaturedRank *int       `json:"featuredRank"`
	EventNames   *[]string  `json:"eventNames"`
}

// ToUpdate maps the request onto the repository update struct
func (r PhotoUpdateRequest) ToUpdate() PhotoUpdate {
	update := PhotoUpdate{
		Caption:    r.Caption,
		TakenAt:    r.TakenAt,
		IsFeatured: r.IsFeatured,
	}
	if r.FeaturedRank != nil || (r.IsFeatured != nil && !*r.IsFeatured) {
		update.FeaturedRank = r.FeaturedRank
		update.SetFeaturedRank = true
	}
	if r.EventNames != nil {
		update.EventNames = *r.EventNames
		update.SetEventNames = true
	}
	return update
}

// BrandingResponse reports the stored PWA branding asset paths
type BrandingResponse struct {
	LogoURL        string    `json:"logoUrl"`
	Icon192URL     string    `json:"icon192Url"`
	Icon512URL     string    `json:"icon512Url"`
	Maskable192URL string    `json:"maskable192Url"`
	Maskable512URL string    `json:"maskable512Url"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
