package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one browser's Web Push registration
type PushSubscription struct {
	ID        string    `json:"id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPushSubscription validates and creates a subscription record
func NewPushSubscription(endpoint, p256dh, auth string) (*PushSubscription, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, ValidationError("subscription endpoint is required")
	}
	if strings.TrimSpace(p256dh) == "" || strings.TrimSpace(auth) == "" {
		return nil, ValidationError("subscription keys are required")
	}

	return &PushSubscription{
		ID:        uuid.New().String(),
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Branding is the single-row PWA branding settings record
type Branding struct {
	LogoPath        string    `json:"logoPath"`
	Icon192Path     string    `json:"icon192Path"`
	Icon512Path     string    `json:"icon512Path"`
	Maskable192Path string    `json:"maskable192Path"`
	Maskable512Path string    `json:"maskable512Path"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Paths lists every stored blob the branding record references
func (b *Branding) Paths() []string {
	return []string{b.LogoPath, b.Icon192Path, b.Icon512Path, b.Maskable192Path, b.Maskable512Path}
}
