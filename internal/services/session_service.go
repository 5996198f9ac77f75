package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/familyalbum/server/internal/models"
)

// SessionTTL is how long an admin session token stays valid
const SessionTTL = 8 * time.Hour

// SessionService issues and verifies stateless admin session tokens.
// A token is "<unix-issue-ts>.<hex hmac-sha256>" signed with the server
// secret; nothing is persisted.
type SessionService struct {
	secret       []byte
	password     string
	passwordHash string
}

// NewSessionService creates a SessionService. passwordHash is an optional
// bcrypt hash; when set it takes precedence over the plaintext password.
func NewSessionService(secret, password, passwordHash string) *SessionService {
	return &SessionService{
		secret:       []byte(secret),
		password:     password,
		passwordHash: passwordHash,
	}
}

// Configured reports whether a secret and some form of password are set
func (s *SessionService) Configured() bool {
	return len(s.secret) > 0 && (s.password != "" || s.passwordHash != "")
}

// VerifyPassword checks an admin login attempt
func (s *SessionService) VerifyPassword(attempt string) error {
	if !s.Configured() {
		return models.NotConfiguredError("admin authentication is not configured")
	}

	if s.passwordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(attempt)) != nil {
			return models.AuthError("invalid password")
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(s.password), []byte(attempt)) != 1 {
		return models.AuthError("invalid password")
	}
	return nil
}

// IssueToken mints a session token valid for SessionTTL from now
func (s *SessionService) IssueToken(now time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", models.NotConfiguredError("session secret is not configured")
	}
	ts := strconv.FormatInt(now.Unix(), 10)
	return ts + "." + s.sign(ts), nil
}

// VerifyToken checks a token's signature and TTL
func (s *SessionService) VerifyToken(token string, now time.Time) bool {
	if len(s.secret) == 0 || token == "" {
		return false
	}

	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return false
	}
	ts, sig := parts[0], parts[1]

	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}

	expected := s.sign(ts)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return false
	}

	issuedAt := time.Unix(issued, 0)
	if now.Before(issuedAt) {
		return false
	}
	return now.Sub(issuedAt) <= SessionTTL
}

// ExpiresAt returns the expiry of a token issued at the given time
func (s *SessionService) ExpiresAt(issuedAt time.Time) time.Time {
	return issuedAt.Add(SessionTTL)
}

// IssuedAt extracts the issue time from a token without verifying it
func (s *SessionService) IssuedAt(token string) (time.Time, bool) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	issued, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(issued, 0).UTC(), true
}

func (s *SessionService) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprint(mac, payload)
	return hex.EncodeToString(mac.Sum(nil))
}
