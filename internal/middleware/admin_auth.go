package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/familyalbum/server/internal/services"
)

// SessionCookieName is the admin session cookie
const SessionCookieName = "admin_session"

// AdminAuth creates middleware that requires a valid signed admin session cookie
func AdminAuth(sessions *services.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "관리자 로그인이 필요합니다."})
				return
			}

			if !sessions.VerifyToken(cookie.Value, time.Now()) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "세션이 만료되었습니다. 다시 로그인해 주세요."})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
