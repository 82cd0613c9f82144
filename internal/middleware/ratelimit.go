package middleware

import (
	"net/http"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/middleware/ratelimiter"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/utils"
)

// RateLimit limits requests per identity. getIdentity extracts the key to
// bucket on (user id, IP, ...).
func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteError(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ByUserID buckets on the authenticated user. Must run below NeedAuth.
func ByUserID(r *http.Request) (string, error) {
	if user := GetUserFromContext(r); user != nil {
		return user.ID, nil
	}
	// Fall back to the remote address for anonymous requests.
	return r.RemoteAddr, nil
}
