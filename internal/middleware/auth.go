package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/domain"
	apperrors "github.com/LadislavMokry/A11-Moodboard-sub000/internal/errors"
	jwt_internal "github.com/LadislavMokry/A11-Moodboard-sub000/internal/jwt"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/utils"
)

// Key to store user claims in the request context.
type key int

const UserClaimsKey key = 0

var (
	errNoToken       = errors.New("no access token provided")
	errInvalidClaims = errors.New("token claims malformed")
)

type Auth struct {
	jwtService jwt_internal.JwtService
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// NeedAuth resolves the caller from the access token and rejects the
// request with 401 Unauthenticated when that fails. Nothing below this
// middleware runs for an anonymous request.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				var appErr *apperrors.Error
				if !errors.As(err, &appErr) {
					appErr = apperrors.New(apperrors.CodeUnauthenticated, "Not authenticated", http.StatusUnauthorized).WithCause(err)
				}
				utils.WriteError(w, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractUser validates the bearer credential and resolves the caller.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	// Cookie first (browser clients), then Authorization header (API clients).
	var tokenString string
	if accessCookie, err := r.Cookie("accessToken"); err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errInvalidClaims
	}

	user := &domain.User{ID: sub}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if createdAt, ok := claims["created_at"].(float64); ok {
		user.CreatedAt = time.Unix(int64(createdAt), 0)
	}

	return user, nil
}

// GetUserFromContext returns the authenticated user or nil.
func GetUserFromContext(r *http.Request) *domain.User {
	user, _ := r.Context().Value(UserClaimsKey).(*domain.User)
	return user
}
