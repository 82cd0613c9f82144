package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/domain"
	apperrors "github.com/LadislavMokry/A11-Moodboard-sub000/internal/errors"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"email":      user.Email,
		"created_at": user.CreatedAt.Unix(),
		"exp":        time.Now().Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, unauthenticated("Invalid token signature").WithCause(err)
	}
	if !token.Valid {
		return nil, unauthenticated("Invalid access token")
	}

	return token, nil
}

func unauthenticated(msg string) *apperrors.Error {
	return apperrors.New(apperrors.CodeUnauthenticated, msg, http.StatusUnauthorized)
}
