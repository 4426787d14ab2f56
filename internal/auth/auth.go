// Package auth gates the admin surface with a JWT cookie. Credentials come
// from the settings file; a successful login issues a signed token, and
// RequireAuth validates it before any admin-triggered dispatch or
// broadcast runs.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"castboard/internal/store"
)

const (
	CookieName    = "castboard_session"
	tokenLifetime = 24 * time.Hour
)

type Service struct {
	store  *store.Store
	secret []byte
}

func NewService(s *store.Store, secret string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret must be configured")
	}
	return &Service{store: s, secret: []byte(secret)}, nil
}

type claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

func (s *Service) issueToken(user string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	})
	return token.SignedString(s.secret)
}

// VerifyToken returns the user name carried by a valid token.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	return c.User, nil
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (s *Service) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	settings, err := s.store.ReadSettings()
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	hash := settings.AdminPasswordHash
	userMatches := settings.AdminUser != "" && req.User == settings.AdminUser
	if !userMatches || hash == "" {
		hash = dummyHash
	}

	ok, err := VerifyPassword(req.Password, hash)
	if err != nil || !ok || !userMatches {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := s.issueToken(req.User)
	if err != nil {
		log.Printf("auth: issuing token: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(tokenLifetime.Seconds()),
	})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (s *Service) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

// RequireAuth validates the session cookie before the handler runs.
func RequireAuth(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			if _, err := s.VerifyToken(cookie.Value); err != nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
