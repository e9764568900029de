// apps/go-server/internal/auth/auth.go
//
// Authentication for the numbers server.
// Responsibilities:
//   - bcrypt password hashing and signup validation.
//   - HS256 JWT signing/verification (github.com/golang-jwt/jwt/v5).
//   - Auth cookie + bearer token extraction.
//   - Optional/required auth middleware that place *User into the request context.
//   - Anonymous guest cookie so guest games can be claimed after signup.
//
// Environment variables (see ConfigFromEnv):
//   JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, NODE_ENV

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const anonCookieName = "wingo_anon"

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrInvalidToken  = errors.New("invalid token")
)

// Config controls token signing and cookie attributes.
type Config struct {
	Secret      []byte
	ExpiresDays int
	CookieName  string
	Secure      bool // Secure + SameSite=None cookies (production)
}

// ConfigFromEnv reads JWT_SECRET (default "dev_secret_change_me"),
// JWT_EXPIRES_DAYS (default 14), COOKIE_NAME (default "wingo_token") and
// NODE_ENV ("production" enables secure cookies).
func ConfigFromEnv() Config {
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	return Config{
		Secret:      []byte(getEnv("JWT_SECRET", "dev_secret_change_me")),
		ExpiresDays: days,
		CookieName:  getEnv("COOKIE_NAME", "wingo_token"),
		Secure:      os.Getenv("NODE_ENV") == "production",
	}
}

// User is placed into request context by the auth middleware.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// FromContext returns the authenticated user, or nil for guests.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxUserKey{}).(*User)
	return u
}

// ------------------------------ passwords ----------------------------------

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost) // cost=10
	return string(b), err
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NormalizeUsername trims whitespace.
func NormalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}

// ------------------------------ JWT & cookies ------------------------------

// Sign creates an HS256 JWT with id/username and the configured expiry.
func (c Config) Sign(id, username string) (string, time.Time, error) {
	exp := time.Now().Add(time.Duration(c.ExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString(c.Secret)
	return ss, exp, err
}

// Parse verifies a token and returns the user it names.
func (c Config) Parse(token string) (*User, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, ErrInvalidToken
	}
	return &User{ID: id, Username: username}, nil
}

func (c Config) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// SetCookie writes the auth token cookie with appropriate security attributes.
func (c Config) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func (c Config) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		MaxAge:   -1,
	})
}

// TokenFromRequest extracts a bearer token from the Authorization header or
// the auth cookie.
func (c Config) TokenFromRequest(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if ck, err := r.Cookie(c.CookieName); err == nil {
		return ck.Value
	}
	return ""
}

// EnsureAnonID returns an existing anon cookie or sets a new one.
// Used to associate guest games with a stable identifier.
func (c Config) EnsureAnonID(w http.ResponseWriter, r *http.Request) string {
	if ck, err := r.Cookie(anonCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	id := GenID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// --------------------------- middleware ------------------------------------

// UserExists reports whether the user behind a token still exists.
type UserExists func(ctx context.Context, id string) bool

// Optional decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (c Config) Optional(exists UserExists) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := c.TokenFromRequest(r); tok != "" {
				if u, err := c.Parse(tok); err == nil && exists(r.Context(), u.ID) {
					r = r.WithContext(WithUser(r.Context(), u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require enforces a valid JWT naming an existing user.
func (c Config) Require(exists UserExists) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := c.TokenFromRequest(r)
			if tok == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			u, err := c.Parse(tok)
			if err != nil || !exists(r.Context(), u.ID) {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// ------------------------------- small util --------------------------------

// GenID creates a 22‑char URL‑safe, crypto‑random identifier (no padding).
func GenID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
