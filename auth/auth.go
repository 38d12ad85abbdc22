package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ctxKey string

const (
	SessionCookieName = "session"
	identityCtxKey    = ctxKey("identity")
	DefaultTTL        = 7 * 24 * time.Hour
)

// Identity is the authenticated actor attached to a request.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Claims is the payload of a session token.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserVerifier is an optional callback to validate that a session's user still exists.
// If nil, no extra verification is performed.
type UserVerifier func(ctx context.Context, uid uuid.UUID) bool

// Manager issues and verifies HS256 session tokens carried in the session cookie.
type Manager struct {
	secret   []byte
	ttl      time.Duration
	secure   bool
	verifier UserVerifier
	now      func() time.Time
}

type Option func(*Manager)

// WithVerifier makes the middleware drop sessions whose user no longer exists.
func WithVerifier(v UserVerifier) Option { return func(m *Manager) { m.verifier = v } }

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// NewManager returns a Manager. A zero ttl means DefaultTTL.
func NewManager(secret string, ttl time.Duration, secure bool, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Issue signs a token for the given identity.
func (m *Manager) Issue(id Identity) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		UserID:   id.UserID.String(),
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature and expiry and returns the identity in the token.
func (m *Manager) Parse(token string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, err
	}
	id := Identity{Username: claims.Username}
	if claims.UserID != "" {
		uid, err := uuid.Parse(claims.UserID)
		if err != nil {
			return Identity{}, errors.New("invalid userId claim")
		}
		id.UserID = uid
	}
	return id, nil
}

// CreateSession issues a token and sets it as the session cookie.
func (m *Manager) CreateSession(w http.ResponseWriter, id Identity) error {
	token, exp, err := m.Issue(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return nil
}

// ClearSession deletes the session cookie.
func (m *Manager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, Secure: m.secure, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie and returns the identity it carries.
func (m *Manager) ParseSession(r *http.Request) (Identity, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return Identity{}, false
	}
	id, err := m.Parse(c.Value)
	if err != nil {
		return Identity{}, false
	}
	if m.verifier != nil && id.UserID != uuid.Nil && !m.verifier(r.Context(), id.UserID) {
		return Identity{}, false
	}
	return id, true
}

// WithIdentity stores the identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext extracts the identity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(Identity)
	return id, ok
}

// ActorFromContext returns the user id usable for audit attribution.
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return id.UserID, true
}
