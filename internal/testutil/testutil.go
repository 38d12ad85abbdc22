// Package testutil holds shared helpers for tests that need a database or a session.
package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lupa-autoricambi/gestionale/auth"
	"github.com/lupa-autoricambi/gestionale/internal/config"
	"github.com/lupa-autoricambi/gestionale/internal/db"
	"github.com/lupa-autoricambi/gestionale/internal/models"
)

// Secret signs session tokens in tests.
const Secret = "test-session-secret"

// NewDB opens a fresh in-memory SQLite database per test and migrates all models.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := config.SQLiteForeignKeys("file:" + name + "?mode=memory&cache=shared")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the shared in-memory database alive and serializes transactions
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// NewUser seeds a user with password "secret".
func NewUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()
	u, err := db.SeedUser(context.Background(), gdb, username, "secret", false)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SessionCookie returns a valid session cookie for u signed with Secret.
func SessionCookie(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	token, _, err := auth.NewManager(Secret, 0, false).Issue(auth.Identity{UserID: u.ID, Username: u.Username})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

// WithActor attaches u as the authenticated identity of r.
func WithActor(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UserID: u.ID, Username: u.Username}))
}
