package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "SESSION_TTL", "DEFAULT_LANG", "MIGRATIONS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.App.Migrations)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/shop.db")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/shop.db?_foreign_keys=on", cfg.Database.DSN())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.App.Migrations)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5433, User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=shop sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5433/shop?sslmode=disable", d.URL())

	d.DSNOverride = "postgres://x:y@h:1/z"
	assert.Equal(t, "postgres://x:y@h:1/z", d.DSN())
	assert.Equal(t, "postgres://x:y@h:1/z", d.URL())
}

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	d := DatabaseConfig{Driver: "sqlite", SQLitePath: "shop.db"}
	assert.Equal(t, "shop.db?_foreign_keys=on", d.DSN())

	d.DSNOverride = "file:shop?mode=memory&cache=shared"
	assert.Equal(t, "file:shop?mode=memory&cache=shared&_foreign_keys=on", d.DSN())

	d.DSNOverride = "file:shop?_fk=0"
	assert.Equal(t, "file:shop?_fk=0", d.DSN(), "an explicit setting is kept")
}
