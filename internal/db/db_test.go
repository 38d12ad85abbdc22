package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lupa-autoricambi/gestionale/internal/config"
	"github.com/lupa-autoricambi/gestionale/internal/db"
	"github.com/lupa-autoricambi/gestionale/internal/models"
	"github.com/lupa-autoricambi/gestionale/internal/testutil"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := config.Load()
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSNOverride = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.App.Migrations = true // ignored for sqlite, falls back to AutoMigrate

	gdb, err := db.Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, cfg))
	for _, table := range []string{"users", "articles", "customers", "accounts", "audit_log_entries"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
}

func TestOpenSQLiteEnforcesForeignKeys(t *testing.T) {
	gdb, err := db.Open(config.DatabaseConfig{Driver: "sqlite", DSNOverride: "file:" + t.Name() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	var enabled int
	require.NoError(t, gdb.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := db.Open(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestSeedUser(t *testing.T) {
	gdb := testutil.NewDB(t)
	ctx := context.Background()

	u, err := db.SeedUser(ctx, gdb, " LupoPasquale ", "first", false)
	require.NoError(t, err)
	assert.Equal(t, "LupoPasquale", u.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("first")))

	// without reset the existing hash is kept
	again, err := db.SeedUser(ctx, gdb, "LupoPasquale", "second", false)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(again.PasswordHash), []byte("first")))

	reset, err := db.SeedUser(ctx, gdb, "LupoPasquale", "second", true)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reset.PasswordHash), []byte("second")))

	var count int64
	gdb.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSeedUsersPairs(t *testing.T) {
	gdb := testutil.NewDB(t)
	require.NoError(t, db.SeedUsers(context.Background(), gdb, "LupoAndrea:a, LupoValerio:b,"))
	var names []string
	gdb.Model(&models.User{}).Order("username").Pluck("username", &names)
	assert.Equal(t, []string{"LupoAndrea", "LupoValerio"}, names)

	assert.Error(t, db.SeedUsers(context.Background(), gdb, "broken"))
}

func TestArticleCodeUniqueIndex(t *testing.T) {
	gdb := testutil.NewDB(t)
	require.NoError(t, gdb.Create(&models.Article{Code: "X1", PartName: "Filtro", MachineName: "Panda"}).Error)
	err := gdb.Create(&models.Article{Code: "X1", PartName: "Altro", MachineName: "Punto"}).Error
	assert.True(t, db.IsDuplicateKey(err), "%v", err)
}
