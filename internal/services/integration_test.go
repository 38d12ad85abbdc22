//go:build integration

package services

// Runs the services against PostgreSQL with the SQL migrations applied.
// go test -tags integration ./internal/services/...

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/config"
	"github.com/lupa-autoricambi/gestionale/internal/db"
	"github.com/lupa-autoricambi/gestionale/internal/models"
	"github.com/lupa-autoricambi/gestionale/validation"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("gestionale_test"),
		tcPostgres.WithUsername("gestionale"),
		tcPostgres.WithPassword("gestionale"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "postgres", DSNOverride: pgURL, MaxOpenConns: 5},
		App:      config.AppConfig{Migrations: true, MigrationsPath: "../../migrations"},
	}
	gdb, err := db.Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, cfg))
	return gdb
}

func TestPostgresFlow(t *testing.T) {
	gdb := setupPostgres(t)
	ctx := context.Background()
	user, err := db.SeedUser(ctx, gdb, "LupoAndrea", "secret", false)
	require.NoError(t, err)

	articles := NewArticleService(gdb)
	customers := NewCustomerService(gdb)
	accounts := NewAccountService(gdb)

	a, err := articles.Create(ctx, user.ID, ArticleInput{Code: "X1", PartName: "Filtro", MachineName: "Panda", Quantity: validation.NewNumber("5"), Shelf: "A", Tier: "LOW"})
	require.NoError(t, err)
	_, err = articles.Create(ctx, user.ID, ArticleInput{Code: "X1", PartName: "Altro", MachineName: "Punto"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	found, err := articles.List(ctx, "pan")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	c, err := customers.Create(ctx, CustomerInput{Name: "Mario Rossi"})
	require.NoError(t, err)
	acc, err := accounts.Create(ctx, user.ID, AccountInput{CustomerID: c.ID.String(), Description: "Tagliando", Balance: validation.NewNumber("100")})
	require.NoError(t, err)
	paid, err := accounts.ApplyPayment(ctx, user.ID, acc.ID, PaymentInput{Amount: validation.NewNumber("40")})
	require.NoError(t, err)
	assert.Equal(t, "40", paid.PaidSoFar.String())
	assert.Equal(t, "60", paid.Balance.String())

	err = customers.Delete(ctx, c.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// deleting the article keeps its history through ON DELETE SET NULL
	require.NoError(t, articles.Delete(ctx, user.ID, a.ID))
	var created models.AuditLogEntry
	require.NoError(t, gdb.Where("operation = ?", models.OpArticleCreated).First(&created).Error)
	assert.Nil(t, created.ArticleID)

	entries, err := NewAuditService(gdb).Recent(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
