package db

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lupa-autoricambi/gestionale/internal/config"
	"github.com/lupa-autoricambi/gestionale/internal/models"
)

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{&models.User{}, &models.Article{}, &models.Customer{}, &models.Account{}, &models.AuditLogEntry{}}
}

// Migrate brings the schema up to date. With MIGRATIONS enabled on postgres the
// SQL files under MigrationsPath are applied; otherwise GORM AutoMigrate is used.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if cfg.App.Migrations && cfg.Database.Driver != "sqlite" {
		log.Info().Str("path", cfg.App.MigrationsPath).Msg("running sql migrations")
		if err := RunSQLMigrations(cfg.App.MigrationsPath, cfg.Database.URL()); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := AutoMigrate(db); err != nil {
		return err
	}

	// sanity check: ensure required core tables exist
	for _, m := range Models() {
		if !db.Migrator().HasTable(m) {
			return fmt.Errorf("missing table after migration: %T", m)
		}
	}
	return nil
}

// AutoMigrate creates or updates tables from the models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations executes migrations in dir using golang-migrate file source.
func RunSQLMigrations(dir, databaseURL string) error {
	m, err := migrate.New("file://"+dir, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
