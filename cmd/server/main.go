package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lupa-autoricambi/gestionale/auth"
	"github.com/lupa-autoricambi/gestionale/internal/config"
	"github.com/lupa-autoricambi/gestionale/internal/db"
	"github.com/lupa-autoricambi/gestionale/internal/handlers"
	"github.com/lupa-autoricambi/gestionale/internal/services"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Seed DB_SEED_USERS and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.App)

	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}

	if err := db.Migrate(dbConn, cfg); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if *migrateOnlyFlag {
		log.Info().Msg("migrations completed")
		return
	}

	if cfg.App.SeedUsers != "" {
		if err := db.SeedUsers(context.Background(), dbConn, cfg.App.SeedUsers); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
	}
	if *seedOnlyFlag {
		log.Info().Msg("seeding completed")
		return
	}

	if cfg.Session.Secret == config.DefaultSessionSecret && !cfg.App.Dev {
		log.Warn().Msg("SESSION_SECRET is not set; using the development secret")
	}

	// drop sessions whose user was removed from the database
	users := services.NewAuthService(dbConn)
	sessions := auth.NewManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Secure, auth.WithVerifier(users.UserExists))

	appHandler := NewApp(dbConn, handlers.NewRouterConfig(dbConn, sessions))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      appHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Bool("dev", cfg.App.Dev).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped gracefully")
}

// setupLogging configures the global zerolog logger. Dev mode gets a console writer.
func setupLogging(app config.AppConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(app.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if app.Dev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
