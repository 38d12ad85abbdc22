// Command seeduser creates a login, or with -reset replaces its password.
//
//	go run ./cmd/seeduser -username LupoAndrea -password '...'
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lupa-autoricambi/gestionale/internal/config"
	"github.com/lupa-autoricambi/gestionale/internal/db"
)

func main() {
	username := flag.String("username", "", "login name")
	password := flag.String("password", "", "plain password, stored as a bcrypt hash")
	reset := flag.Bool("reset", false, "overwrite the password of an existing user")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	if err := db.Migrate(dbConn, cfg); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	u, err := db.SeedUser(ctx, dbConn, *username, *password, *reset)
	if err != nil {
		log.Fatal().Err(err).Msg("seed user failed")
	}
	log.Info().Str("username", u.Username).Str("id", u.ID.String()).Bool("reset", *reset).Msg("user ready")
}
