package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lupa-autoricambi/gestionale/internal/models"
)

// BcryptCost is the cost used for stored password hashes.
const BcryptCost = 10

// SeedUser creates username with password. An existing user is left untouched
// unless reset is true, in which case its password hash is replaced.
func SeedUser(ctx context.Context, db *gorm.DB, username, password string, reset bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, PasswordHash: string(hash)}
	onConflict := clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}
	if reset {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
		}
	}
	if err := db.WithContext(ctx).Clauses(onConflict).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("seed user %s: %w", username, err)
	}
	var stored models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("reload user %s: %w", username, err)
	}
	return &stored, nil
}

// SeedUsers parses "user:pass,user2:pass2" and seeds each pair without resetting passwords.
func SeedUsers(ctx context.Context, db *gorm.DB, pairs string) error {
	for _, pair := range strings.Split(pairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		username, password, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("invalid seed entry %q, want user:password", pair)
		}
		if _, err := SeedUser(ctx, db, username, password, false); err != nil {
			return err
		}
		log.Info().Str("username", username).Msg("user seeded")
	}
	return nil
}
