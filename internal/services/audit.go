package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/models"
)

// AuditLimit is the number of entries returned by the audit log listing.
const AuditLimit = 100

// LogSpec describes the audit entry written alongside a mutation of T.
// Describe and Article receive the post-mutation value.
type LogSpec[T any] struct {
	Operation string
	Describe  func(T) string
	Article   func(T) *uuid.UUID
}

// MutateAndLog runs mutate and the insert of one audit entry in a single transaction.
// If either fails nothing is persisted.
func MutateAndLog[T any](ctx context.Context, db *gorm.DB, actor uuid.UUID, spec LogSpec[T], mutate func(tx *gorm.DB) (T, error)) (T, error) {
	var out T
	if actor == uuid.Nil {
		return out, apperr.Unauthenticated()
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := mutate(tx)
		if err != nil {
			return err
		}
		entry := models.AuditLogEntry{
			Operation:   spec.Operation,
			Description: spec.Describe(v),
			UserID:      actor,
		}
		if spec.Article != nil {
			entry.ArticleID = spec.Article(v)
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("write audit entry: %w", err)
		}
		out = v
		return nil
	})
	return out, err
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Recent returns the newest entries first, each with the acting user's username.
func (s *AuditService) Recent(ctx context.Context) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	err := s.db.WithContext(ctx).
		Preload("User", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "username") }).
		Order("created_at DESC").
		Limit(AuditLimit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	return entries, nil
}
