package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit operation tags.
const (
	OpArticleCreated = "ARTICLE_CREATED"
	OpArticleUpdated = "ARTICLE_UPDATED"
	OpArticleDeleted = "ARTICLE_DELETED"
	OpAccountCreated = "ACCOUNT_CREATED"
	OpPayment        = "PAYMENT"
)

// AuditLogEntry records one mutation. Entries are never updated or deleted.
type AuditLogEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Operation   string     `gorm:"size:50;not null;index" json:"operation"`
	Description string     `gorm:"type:text;not null" json:"description"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"` // who did it
	User        *User      `json:"user,omitempty"`
	ArticleID   *uuid.UUID `gorm:"type:uuid;index" json:"article_id,omitempty"`
	Article     *Article   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

func (e *AuditLogEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
