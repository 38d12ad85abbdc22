package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a fidelity record: a private person or a workshop.
// WorkshopName is only kept for WORKSHOP customers.
type Customer struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string       `gorm:"size:255;not null;index" json:"name"`
	Phone        *string      `gorm:"size:50" json:"phone"`
	Type         CustomerType `gorm:"size:20;not null" json:"type"`
	WorkshopName *string      `gorm:"size:255" json:"workshop_name"`
	Accounts     []Account    `gorm:"constraint:OnDelete:RESTRICT" json:"accounts,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// IsWorkshop reports whether the customer is a workshop.
func (c *Customer) IsWorkshop() bool { return c.Type == CustomerWorkshop }
