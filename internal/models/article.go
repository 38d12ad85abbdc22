package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article is an inventory line item. Code is unique across the table.
type Article struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:100;not null" json:"code"`
	PartName    string    `gorm:"size:255;not null" json:"part_name"`
	MachineName string    `gorm:"size:255;not null" json:"machine_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Shelf       *Shelf    `gorm:"size:1" json:"shelf"`
	Tier        *Tier     `gorm:"size:10" json:"tier"`
	SlotCode    *string   `gorm:"size:50" json:"slot_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`
}

func (a *Article) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// Location renders shelf, slot and tier as a short label, e.g. "B / 12 / MID".
func (a *Article) Location() string {
	parts := make([]string, 0, 3)
	if a.Shelf != nil {
		parts = append(parts, string(*a.Shelf))
	}
	if a.SlotCode != nil {
		parts = append(parts, *a.SlotCode)
	}
	if a.Tier != nil {
		parts = append(parts, string(*a.Tier))
	}
	if len(parts) == 0 {
		return "-"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " / " + p
	}
	return out
}
