package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is an open balance ("pratica") owned by one customer.
// Payments move PaidSoFar and Balance by the same amount.
type Account struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    *Customer       `json:"customer,omitempty"`
	Description string          `gorm:"type:text;not null" json:"description"`
	PaidSoFar   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"paid_so_far"`
	Balance     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"balance"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// ApplyPayment adds amount to PaidSoFar and subtracts it from Balance.
// The balance has no floor: overpayment leaves a negative (credit) balance.
func (a *Account) ApplyPayment(amount decimal.Decimal) {
	a.PaidSoFar = a.PaidSoFar.Add(amount)
	a.Balance = a.Balance.Sub(amount)
}

// Total is the original amount of the account.
func (a *Account) Total() decimal.Decimal { return a.PaidSoFar.Add(a.Balance) }
