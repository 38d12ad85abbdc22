package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/models"
	"github.com/lupa-autoricambi/gestionale/validation"
)

// AccountInput opens a new account for a customer. Amounts default to zero.
type AccountInput struct {
	CustomerID  string            `json:"customer_id" validate:"notblank"`
	Description string            `json:"description" validate:"notblank"`
	PaidSoFar   validation.Number `json:"paid_so_far"`
	Balance     validation.Number `json:"balance"`
}

// PaymentInput is a payment applied to an account.
type PaymentInput struct {
	Amount validation.Number `json:"amount" validate:"gt=0"`
}

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// payment is an account right after a payment, with the amount just applied.
type payment struct {
	*models.Account
	amount decimal.Decimal
}

var accountCreatedLog = LogSpec[*models.Account]{
	Operation: models.OpAccountCreated,
	Describe: func(a *models.Account) string {
		return fmt.Sprintf("Opened account %q (customer: %s, balance: %s€)", a.Description, a.Customer.Name, money(a.Balance))
	},
}

var paymentLog = LogSpec[*payment]{
	Operation: models.OpPayment,
	Describe: func(p *payment) string {
		return fmt.Sprintf("Added payment of %s€ to account %q (customer: %s, paid: %s€, balance: %s€)",
			money(p.amount), p.Description, p.Customer.Name, money(p.PaidSoFar), money(p.Balance))
	},
}

// ListByCustomer returns the accounts of customerID, newest first.
func (s *AccountService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Create opens an account for an existing customer.
func (s *AccountService) Create(ctx context.Context, actor uuid.UUID, in AccountInput) (*models.Account, error) {
	if v := validation.Struct(in); !v.Empty() {
		return nil, apperr.Validation("missing_required_fields", v)
	}
	customerID, err := uuid.Parse(strings.TrimSpace(in.CustomerID))
	if err != nil {
		return nil, apperr.NotFound("customer_not_found")
	}
	return MutateAndLog(ctx, s.db, actor, accountCreatedLog, func(tx *gorm.DB) (*models.Account, error) {
		c, err := findCustomer(tx, customerID)
		if err != nil {
			return nil, err
		}
		a := models.Account{
			CustomerID:  c.ID,
			Description: strings.TrimSpace(in.Description),
			PaidSoFar:   in.PaidSoFar.Decimal().Round(2),
			Balance:     in.Balance.Decimal().Round(2),
		}
		if err := tx.Omit(clause.Associations).Create(&a).Error; err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
		a.Customer = c
		return &a, nil
	})
}

// ApplyPayment adds the amount to the paid total and subtracts it from the balance.
// The amount must be positive; the balance may go negative.
func (s *AccountService) ApplyPayment(ctx context.Context, actor, id uuid.UUID, in PaymentInput) (*models.Account, error) {
	if v := validation.Struct(in); !v.Empty() {
		return nil, apperr.Validation("invalid_amount", v)
	}
	amount := in.Amount.Decimal().Round(2)
	if !amount.IsPositive() {
		return nil, apperr.Validation("invalid_amount", validation.Violations{"amount": "must_be_positive"})
	}
	p, err := MutateAndLog(ctx, s.db, actor, paymentLog, func(tx *gorm.DB) (*payment, error) {
		var a models.Account
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("account_not_found")
		}
		if err != nil {
			return nil, fmt.Errorf("find account: %w", err)
		}
		c, err := findCustomer(tx, a.CustomerID)
		if err != nil {
			return nil, err
		}
		a.Customer = c
		a.ApplyPayment(amount)
		err = tx.Model(&a).Omit(clause.Associations).Updates(map[string]any{
			"paid_so_far": a.PaidSoFar,
			"balance":     a.Balance,
		}).Error
		if err != nil {
			return nil, fmt.Errorf("apply payment: %w", err)
		}
		return &payment{Account: &a, amount: amount}, nil
	})
	if err != nil {
		return nil, err
	}
	return p.Account, nil
}

// TotalBalance sums the outstanding balance of accounts.
func TotalBalance(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
