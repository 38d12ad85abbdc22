package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/models"
	"github.com/lupa-autoricambi/gestionale/validation"
)

// CustomerInput is the payload for creating or replacing a customer.
type CustomerInput struct {
	Name         string `json:"name" validate:"notblank"`
	Phone        string `json:"phone"`
	Type         string `json:"type"`
	WorkshopName string `json:"workshop_name"`
}

// apply copies the normalized input onto c. The workshop name only survives for workshops.
func (in CustomerInput) apply(c *models.Customer) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = optional(in.Phone)
	c.Type = models.ParseCustomerType(in.Type)
	c.WorkshopName = nil
	if c.IsWorkshop() {
		c.WorkshopName = optional(in.WorkshopName)
	}
}

// CustomerService manages fidelity records. Customer writes produce no audit entries.
type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// List returns customers by name, optionally filtered by name, phone or workshop name.
func (s *CustomerService) List(ctx context.Context, search string) ([]models.Customer, error) {
	var customers []models.Customer
	q := containsAny(s.db.WithContext(ctx), search, "name", "phone", "workshop_name")
	if err := q.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return findCustomer(s.db.WithContext(ctx), id)
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if v := validation.Struct(in); !v.Empty() {
		return nil, apperr.Validation("missing_required_fields", v)
	}
	var c models.Customer
	in.apply(&c)
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &c, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, in CustomerInput) (*models.Customer, error) {
	if v := validation.Struct(in); !v.Empty() {
		return nil, apperr.Validation("missing_required_fields", v)
	}
	var out *models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findCustomer(tx, id)
		if err != nil {
			return err
		}
		in.apply(c)
		if err := tx.Save(c).Error; err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		out = c
		return nil
	})
	return out, err
}

// Delete removes customer id, refusing while any account still references it.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findCustomer(tx, id)
		if err != nil {
			return err
		}
		var accounts int64
		if err := tx.Model(&models.Account{}).Where("customer_id = ?", c.ID).Count(&accounts).Error; err != nil {
			return fmt.Errorf("count accounts: %w", err)
		}
		if accounts > 0 {
			return apperr.Conflict("customer_has_accounts", accounts)
		}
		if err := tx.Delete(c).Error; err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return nil
	})
}

func findCustomer(tx *gorm.DB, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("customer_not_found")
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

func (s *CustomerService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}
