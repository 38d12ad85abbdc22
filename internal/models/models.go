package models

import (
	"strings"

	"github.com/google/uuid"
)

// Shelf is a storage shelf letter, A to E.
type Shelf string

// Tier is the vertical position on a shelf.
type Tier string

const (
	TierHigh Tier = "HIGH"
	TierMid  Tier = "MID"
	TierLow  Tier = "LOW"
)

// CustomerType tags a customer as a private individual or a workshop.
type CustomerType string

const (
	CustomerPrivate  CustomerType = "PRIVATE"
	CustomerWorkshop CustomerType = "WORKSHOP"
)

var shelves = map[string]Shelf{"A": "A", "B": "B", "C": "C", "D": "D", "E": "E"}

var tiers = map[string]Tier{
	"HIGH": TierHigh, "ALTO": TierHigh,
	"MID": TierMid, "MEDIO": TierMid,
	"LOW": TierLow, "BASSO": TierLow,
}

var customerTypes = map[string]CustomerType{
	"PRIVATE": CustomerPrivate, "PRIVATO": CustomerPrivate,
	"WORKSHOP": CustomerWorkshop, "MECCANICO": CustomerWorkshop,
}

// ParseShelf returns nil for empty or unknown values.
func ParseShelf(s string) *Shelf {
	if v, ok := shelves[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return &v
	}
	return nil
}

// ParseTier accepts English and Italian names; nil when unknown.
func ParseTier(s string) *Tier {
	if v, ok := tiers[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return &v
	}
	return nil
}

// ParseCustomerType falls back to PRIVATE for empty or unknown values.
func ParseCustomerType(s string) CustomerType {
	if v, ok := customerTypes[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return v
	}
	return CustomerPrivate
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
