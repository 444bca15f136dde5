// Package poz provides the poz catalog: bill-of-quantities work items with
// unit, price and a price-type tag.
package poz

import (
	"context"
	"strings"
	"time"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
)

// MaterialMarker in the price type tag marks a poz as stock-tracked material
// (as opposed to pure labor or service items).
const MaterialMarker = "M"

// Poz is a catalog work item. Its immutable identity is Code.
type Poz struct {
	ID id.ID `db:"id" json:"id"`

	// Code is the unique catalog code (e.g. "18.185/01").
	Code string `db:"code" json:"code"`

	// Name is the display name.
	Name string `db:"name" json:"name"`

	// Unit is the unit of measure (adet, m, m², kg, ...).
	Unit string `db:"unit" json:"unit"`

	// PriceType is a tag string; containing "M" means material (stock-tracked).
	PriceType string `db:"price_type" json:"priceType"`

	// Price is the baseline internal price.
	Price types.Money `db:"price" json:"price"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewPoz creates a catalog item with a generated ID.
func NewPoz(code, name, unit, priceType string, price types.Money) *Poz {
	now := time.Now().UTC()
	return &Poz{
		ID:        id.New(),
		Code:      code,
		Name:      name,
		Unit:      unit,
		PriceType: priceType,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsMaterial reports whether this poz consumes physical stock.
func (p *Poz) IsMaterial() bool {
	return strings.Contains(p.PriceType, MaterialMarker)
}

// Validate checks catalog invariants.
func (p *Poz) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Code) == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	return nil
}

// ListedPoz is a catalog item as presented to an actor: contractors see
// their override price in EffectivePrice, everyone else the baseline price.
type ListedPoz struct {
	Poz
	EffectivePrice types.Money `json:"effectivePrice"`
}
