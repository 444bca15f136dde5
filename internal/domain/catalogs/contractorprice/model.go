// Package contractorprice provides per-contractor price overrides for the
// poz catalog. Key = (contractor, poz), unique; superseded by update-in-place.
package contractorprice

import (
	"context"
	"time"

	"santiye/internal/core/apperror"
	"santiye/internal/core/id"
	"santiye/internal/core/types"
)

// ContractorPrice overrides a poz's baseline price for one contractor.
type ContractorPrice struct {
	ID           id.ID       `db:"id" json:"id"`
	ContractorID id.ID       `db:"contractor_id" json:"contractorId"`
	PozID        id.ID       `db:"poz_id" json:"pozId"`
	Price        types.Money `db:"price" json:"price"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// NewContractorPrice creates an override with a generated ID.
func NewContractorPrice(contractorID, pozID id.ID, price types.Money) *ContractorPrice {
	now := time.Now().UTC()
	return &ContractorPrice{
		ID:           id.New(),
		ContractorID: contractorID,
		PozID:        pozID,
		Price:        price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks override invariants.
func (p *ContractorPrice) Validate(ctx context.Context) error {
	if id.IsNil(p.ContractorID) {
		return apperror.NewValidation("contractor is required").WithDetail("field", "contractorId")
	}
	if id.IsNil(p.PozID) {
		return apperror.NewValidation("poz is required").WithDetail("field", "pozId")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	return nil
}
