package dto

import (
	"time"

	"santiye/internal/core/types"
	"santiye/internal/domain/catalogs/poz"
)

// UpsertPozRequest creates or updates a catalog item, keyed by code.
type UpsertPozRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Unit      string  `json:"unit"`
	PriceType string  `json:"priceType"`
	Price     float64 `json:"price" binding:"min=0"`
}

// ToInput converts the request to a service input.
func (r UpsertPozRequest) ToInput() poz.UpsertInput {
	return poz.UpsertInput{
		Code:      r.Code,
		Name:      r.Name,
		Unit:      r.Unit,
		PriceType: r.PriceType,
		Price:     types.NewMoney(r.Price),
	}
}

// BulkUpsertPozRequest imports a list of catalog items.
type BulkUpsertPozRequest struct {
	Items []UpsertPozRequest `json:"items" binding:"required,min=1"`
}

// BulkUpsertPozResponse reports how many rows were applied.
type BulkUpsertPozResponse struct {
	Count int `json:"count"`
}

// PozResponse represents a catalog item in API responses.
type PozResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	PriceType string    `json:"priceType"`
	Price     float64   `json:"price"`
	Material  bool      `json:"material"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromPoz converts entity to response DTO.
func FromPoz(p *poz.Poz) PozResponse {
	return PozResponse{
		ID:        p.ID.String(),
		Code:      p.Code,
		Name:      p.Name,
		Unit:      p.Unit,
		PriceType: p.PriceType,
		Price:     p.Price.InexactFloat64(),
		Material:  p.IsMaterial(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ListedPozResponse adds the actor-specific effective price.
type ListedPozResponse struct {
	PozResponse
	EffectivePrice float64 `json:"effectivePrice"`
}

// FromListedPoz converts entity to response DTO.
func FromListedPoz(p poz.ListedPoz) ListedPozResponse {
	return ListedPozResponse{
		PozResponse:    FromPoz(&p.Poz),
		EffectivePrice: p.EffectivePrice.InexactFloat64(),
	}
}

// PozListResponse represents the catalog listing.
type PozListResponse struct {
	Items []ListedPozResponse `json:"items"`
}
