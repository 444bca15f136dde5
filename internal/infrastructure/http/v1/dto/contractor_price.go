package dto

import (
	"time"

	"santiye/internal/domain/catalogs/contractorprice"
)

// SetContractorPriceRequest sets one override for (contractor, poz).
type SetContractorPriceRequest struct {
	PozID string  `json:"pozId" binding:"required"`
	Price float64 `json:"price" binding:"min=0"`
}

// BulkSetContractorPricesRequest sets a batch of overrides for one contractor.
type BulkSetContractorPricesRequest struct {
	Prices []SetContractorPriceRequest `json:"prices" binding:"required,min=1"`
}

// ContractorPriceResponse represents an override in API responses.
type ContractorPriceResponse struct {
	ID           string    `json:"id"`
	ContractorID string    `json:"contractorId"`
	PozID        string    `json:"pozId"`
	Price        float64   `json:"price"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromContractorPrice converts entity to response DTO.
func FromContractorPrice(p *contractorprice.ContractorPrice) ContractorPriceResponse {
	return ContractorPriceResponse{
		ID:           p.ID.String(),
		ContractorID: p.ContractorID.String(),
		PozID:        p.PozID.String(),
		Price:        p.Price.InexactFloat64(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ContractorPriceListResponse represents a list of overrides.
type ContractorPriceListResponse struct {
	Items []ContractorPriceResponse `json:"items"`
}
