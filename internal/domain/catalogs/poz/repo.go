package poz

import (
	"context"

	"santiye/internal/core/id"
)

// Repository defines persistence for the poz catalog.
type Repository interface {
	// GetByID retrieves a poz by ID. Returns NotFound when absent.
	GetByID(ctx context.Context, pozID id.ID) (*Poz, error)

	// GetByCode retrieves a poz by its unique code.
	GetByCode(ctx context.Context, code string) (*Poz, error)

	// Create inserts a new poz.
	Create(ctx context.Context, item *Poz) error

	// Update overwrites mutable fields of an existing poz.
	Update(ctx context.Context, item *Poz) error

	// Delete removes a poz from the catalog.
	Delete(ctx context.Context, pozID id.ID) error

	// List returns the catalog ordered by code.
	List(ctx context.Context) ([]Poz, error)

	// ListWithContractorPrices returns the catalog with the contractor's
	// override price joined in where one exists.
	ListWithContractorPrices(ctx context.Context, contractorID id.ID) ([]ListedPoz, error)
}
