package contractorprice

import (
	"context"

	"santiye/internal/core/id"
)

// Repository defines persistence for contractor price overrides.
type Repository interface {
	// Upsert inserts the override or updates the price in place on the
	// (contractor, poz) unique key, returning the stored record.
	Upsert(ctx context.Context, price *ContractorPrice) (*ContractorPrice, error)

	// Get returns the override for (contractor, poz). NotFound when absent.
	Get(ctx context.Context, contractorID, pozID id.ID) (*ContractorPrice, error)

	// ListByContractor returns all overrides for one contractor.
	ListByContractor(ctx context.Context, contractorID id.ID) ([]ContractorPrice, error)
}
